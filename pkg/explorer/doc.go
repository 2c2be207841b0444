/*
Package explorer implements the file manager behind `errand explorer`.

All operations are plain filesystem calls confined to a root directory.
Explorer performs the operations; Navigator keeps the per-browser Session
(current directory, clipboard, armed deletions) in a ports.SessionStore.

# Usage

	ex, err := explorer.New("/srv/share", explorer.WithLocker(memory.NewLocker()))
	if err != nil {
		log.Fatal(err)
	}
	nav := explorer.NewNavigator(ex, memory.NewStore())

	session, _ := nav.Session(ctx, "")
	entries, _ := ex.List(ctx, session.CurrentPath)
*/
package explorer
