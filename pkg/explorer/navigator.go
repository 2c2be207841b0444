package explorer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/google/uuid"
)

// QuickAccess names the home subdirectories offered as shortcuts.
var QuickAccess = []string{"Documents", "Downloads", "Pictures"}

// DeleteOutcome tells whether a delete request removed the entry or only armed it.
type DeleteOutcome string

const (
	DeleteArmed DeleteOutcome = "armed"
	DeleteDone  DeleteOutcome = "deleted"
)

// ConfirmPrompt is shown after a delete request has armed a path.
const ConfirmPrompt = "Click again to confirm deletion"

// starter is implemented by stores that create missing sessions atomically.
type starter interface {
	LoadOrStart(ctx context.Context, id, start string) (*domain.Session, error)
}

// sessionLocker is implemented by stores that can hold a session's lock
// across several calls.
type sessionLocker interface {
	WithLock(ctx context.Context, id string, fn func(context.Context) error) error
}

// Navigator keeps per-browser explorer state in a SessionStore.
type Navigator struct {
	explorer *Explorer
	store    ports.SessionStore
	home     string
}

type NavigatorOption func(*Navigator)

// WithHome overrides the home directory. It falls back to the explorer root
// when the directory lies outside of it.
func WithHome(dir string) NavigatorOption {
	return func(n *Navigator) {
		n.home = dir
	}
}

// NewNavigator creates a Navigator. The home directory defaults to the user's
// home when it is inside the explorer root, and to the root otherwise.
func NewNavigator(ex *Explorer, store ports.SessionStore, opts ...NavigatorOption) *Navigator {
	n := &Navigator{explorer: ex, store: store}
	if home, err := os.UserHomeDir(); err == nil {
		n.home = home
	}
	for _, opt := range opts {
		opt(n)
	}
	resolved, err := ex.Resolve(n.home)
	if err != nil {
		resolved = ex.Root()
	}
	n.home = resolved
	return n
}

// Explorer returns the underlying filesystem service.
func (n *Navigator) Explorer() *Explorer {
	return n.explorer
}

// Home returns the resolved home directory.
func (n *Navigator) Home() string {
	return n.home
}

// Session loads the session with the given id, creating a fresh one at the
// home directory when id is empty or unknown.
func (n *Navigator) Session(ctx context.Context, id string) (*domain.Session, error) {
	if st, ok := n.store.(starter); ok && id != "" {
		return st.LoadOrStart(ctx, id, n.home)
	}
	if id != "" {
		s, err := n.store.Load(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
	} else {
		id = uuid.NewString()
	}

	s := domain.NewSession(id, n.home)
	if err := n.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// WithSession runs fn with the session Session would return for id. When the
// store can lock sessions the lock is held until fn returns, so nothing else
// touches the session between its load and the saves fn makes. fn must use
// the context it is given.
func (n *Navigator) WithSession(ctx context.Context, id string, fn func(context.Context, *domain.Session) error) error {
	if id == "" {
		id = uuid.NewString()
	}
	run := func(ctx context.Context) error {
		s, err := n.Session(ctx, id)
		if err != nil {
			return err
		}
		return fn(ctx, s)
	}
	if l, ok := n.store.(sessionLocker); ok {
		return l.WithLock(ctx, id, run)
	}
	return run(ctx)
}

func (n *Navigator) save(ctx context.Context, s *domain.Session) error {
	s.UpdatedAt = time.Now()
	if err := n.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Navigate moves the session to path, which must be an existing directory.
func (n *Navigator) Navigate(ctx context.Context, s *domain.Session, path string) error {
	info, err := n.explorer.Info(path)
	if err != nil {
		return err
	}
	if !info.IsDir {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidName, info.Path)
	}
	s.CurrentPath = info.Path
	return n.save(ctx, s)
}

// GoHome moves the session to the home directory.
func (n *Navigator) GoHome(ctx context.Context, s *domain.Session) error {
	s.CurrentPath = n.home
	return n.save(ctx, s)
}

// GoParent moves the session one directory up. At the explorer root it stays put.
func (n *Navigator) GoParent(ctx context.Context, s *domain.Session) error {
	current, err := n.explorer.Resolve(s.CurrentPath)
	if err != nil {
		return err
	}
	parent := filepath.Dir(current)
	if current == n.explorer.Root() || parent == current {
		return nil
	}
	s.CurrentPath = parent
	return n.save(ctx, s)
}

// GoQuick moves the session to one of the QuickAccess directories under home.
func (n *Navigator) GoQuick(ctx context.Context, s *domain.Session, name string) error {
	for _, q := range QuickAccess {
		if q == name {
			return n.Navigate(ctx, s, filepath.Join(n.home, name))
		}
	}
	return fmt.Errorf("%w: unknown quick access %q", domain.ErrInvalidName, name)
}

// Copy stores path as the session's copy source.
func (n *Navigator) Copy(ctx context.Context, s *domain.Session, path string) error {
	info, err := n.explorer.Info(path)
	if err != nil {
		return err
	}
	s.CopySource = info.Path
	return n.save(ctx, s)
}

// Paste copies the clipboard entry into the current directory under its
// base name, then clears the clipboard.
func (n *Navigator) Paste(ctx context.Context, s *domain.Session) (string, error) {
	if s.CopySource == "" {
		return "", domain.ErrClipboardEmpty
	}
	dst := filepath.Join(s.CurrentPath, filepath.Base(s.CopySource))
	if err := n.explorer.Copy(ctx, s.CopySource, dst); err != nil {
		return "", err
	}
	s.CopySource = ""
	return dst, n.save(ctx, s)
}

// Delete removes path once confirmed. The first unconfirmed request arms the
// path and returns DeleteArmed; a second request (or confirm) deletes it.
func (n *Navigator) Delete(ctx context.Context, s *domain.Session, path string, confirm bool) (DeleteOutcome, error) {
	target, err := n.explorer.Resolve(path)
	if err != nil {
		return "", err
	}
	if target == n.explorer.Root() {
		return "", fmt.Errorf("%w: refusing to delete the explorer root", domain.ErrInvalidName)
	}

	if !confirm && !s.IsArmed(target) {
		if _, err := os.Lstat(target); err != nil {
			return "", wrapFS(err)
		}
		s.Arm(target)
		return DeleteArmed, n.save(ctx, s)
	}

	if err := n.explorer.Delete(ctx, target); err != nil {
		return "", err
	}
	s.Disarm(target)
	if s.CopySource == target {
		s.CopySource = ""
	}
	return DeleteDone, n.save(ctx, s)
}
