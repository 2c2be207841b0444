package http

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/explorer"
)

const maxUploadMemory = 32 << 20

// SessionView is the session as reported to clients.
type SessionView struct {
	*domain.Session
	Home string `json:"home"`
	Root string `json:"root"`
}

// Listing is the response of GET /api/files.
type Listing struct {
	Path    string            `json:"path"`
	Entries []domain.FileInfo `json:"entries"`
}

// DeleteResult is the response of DELETE /api/files.
type DeleteResult struct {
	Outcome explorer.DeleteOutcome `json:"outcome"`
	Path    string                 `json:"path"`
	Message string                 `json:"message,omitempty"`
}

// Event is broadcast to SSE subscribers of the affected directory.
type Event struct {
	Op   string `json:"op"`
	Path string `json:"path"`
}

func (s *Server) view(session *domain.Session) SessionView {
	return SessionView{
		Session: session,
		Home:    s.Navigator.Home(),
		Root:    s.Navigator.Explorer().Root(),
	}
}

func (s *Server) notify(op, path string) {
	data, err := json.Marshal(Event{Op: op, Path: path})
	if err != nil {
		return
	}
	s.Streams.Broadcast(filepath.Dir(path), string(data))
}

func dirOr(session *domain.Session, dir string) string {
	if dir == "" {
		return session.CurrentPath
	}
	return dir
}

// GetSession handles the GET /api/session request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view(sessionFrom(r.Context())))
}

// Navigate handles the POST /api/navigate request.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path   string `json:"path"`
		Target string `json:"target"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, "navigate", err)
		return
	}

	ctx := r.Context()
	session := sessionFrom(ctx)
	var err error
	switch body.Target {
	case "":
		err = s.Navigator.Navigate(ctx, session, body.Path)
	case "home":
		err = s.Navigator.GoHome(ctx, session)
	case "parent":
		err = s.Navigator.GoParent(ctx, session)
	default:
		err = s.Navigator.GoQuick(ctx, session, body.Target)
	}
	if err != nil {
		s.fail(w, "navigate", err)
		return
	}
	s.ok(w, "navigate", http.StatusOK, s.view(session))
}

// ListFiles handles the GET /api/files request.
func (s *Server) ListFiles(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	dir, err := s.Navigator.Explorer().Resolve(dirOr(session, r.URL.Query().Get("path")))
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	entries, err := s.Navigator.Explorer().List(r.Context(), dir)
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	s.ok(w, "list", http.StatusOK, Listing{Path: dir, Entries: entries})
}

// CreateFile handles the POST /api/files request.
func (s *Server) CreateFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Dir     string `json:"dir"`
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, "create_file", err)
		return
	}
	session := sessionFrom(r.Context())
	info, err := s.Navigator.Explorer().CreateFile(r.Context(), dirOr(session, body.Dir), body.Name, body.Content)
	if err != nil {
		s.fail(w, "create_file", err)
		return
	}
	s.notify("create_file", info.Path)
	s.ok(w, "create_file", http.StatusCreated, info)
}

// CreateDir handles the POST /api/dirs request.
func (s *Server) CreateDir(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Dir  string `json:"dir"`
		Name string `json:"name"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, "create_dir", err)
		return
	}
	session := sessionFrom(r.Context())
	info, err := s.Navigator.Explorer().CreateDir(r.Context(), dirOr(session, body.Dir), body.Name)
	if err != nil {
		s.fail(w, "create_dir", err)
		return
	}
	s.notify("create_dir", info.Path)
	s.ok(w, "create_dir", http.StatusCreated, info)
}

// Upload handles the multipart POST /api/upload request.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.fail(w, "upload", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, "upload", fmt.Errorf("%w: missing file field: %v", domain.ErrInvalidRequest, err))
		return
	}
	defer file.Close()

	session := sessionFrom(r.Context())
	name := filepath.Base(filepath.Clean("/" + header.Filename))
	info, err := s.Navigator.Explorer().Upload(r.Context(), dirOr(session, r.FormValue("dir")), name, file)
	if err != nil {
		s.fail(w, "upload", err)
		return
	}
	s.notify("upload", info.Path)
	s.ok(w, "upload", http.StatusCreated, info)
}

// DeleteFile handles the DELETE /api/files request.
func (s *Server) DeleteFile(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	confirm, _ := strconv.ParseBool(query.Get("confirm"))
	ctx := r.Context()

	path, err := s.Navigator.Explorer().Resolve(query.Get("path"))
	if err != nil {
		s.fail(w, "delete", err)
		return
	}
	outcome, err := s.Navigator.Delete(ctx, sessionFrom(ctx), path, confirm)
	if err != nil {
		s.fail(w, "delete", err)
		return
	}

	if outcome == explorer.DeleteArmed {
		s.ok(w, "delete", http.StatusAccepted, DeleteResult{Outcome: outcome, Path: path, Message: explorer.ConfirmPrompt})
		return
	}
	s.notify("delete", path)
	s.ok(w, "delete", http.StatusOK, DeleteResult{Outcome: outcome, Path: path})
}

// Rename handles the POST /api/rename request.
func (s *Server) Rename(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path    string `json:"path"`
		NewName string `json:"new_name"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, "rename", err)
		return
	}
	ex := s.Navigator.Explorer()
	dst, err := ex.Rename(r.Context(), body.Path, body.NewName)
	if err != nil {
		s.fail(w, "rename", err)
		return
	}
	info, err := ex.Info(dst)
	if err != nil {
		s.fail(w, "rename", err)
		return
	}
	s.notify("rename", dst)
	s.ok(w, "rename", http.StatusOK, info)
}

// Copy handles the POST /api/copy request.
func (s *Server) Copy(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, "copy", err)
		return
	}
	session := sessionFrom(r.Context())
	if err := s.Navigator.Copy(r.Context(), session, body.Path); err != nil {
		s.fail(w, "copy", err)
		return
	}
	s.ok(w, "copy", http.StatusOK, s.view(session))
}

// Paste handles the POST /api/paste request.
func (s *Server) Paste(w http.ResponseWriter, r *http.Request) {
	dst, err := s.Navigator.Paste(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		s.fail(w, "paste", err)
		return
	}
	info, err := s.Navigator.Explorer().Info(dst)
	if err != nil {
		s.fail(w, "paste", err)
		return
	}
	s.notify("paste", dst)
	s.ok(w, "paste", http.StatusCreated, info)
}

// Search handles the GET /api/search request.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	inContent, _ := strconv.ParseBool(query.Get("content"))
	session := sessionFrom(r.Context())

	results, err := s.Navigator.Explorer().Search(r.Context(), dirOr(session, query.Get("path")), query.Get("q"), inContent)
	if err != nil {
		s.fail(w, "search", err)
		return
	}
	s.ok(w, "search", http.StatusOK, results)
}

// Download handles the GET /api/download request.
func (s *Server) Download(w http.ResponseWriter, r *http.Request) {
	f, info, err := s.Navigator.Explorer().Open(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, "download", err)
		return
	}
	defer f.Close()

	s.observe("download", nil)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name}))
	http.ServeContent(w, r, info.Name, info.Modified, f)
}

// SubscribeEvents handles the GET /api/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	session := sessionFrom(r.Context())
	dir, err := s.Navigator.Explorer().Resolve(dirOr(session, r.URL.Query().Get("path")))
	if err != nil {
		s.fail(w, "events", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to directory changes", "dir", dir)
	ch, cancel := s.Streams.Subscribe(dir)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "dir", dir)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
