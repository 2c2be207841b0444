package http

import (
	"embed"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/explorer"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"formatSize": domain.FormatSize,
	"base":       filepath.Base,
}).ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Session     *domain.Session
	Home        string
	Root        string
	QuickAccess []string
	Entries     []domain.FileInfo
	Error       string
}

// Index renders the explorer page for the session's current directory.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	data := pageData{
		Session:     session,
		Home:        s.Navigator.Home(),
		Root:        s.Navigator.Explorer().Root(),
		QuickAccess: explorer.QuickAccess,
	}

	entries, err := s.Navigator.Explorer().List(r.Context(), session.CurrentPath)
	if err != nil {
		data.Error = err.Error()
	}
	data.Entries = entries

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("Index render failed", "error", err)
	}
}
