package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/explorer"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionCookie names the cookie carrying the explorer session id.
const SessionCookie = "errand_session"

// Observer receives the outcome of every explorer operation.
type Observer interface {
	ObserveOperation(op string, err error)
}

// Server serves the explorer API and page.
type Server struct {
	Navigator *explorer.Navigator
	Streams   *StreamManager

	observer Observer
	logger   *slog.Logger
	metrics  http.Handler
}

type Option func(*Server)

// WithObserver records operation outcomes, typically as metrics.
func WithObserver(o Observer) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetricsHandler replaces the handler mounted at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the explorer.
func NewHandler(nav *explorer.Navigator, opts ...Option) (http.Handler, error) {
	server := &Server{
		Navigator: nav,
		Streams:   NewStreamManager(),
		logger:    slog.Default(),
		metrics:   promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(server)
	}

	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", server.metrics)
	r.With(server.withSession).Get("/", server.Index)

	r.Route("/api", func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", server.GetHealth)

		r.Group(func(r chi.Router) {
			r.Use(server.withSession)
			r.Get("/session", server.GetSession)
			r.Post("/navigate", server.Navigate)
			r.Get("/files", server.ListFiles)
			r.Post("/files", server.CreateFile)
			r.Delete("/files", server.DeleteFile)
			r.Post("/dirs", server.CreateDir)
			r.Post("/upload", server.Upload)
			r.Post("/rename", server.Rename)
			r.Post("/copy", server.Copy)
			r.Post("/paste", server.Paste)
			r.Get("/search", server.Search)
		})

		// Streams only read the session and may stay open indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(server.withSessionSnapshot)
			r.Get("/download", server.Download)
			r.Get("/events", server.SubscribeEvents)
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Errand Explorer API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

type sessionKey struct{}

// withSession loads the session named by the cookie, creating one when
// needed, and holds its lock until the handler returns.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := cookieSession(r)
		err := s.Navigator.WithSession(r.Context(), id, func(ctx context.Context, session *domain.Session) error {
			s.serveSession(w, r.WithContext(ctx), next, id, session)
			return nil
		})
		if err != nil {
			s.fail(w, "session", err)
		}
	})
}

// withSessionSnapshot loads the session without holding its lock.
func (s *Server) withSessionSnapshot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := cookieSession(r)
		session, err := s.Navigator.Session(r.Context(), id)
		if err != nil {
			s.fail(w, "session", err)
			return
		}
		s.serveSession(w, r, next, id, session)
	})
}

func cookieSession(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) serveSession(w http.ResponseWriter, r *http.Request, next http.Handler, id string, session *domain.Session) {
	if session.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    session.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
}

func sessionFrom(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return s
}

// StatusFor maps an explorer error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutsideRoot), errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrClipboardEmpty),
		errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) observe(op string, err error) {
	if s.observer != nil {
		s.observer.ObserveOperation(op, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.observe(op, err)
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Explorer operation failed", "op", op, "error", err)
	} else {
		s.logger.Warn("Explorer operation rejected", "op", op, "status", status, "error", err)
	}
	writeJSONError(w, status, err.Error())
}

func (s *Server) ok(w http.ResponseWriter, op string, status int, v any) {
	s.observe(op, nil)
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

// GetHealth handles the GET /api/health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(errand.Version),
	})
}
