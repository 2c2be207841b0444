package domain

import (
	"slices"
	"time"
)

// Session is the explorer state kept per browser.
type Session struct {
	ID          string    `json:"id"`
	CurrentPath string    `json:"current_path"`
	CopySource  string    `json:"copy_source,omitempty"`
	Armed       []string  `json:"armed,omitempty"` // paths awaiting delete confirmation
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSession creates a session positioned at path.
func NewSession(id, path string) *Session {
	return &Session{
		ID:          id,
		CurrentPath: path,
		UpdatedAt:   time.Now(),
	}
}

// IsArmed reports whether a delete of path has been requested once already.
func (s *Session) IsArmed(path string) bool {
	return slices.Contains(s.Armed, path)
}

// Arm records a first delete request for path.
func (s *Session) Arm(path string) {
	if !s.IsArmed(path) {
		s.Armed = append(s.Armed, path)
	}
}

// Disarm forgets a pending delete request.
func (s *Session) Disarm(path string) {
	s.Armed = slices.DeleteFunc(s.Armed, func(p string) bool { return p == path })
}

// Snapshot returns a copy that shares no slices with s.
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.Armed = slices.Clone(s.Armed)
	return &cp
}
