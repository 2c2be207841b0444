package ports

import (
	"context"

	"github.com/aretw0/errand/pkg/domain"
)

// SessionStore defines the interface for persisting explorer sessions.
type SessionStore interface {
	// Save persists the session under session.ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves the session for a given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}

// Journal records errand runs.
type Journal interface {
	Append(ctx context.Context, record domain.Record) error

	// Recent returns up to limit records, newest first. An empty errand matches all.
	Recent(ctx context.Context, errand string, limit int) ([]domain.Record, error)
}
