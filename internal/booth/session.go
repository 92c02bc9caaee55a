package booth

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session has no directory on disk.
var ErrSessionNotFound = errors.New("session not found")

// Session is one photo-booth customer interaction.
type Session struct {
	ID        string
	ShortCode string
	CreatedAt time.Time
}

// SessionStore persists the mapping from session IDs to short codes.
type SessionStore interface {
	// CreateSession stores a new session. IDs must be unique; short codes need not be.
	CreateSession(ctx context.Context, session *Session) error

	// FindSession returns the session with the given ID, or nil if it is unknown.
	FindSession(ctx context.Context, id string) (*Session, error)

	// FindSessionsByShortCode returns every session sharing a short code.
	FindSessionsByShortCode(ctx context.Context, shortCode string) ([]*Session, error)

	// ListSessions returns all sessions, newest first.
	ListSessions(ctx context.Context) ([]*Session, error)

	// Close releases the underlying storage.
	Close() error
}
