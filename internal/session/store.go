// Package session stores live interview sessions. Sessions are
// process-lifetime state: they expire on idle TTL and are never persisted.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/prepvoice/backend/internal/models"
)

// ErrNotFound is returned when a session id is unknown or has expired.
// Lookups never create sessions implicitly.
var ErrNotFound = errors.New("session not found")

// completedGrace is how long a completed session stays resolvable so late
// requests get a clear "session is closed" instead of a bare not-found.
const completedGrace = 60 * time.Second

// Store maps session ids to session state. Different sessions may be
// accessed concurrently; a single session has one caller at a time, so
// Mutate implementations need not serialize beyond their own map access.
type Store interface {
	// Create inserts a new session under its id.
	Create(ctx context.Context, s *models.Session) error
	// Get returns the session or ErrNotFound. Access refreshes the idle TTL.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Mutate applies fn to the stored session and persists the result.
	// If fn returns an error nothing is persisted; fn must not mutate
	// before its last fallible step.
	Mutate(ctx context.Context, id string, fn func(*models.Session) error) error
	// Delete removes the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// Close releases store resources.
	Close() error
}
