package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session. It carries a snapshot
// of the resolved profile so views can render without a database read.
type Session struct {
	SessionID   string    // unique session identifier
	UserID      string    // references users.id
	DisplayName string    // profile snapshot at sign-in time
	PhotoURL    string    // profile snapshot at sign-in time
	CreatedAt   time.Time // when the session was issued
	ExpiresAt   time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved. The "current"
// session is a per-instance pointer to the session that survives process
// restarts; it is what the identity layer restores at startup.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error

	SetCurrent(ctx context.Context, sessionID string, expiresAt time.Time) error
	Current(ctx context.Context) (*Session, error)
	ClearCurrent(ctx context.Context) error
}
