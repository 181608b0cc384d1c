package domain

import (
	"context"
	"time"
)

// Session is a login session recorded in the session store.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsValid reports whether the session has not yet expired.
func (s *Session) IsValid() bool {
	return time.Now().Before(s.ExpiresAt)
}

// SessionStore persists login sessions so they can be revoked.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// AuthService defines login, email verification and session handling.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Verify(ctx context.Context, token string) (*User, error)
	Authenticate(ctx context.Context, token string) (Identity, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*User, error)
}
