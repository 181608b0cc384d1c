package auth

import (
	"log/slog"
	"time"

	"github.com/simp-lee/shopgraph/internal/domain"
)

// AuthModule wires the auth service and handler.
type AuthModule struct {
	Service domain.AuthService
	Handler *AuthHandler
}

// Deps holds what the auth stack needs.
type Deps struct {
	Users      domain.UserRepository
	Tokens     TokenParser
	Sessions   *SessionManager
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// NewModule builds the auth stack. Panics on missing dependencies.
func NewModule(deps Deps) *AuthModule {
	if deps.Users == nil || deps.Tokens == nil || deps.Sessions == nil {
		panic("auth.NewModule: missing dependency")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	svc := NewService(deps.Users, deps.Tokens, deps.Sessions, deps.SessionTTL, deps.Logger)
	return &AuthModule{Service: svc, Handler: NewHandler(svc)}
}
