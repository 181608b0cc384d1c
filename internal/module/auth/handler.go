package auth

import (
	"context"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/module/user"
)

// AuthHandler turns GraphQL arguments into auth service calls.
type AuthHandler struct {
	svc domain.AuthService
}

// NewHandler creates a new AuthHandler with the given service.
func NewHandler(svc domain.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login resolves login.
func (h *AuthHandler) Login(ctx context.Context, args LoginArgs) (*AuthPayloadResolver, error) {
	res, err := h.svc.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, err
	}
	return &AuthPayloadResolver{res: res}, nil
}

// Logout resolves logout.
func (h *AuthHandler) Logout(ctx context.Context) (bool, error) {
	if err := h.svc.Logout(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Verify resolves verify.
func (h *AuthHandler) Verify(ctx context.Context, args VerifyArgs) (*user.UserResolver, error) {
	u, err := h.svc.Verify(ctx, args.Token)
	if err != nil {
		return nil, err
	}
	return user.NewUserResolver(u), nil
}

// Me resolves me.
func (h *AuthHandler) Me(ctx context.Context) (*user.UserResolver, error) {
	u, err := h.svc.Me(ctx)
	if err != nil {
		return nil, err
	}
	return user.NewUserResolver(u), nil
}
