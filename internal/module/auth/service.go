package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
	"github.com/simp-lee/shopgraph/internal/token"
)

// TokenParser validates email verification tokens.
type TokenParser interface {
	Parse(raw string, purpose token.Purpose) (*token.Claims, error)
}

var (
	errUserNotFound    = domain.NewAppError(domain.CodeNotFound, "user not found", nil)
	errInvalidPassword = domain.NewAppError(domain.CodeUnauthorized, "invalid password", nil)
)

func invalidToken(err error) error {
	return domain.NewAppError(domain.CodeUnauthorized, "invalid token", err)
}

// authService implements domain.AuthService.
type authService struct {
	users      domain.UserRepository
	tokens     TokenParser
	sessions   *SessionManager
	sessionTTL time.Duration
	log        *slog.Logger
}

// NewService creates a new AuthService.
func NewService(users domain.UserRepository, tokens TokenParser, sessions *SessionManager, sessionTTL time.Duration, log *slog.Logger) domain.AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Login checks the credentials of a verified user and opens a session.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	if !user.Verified {
		return nil, errUserNotFound
	}
	if !pkg.CheckPassword(user.PasswordHash, password) {
		return nil, errInvalidPassword
	}

	raw, sess, err := s.sessions.Open(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID, "session_id", sess.ID)
	return &domain.AuthResult{Token: raw, ExpiresAt: sess.ExpiresAt, User: user}, nil
}

// Verify marks the user named by a verification token as verified.
// Verifying an already verified user succeeds without a write.
func (s *authService) Verify(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.tokens.Parse(raw, token.PurposeVerify)
	if err != nil {
		return nil, invalidToken(err)
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, invalidToken(err)
		}
		return nil, err
	}
	if user.Verified {
		return user, nil
	}

	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user verified", "user_id", user.ID)
	return user, nil
}

// Authenticate resolves a session token to the calling identity.
func (s *authService) Authenticate(ctx context.Context, raw string) (domain.Identity, error) {
	return s.sessions.Resolve(ctx, raw)
}

// Logout revokes the caller's session.
func (s *authService) Logout(ctx context.Context) error {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := s.sessions.End(ctx, id); err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to revoke session", err)
	}
	s.log.InfoContext(ctx, "user logged out", "user_id", id.UserID, "session_id", id.SessionID)
	return nil
}

// Me returns the authenticated user.
func (s *authService) Me(ctx context.Context) (*domain.User, error) {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
