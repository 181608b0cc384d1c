package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/mail"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// VerificationIssuer mints the email verification token sent to new users.
type VerificationIssuer interface {
	IssueVerification(email string, ttl time.Duration) (string, time.Time, error)
}

// SessionRevoker ends every login session of a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID uint) error
}

// userService implements domain.UserService.
type userService struct {
	repo      domain.UserRepository
	tx        domain.TxManager
	tokens    VerificationIssuer
	mailer    mail.Sender
	sessions  SessionRevoker // may be nil
	verifyTTL time.Duration
	log       *slog.Logger
}

// NewUserService creates a new UserService. sessions may be nil.
func NewUserService(repo domain.UserRepository, tx domain.TxManager, tokens VerificationIssuer, mailer mail.Sender, sessions SessionRevoker, verifyTTL time.Duration, log *slog.Logger) domain.UserService {
	return &userService{
		repo:      repo,
		tx:        tx,
		tokens:    tokens,
		mailer:    mailer,
		sessions:  sessions,
		verifyTTL: verifyTTL,
		log:       log,
	}
}

// revokeSessions ends the user's sessions. It runs inside the surrounding
// transaction so a failed revocation rolls the change back.
func (s *userService) revokeSessions(ctx context.Context, userID uint) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.RevokeUser(ctx, userID); err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to revoke sessions", err)
	}
	return nil
}

func (s *userService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers an unverified user and mails them a verification link.
// The insert is rolled back when the mail cannot be sent.
func (s *userService) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = strings.TrimSpace(in.Email)
	if err := pkg.ValidateStruct(in); err != nil {
		return nil, err
	}

	hash, err := pkg.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewAppError(domain.CodeAlreadyExists, "user already exists", nil)
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return err
		}

		token, _, err := s.tokens.IssueVerification(user.Email, s.verifyTTL)
		if err != nil {
			return domain.NewAppError(domain.CodeInternal, "failed to issue verification token", err)
		}
		if err := s.mailer.SendVerification(ctx, user.Email, user.UserName, token, s.verifyTTL); err != nil {
			return domain.NewAppError(domain.CodeInternal, "failed to send verification mail", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// Update changes a verified user. Unverified users are reported as missing.
func (s *userService) Update(ctx context.Context, id uint, patch domain.UserPatch) (*domain.User, error) {
	if patch.UserName != nil {
		v := strings.TrimSpace(*patch.UserName)
		patch.UserName = &v
	}
	if patch.Email != nil {
		v := strings.TrimSpace(*patch.Email)
		patch.Email = &v
	}
	if err := pkg.ValidateStruct(patch); err != nil {
		return nil, err
	}

	var hash string
	if patch.Password != nil {
		var err error
		if hash, err = pkg.HashPassword(*patch.Password); err != nil {
			return nil, err
		}
	}

	var user *domain.User
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !user.Verified {
			return domain.NewAppError(domain.CodeNotFound, "user not found", nil)
		}

		if patch.Email != nil && *patch.Email != user.Email {
			exists, err := s.repo.ExistsByEmail(ctx, *patch.Email)
			if err != nil {
				return err
			}
			if exists {
				return domain.NewAppError(domain.CodeAlreadyExists, "user already exists", nil)
			}
			user.Email = *patch.Email
		}
		if patch.UserName != nil {
			user.UserName = *patch.UserName
		}
		if hash != "" {
			user.PasswordHash = hash
		}
		if err := s.repo.Update(ctx, user); err != nil {
			return err
		}
		if hash != "" {
			return s.revokeSessions(ctx, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user and its product links and returns the record as
// it was before deletion.
func (s *userService) Delete(ctx context.Context, id uint) (*domain.User, error) {
	var user *domain.User
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.revokeSessions(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
