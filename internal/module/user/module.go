package user

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/mail"
)

// UserModule wires the user repository, service and handler.
type UserModule struct {
	Repository domain.UserRepository
	Service    domain.UserService
	Handler    *UserHandler
}

// Deps holds what the user stack needs beyond the database.
type Deps struct {
	Tx     domain.TxManager
	Tokens VerificationIssuer
	Mailer mail.Sender
	// Sessions, when set, revokes a user's logins on delete and password change.
	Sessions  SessionRevoker
	VerifyTTL time.Duration
	Logger    *slog.Logger
}

// NewModule builds the user stack on db. Panics on missing dependencies.
func NewModule(db *gorm.DB, deps Deps) *UserModule {
	if db == nil {
		panic("user.NewModule: db must not be nil")
	}
	if deps.Tx == nil || deps.Tokens == nil || deps.Mailer == nil {
		panic("user.NewModule: missing dependency")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	repo := NewUserRepository(db)
	svc := NewUserService(repo, deps.Tx, deps.Tokens, deps.Mailer, deps.Sessions, deps.VerifyTTL, deps.Logger)
	return &UserModule{Repository: repo, Service: svc, Handler: NewUserHandler(svc)}
}
