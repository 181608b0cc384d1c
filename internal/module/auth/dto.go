package auth

import (
	"github.com/graph-gophers/graphql-go"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/module/user"
)

// LoginArgs is the argument set of login.
type LoginArgs struct {
	Email    string
	Password string
}

// VerifyArgs is the argument set of verify.
type VerifyArgs struct {
	Token string
}

// AuthPayloadResolver resolves the AuthPayload GraphQL type.
type AuthPayloadResolver struct {
	res *domain.AuthResult
}

func (r *AuthPayloadResolver) Token() string { return r.res.Token }

func (r *AuthPayloadResolver) ExpiresAt() graphql.Time {
	return graphql.Time{Time: r.res.ExpiresAt}
}

func (r *AuthPayloadResolver) User() *user.UserResolver {
	return user.NewUserResolver(r.res.User)
}
