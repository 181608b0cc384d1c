package user

import (
	"github.com/graph-gophers/graphql-go"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// IDArgs is the argument set of getUserById and deleteUser.
type IDArgs struct {
	ID graphql.ID
}

// CreateUserArgs is the argument set of createUser.
type CreateUserArgs struct {
	Input CreateUserInput
}

// CreateUserInput mirrors the CreateUserInput GraphQL input type.
type CreateUserInput struct {
	UserName string
	Email    string
	Password string
}

// UpdateUserArgs is the argument set of updateUser.
type UpdateUserArgs struct {
	ID    graphql.ID
	Input UpdateUserInput
}

// UpdateUserInput mirrors the UpdateUserInput GraphQL input type.
type UpdateUserInput struct {
	UserName *string
	Email    *string
	Password *string
}

// UserResolver resolves the fields of the User GraphQL type.
// The password hash has no field.
type UserResolver struct {
	u *domain.User
}

// NewUserResolver wraps u for GraphQL.
func NewUserResolver(u *domain.User) *UserResolver {
	return &UserResolver{u: u}
}

func (r *UserResolver) ID() graphql.ID          { return graphql.ID(pkg.FormatID(r.u.ID)) }
func (r *UserResolver) UserName() string        { return r.u.UserName }
func (r *UserResolver) Email() string           { return r.u.Email }
func (r *UserResolver) Verify() bool            { return r.u.Verified }
func (r *UserResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.u.CreatedAt} }
func (r *UserResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: r.u.UpdatedAt} }
