package user

import (
	"context"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// UserHandler turns GraphQL arguments into user service calls.
type UserHandler struct {
	svc domain.UserService
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetAll resolves getAllUsers.
func (h *UserHandler) GetAll(ctx context.Context) ([]*UserResolver, error) {
	users, err := h.svc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*UserResolver, len(users))
	for i := range users {
		out[i] = NewUserResolver(&users[i])
	}
	return out, nil
}

// GetByID resolves getUserById.
func (h *UserHandler) GetByID(ctx context.Context, args IDArgs) (*UserResolver, error) {
	id, err := pkg.ParseID(string(args.ID), entity)
	if err != nil {
		return nil, err
	}
	u, err := h.svc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewUserResolver(u), nil
}

// Create resolves createUser.
func (h *UserHandler) Create(ctx context.Context, args CreateUserArgs) (*UserResolver, error) {
	u, err := h.svc.Create(ctx, domain.UserInput{
		UserName: args.Input.UserName,
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	if err != nil {
		return nil, err
	}
	return NewUserResolver(u), nil
}

// Update resolves updateUser.
func (h *UserHandler) Update(ctx context.Context, args UpdateUserArgs) (*UserResolver, error) {
	id, err := pkg.ParseID(string(args.ID), entity)
	if err != nil {
		return nil, err
	}
	u, err := h.svc.Update(ctx, id, domain.UserPatch{
		UserName: args.Input.UserName,
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	if err != nil {
		return nil, err
	}
	return NewUserResolver(u), nil
}

// Delete resolves deleteUser.
func (h *UserHandler) Delete(ctx context.Context, args IDArgs) (*UserResolver, error) {
	id, err := pkg.ParseID(string(args.ID), entity)
	if err != nil {
		return nil, err
	}
	u, err := h.svc.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewUserResolver(u), nil
}
