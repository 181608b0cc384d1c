package graph

import (
	"context"
	"log/slog"

	"github.com/simp-lee/shopgraph/internal/module/auth"
	"github.com/simp-lee/shopgraph/internal/module/product"
	"github.com/simp-lee/shopgraph/internal/module/user"
	"github.com/simp-lee/shopgraph/internal/module/userproduct"
)

// Resolver is the root of the schema. Each method resolves one Query or
// Mutation field by forwarding to the owning module handler.
type Resolver struct {
	products *product.ProductHandler
	users    *user.UserHandler
	links    *userproduct.UserProductHandler
	auth     *auth.AuthHandler
	log      *slog.Logger
}

// Handlers are the module handlers the root resolver dispatches to.
type Handlers struct {
	Products     *product.ProductHandler
	Users        *user.UserHandler
	UserProducts *userproduct.UserProductHandler
	Auth         *auth.AuthHandler
}

// NewResolver creates the root resolver. Panics if a handler is missing.
func NewResolver(h Handlers, log *slog.Logger) *Resolver {
	if h.Products == nil || h.Users == nil || h.UserProducts == nil || h.Auth == nil {
		panic("graph.NewResolver: missing handler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		products: h.Products,
		users:    h.Users,
		links:    h.UserProducts,
		auth:     h.Auth,
		log:      log,
	}
}

// Queries.

func (r *Resolver) GetAllProducts(ctx context.Context) ([]*product.ProductResolver, error) {
	out, err := r.products.GetAll(ctx)
	return out, r.convert(ctx, "getAllProducts", err)
}

func (r *Resolver) GetProductByID(ctx context.Context, args product.IDArgs) (*product.ProductResolver, error) {
	out, err := r.products.GetByID(ctx, args)
	return out, r.convert(ctx, "getProductById", err)
}

func (r *Resolver) GetAllUserProducts(ctx context.Context, args userproduct.UserArgs) ([]*product.ProductResolver, error) {
	out, err := r.links.GetAll(ctx, args)
	return out, r.convert(ctx, "getAllUserProducts", err)
}

func (r *Resolver) GetAllUsers(ctx context.Context) ([]*user.UserResolver, error) {
	out, err := r.users.GetAll(ctx)
	return out, r.convert(ctx, "getAllUsers", err)
}

func (r *Resolver) GetUserByID(ctx context.Context, args user.IDArgs) (*user.UserResolver, error) {
	out, err := r.users.GetByID(ctx, args)
	return out, r.convert(ctx, "getUserById", err)
}

func (r *Resolver) Me(ctx context.Context) (*user.UserResolver, error) {
	out, err := r.auth.Me(ctx)
	return out, r.convert(ctx, "me", err)
}

// Mutations.

func (r *Resolver) CreateProduct(ctx context.Context, args product.CreateProductArgs) (*product.ProductResolver, error) {
	out, err := r.products.Create(ctx, args)
	return out, r.convert(ctx, "createProduct", err)
}

func (r *Resolver) UpdateProduct(ctx context.Context, args product.UpdateProductArgs) (*product.ProductResolver, error) {
	out, err := r.products.Update(ctx, args)
	return out, r.convert(ctx, "updateProduct", err)
}

func (r *Resolver) DeleteProduct(ctx context.Context, args product.IDArgs) (*product.ProductResolver, error) {
	out, err := r.products.Delete(ctx, args)
	return out, r.convert(ctx, "deleteProduct", err)
}

func (r *Resolver) AddUserProduct(ctx context.Context, args userproduct.LinkArgs) (*product.ProductResolver, error) {
	out, err := r.links.Add(ctx, args)
	return out, r.convert(ctx, "addUserProduct", err)
}

func (r *Resolver) DeleteUserProduct(ctx context.Context, args userproduct.LinkArgs) (*product.ProductResolver, error) {
	out, err := r.links.Delete(ctx, args)
	return out, r.convert(ctx, "deleteUserProduct", err)
}

func (r *Resolver) CreateUser(ctx context.Context, args user.CreateUserArgs) (*user.UserResolver, error) {
	out, err := r.users.Create(ctx, args)
	return out, r.convert(ctx, "createUser", err)
}

func (r *Resolver) UpdateUser(ctx context.Context, args user.UpdateUserArgs) (*user.UserResolver, error) {
	out, err := r.users.Update(ctx, args)
	return out, r.convert(ctx, "updateUser", err)
}

func (r *Resolver) DeleteUser(ctx context.Context, args user.IDArgs) (*user.UserResolver, error) {
	out, err := r.users.Delete(ctx, args)
	return out, r.convert(ctx, "deleteUser", err)
}

func (r *Resolver) Login(ctx context.Context, args auth.LoginArgs) (*auth.AuthPayloadResolver, error) {
	out, err := r.auth.Login(ctx, args)
	return out, r.convert(ctx, "login", err)
}

func (r *Resolver) Logout(ctx context.Context) (bool, error) {
	out, err := r.auth.Logout(ctx)
	return out, r.convert(ctx, "logout", err)
}

func (r *Resolver) Verify(ctx context.Context, args auth.VerifyArgs) (*user.UserResolver, error) {
	out, err := r.auth.Verify(ctx, args)
	return out, r.convert(ctx, "verify", err)
}
