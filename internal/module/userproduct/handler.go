package userproduct

import (
	"context"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/module/product"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// UserProductHandler turns GraphQL arguments into link service calls.
type UserProductHandler struct {
	svc domain.UserProductService
}

// NewUserProductHandler creates a new UserProductHandler.
func NewUserProductHandler(svc domain.UserProductService) *UserProductHandler {
	return &UserProductHandler{svc: svc}
}

func parseLink(args LinkArgs) (userID, productID uint, err error) {
	if userID, err = pkg.ParseID(string(args.UserID), "user"); err != nil {
		return 0, 0, err
	}
	if productID, err = pkg.ParseID(string(args.ID), "product"); err != nil {
		return 0, 0, err
	}
	return userID, productID, nil
}

// GetAll resolves getAllUserProducts.
func (h *UserProductHandler) GetAll(ctx context.Context, args UserArgs) ([]*product.ProductResolver, error) {
	userID, err := pkg.ParseID(string(args.UserID), "user")
	if err != nil {
		return nil, err
	}
	products, err := h.svc.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return product.NewProductResolvers(products), nil
}

// Add resolves addUserProduct.
func (h *UserProductHandler) Add(ctx context.Context, args LinkArgs) (*product.ProductResolver, error) {
	userID, productID, err := parseLink(args)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.Add(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	return product.NewProductResolver(p), nil
}

// Delete resolves deleteUserProduct.
func (h *UserProductHandler) Delete(ctx context.Context, args LinkArgs) (*product.ProductResolver, error) {
	userID, productID, err := parseLink(args)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.Delete(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	return product.NewProductResolver(p), nil
}
