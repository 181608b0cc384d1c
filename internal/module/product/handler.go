package product

import (
	"context"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// ProductHandler turns GraphQL arguments into product service calls.
type ProductHandler struct {
	svc domain.ProductService
}

// NewProductHandler creates a new ProductHandler with the given service.
func NewProductHandler(svc domain.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// GetAll resolves getAllProducts.
func (h *ProductHandler) GetAll(ctx context.Context) ([]*ProductResolver, error) {
	products, err := h.svc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewProductResolvers(products), nil
}

// GetByID resolves getProductById.
func (h *ProductHandler) GetByID(ctx context.Context, args IDArgs) (*ProductResolver, error) {
	id, err := pkg.ParseID(string(args.ID), entity)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductResolver(p), nil
}

// Create resolves createProduct.
func (h *ProductHandler) Create(ctx context.Context, args CreateProductArgs) (*ProductResolver, error) {
	p, err := h.svc.Create(ctx, args.Input.toDomain())
	if err != nil {
		return nil, err
	}
	return NewProductResolver(p), nil
}

// Update resolves updateProduct.
func (h *ProductHandler) Update(ctx context.Context, args UpdateProductArgs) (*ProductResolver, error) {
	id, err := pkg.ParseID(string(args.ID), entity)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.Update(ctx, id, args.Input.toDomain())
	if err != nil {
		return nil, err
	}
	return NewProductResolver(p), nil
}

// Delete resolves deleteProduct.
func (h *ProductHandler) Delete(ctx context.Context, args IDArgs) (*ProductResolver, error) {
	id, err := pkg.ParseID(string(args.ID), entity)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductResolver(p), nil
}
