package product

import (
	"github.com/graph-gophers/graphql-go"
	"github.com/shopspring/decimal"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// IDArgs is the argument set of getProductById and deleteProduct.
type IDArgs struct {
	ID graphql.ID
}

// CreateProductArgs is the argument set of createProduct.
type CreateProductArgs struct {
	Input CreateProductInput
}

// CreateProductInput mirrors the CreateProductInput GraphQL input type.
type CreateProductInput struct {
	Name   string
	Model  *string
	Family *string
	Stock  int32
	Price  float64
	Brand  *string
	Image  *string
}

// UpdateProductArgs is the argument set of updateProduct.
type UpdateProductArgs struct {
	ID    graphql.ID
	Input UpdateProductInput
}

// UpdateProductInput mirrors the UpdateProductInput GraphQL input type.
type UpdateProductInput struct {
	Name   *string
	Model  *string
	Family *string
	Stock  *int32
	Price  *float64
	Brand  *string
	Image  *string
}

func (in CreateProductInput) toDomain() domain.ProductInput {
	return domain.ProductInput{
		Name:   in.Name,
		Model:  deref(in.Model),
		Family: deref(in.Family),
		Stock:  int(in.Stock),
		Price:  decimal.NewFromFloat(in.Price),
		Brand:  deref(in.Brand),
		Image:  deref(in.Image),
	}
}

func (in UpdateProductInput) toDomain() domain.ProductPatch {
	patch := domain.ProductPatch{
		Name:   in.Name,
		Model:  in.Model,
		Family: in.Family,
		Brand:  in.Brand,
		Image:  in.Image,
	}
	if in.Stock != nil {
		stock := int(*in.Stock)
		patch.Stock = &stock
	}
	if in.Price != nil {
		price := decimal.NewFromFloat(*in.Price)
		patch.Price = &price
	}
	return patch
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ProductResolver resolves the fields of the Product GraphQL type.
type ProductResolver struct {
	p *domain.Product
}

// NewProductResolver wraps p for GraphQL.
func NewProductResolver(p *domain.Product) *ProductResolver {
	return &ProductResolver{p: p}
}

// NewProductResolvers wraps a list of products for GraphQL.
func NewProductResolvers(products []domain.Product) []*ProductResolver {
	out := make([]*ProductResolver, len(products))
	for i := range products {
		out[i] = &ProductResolver{p: &products[i]}
	}
	return out
}

func (r *ProductResolver) ID() graphql.ID          { return graphql.ID(pkg.FormatID(r.p.ID)) }
func (r *ProductResolver) Name() string            { return r.p.Name }
func (r *ProductResolver) Model() string           { return r.p.Model }
func (r *ProductResolver) Family() string          { return r.p.Family }
func (r *ProductResolver) Stock() int32            { return int32(r.p.Stock) }
func (r *ProductResolver) Price() float64          { return r.p.Price.InexactFloat64() }
func (r *ProductResolver) Brand() string           { return r.p.Brand }
func (r *ProductResolver) Image() string           { return r.p.Image }
func (r *ProductResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.p.CreatedAt} }
func (r *ProductResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: r.p.UpdatedAt} }
