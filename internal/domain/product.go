package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PlaceholderProductImage is stored as the image of every newly created product.
const PlaceholderProductImage = "url-del-producto-aqui"

// Product is an item of the catalogue.
type Product struct {
	BaseModel
	Name   string          `gorm:"size:255;not null" json:"name"`
	Model  string          `gorm:"size:255" json:"model"`
	Family string          `gorm:"size:255" json:"family"`
	Stock  int             `gorm:"not null;default:0" json:"stock"`
	Price  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Brand  string          `gorm:"size:255" json:"brand"`
	Image  string          `gorm:"size:1024" json:"image"`
}

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name   string `validate:"required,max=255" json:"name"`
	Model  string `validate:"max=255" json:"model"`
	Family string `validate:"max=255" json:"family"`
	Stock  int    `validate:"gte=0" json:"stock"`
	Price  decimal.Decimal
	Brand  string `validate:"max=255" json:"brand"`
	Image  string `json:"image"`
}

// ProductPatch carries the fields to change on an existing product.
// Nil fields are left untouched.
type ProductPatch struct {
	Name   *string `validate:"omitnil,min=1,max=255" json:"name"`
	Model  *string `validate:"omitnil,max=255" json:"model"`
	Family *string `validate:"omitnil,max=255" json:"family"`
	Stock  *int    `validate:"omitnil,gte=0" json:"stock"`
	Price  *decimal.Decimal
	Brand  *string `validate:"omitnil,max=255" json:"brand"`
	Image  *string `validate:"omitnil,max=1024" json:"image"`
}

// ProductRepository defines the data access interface for products.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	// Delete removes the product and every user link to it.
	Delete(ctx context.Context, id uint) error
}

// ProductService defines the business logic interface for products.
type ProductService interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, in ProductInput) (*Product, error)
	Update(ctx context.Context, id uint, patch ProductPatch) (*Product, error)
	Delete(ctx context.Context, id uint) (*Product, error)
}
