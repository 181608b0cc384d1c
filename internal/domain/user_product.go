package domain

import (
	"context"
	"time"
)

// UserProduct links a user to a product they hold.
type UserProduct struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ProductID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName pins the join table name.
func (UserProduct) TableName() string { return "user_products" }

// UserProductRepository defines the data access interface for user-product links.
type UserProductRepository interface {
	ListProducts(ctx context.Context, userID uint) ([]Product, error)
	Exists(ctx context.Context, userID, productID uint) (bool, error)
	Create(ctx context.Context, link *UserProduct) error
	Delete(ctx context.Context, userID, productID uint) error
}

// UserProductService defines the business logic interface for user-product links.
type UserProductService interface {
	GetAll(ctx context.Context, userID uint) ([]Product, error)
	Add(ctx context.Context, userID, productID uint) (*Product, error)
	Delete(ctx context.Context, userID, productID uint) (*Product, error)
}
