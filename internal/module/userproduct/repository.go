package userproduct

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

const entity = "user product"

// linkRepository implements domain.UserProductRepository using GORM.
type linkRepository struct {
	db *gorm.DB
}

// NewUserProductRepository creates a new UserProductRepository backed by db.
func NewUserProductRepository(db *gorm.DB) domain.UserProductRepository {
	return &linkRepository{db: db}
}

// ListProducts returns the products linked to userID ordered by product id.
func (r *linkRepository) ListProducts(ctx context.Context, userID uint) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	err := pkg.Conn(ctx, r.db).
		Select("products.*").
		Joins("JOIN user_products ON user_products.product_id = products.id").
		Where("user_products.user_id = ?", userID).
		Order("products.id").
		Find(&products).Error
	if err != nil {
		return nil, pkg.MapDBError(err, entity)
	}
	return products, nil
}

func (r *linkRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := pkg.Conn(ctx, r.db).Model(&domain.UserProduct{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, pkg.MapDBError(err, entity)
	}
	return count > 0, nil
}

func (r *linkRepository) Create(ctx context.Context, link *domain.UserProduct) error {
	return pkg.MapDBError(pkg.Conn(ctx, r.db).Create(link).Error, entity)
}

// Delete removes one link; a missing link is NotFound.
func (r *linkRepository) Delete(ctx context.Context, userID, productID uint) error {
	result := pkg.Conn(ctx, r.db).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.UserProduct{})
	if result.Error != nil {
		return pkg.MapDBError(result.Error, entity)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "user product not found", nil)
	}
	return nil
}
