package product

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

const entity = "product"

// productRepository implements domain.ProductRepository using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository backed by the given GORM database.
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

// List returns every product ordered by id.
func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	if err := pkg.Conn(ctx, r.db).Order("id").Find(&products).Error; err != nil {
		return nil, pkg.MapDBError(err, entity)
	}
	return products, nil
}

// GetByID retrieves a product by its primary key.
func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := pkg.Conn(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, pkg.MapDBError(err, entity)
	}
	return &p, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	return pkg.MapDBError(pkg.Conn(ctx, r.db).Create(p).Error, entity)
}

// Update saves every column of an existing product.
func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	return pkg.MapDBError(pkg.Conn(ctx, r.db).Save(p).Error, entity)
}

// Delete removes the product and its user links. Run it inside a
// TxManager transaction to make both deletes atomic.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	conn := pkg.Conn(ctx, r.db)
	if err := conn.Where("product_id = ?", id).Delete(&domain.UserProduct{}).Error; err != nil {
		return pkg.MapDBError(err, entity)
	}
	result := conn.Delete(&domain.Product{}, id)
	if result.Error != nil {
		return pkg.MapDBError(result.Error, entity)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "product not found", nil)
	}
	return nil
}
