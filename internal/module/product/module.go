package product

import (
	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/domain"
)

// ProductModule wires the product repository, service and handler.
type ProductModule struct {
	Repository domain.ProductRepository
	Service    domain.ProductService
	Handler    *ProductHandler
}

// NewModule builds the product stack on db. Panics if db or tx is nil.
func NewModule(db *gorm.DB, tx domain.TxManager) *ProductModule {
	if db == nil {
		panic("product.NewModule: db must not be nil")
	}
	if tx == nil {
		panic("product.NewModule: tx must not be nil")
	}
	repo := NewProductRepository(db)
	svc := NewProductService(repo, tx)
	return &ProductModule{Repository: repo, Service: svc, Handler: NewProductHandler(svc)}
}
