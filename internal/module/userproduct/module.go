package userproduct

import (
	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/domain"
)

// UserProductModule wires the user-product link stack.
type UserProductModule struct {
	Service domain.UserProductService
	Handler *UserProductHandler
}

// NewModule builds the link stack on db using the user and product
// repositories for existence checks. Panics on nil arguments.
func NewModule(db *gorm.DB, users domain.UserRepository, products domain.ProductRepository, tx domain.TxManager) *UserProductModule {
	if db == nil || users == nil || products == nil || tx == nil {
		panic("userproduct.NewModule: missing dependency")
	}
	svc := NewUserProductService(NewUserProductRepository(db), users, products, tx)
	return &UserProductModule{Service: svc, Handler: NewUserProductHandler(svc)}
}
