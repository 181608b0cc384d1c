package userproduct

import (
	"context"

	"github.com/simp-lee/shopgraph/internal/domain"
)

var (
	errLinkExists   = domain.NewAppError(domain.CodeAlreadyExists, "product already added to user", nil)
	errLinkNotFound = domain.NewAppError(domain.CodeNotFound, "user product not found", nil)
)

// linkService implements domain.UserProductService.
type linkService struct {
	links    domain.UserProductRepository
	users    domain.UserRepository
	products domain.ProductRepository
	tx       domain.TxManager
}

// NewUserProductService creates a new UserProductService.
func NewUserProductService(links domain.UserProductRepository, users domain.UserRepository, products domain.ProductRepository, tx domain.TxManager) domain.UserProductService {
	return &linkService{links: links, users: users, products: products, tx: tx}
}

// GetAll lists the products of an existing user.
func (s *linkService) GetAll(ctx context.Context, userID uint) ([]domain.Product, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.links.ListProducts(ctx, userID)
}

// Add links productID to userID and returns the product.
func (s *linkService) Add(ctx context.Context, userID, productID uint) (*domain.Product, error) {
	var product *domain.Product
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			return err
		}
		var err error
		if product, err = s.products.GetByID(ctx, productID); err != nil {
			return err
		}

		exists, err := s.links.Exists(ctx, userID, productID)
		if err != nil {
			return err
		}
		if exists {
			return errLinkExists
		}
		return s.links.Create(ctx, &domain.UserProduct{UserID: userID, ProductID: productID})
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Delete unlinks productID from userID and returns the product.
func (s *linkService) Delete(ctx context.Context, userID, productID uint) (*domain.Product, error) {
	var product *domain.Product
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		exists, err := s.links.Exists(ctx, userID, productID)
		if err != nil {
			return err
		}
		if !exists {
			return errLinkNotFound
		}
		if product, err = s.products.GetByID(ctx, productID); err != nil {
			return err
		}
		return s.links.Delete(ctx, userID, productID)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}
