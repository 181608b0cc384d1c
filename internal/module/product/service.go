package product

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// productService implements domain.ProductService.
type productService struct {
	repo domain.ProductRepository
	tx   domain.TxManager
}

// NewProductService creates a new ProductService.
func NewProductService(repo domain.ProductRepository, tx domain.TxManager) domain.ProductService {
	return &productService{repo: repo, tx: tx}
}

func (s *productService) GetAll(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *productService) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new product. The supplied image is ignored: new products
// always start with the placeholder image.
func (s *productService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := pkg.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:   in.Name,
		Model:  in.Model,
		Family: in.Family,
		Stock:  in.Stock,
		Price:  in.Price.Round(2),
		Brand:  in.Brand,
		Image:  domain.PlaceholderProductImage,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges the non-nil fields of patch into the stored product.
func (s *productService) Update(ctx context.Context, id uint, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := pkg.ValidateStruct(patch); err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return nil, err
		}
	}

	var p *domain.Product
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		applyPatch(p, patch)
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the product and its user links and returns the record as
// it was before deletion.
func (s *productService) Delete(ctx context.Context, id uint) (*domain.Product, error) {
	var p *domain.Product
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func applyPatch(p *domain.Product, patch domain.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Model != nil {
		p.Model = *patch.Model
	}
	if patch.Family != nil {
		p.Family = *patch.Family
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Price != nil {
		p.Price = patch.Price.Round(2)
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.NewAppError(domain.CodeValidation, "invalid input: price: gte=0", nil)
	}
	return nil
}
