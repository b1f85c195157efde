package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
)

// CatalogUseCase отдаёт витрину товаров.
type CatalogUseCase struct {
	productRepo ProductRepository
}

func NewCatalogUC(productRepo ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{productRepo: productRepo}
}

// ListProducts загружает все товары, новые первыми.
func (c *CatalogUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.List(ctx)
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	return products, nil
}

// Browse возвращает товары категории (ALL означает все), при featuredOnly только избранные.
func (c *CatalogUseCase) Browse(ctx context.Context, category domain.Category, featuredOnly bool) ([]domain.Product, error) {
	const op = "CatalogUseCase.Browse"

	if category != "" && category != domain.CategoryAll && !category.Valid() {
		return nil, e.Wrap(op, e.ErrInvalidCategory)
	}

	view := catalog.NewView(c)
	defer view.Close()

	if err := view.Load(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}
	view.SetCategory(category)
	view.SetFeaturedOnly(featuredOnly)

	return view.Filtered(), nil
}

func (c *CatalogUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	return product, nil
}
