// Package catalog содержит представление витрины: загруженный список товаров и фильтр по категории.
package catalog

import (
	"context"
	"sync"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
)

// Loader загружает полный список товаров, отсортированный по дате создания (новые первыми).
type Loader interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// View хранит загруженные товары и активную категорию.
type View struct {
	loader   Loader
	mu       sync.RWMutex
	products []domain.Product
	active   domain.Category
	featured bool
	closed   bool
}

func NewView(loader Loader) *View {
	return &View{
		loader: loader,
		active: domain.CategoryAll,
	}
}

// NewStaticView создаёт представление над уже загруженными товарами.
func NewStaticView(products []domain.Product) *View {
	return &View{products: products, active: domain.CategoryAll}
}

// Load однократно загружает товары. Результат, пришедший после Close, отбрасывается.
func (v *View) Load(ctx context.Context) error {
	const op = "View.Load"

	products, err := v.loader.ListProducts(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.products = products

	return nil
}

// Close помечает представление закрытым, поздние результаты Load не применяются.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

// SetCategory выбирает активную категорию. Пустая строка сбрасывает фильтр на ALL.
func (v *View) SetCategory(c domain.Category) {
	if c == "" {
		c = domain.CategoryAll
	}

	v.mu.Lock()
	v.active = c
	v.mu.Unlock()
}

// SetFeaturedOnly оставляет только избранные товары (главная страница).
func (v *View) SetFeaturedOnly(featured bool) {
	v.mu.Lock()
	v.featured = featured
	v.mu.Unlock()
}

func (v *View) ActiveCategory() domain.Category {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.active
}

// Filtered возвращает товары активной категории с сохранением исходного порядка.
func (v *View) Filtered() []domain.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := Filter(v.products, v.active)
	if !v.featured {
		return out
	}

	featured := make([]domain.Product, 0, len(out))
	for _, p := range out {
		if p.Featured {
			featured = append(featured, p)
		}
	}

	return featured
}

// Filter возвращает все товары для ALL, иначе только товары категории.
func Filter(products []domain.Product, category domain.Category) []domain.Product {
	if category == domain.CategoryAll {
		out := make([]domain.Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}

	return out
}
