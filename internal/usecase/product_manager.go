package usecase

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/money"
	"github.com/google/uuid"
)

// ProductManager реализует админское управление каталогом.
// Каждое изменение сначала выполняется в удалённом каталоге и только после успеха
// отражается в локальном списке товаров.
type ProductManager struct {
	productRepo ProductRepository
	imagesInfra ImagesInfra
	logger      logger.Logger

	mu       sync.RWMutex
	products []domain.Product
}

func NewProductManager(productRepo ProductRepository, imagesInfra ImagesInfra, logger logger.Logger) *ProductManager {
	return &ProductManager{
		productRepo: productRepo,
		imagesInfra: imagesInfra,
		logger:      logger,
	}
}

// Load заменяет локальный список товаров данными каталога.
func (m *ProductManager) Load(ctx context.Context) error {
	const op = "ProductManager.Load"

	products, err := m.productRepo.List(ctx)
	if err != nil {
		return gatewayErr(op, err)
	}

	m.mu.Lock()
	m.products = products
	m.mu.Unlock()

	return nil
}

// Products возвращает копию локального списка.
func (m *ProductManager) Products() []domain.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Product, len(m.products))
	copy(out, m.products)

	return out
}

// Create проверяет поля формы и создаёт товар. Новый товар добавляется в начало списка.
func (m *ProductManager) Create(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductManager.Create"

	product, err := m.validateCreate(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	product.ID = uuid.NewString()
	product.CreatedAt = time.Now().UTC()

	created, err := m.productRepo.Create(ctx, product)
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	m.mu.Lock()
	m.products = append([]domain.Product{*created}, m.products...)
	m.mu.Unlock()

	m.logger.Infof("product created. id: %s, name: %s", created.ID, created.Name)

	return created, nil
}

// Update применяет частичное обновление. Патч проверяется по текущему состоянию товара
// в каталоге, а не по локальному списку, который мог устареть.
func (m *ProductManager) Update(ctx context.Context, id string, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductManager.Update"

	patch, err := parsePatch(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	current, err := m.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	next := patch.Apply(*current)
	if err := validateProduct(&next); err != nil {
		return nil, e.Wrap(op, err)
	}

	if patch.IsEmpty() {
		m.replace(*current)
		return current, nil
	}

	updated, err := m.productRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	m.replace(*updated)

	return updated, nil
}

// Delete удаляет товар. Без подтверждения каталог не вызывается.
func (m *ProductManager) Delete(ctx context.Context, id string, confirmed bool) error {
	const op = "ProductManager.Delete"

	if !confirmed {
		return e.Wrap(op, e.ErrConfirmationRequired)
	}

	if err := m.productRepo.Delete(ctx, id); err != nil {
		return gatewayErr(op, err)
	}

	m.mu.Lock()
	m.products = slices.DeleteFunc(m.products, func(p domain.Product) bool { return p.ID == id })
	m.mu.Unlock()

	m.logger.Infof("product deleted. id: %s", id)

	return nil
}

// AttachImage загружает изображение в объектное хранилище и записывает ссылку в товар.
// Если обновление товара не удалось, загруженные объекты удаляются в фоне.
func (m *ProductManager) AttachImage(ctx context.Context, id string, image *ProductImage) (updated *domain.Product, err error) {
	const op = "ProductManager.AttachImage"

	if image == nil || len(image.Data) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	if _, err := m.productRepo.GetByID(ctx, id); err != nil {
		return nil, gatewayErr(op, err)
	}

	res, err := m.imagesInfra.UploadImages(ctx, NewUploadImagesReq(id, []ProductImage{*image}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			m.logger.Warnf("Cleaning up orphaned images after product update failure. product_id: %s, error: %v", id, err)
			m.imagesInfra.CleanupImages(res.ImagesKeys)
		}
	}()

	ref := res.ImageURL
	updated, err = m.productRepo.Update(ctx, id, &domain.ProductPatch{Image: &ref})
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	m.replace(*updated)

	return updated, nil
}

func (m *ProductManager) replace(product domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.products {
		if m.products[i].ID == product.ID {
			m.products[i] = product
			return
		}
	}
}

// validateCreate разбирает поля формы создания.
func (m *ProductManager) validateCreate(req *CreateProductReq) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.ErrProductNameRequired
	}

	price, err := money.ParseMinorUnits(req.Price)
	if err != nil {
		return nil, err
	}

	product := domain.NewProduct(name, price, domain.Category(strings.ToUpper(strings.TrimSpace(req.Category))))
	product.Image = nonBlank(req.Image)
	product.Description = nonBlank(req.Description)
	product.Featured = req.Featured
	product.DiscountPercentage = req.DiscountPercentage

	if req.SalePrice != nil && strings.TrimSpace(*req.SalePrice) != "" {
		sale, err := money.ParseMinorUnits(*req.SalePrice)
		if err != nil {
			return nil, err
		}
		product.SalePrice = &sale
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	return product, nil
}

// parsePatch разбирает поля частичного обновления.
func parsePatch(req *UpdateProductReq) (*domain.ProductPatch, error) {
	patch := &domain.ProductPatch{
		Image:              req.Image,
		Description:        req.Description,
		Featured:           req.Featured,
		DiscountPercentage: req.DiscountPercentage,
		ClearDiscount:      req.ClearDiscount,
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, e.ErrProductNameRequired
		}
		patch.Name = &name
	}

	if req.Price != nil {
		price, err := money.ParseMinorUnits(*req.Price)
		if err != nil {
			return nil, err
		}
		patch.Price = &price
	}

	if req.Category != nil {
		category := domain.Category(strings.ToUpper(strings.TrimSpace(*req.Category)))
		if !category.Valid() {
			return nil, e.ErrInvalidCategory
		}
		patch.Category = &category
	}

	if d := req.DiscountPercentage; d != nil && (*d < 0 || *d > 100) {
		return nil, e.ErrInvalidDiscount
	}

	if req.SalePrice != nil {
		if strings.TrimSpace(*req.SalePrice) == "" {
			patch.ClearSalePrice = true
		} else {
			sale, err := money.ParseMinorUnits(*req.SalePrice)
			if err != nil {
				return nil, err
			}
			patch.SalePrice = &sale
		}
	}

	return patch, nil
}

// validateProduct проверяет инварианты товара.
func validateProduct(p *domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return e.ErrProductNameRequired
	}

	if !p.Category.Valid() {
		return e.ErrInvalidCategory
	}

	if p.Price < 0 {
		return e.ErrInvalidPrice
	}

	if p.SalePrice != nil && *p.SalePrice > p.Price {
		return e.ErrSalePriceAbovePrice
	}

	if p.DiscountPercentage != nil && (*p.DiscountPercentage < 0 || *p.DiscountPercentage > 100) {
		return e.ErrInvalidDiscount
	}

	return nil
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}

	v := strings.TrimSpace(*s)
	return &v
}
