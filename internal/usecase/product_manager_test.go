package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, products *fakeProductRepo) (*ProductManager, *fakeImages) {
	t.Helper()
	images := &fakeImages{}
	m := NewProductManager(products, images, logger.Nop())
	require.NoError(t, m.Load(context.Background()))
	return m, images
}

func TestProductManager_CreateMirrorsAtFront(t *testing.T) {
	m, _ := newManager(t, catalogFixture())

	created, err := m.Create(context.Background(), &CreateProductReq{
		Name:      "  Trail Shorts ",
		Price:     "45.50",
		Category:  "shorts",
		SalePrice: ptr("40"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Trail Shorts", created.Name)
	assert.Equal(t, int64(4550), created.Price)
	assert.Equal(t, int64(4000), *created.SalePrice)
	assert.Equal(t, domain.CategoryShorts, created.Category)

	products := m.Products()
	require.Len(t, products, 3)
	assert.Equal(t, created.ID, products[0].ID)
}

func TestProductManager_LogsEachMutationOnce(t *testing.T) {
	var buf bytes.Buffer
	m := NewProductManager(catalogFixture(), &fakeImages{}, logger.NewSlogLoggerWithWriter(&buf, slog.LevelInfo))
	ctx := context.Background()

	created, err := m.Create(ctx, &CreateProductReq{Name: "Tee", Price: "10", Category: "TOPS"})
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, created.ID, true))

	assert.Equal(t, 1, strings.Count(buf.String(), "product created"))
	assert.Equal(t, 1, strings.Count(buf.String(), "product deleted"))
}

func TestProductManager_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateProductReq
		want error
	}{
		{"non-numeric price", CreateProductReq{Name: "Tee", Price: "abc", Category: "TOPS"}, e.ErrInvalidPrice},
		{"negative price", CreateProductReq{Name: "Tee", Price: "-1", Category: "TOPS"}, e.ErrInvalidPrice},
		{"too many decimals", CreateProductReq{Name: "Tee", Price: "1.234", Category: "TOPS"}, e.ErrPricePrecision},
		{"missing name", CreateProductReq{Name: " ", Price: "10", Category: "TOPS"}, e.ErrProductNameRequired},
		{"unknown category", CreateProductReq{Name: "Tee", Price: "10", Category: "HATS"}, e.ErrInvalidCategory},
		{"sale above price", CreateProductReq{Name: "Tee", Price: "10", Category: "TOPS", SalePrice: ptr("12")}, e.ErrSalePriceAbovePrice},
		{"discount out of range", CreateProductReq{Name: "Tee", Price: "10", Category: "TOPS", DiscountPercentage: ptr(101)}, e.ErrInvalidDiscount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := catalogFixture()
			m, _ := newManager(t, products)

			_, err := m.Create(context.Background(), &tt.req)

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, products.calls["Create"])
			assert.Len(t, m.Products(), 2)
		})
	}
}

func TestProductManager_CreateGatewayFailureKeepsState(t *testing.T) {
	products := catalogFixture()
	m, _ := newManager(t, products)
	products.err = errors.New("connection reset")

	_, err := m.Create(context.Background(), &CreateProductReq{Name: "Tee", Price: "10", Category: "TOPS"})

	assert.ErrorIs(t, err, e.ErrGateway)
	assert.Len(t, m.Products(), 2)
}

func TestProductManager_UpdatePartial(t *testing.T) {
	m, _ := newManager(t, catalogFixture())

	updated, err := m.Update(context.Background(), "jacket", &UpdateProductReq{
		Price:    ptr("120.00"),
		Featured: ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12000), updated.Price)
	assert.Equal(t, int64(8000), *updated.SalePrice)
	assert.True(t, updated.Featured)
	assert.Equal(t, "Summit Jacket", updated.Name)
	assert.Equal(t, int64(12000), m.Products()[0].Price)
}

func TestProductManager_UpdateClearsSalePrice(t *testing.T) {
	m, _ := newManager(t, catalogFixture())

	updated, err := m.Update(context.Background(), "jacket", &UpdateProductReq{SalePrice: ptr("")})
	require.NoError(t, err)

	assert.Nil(t, updated.SalePrice)
	assert.Nil(t, m.Products()[0].SalePrice)
	assert.Equal(t, int64(10000), m.Products()[0].Price)
}

func TestProductManager_UpdateRejectsPriceBelowSale(t *testing.T) {
	products := catalogFixture()
	m, _ := newManager(t, products)

	_, err := m.Update(context.Background(), "jacket", &UpdateProductReq{Price: ptr("50")})

	assert.ErrorIs(t, err, e.ErrSalePriceAbovePrice)
	assert.Zero(t, products.calls["Update"])
}

func TestProductManager_UpdateValidatesAgainstCatalogState(t *testing.T) {
	products := catalogFixture()
	m, _ := newManager(t, products)

	// после Load другой администратор снизил цену футболки и поднял цену куртки
	products.products[1].Price = 3000
	_, err := m.Update(context.Background(), "tee", &UpdateProductReq{SalePrice: ptr("40")})
	assert.ErrorIs(t, err, e.ErrSalePriceAbovePrice)
	assert.Zero(t, products.calls["Update"])
	assert.Nil(t, products.products[1].SalePrice)

	products.products[0].Price = 20000
	updated, err := m.Update(context.Background(), "jacket", &UpdateProductReq{SalePrice: ptr("150")})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), updated.Price)
	assert.Equal(t, int64(15000), *updated.SalePrice)
	assert.Equal(t, int64(20000), m.Products()[0].Price)
}

func TestProductManager_UpdateRejectedByCatalogConstraint(t *testing.T) {
	products := catalogFixture()
	m, _ := newManager(t, products)
	products.updateErr = e.ErrSalePriceAbovePrice

	_, err := m.Update(context.Background(), "tee", &UpdateProductReq{SalePrice: ptr("40")})

	assert.ErrorIs(t, err, e.ErrSalePriceAbovePrice)
	assert.NotErrorIs(t, err, e.ErrGateway)
	assert.Nil(t, m.Products()[1].SalePrice)
}

func TestProductManager_UpdateInvalidInputSkipsGateway(t *testing.T) {
	products := catalogFixture()
	m, _ := newManager(t, products)
	lookups := products.calls["GetByID"]

	_, err := m.Update(context.Background(), "unknown", &UpdateProductReq{Price: ptr("1,50")})

	assert.ErrorIs(t, err, e.ErrInvalidPrice)
	assert.Equal(t, lookups, products.calls["GetByID"])
	assert.Zero(t, products.calls["Update"])
}

func TestProductManager_UpdateUnknownProduct(t *testing.T) {
	m, _ := newManager(t, catalogFixture())

	_, err := m.Update(context.Background(), "missing", &UpdateProductReq{Name: ptr("X")})

	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestProductManager_DeleteRequiresConfirmation(t *testing.T) {
	products := catalogFixture()
	m, _ := newManager(t, products)

	err := m.Delete(context.Background(), "tee", false)

	assert.ErrorIs(t, err, e.ErrConfirmationRequired)
	assert.Zero(t, products.calls["Delete"])
	assert.Len(t, m.Products(), 2)
}

func TestProductManager_Delete(t *testing.T) {
	m, _ := newManager(t, catalogFixture())

	require.NoError(t, m.Delete(context.Background(), "tee", true))

	products := m.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "jacket", products[0].ID)
}

func TestProductManager_DeleteGatewayFailureKeepsState(t *testing.T) {
	products := catalogFixture()
	m, _ := newManager(t, products)
	products.err = errors.New("broken pipe")

	err := m.Delete(context.Background(), "tee", true)

	assert.ErrorIs(t, err, e.ErrGateway)
	assert.Len(t, m.Products(), 2)
}

func TestProductManager_AttachImage(t *testing.T) {
	m, images := newManager(t, catalogFixture())

	updated, err := m.AttachImage(context.Background(), "tee", NewProductImage([]byte{1, 2, 3}, "image/png", 3, "tee.png"))
	require.NoError(t, err)

	require.NotNil(t, updated.Image)
	assert.Equal(t, "http://cdn.test/products/tee/catalog.jpg", *updated.Image)
	assert.Equal(t, "http://cdn.test/products/tee/catalog.jpg", *m.Products()[1].Image)
	assert.Empty(t, images.cleaned)
}

func TestProductManager_AttachImageCleansUpOnFailure(t *testing.T) {
	products := catalogFixture()
	m, images := newManager(t, products)
	products.updateErr = errors.New("connection refused")

	_, err := m.AttachImage(context.Background(), "tee", NewProductImage([]byte{1}, "image/png", 1, "tee.png"))

	assert.ErrorIs(t, err, e.ErrGateway)
	require.Len(t, images.cleaned, 1)
	assert.Len(t, images.cleaned[0], 2)
	assert.Nil(t, m.Products()[1].Image)
}

func TestProductManager_AttachImageRequiresData(t *testing.T) {
	m, images := newManager(t, catalogFixture())

	_, err := m.AttachImage(context.Background(), "tee", nil)

	assert.ErrorIs(t, err, e.ErrNoImages)
	assert.Empty(t, images.uploads)
}
