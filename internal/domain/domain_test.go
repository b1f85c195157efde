package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewOrderTotals(t *testing.T) {
	totals := NewOrderTotals(21000, 2, 1200, decimal.RequireFromString("0.20"))

	assert.Equal(t, OrderTotals{Subtotal: 21000, Shipping: 1200, Tax: 4200, Total: 26400}, totals)
}

func TestNewOrderTotals_EmptyCartHasNoShipping(t *testing.T) {
	totals := NewOrderTotals(0, 0, 1200, decimal.RequireFromString("0.20"))

	assert.Equal(t, OrderTotals{}, totals)
}

func TestShippingAddress_MissingFields(t *testing.T) {
	addr := ShippingAddress{FullName: "Jane Doe", City: "  "}

	assert.Equal(t, []string{"addressLine1", "city", "postalCode"}, addr.MissingFields())

	addr = ShippingAddress{FullName: "Jane Doe", AddressLine1: "1 High St", City: "Leeds", PostalCode: "LS1"}
	assert.Empty(t, addr.MissingFields())
}

func TestCategory_Valid(t *testing.T) {
	assert.True(t, CategoryJackets.Valid())
	assert.False(t, CategoryAll.Valid())
	assert.False(t, Category("Outerwear").Valid())
}

func TestCountry_Valid(t *testing.T) {
	assert.True(t, DefaultCountry.Valid())
	assert.False(t, Country("FR").Valid())
}

func TestProductPatch_Apply(t *testing.T) {
	sale := int64(500)
	name := "Summit Jacket"
	p := Product{ID: "p1", Name: "Jacket", Price: 1000, Category: CategoryJackets}
	patch := ProductPatch{Name: &name, SalePrice: &sale}

	got := patch.Apply(p)

	assert.Equal(t, "Summit Jacket", got.Name)
	assert.Equal(t, int64(1000), got.Price)
	assert.Equal(t, int64(500), NewCartLine(&got, 1).UnitPrice())
	assert.Equal(t, "Jacket", p.Name)
	assert.False(t, patch.IsEmpty())
	assert.True(t, (&ProductPatch{}).IsEmpty())
}

func TestProductPatch_ClearSalePrice(t *testing.T) {
	sale := int64(500)
	discount := 50
	p := Product{ID: "p1", Price: 1000, SalePrice: &sale, DiscountPercentage: &discount}
	patch := ProductPatch{ClearSalePrice: true, ClearDiscount: true}

	got := patch.Apply(p)

	assert.False(t, patch.IsEmpty())
	assert.Nil(t, got.SalePrice)
	assert.Nil(t, got.DiscountPercentage)
	assert.Equal(t, int64(1000), NewCartLine(&got, 1).UnitPrice())
}

func TestCartLine_LineTotal(t *testing.T) {
	sale := int64(80)
	assert.Equal(t, int64(160), CartLine{Price: 100, SalePrice: &sale, Quantity: 2}.LineTotal())
	assert.Equal(t, int64(50), CartLine{Price: 50, Quantity: 1}.LineTotal())
}
