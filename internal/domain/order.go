package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/pkg/money"
	"github.com/shopspring/decimal"
)

// OrderStatus — статус заказа. Заказ создаётся один раз и больше не меняется.
type OrderStatus string

const OrderStatusPending OrderStatus = "pending"

// Country — страна доставки
type Country string

const (
	CountryUK Country = "UK"
	CountryUS Country = "US"
	CountryCA Country = "CA"
	CountryAU Country = "AU"

	DefaultCountry = CountryUK
)

func (c Country) Valid() bool {
	switch c {
	case CountryUK, CountryUS, CountryCA, CountryAU:
		return true
	default:
		return false
	}
}

// ShippingAddress хранит адрес доставки из формы оформления заказа.
type ShippingAddress struct {
	FullName     string
	Phone        *string
	AddressLine1 string
	AddressLine2 *string
	City         string
	PostalCode   string
	Country      Country
}

// MissingFields возвращает имена незаполненных обязательных полей.
func (a *ShippingAddress) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(a.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(a.AddressLine1) == "" {
		missing = append(missing, "addressLine1")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		missing = append(missing, "postalCode")
	}

	return missing
}

// OrderTotals хранит итоговые суммы заказа в пенсах.
type OrderTotals struct {
	Subtotal int64
	Shipping int64
	Tax      int64
	Total    int64
}

// NewOrderTotals считает доставку, налог и итог.
// Фиксированная стоимость доставки применяется только к непустой корзине.
func NewOrderTotals(subtotal int64, lineCount int, flatFee int64, taxRate decimal.Decimal) OrderTotals {
	var shipping int64
	if lineCount > 0 {
		shipping = flatFee
	}

	tax := money.ApplyRate(subtotal, taxRate)

	return OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

// Order — снимок корзины на момент оформления.
type Order struct {
	ID        string
	UserID    string
	Email     string
	Address   ShippingAddress
	Items     []CartLine
	Totals    OrderTotals
	Status    OrderStatus
	CreatedAt time.Time
}

func NewOrder(userID string, email string, address ShippingAddress, items []CartLine, totals OrderTotals) *Order {
	return &Order{
		UserID:  userID,
		Email:   email,
		Address: address,
		Items:   items,
		Totals:  totals,
		Status:  OrderStatusPending,
	}
}
