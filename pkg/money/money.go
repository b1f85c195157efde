// Package money содержит операции с денежными суммами в минимальных единицах валюты (пенсах).
package money

import (
	"strings"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

const (
	// MaxMinorUnits — наибольшая цена товара: 1 млрд в основных единицах валюты.
	MaxMinorUnits int64 = 100_000_000_000
	// MaxOrderMinorUnits — наибольшая сумма позиций заказа, при которой итог с налогом помещается в int64.
	MaxOrderMinorUnits int64 = 1_000_000_000_000_000
)

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.New(MaxMinorUnits, -2)
)

// ParseMinorUnits converts a string like "599.99" or "600" to int64 minor units.
// Returns error if:
// - empty or invalid format
// - more than 2 decimal places
// - negative value
// - exceeds 10^9 major units
func ParseMinorUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.IsNegative() || d.GreaterThan(maxAmount) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(hundred).Round(0).IntPart(), nil
}

// ParseRate разбирает ставку налога вида "0.20".
func ParseRate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}

	if d.IsNegative() {
		return decimal.Zero, e.ErrInvalidPrice
	}

	return d, nil
}

// ApplyRate возвращает amount*rate, округлённое до минимальной единицы (half away from zero).
func ApplyRate(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// Format форматирует сумму как "264.00".
func Format(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
