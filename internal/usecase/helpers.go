package usecase

import (
	"errors"

	"github.com/DRSN-tech/storefront/pkg/e"
)

// gatewayErr помечает сбой удалённого каталога как ErrGateway.
// Ошибки «не найдено», «недоступен» и отказ каталога по цене со скидкой пробрасываются как есть.
func gatewayErr(op string, err error) error {
	if errors.Is(err, e.ErrProductNotFound) || errors.Is(err, e.ErrProductUnavailable) ||
		errors.Is(err, e.ErrSalePriceAbovePrice) || errors.Is(err, e.ErrGateway) {
		return e.Wrap(op, err)
	}

	return e.Gateway(op, err)
}
