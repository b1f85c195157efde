package e

import "fmt"

var (
	// Внутренние ошибки
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// 502 Bad Gateway — ошибка бэкенда каталога/заказов
	ErrGateway = fmt.Errorf("catalog backend unavailable")

	// 400 Bad Request
	ErrStatusBadRequest      = fmt.Errorf("bad request")
	ErrInvalidJSON           = fmt.Errorf("invalid json payload")
	ErrExpectedMultipart     = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields         = fmt.Errorf("missing required fields")
	ErrProductNameRequired   = fmt.Errorf("product name is required")
	ErrInvalidPrice          = fmt.Errorf("price must be a non-negative number")
	ErrPricePrecision        = fmt.Errorf("price must have at most 2 decimal places")
	ErrSalePriceAbovePrice   = fmt.Errorf("sale price must not exceed price")
	ErrInvalidDiscount       = fmt.Errorf("discount percentage must be between 0 and 100")
	ErrInvalidCategory       = fmt.Errorf("unknown product category")
	ErrInvalidQuantity       = fmt.Errorf("quantity must be between 1 and 9999")
	ErrAmountTooLarge        = fmt.Errorf("order amount is too large")
	ErrNoImages              = fmt.Errorf("no images provided")
	ErrFileTooLarge          = fmt.Errorf("file too large")
	ErrConfirmationRequired  = fmt.Errorf("deletion must be confirmed")
	ErrCartEmpty             = fmt.Errorf("cart is empty")
	ErrMissingShippingFields = fmt.Errorf("missing required shipping fields")
	ErrUnsupportedCountry    = fmt.Errorf("unsupported shipping country")

	// 401 / 403
	ErrAuthRequired = fmt.Errorf("authentication required")
	ErrInvalidToken = fmt.Errorf("invalid token")
	ErrForbidden    = fmt.Errorf("access denied")

	// 404 / 409
	ErrProductNotFound    = fmt.Errorf("product not found")
	ErrProductUnavailable = fmt.Errorf("product is no longer available")

	// 429
	ErrTooManyRequests = fmt.Errorf("too many requests")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Gateway помечает ошибку удалённого хранилища, сохраняя исходную причину.
func Gateway(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrGateway, err)
}
