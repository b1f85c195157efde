package usecase

import (
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/money"
	"github.com/shopspring/decimal"
)

// CART

// CartView — содержимое корзины вместе с итогами для сводки.
type CartView struct {
	Lines         []domain.CartLine
	TotalQuantity int
	Totals        domain.OrderTotals
}

// Pricing хранит параметры расчёта доставки и налога.
type Pricing struct {
	FlatFee int64 // Фиксированная стоимость доставки, в пенсах
	TaxRate decimal.Decimal
}

func NewPricing(flatFee int64, taxRate decimal.Decimal) Pricing {
	return Pricing{FlatFee: flatFee, TaxRate: taxRate}
}

// Totals считает итоги по позициям корзины. Сумма позиций считается в decimal,
// поэтому чрезмерная корзина даёт ErrAmountTooLarge, а не переполнение.
func (p Pricing) Totals(lines []domain.CartLine) (domain.OrderTotals, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromInt(l.UnitPrice()).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	if subtotal.IsNegative() || subtotal.GreaterThan(decimal.NewFromInt(money.MaxOrderMinorUnits)) {
		return domain.OrderTotals{}, e.ErrAmountTooLarge
	}

	return domain.NewOrderTotals(subtotal.IntPart(), len(lines), p.FlatFee, p.TaxRate), nil
}

// PRODUCT MANAGER

// CreateProductReq содержит поля формы создания товара. Цены приходят текстом.
type CreateProductReq struct {
	Name               string
	Price              string
	Category           string
	Image              *string
	Description        *string
	Featured           bool
	SalePrice          *string
	DiscountPercentage *int
}

// UpdateProductReq — частичное обновление, nil означает «не менять».
// Пустая строка в SalePrice снимает цену со скидкой.
type UpdateProductReq struct {
	Name               *string
	Price              *string
	Category           *string
	Image              *string
	Description        *string
	Featured           *bool
	SalePrice          *string
	DiscountPercentage *int
	ClearDiscount      bool
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

// CHECKOUT

// PlaceOrderReq описывает отправленную форму оформления заказа.
type PlaceOrderReq struct {
	Identity  *domain.Identity
	SessionID string
	Email     string
	Address   domain.ShippingAddress
}

// AUTH

// TokenClaims содержит проверенные поля токена.
type TokenClaims struct {
	TokenID   string
	UserID    string
	Email     string
	IsAdmin   bool
	ExpiresAt time.Time
}

// INFRASTUCTURE

// UploadImagesReq — запрос на загрузку изображений продукта.
type UploadImagesReq struct {
	ProductID string
	Images    []ProductImage
}

// UploadImagesRes возвращает ключи всех объектов и публичный адрес изображения для каталога.
type UploadImagesRes struct {
	ImagesKeys []string
	ImageURL   string
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

func NewUploadImagesReq(productID string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		ProductID: productID,
		Images:    images,
	}
}

func NewUploadImagesRes(imagesKeys []string, imageURL string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
		ImageURL:   imageURL,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}
