package domain

// MaxLineQuantity ограничивает количество одного товара в корзине.
// Вместе с ограничением цены (money.MaxMinorUnits) стоимость позиции помещается в int64.
const MaxLineQuantity = 9999

// ValidQuantity сообщает, допустимо ли количество для позиции корзины.
func ValidQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= MaxLineQuantity
}

// CartLine — позиция корзины: денормализованная копия полей товара и количество.
type CartLine struct {
	ProductID string
	Name      string
	Price     int64
	SalePrice *int64
	Category  Category
	Image     *string
	Quantity  int
}

func NewCartLine(product *Product, quantity int) CartLine {
	return CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		SalePrice: product.SalePrice,
		Category:  product.Category,
		Image:     product.Image,
		Quantity:  quantity,
	}
}

// UnitPrice возвращает цену за единицу с учётом цены со скидкой.
func (l CartLine) UnitPrice() int64 {
	if l.SalePrice != nil {
		return *l.SalePrice
	}

	return l.Price
}

// LineTotal возвращает стоимость позиции.
func (l CartLine) LineTotal() int64 {
	return l.UnitPrice() * int64(l.Quantity)
}
