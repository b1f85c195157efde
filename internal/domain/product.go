package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID                 string
	Name               string
	Price              int64 // Цена хранится в пенсах
	Category           Category
	Image              *string
	Description        *string
	Featured           bool
	SalePrice          *int64 // Цена со скидкой, в пенсах
	DiscountPercentage *int
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

func NewProduct(name string, price int64, category Category) *Product {
	return &Product{
		Name:     name,
		Price:    price,
		Category: category,
	}
}

// ProductPatch — частичное обновление товара, nil означает «не менять».
type ProductPatch struct {
	Name               *string
	Price              *int64
	Category           *Category
	Image              *string
	Description        *string
	Featured           *bool
	SalePrice          *int64
	DiscountPercentage *int
	ClearSalePrice     bool // снять цену со скидкой
	ClearDiscount      bool
}

// IsEmpty сообщает, что патч не меняет ни одного поля.
func (p *ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Category == nil && p.Image == nil &&
		p.Description == nil && p.Featured == nil && p.SalePrice == nil && p.DiscountPercentage == nil &&
		!p.ClearSalePrice && !p.ClearDiscount
}

// Apply применяет патч к копии товара.
func (p *ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Image != nil {
		product.Image = p.Image
	}
	if p.Description != nil {
		product.Description = p.Description
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
	if p.SalePrice != nil {
		product.SalePrice = p.SalePrice
	}
	if p.DiscountPercentage != nil {
		product.DiscountPercentage = p.DiscountPercentage
	}
	if p.ClearSalePrice {
		product.SalePrice = nil
	}
	if p.ClearDiscount {
		product.DiscountPercentage = nil
	}

	return product
}
