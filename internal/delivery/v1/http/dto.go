package http

import (
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/money"
)

// Суммы в ответах передаются строками с двумя знаками после точки ("264.00").

type ProductResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Price              string     `json:"price"`
	Category           string     `json:"category"`
	Image              *string    `json:"image,omitempty"`
	Description        *string    `json:"description,omitempty"`
	Featured           bool       `json:"featured"`
	SalePrice          *string    `json:"salePrice,omitempty"`
	DiscountPercentage *int       `json:"discountPercentage,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

type ProductListResponse struct {
	Category string            `json:"category"`
	Products []ProductResponse `json:"products"`
}

type CartLineResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     string  `json:"price"`
	SalePrice *string `json:"salePrice,omitempty"`
	Category  string  `json:"category"`
	Image     *string `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
	LineTotal string  `json:"lineTotal"`
}

type TotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type CartResponse struct {
	Lines         []CartLineResponse `json:"lines"`
	TotalQuantity int                `json:"totalQuantity"`
	Totals        TotalsResponse     `json:"totals"`
}

type OrderResponse struct {
	ID        string             `json:"id"`
	Email     string             `json:"email"`
	Status    string             `json:"status"`
	Items     []CartLineResponse `json:"items"`
	Totals    TotalsResponse     `json:"totals"`
	CreatedAt time.Time          `json:"createdAt"`
	Message   string             `json:"message"`
}

type IdentityResponse struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"` // по умолчанию 1, не больше 9999
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	Email        string  `json:"email"`
	FullName     string  `json:"fullName"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         string  `json:"city"`
	PostalCode   string  `json:"postalCode"`
	Country      string  `json:"country"`
}

type CreateProductRequest struct {
	Name               string  `json:"name"`
	Price              string  `json:"price"`
	Category           string  `json:"category"`
	Image              *string `json:"image,omitempty"`
	Description        *string `json:"description,omitempty"`
	Featured           bool    `json:"featured"`
	SalePrice          *string `json:"salePrice,omitempty"`
	DiscountPercentage *int    `json:"discountPercentage,omitempty"`
}

// UpdateProductRequest меняет только присланные поля. Пустая salePrice снимает скидочную цену.
type UpdateProductRequest struct {
	Name               *string `json:"name,omitempty"`
	Price              *string `json:"price,omitempty"`
	Category           *string `json:"category,omitempty"`
	Image              *string `json:"image,omitempty"`
	Description        *string `json:"description,omitempty"`
	Featured           *bool   `json:"featured,omitempty"`
	SalePrice          *string `json:"salePrice,omitempty"`
	DiscountPercentage *int    `json:"discountPercentage,omitempty"`
	ClearDiscount      bool    `json:"clearDiscount,omitempty"`
}

func formatOptional(v *int64) *string {
	if v == nil {
		return nil
	}
	s := money.Format(*v)
	return &s
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Price:              money.Format(p.Price),
		Category:           string(p.Category),
		Image:              p.Image,
		Description:        p.Description,
		Featured:           p.Featured,
		SalePrice:          formatOptional(p.SalePrice),
		DiscountPercentage: p.DiscountPercentage,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res
}

func toCartLineResponses(lines []domain.CartLine) []CartLineResponse {
	res := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		res = append(res, CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     money.Format(l.Price),
			SalePrice: formatOptional(l.SalePrice),
			Category:  string(l.Category),
			Image:     l.Image,
			Quantity:  l.Quantity,
			LineTotal: money.Format(l.LineTotal()),
		})
	}
	return res
}

func toTotalsResponse(t domain.OrderTotals) TotalsResponse {
	return TotalsResponse{
		Subtotal: money.Format(t.Subtotal),
		Shipping: money.Format(t.Shipping),
		Tax:      money.Format(t.Tax),
		Total:    money.Format(t.Total),
	}
}

func toCartResponse(v *usecase.CartView) CartResponse {
	return CartResponse{
		Lines:         toCartLineResponses(v.Lines),
		TotalQuantity: v.TotalQuantity,
		Totals:        toTotalsResponse(v.Totals),
	}
}

func toOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		Email:     o.Email,
		Status:    string(o.Status),
		Items:     toCartLineResponses(o.Items),
		Totals:    toTotalsResponse(o.Totals),
		CreatedAt: o.CreatedAt,
		Message:   "Order placed. You will receive a confirmation email shortly.",
	}
}

func (r *CheckoutRequest) toPlaceOrderReq(identity *domain.Identity, sessionID string) *usecase.PlaceOrderReq {
	return &usecase.PlaceOrderReq{
		Identity:  identity,
		SessionID: sessionID,
		Email:     r.Email,
		Address: domain.ShippingAddress{
			FullName:     r.FullName,
			Phone:        r.Phone,
			AddressLine1: r.AddressLine1,
			AddressLine2: r.AddressLine2,
			City:         r.City,
			PostalCode:   r.PostalCode,
			Country:      domain.Country(r.Country),
		},
	}
}

func (r *CreateProductRequest) toUsecase() *usecase.CreateProductReq {
	return &usecase.CreateProductReq{
		Name:               r.Name,
		Price:              r.Price,
		Category:           r.Category,
		Image:              r.Image,
		Description:        r.Description,
		Featured:           r.Featured,
		SalePrice:          r.SalePrice,
		DiscountPercentage: r.DiscountPercentage,
	}
}

func (r *UpdateProductRequest) toUsecase() *usecase.UpdateProductReq {
	return &usecase.UpdateProductReq{
		Name:               r.Name,
		Price:              r.Price,
		Category:           r.Category,
		Image:              r.Image,
		Description:        r.Description,
		Featured:           r.Featured,
		SalePrice:          r.SalePrice,
		DiscountPercentage: r.DiscountPercentage,
		ClearDiscount:      r.ClearDiscount,
	}
}
