package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
)

// Сервисы, которые нужны обработчикам. Реализации живут в usecase и infrastructure/notify.

type CatalogService interface {
	Browse(ctx context.Context, category domain.Category, featuredOnly bool) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CartService interface {
	Get(ctx context.Context, sessionID string) (*usecase.CartView, error)
	AddItem(ctx context.Context, sessionID string, productID string, quantity int) (*usecase.CartView, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID string, quantity int) (*usecase.CartView, error)
	RemoveItem(ctx context.Context, sessionID string, productID string) (*usecase.CartView, error)
	Clear(ctx context.Context, sessionID string) error
}

type CheckoutService interface {
	Quote(ctx context.Context, sessionID string) (*usecase.CartView, error)
	PlaceOrder(ctx context.Context, req *usecase.PlaceOrderReq) (*domain.Order, error)
}

type ProductAdmin interface {
	Load(ctx context.Context) error
	Products() []domain.Product
	Create(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error)
	Update(ctx context.Context, id string, req *usecase.UpdateProductReq) (*domain.Product, error)
	Delete(ctx context.Context, id string, confirmed bool) error
	AttachImage(ctx context.Context, id string, image *usecase.ProductImage) (*domain.Product, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
	SignOut(ctx context.Context, token string) error
}

// CartStream держит websocket сессии открытым и пушит количество товаров в корзине.
type CartStream interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string, current func() (int, error)) error
}

// Services собирает зависимости роутера.
type Services struct {
	Catalog  CatalogService
	Cart     CartService
	Checkout CheckoutService
	Admin    ProductAdmin
	Auth     Authenticator
	Stream   CartStream
}
