package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
)

type fakeCatalog struct {
	products []domain.Product
	category domain.Category
	featured bool
	err      error
}

func (f *fakeCatalog) Browse(_ context.Context, category domain.Category, featuredOnly bool) ([]domain.Product, error) {
	f.category, f.featured = category, featuredOnly
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, e.Wrap("fakeCatalog.GetProduct", e.ErrProductNotFound)
}

type cartCall struct {
	session   string
	productID string
	quantity  int
}

type fakeCart struct {
	mu    sync.Mutex
	calls []cartCall
	view  *usecase.CartView
	err   error
}

func (f *fakeCart) record(c cartCall) (*usecase.CartView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	if f.view == nil {
		return &usecase.CartView{}, nil
	}
	return f.view, nil
}

func (f *fakeCart) Get(_ context.Context, s string) (*usecase.CartView, error) {
	return f.record(cartCall{session: s})
}

func (f *fakeCart) AddItem(_ context.Context, s, id string, q int) (*usecase.CartView, error) {
	if q < 1 {
		return nil, e.ErrInvalidQuantity
	}
	return f.record(cartCall{session: s, productID: id, quantity: q})
}

func (f *fakeCart) UpdateQuantity(_ context.Context, s, id string, q int) (*usecase.CartView, error) {
	return f.record(cartCall{session: s, productID: id, quantity: q})
}

func (f *fakeCart) RemoveItem(_ context.Context, s, id string) (*usecase.CartView, error) {
	return f.record(cartCall{session: s, productID: id})
}

func (f *fakeCart) Clear(_ context.Context, s string) error {
	_, err := f.record(cartCall{session: s})
	return err
}

type fakeCheckout struct {
	req *usecase.PlaceOrderReq
}

func (f *fakeCheckout) Quote(context.Context, string) (*usecase.CartView, error) {
	return &usecase.CartView{}, nil
}

func (f *fakeCheckout) PlaceOrder(_ context.Context, req *usecase.PlaceOrderReq) (*domain.Order, error) {
	f.req = req
	if req.Identity == nil {
		return nil, e.ErrAuthRequired
	}
	if missing := req.Address.MissingFields(); len(missing) > 0 {
		return nil, e.Wrap("fakeCheckout", e.ErrMissingShippingFields)
	}
	order := domain.NewOrder(req.Identity.UserID, req.Email, req.Address, nil, domain.OrderTotals{Total: 26400})
	order.ID = "order-1"
	order.CreatedAt = time.Now()
	return order, nil
}

type fakeAdmin struct {
	products  []domain.Product
	loaded    int
	confirmed *bool
	image     *usecase.ProductImage
	created   *usecase.CreateProductReq
}

func (f *fakeAdmin) Load(context.Context) error {
	f.loaded++
	return nil
}

func (f *fakeAdmin) Products() []domain.Product { return f.products }

func (f *fakeAdmin) Create(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	f.created = req
	if req.Name == "" {
		return nil, e.ErrProductNameRequired
	}
	return &domain.Product{ID: "new", Name: req.Name, Price: 1000, Category: domain.Category(req.Category)}, nil
}

func (f *fakeAdmin) Update(_ context.Context, id string, req *usecase.UpdateProductReq) (*domain.Product, error) {
	return &domain.Product{ID: id, Name: *req.Name}, nil
}

func (f *fakeAdmin) Delete(_ context.Context, _ string, confirmed bool) error {
	f.confirmed = &confirmed
	if !confirmed {
		return e.ErrConfirmationRequired
	}
	return nil
}

func (f *fakeAdmin) AttachImage(_ context.Context, id string, image *usecase.ProductImage) (*domain.Product, error) {
	f.image = image
	url := "http://cdn.test/" + image.Name
	return &domain.Product{ID: id, Image: &url}, nil
}

// fakeAuth: токен "admin" — администратор, "user" — покупатель, остальное недействительно.
type fakeAuth struct {
	signedOut []string
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	switch token {
	case "admin":
		return &domain.Identity{UserID: "u-admin", Email: "admin@example.com", IsAdmin: true}, nil
	case "user":
		return &domain.Identity{UserID: "u-1", Email: "ann@example.com"}, nil
	default:
		return nil, e.ErrInvalidToken
	}
}

func (f *fakeAuth) SignOut(_ context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return nil
}

type fakeStream struct{}

func (fakeStream) Serve(w http.ResponseWriter, _ *http.Request, _ string, _ func() (int, error)) error {
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}
