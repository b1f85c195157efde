package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
)

type fakeProductRepo struct {
	mu        sync.Mutex
	products  []domain.Product
	err       error
	updateErr error // только для Update
	calls     map[string]int
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	return &fakeProductRepo{products: products, calls: make(map[string]int)}
}

func (f *fakeProductRepo) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	if err := f.call("List"); err != nil {
		return nil, err
	}
	return slices.Clone(f.products), nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := f.call("GetByID"); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if err := f.call("GetByIDs"); err != nil {
		return nil, err
	}
	var out []domain.Product
	for _, p := range f.products {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := f.call("Create"); err != nil {
		return nil, err
	}
	f.products = append(f.products, *product)
	created := *product
	return &created, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id string, patch *domain.ProductPatch) (*domain.Product, error) {
	if err := f.call("Update"); err != nil {
		return nil, err
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products[i] = patch.Apply(p)
			updated := f.products[i]
			return &updated, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	if err := f.call("Delete"); err != nil {
		return err
	}
	f.products = slices.DeleteFunc(f.products, func(p domain.Product) bool { return p.ID == id })
	return nil
}

type fakeCartRepo struct {
	carts   map[string][]domain.CartLine
	loadErr error
	saveErr error
	saves   int
	deletes int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string][]domain.CartLine)}
}

func (f *fakeCartRepo) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return slices.Clone(f.carts[sessionID]), nil
}

func (f *fakeCartRepo) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.carts[sessionID] = slices.Clone(lines)
	return nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, sessionID string) error {
	f.deletes++
	if f.saveErr != nil {
		return f.saveErr
	}
	delete(f.carts, sessionID)
	return nil
}

type notification struct {
	session  string
	quantity int
}

type fakeNotifier struct {
	events []notification
}

func (f *fakeNotifier) Publish(sessionID string, totalQuantity int) {
	f.events = append(f.events, notification{session: sessionID, quantity: totalQuantity})
}

type fakeOrderRepo struct {
	orders []*domain.Order
	err    error
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.orders = append(f.orders, order)
	return order, nil
}

type fakeOutboxRepo struct {
	events []*OutboxEvent
	err    error
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeOutboxRepo) MarkAsFailed(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeOutboxRepo) ReleaseStale(ctx context.Context, olderThanSeconds int) (int64, error) {
	return 0, nil
}

type fakeTx struct {
	calls      int
	rolledBack bool
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		f.rolledBack = true
		return err
	}
	return nil
}

type fakeImages struct {
	err     error
	uploads []*UploadImagesReq
	cleaned [][]string
}

func (f *fakeImages) UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	f.uploads = append(f.uploads, req)
	if f.err != nil {
		return nil, f.err
	}
	keys := []string{"products/" + req.ProductID + "/original.jpg", "products/" + req.ProductID + "/catalog.jpg"}
	return NewUploadImagesRes(keys, "http://cdn.test/"+keys[1]), nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys)
}

type fakeVerifier struct {
	tokens map[string]*TokenClaims
}

func (f *fakeVerifier) Verify(token string) (*TokenClaims, error) {
	claims, ok := f.tokens[token]
	if !ok {
		return nil, e.ErrInvalidToken
	}
	return claims, nil
}

type fakeTokenRepo struct {
	revoked map[string]time.Duration
	err     error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{revoked: make(map[string]time.Duration)}
}

func (f *fakeTokenRepo) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeTokenRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

func ptr[T any](v T) *T { return &v }
