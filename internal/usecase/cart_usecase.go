package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/cart"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// CartUseCase управляет корзиной сессии: загружает Store из хранилища,
// применяет изменение и сохраняет результат.
type CartUseCase struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	notifier    CartNotifier
	pricing     Pricing
	logger      logger.Logger
}

func NewCartUC(
	cartRepo CartRepository,
	productRepo ProductRepository,
	notifier CartNotifier,
	pricing Pricing,
	logger logger.Logger,
) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		notifier:    notifier,
		pricing:     pricing,
		logger:      logger,
	}
}

// Get возвращает корзину сессии с итогами.
func (c *CartUseCase) Get(ctx context.Context, sessionID string) (*CartView, error) {
	const op = "CartUseCase.Get"

	lines, err := c.Lines(ctx, sessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	view, err := c.view(lines)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// Lines возвращает позиции корзины сессии.
func (c *CartUseCase) Lines(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	const op = "CartUseCase.Lines"

	store, err := c.open(ctx, sessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return store.Lines(), nil
}

// AddItem добавляет товар каталога в корзину, увеличивая количество существующей позиции.
func (c *CartUseCase) AddItem(ctx context.Context, sessionID string, productID string, quantity int) (*CartView, error) {
	const op = "CartUseCase.AddItem"

	if !domain.ValidQuantity(quantity) {
		return nil, e.Wrap(op, e.ErrInvalidQuantity)
	}

	product, err := c.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	return c.mutate(ctx, op, sessionID, func(s *cart.Store) error {
		// позиция превысила бы MaxLineQuantity
		if !s.AddItem(product, quantity) {
			return e.ErrInvalidQuantity
		}
		return nil
	})
}

// UpdateQuantity задаёт количество позиции; n <= 0 удаляет её.
func (c *CartUseCase) UpdateQuantity(ctx context.Context, sessionID string, productID string, quantity int) (*CartView, error) {
	const op = "CartUseCase.UpdateQuantity"

	if quantity > domain.MaxLineQuantity {
		return nil, e.Wrap(op, e.ErrInvalidQuantity)
	}

	return c.mutate(ctx, op, sessionID, func(s *cart.Store) error {
		s.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (c *CartUseCase) RemoveItem(ctx context.Context, sessionID string, productID string) (*CartView, error) {
	const op = "CartUseCase.RemoveItem"

	return c.mutate(ctx, op, sessionID, func(s *cart.Store) error {
		s.RemoveItem(productID)
		return nil
	})
}

// Clear очищает корзину сессии.
func (c *CartUseCase) Clear(ctx context.Context, sessionID string) error {
	const op = "CartUseCase.Clear"

	_, err := c.mutate(ctx, op, sessionID, func(s *cart.Store) error {
		s.Clear()
		return nil
	})

	return err
}

// open загружает Store сессии из хранилища.
func (c *CartUseCase) open(ctx context.Context, sessionID string) (*cart.Store, error) {
	lines, err := c.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return cart.NewStore(lines), nil
}

// mutate применяет fn к корзине и сохраняет её, только если состояние изменилось.
// Подписчики сессии уведомляются после успешного сохранения.
func (c *CartUseCase) mutate(ctx context.Context, op string, sessionID string, fn func(s *cart.Store) error) (*CartView, error) {
	store, err := c.open(ctx, sessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		changed bool
		saved   []domain.CartLine
	)
	unsubscribe := store.Subscribe(func(lines []domain.CartLine) {
		changed = true
		saved = lines
	})
	err = fn(store)
	unsubscribe()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !changed {
		return c.viewOrErr(op, store.Lines())
	}

	if len(saved) == 0 {
		err = c.cartRepo.Delete(ctx, sessionID)
	} else {
		err = c.cartRepo.Save(ctx, sessionID, saved)
	}
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Debugf("cart updated. session: %s, lines: %d", sessionID, len(saved))
	if c.notifier != nil {
		c.notifier.Publish(sessionID, cart.TotalQuantity(saved))
	}

	return c.viewOrErr(op, saved)
}

func (c *CartUseCase) viewOrErr(op string, lines []domain.CartLine) (*CartView, error) {
	view, err := c.view(lines)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return view, nil
}

func (c *CartUseCase) view(lines []domain.CartLine) (*CartView, error) {
	totals, err := c.pricing.Totals(lines)
	if err != nil {
		return nil, err
	}

	return &CartView{
		Lines:         lines,
		TotalQuantity: cart.TotalQuantity(lines),
		Totals:        totals,
	}, nil
}
