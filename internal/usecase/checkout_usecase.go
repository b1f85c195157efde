package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/cart"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
)

// CartService даёт доступ к корзине сессии, из которой оформляется заказ.
type CartService interface {
	Lines(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Clear(ctx context.Context, sessionID string) error
}

// CheckoutUseCase оформляет заказ из корзины сессии.
type CheckoutUseCase struct {
	carts       CartService
	productRepo ProductRepository
	orderRepo   OrderRepository
	outboxRepo  OutboxRepository
	txManager   TxManager
	pricing     Pricing
	logger      logger.Logger
}

func NewCheckoutUC(
	carts CartService,
	productRepo ProductRepository,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	pricing Pricing,
	logger logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		carts:       carts,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
		pricing:     pricing,
		logger:      logger,
	}
}

// Quote возвращает позиции корзины и итоги для сводки заказа.
func (c *CheckoutUseCase) Quote(ctx context.Context, sessionID string) (*CartView, error) {
	const op = "CheckoutUseCase.Quote"

	lines, err := c.carts.Lines(ctx, sessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	totals, err := c.pricing.Totals(lines)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &CartView{Lines: lines, TotalQuantity: cart.TotalQuantity(lines), Totals: totals}, nil
}

// PlaceOrder проверяет форму, пересчитывает цены по каталогу и сохраняет заказ
// вместе с событием order.placed в одной транзакции. После успеха корзина очищается,
// при ошибке остаётся нетронутой.
func (c *CheckoutUseCase) PlaceOrder(ctx context.Context, req *PlaceOrderReq) (*domain.Order, error) {
	const op = "CheckoutUseCase.PlaceOrder"

	if req.Identity == nil {
		return nil, e.Wrap(op, e.ErrAuthRequired)
	}

	lines, err := c.carts.Lines(ctx, req.SessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(lines) == 0 {
		return nil, e.Wrap(op, e.ErrCartEmpty)
	}

	address := req.Address
	if missing := address.MissingFields(); len(missing) > 0 {
		return nil, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrMissingShippingFields, strings.Join(missing, ", ")))
	}
	if address.Country == "" {
		address.Country = domain.DefaultCountry
	}
	if !address.Country.Valid() {
		return nil, e.Wrap(op, e.ErrUnsupportedCountry)
	}

	lines, err = c.reprice(ctx, lines)
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = req.Identity.Email
	}

	totals, err := c.pricing.Totals(lines)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	order := domain.NewOrder(req.Identity.UserID, email, address, lines, totals)
	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()

	var created *domain.Order
	err = c.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.orderRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		event, err := NewOrderPlacedEvent(created)
		if err != nil {
			return err
		}

		_, err = c.outboxRepo.Create(ctx, event)
		return err
	})
	if err != nil {
		return nil, gatewayErr(op, err)
	}

	// Заказ уже сохранён: ошибка очистки корзины не отменяет его
	if err := c.carts.Clear(ctx, req.SessionID); err != nil {
		c.logger.Warnf("Failed to clear cart after checkout. session: %s, order: %s, error: %v", req.SessionID, created.ID, e.Wrap(op, err))
	}

	c.logger.Infof("order placed. id: %s, user: %s, total: %d", created.ID, created.UserID, created.Totals.Total)

	return created, nil
}

// reprice подставляет в позиции текущие цены и название товара из каталога.
func (c *CheckoutUseCase) reprice(ctx context.Context, lines []domain.CartLine) ([]domain.CartLine, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	products, err := c.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", e.ErrProductUnavailable, l.ProductID)
		}

		out = append(out, domain.NewCartLine(&p, l.Quantity))
	}

	return out, nil
}
