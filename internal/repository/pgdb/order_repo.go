package pgdb

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// OrderRepo сохраняет заказы. Запись выполняется только внутри транзакции из контекста.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := o.conv.ToModel(order)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO orders (
			id, user_id, email, full_name, phone, address_line1, address_line2,
			city, postal_code, country, items, subtotal, shipping_cost,
			tax_amount, total_amount, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.ID,
		model.UserID,
		model.Email,
		model.FullName,
		model.Phone,
		model.AddressLine1,
		model.AddressLine2,
		model.City,
		model.PostalCode,
		model.Country,
		string(model.Items),
		model.Subtotal,
		model.ShippingCost,
		model.TaxAmount,
		model.TotalAmount,
		model.Status,
		model.CreatedAt,
	).Scan(&model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model)
}
