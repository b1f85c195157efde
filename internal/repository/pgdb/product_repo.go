package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const (
	productColumns = `id, name, price, category, image, description, featured, sale_price, discount_percentage, created_at, updated_at`

	salePriceConstraint = "products_sale_price_not_above_price"
)

// querier — общее подмножество pgxpool.Pool и pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// db возвращает транзакцию из контекста, если она открыта, иначе пул.
func (p *ProductRepo) db(ctx context.Context) querier {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}
	return p.pool
}

// List возвращает все товары, новые первыми.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := p.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.collect(rows)
}

func (p *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, e.ErrProductNotFound
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	model, err := scanProduct(p.db(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// GetByIDs возвращает найденные товары; отсутствующие id пропускаются.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`

	rows, err := p.db(ctx).Query(ctx, query, valid)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.collect(rows)
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m := p.conv.ToModel(product)

	// VALUES ($1..$10) id, name, price, category, image, description, featured, sale_price, discount_percentage, created_at
	query := `
		INSERT INTO products (id, name, price, category, image, description, featured, sale_price, discount_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + productColumns

	model, err := scanProduct(p.db(ctx).QueryRow(ctx, query,
		m.ID, m.Name, m.Price, m.Category, m.Image, m.Description,
		m.Featured, m.SalePrice, m.DiscountPercentage, m.CreatedAt,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapConstraint(err))
	}

	return p.conv.ToEntity(model), nil
}

// Update меняет только поля патча. Последняя запись выигрывает.
func (p *ProductRepo) Update(ctx context.Context, id string, patch *domain.ProductPatch) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, e.ErrProductNotFound
	}

	sets, args := buildProductPatch(patch)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns)

	model, err := scanProduct(p.db(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), mapConstraint(err))
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return e.ErrProductNotFound
	}

	result, err := p.db(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

func (p *ProductRepo) collect(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// mapConstraint переводит нарушение ограничения цены со скидкой в ошибку валидации.
// Так отсекается запись, проверенная по устаревшей цене.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" && pgErr.ConstraintName == salePriceConstraint {
		return e.ErrSalePriceAbovePrice
	}
	return err
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var m converter.ProductModel
	err := row.Scan(
		&m.ID, &m.Name, &m.Price, &m.Category, &m.Image, &m.Description,
		&m.Featured, &m.SalePrice, &m.DiscountPercentage, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// buildProductPatch формирует SET-часть запроса и аргументы по непустым полям патча.
func buildProductPatch(patch *domain.ProductPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Featured != nil {
		add("featured", *patch.Featured)
	}
	if patch.ClearSalePrice {
		sets = append(sets, "sale_price = NULL")
	} else if patch.SalePrice != nil {
		add("sale_price", *patch.SalePrice)
	}
	if patch.ClearDiscount {
		sets = append(sets, "discount_percentage = NULL")
	} else if patch.DiscountPercentage != nil {
		add("discount_percentage", int32(*patch.DiscountPercentage))
	}

	sets = append(sets, "updated_at = NOW()")

	return sets, args
}
