//go:build integration

package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/postgres"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *postgres.PgDatabase {
	t.Helper()
	ctx := context.Background()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "storefront",
				"POSTGRES_PASSWORD": "storefront",
				"POSTGRES_DB":       "storefront",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := postgres.Connect(&cfg.PGDBCfg{
		Host:           host,
		Port:           port.Port(),
		User:           "storefront",
		Password:       "storefront",
		DBName:         "storefront",
		SSLMode:        "disable",
		MigrationsPath: "file://../../../db/migrations",
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.RunMigrations(logger.Nop()))

	return db
}

func TestProductRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	db := setupPostgres(t)
	repo := NewProductRepo(db.Pool, converter.ProductConverterImpl{})
	ctx := context.Background()

	older := domain.NewProduct("Core Tee", 5000, domain.CategoryTShirts)
	older.ID = uuid.NewString()
	older.CreatedAt = time.Now().Add(-time.Hour).UTC()
	newer := domain.NewProduct("Summit Jacket", 10000, domain.CategoryJackets)
	newer.ID = uuid.NewString()
	newer.CreatedAt = time.Now().UTC()

	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	sale := int64(8000)
	updated, err := repo.Update(ctx, newer.ID, &domain.ProductPatch{SalePrice: &sale})
	require.NoError(t, err)
	assert.Equal(t, int64(8000), domain.NewCartLine(updated, 1).UnitPrice())
	assert.NotNil(t, updated.UpdatedAt)

	found, err := repo.GetByIDs(ctx, []string{newer.ID, "not-a-uuid", uuid.NewString()})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, older.ID))
	_, err = repo.GetByID(ctx, older.ID)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), e.ErrProductNotFound)
}

func TestProductRepo_SalePriceConstraintAndTx_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	db := setupPostgres(t)
	repo := NewProductRepo(db.Pool, converter.ProductConverterImpl{})
	manager := tr.NewManager(db.Pool)
	ctx := context.Background()

	sale := int64(80)
	product := domain.NewProduct("Core Tee", 100, domain.CategoryTShirts)
	product.ID = uuid.NewString()
	product.SalePrice = &sale
	product.CreatedAt = time.Now().UTC()
	_, err := repo.Create(ctx, product)
	require.NoError(t, err)

	// цена ниже уже сохранённой цены со скидкой
	price := int64(50)
	_, err = repo.Update(ctx, product.ID, &domain.ProductPatch{Price: &price})
	assert.ErrorIs(t, err, e.ErrSalePriceAbovePrice)

	// откат транзакции отменяет изменения, сделанные через репозиторий
	name := "Renamed Tee"
	err = manager.Do(ctx, func(ctx context.Context) error {
		if _, err := repo.Update(ctx, product.ID, &domain.ProductPatch{Name: &name}); err != nil {
			return err
		}
		return errors.New("rollback")
	})
	require.Error(t, err)

	stored, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Core Tee", stored.Name)
	assert.Equal(t, int64(100), stored.Price)
}

func TestSalePriceMigration_ClearsInvalidRows_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	db := setupPostgres(t)
	ctx := context.Background()

	sqlDb, err := sql.Open("pgx", db.Dsn)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDb.Close() })
	driver, err := migratepg.WithInstance(sqlDb, &migratepg.Config{})
	require.NoError(t, err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../db/migrations", "postgres", driver)
	require.NoError(t, err)

	// схема до ограничения sale_price <= price
	require.NoError(t, m.Migrate(1))

	bad, good := uuid.NewString(), uuid.NewString()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO products (id, name, price, category, sale_price)
		VALUES ($1, 'Broken Tee', 100, 'TSHIRTS', 500), ($2, 'Core Tee', 100, 'TSHIRTS', 80)
	`, bad, good)
	require.NoError(t, err)

	require.NoError(t, m.Up())

	repo := NewProductRepo(db.Pool, converter.ProductConverterImpl{})
	stored, err := repo.GetByID(ctx, bad)
	require.NoError(t, err)
	assert.Nil(t, stored.SalePrice)

	stored, err = repo.GetByID(ctx, good)
	require.NoError(t, err)
	require.NotNil(t, stored.SalePrice)
	assert.Equal(t, int64(80), *stored.SalePrice)
}

func TestOrderWithOutbox_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	db := setupPostgres(t)
	orders := NewOrderRepo(db.Pool, converter.OrderConverterImpl{})
	outbox := NewOutboxEventRepo(db.Pool, converter.OutboxEventConverterImpl{})
	manager := tr.NewManager(db.Pool)
	ctx := context.Background()

	order := domain.NewOrder("u1", "ada@example.com", domain.ShippingAddress{
		FullName: "Ada", AddressLine1: "1 Road", City: "London", PostalCode: "N1", Country: domain.CountryUK,
	}, []domain.CartLine{{ProductID: uuid.NewString(), Name: "Tee", Price: 1000, Quantity: 1}},
		domain.OrderTotals{Subtotal: 1000, Shipping: 1200, Tax: 200, Total: 2400})
	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()

	err := manager.Do(ctx, func(ctx context.Context) error {
		created, err := orders.Create(ctx, order)
		if err != nil {
			return err
		}
		event, err := usecase.NewOrderPlacedEvent(created)
		if err != nil {
			return err
		}
		_, err = outbox.Create(ctx, event)
		return err
	})
	require.NoError(t, err)

	events, err := outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, order.ID, events[0].AggregateID)
	assert.Equal(t, usecase.Processing, events[0].Status)

	require.NoError(t, outbox.MarkAsProcessed(ctx, events[0].ID))

	again, err := outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	_, err = orders.Create(ctx, order)
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}
