package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaesabores/orders-api/internal/config"
	"github.com/mesaesabores/orders-api/internal/database"
	"github.com/mesaesabores/orders-api/internal/models"
	apperrors "github.com/mesaesabores/orders-api/pkg/errors"
	"github.com/mesaesabores/orders-api/pkg/logger"
)

func newTestRepo(t *testing.T) *OrderRepository {
	t.Helper()

	cfg := &config.Config{DB: config.DBConfig{Path: filepath.Join(t.TempDir(), "orders.db")}}
	log := logger.NewLogger("error")

	db, err := database.New(cfg, log)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	t.Cleanup(func() { db.Close() })

	return NewOrderRepository(db, log)
}

func newTestOrder() *models.Order {
	return models.NewOrder("Ana", "5511999999999", "Rua A, 10", models.PaymentPix,
		models.OrderItems{{Name: "Pizza", Quantity: 1, Price: 30.0}}, 30.0)
}

func TestCreateAssignsID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := newTestOrder()
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	second := newTestOrder()
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, int64(2), second.ID)
}

func TestCreateAndGetRoundTripsItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := newTestOrder()
	order.Items = models.OrderItems{
		{Name: "Pizza", Quantity: 1, Price: 30.0},
		{Name: "Suco", Quantity: 3, Price: 8.9},
	}
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Items, got.Items)
	assert.Equal(t, models.StatusReceived, got.Status)
	assert.Equal(t, order.CustomerName, got.CustomerName)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := newTestOrder()
	older.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	older.UpdatedAt = older.CreatedAt
	require.NoError(t, repo.Create(ctx, older))

	newer := newTestOrder()
	require.NoError(t, repo.Create(ctx, newer))

	orders, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestListStatusFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, repo.Create(ctx, order))

	paid := newTestOrder()
	require.NoError(t, repo.Create(ctx, paid))
	_, err := repo.UpdateStatus(ctx, paid.ID, models.StatusPaid)
	require.NoError(t, err)

	orders, err := repo.List(ctx, ListFilter{Status: models.StatusPaid})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, paid.ID, orders[0].ID)

	orders, err = repo.List(ctx, ListFilter{Status: "bogus"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListDayFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	yesterday := newTestOrder()
	yesterday.CreatedAt = time.Now().UTC().AddDate(0, 0, -1)
	yesterday.UpdatedAt = yesterday.CreatedAt
	require.NoError(t, repo.Create(ctx, yesterday))

	today := newTestOrder()
	require.NoError(t, repo.Create(ctx, today))

	start, end := models.DayBounds(time.Now())
	orders, err := repo.List(ctx, ListFilter{DayStart: start, DayEnd: end})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, today.ID, orders[0].ID)
}

func TestUpdateStatusRefreshesUpdatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := newTestOrder()
	order.CreatedAt = time.Now().UTC().Add(-time.Hour)
	order.UpdatedAt = order.CreatedAt
	require.NoError(t, repo.Create(ctx, order))

	updated, err := repo.UpdateStatus(ctx, order.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestUpdateStatusIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, repo.Create(ctx, order))

	first, err := repo.UpdateStatus(ctx, order.ID, models.StatusPreparing)
	require.NoError(t, err)

	second, err := repo.UpdateStatus(ctx, order.ID, models.StatusPreparing)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.UpdateStatus(context.Background(), 123, models.StatusPaid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newTestOrder()))
	}
	_, err := repo.UpdateStatus(ctx, 1, models.StatusDelivered)
	require.NoError(t, err)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	received, err := repo.CountByStatus(ctx, models.StatusReceived)
	require.NoError(t, err)
	assert.Equal(t, 2, received)

	delivered, err := repo.CountByStatus(ctx, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	start, end := models.DayBounds(time.Now())
	todayCount, err := repo.CountCreatedBetween(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, todayCount)
}
