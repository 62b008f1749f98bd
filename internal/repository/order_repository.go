package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mesaesabores/orders-api/internal/database"
	"github.com/mesaesabores/orders-api/internal/models"
	apperrors "github.com/mesaesabores/orders-api/pkg/errors"
	"github.com/mesaesabores/orders-api/pkg/logger"
)

// OrderRepository handles local store operations for orders. Orders are
// append-only: there is no delete path, only creation and status mutation.
type OrderRepository struct {
	db     *database.Database
	logger logger.Logger
}

// ListFilter narrows a listing. Zero values mean no filtering.
type ListFilter struct {
	Status string
	// DayStart/DayEnd bound created_at to a calendar day, half-open.
	DayStart time.Time
	DayEnd   time.Time
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *database.Database, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new order in a transaction and assigns its id. The
// insert either commits fully or rolls back; no partial write is visible.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)

	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return apperrors.NewPersistenceError(err.Error())
	}

	query := `
		INSERT INTO orders (customer_name, customer_whatsapp, customer_address, payment_method, items, total_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		order.CustomerName,
		order.CustomerWhatsApp,
		order.CustomerAddress,
		order.PaymentMethod,
		order.Items,
		order.TotalPrice,
		order.Status,
		order.CreatedAt.UTC(),
		order.UpdatedAt.UTC(),
	)

	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to rollback transaction", "error", rbErr)
		}
		r.logger.Error("Failed to create order", "error", err)
		return apperrors.NewPersistenceError(err.Error())
	}

	id, err := result.LastInsertId()

	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to rollback transaction", "error", rbErr)
		}
		return apperrors.NewPersistenceError(err.Error())
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", "error", err)
		return apperrors.NewPersistenceError(err.Error())
	}

	order.ID = id
	return nil
}

// GetByID retrieves an order by its ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_whatsapp, customer_address, payment_method, items, total_price, status, created_at, updated_at
		FROM orders
		WHERE id = ?
	`

	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		r.logger.Error("Failed to get order by ID", "error", err, "orderID", id)
		return nil, apperrors.NewPersistenceError(err.Error())
	}

	return &order, nil
}

// List retrieves orders matching the filter, newest first, without pagination
func (r *OrderRepository) List(ctx context.Context, filter ListFilter) ([]*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_whatsapp, customer_address, payment_method, items, total_price, status, created_at, updated_at
		FROM orders
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	if !filter.DayStart.IsZero() {
		query += " AND created_at >= ? AND created_at < ?"
		args = append(args, filter.DayStart.UTC(), filter.DayEnd.UTC())
	}

	query += " ORDER BY created_at DESC"

	orders := []*models.Order{}
	err := r.db.DB.SelectContext(ctx, &orders, query, args...)

	if err != nil {
		r.logger.Error("Failed to list orders", "error", err, "status", filter.Status)
		return nil, apperrors.NewPersistenceError(err.Error())
	}

	return orders, nil
}

// UpdateStatus sets an order's status and refreshes updated_at
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.DB.ExecContext(ctx, query, status, models.GetCurrentTime(), id)

	if err != nil {
		r.logger.Error("Failed to update order status", "error", err, "orderID", id)
		return nil, apperrors.NewPersistenceError(err.Error())
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return nil, apperrors.NewPersistenceError(err.Error())
	}

	if rowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("order not found")
	}

	return r.GetByID(ctx, id)
}

// Count counts all orders
func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`)

	if err != nil {
		r.logger.Error("Failed to count orders", "error", err)
		return 0, apperrors.NewPersistenceError(err.Error())
	}

	return count, nil
}

// CountByStatus counts orders in the given status
func (r *OrderRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE status = ?`, status)

	if err != nil {
		r.logger.Error("Failed to count orders by status", "error", err, "status", status)
		return 0, apperrors.NewPersistenceError(err.Error())
	}

	return count, nil
}

// CountCreatedBetween counts orders created in the half-open [start, end) range
func (r *OrderRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := r.db.DB.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM orders WHERE created_at >= ? AND created_at < ?`,
		start.UTC(), end.UTC())

	if err != nil {
		r.logger.Error("Failed to count orders by day", "error", err)
		return 0, apperrors.NewPersistenceError(err.Error())
	}

	return count, nil
}
