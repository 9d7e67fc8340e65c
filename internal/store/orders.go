package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-orders/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUpdate loads an order under a row-level lock. Two concurrent
// transitions for the same order id queue here, so the second always sees the
// first one's committed status.
func (s *Store) GetOrderForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Order, error) {
	var order models.Order
	err := tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock order %d: %w", id, err)
	}
	return &order, nil
}

// GetOrderItems retrieves all items for an order within a transaction.
func (s *Store) GetOrderItems(ctx context.Context, tx *sqlx.Tx, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := tx.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// GetOrderItemsByOrderID retrieves all items for an order outside a transaction.
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// ApplyTransition persists a new status and any supplied tracking fields.
// Tracking writes are additive: an empty new value never erases a previously
// stored one. Returns the updated order row.
func (s *Store) ApplyTransition(ctx context.Context, tx *sqlx.Tx, orderID int64, status models.OrderStatus, trackingURL, trackingID string) (*models.Order, error) {
	query := `
		UPDATE orders
		SET status = $1,
		    tracking_url = COALESCE(NULLIF($2, ''), tracking_url),
		    tracking_id = COALESCE(NULLIF($3, ''), tracking_id),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING *`

	var order models.Order
	err := tx.GetContext(ctx, &order, query, status, trackingURL, trackingID, orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist transition for order %d: %w", orderID, err)
	}
	return &order, nil
}
