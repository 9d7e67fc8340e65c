package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-orders/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var (
	// ErrOrderNotFound is returned when an order id does not resolve.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStockNotFound is returned when an item references a stock record
	// that does not exist.
	ErrStockNotFound = errors.New("stock record not found")
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// WithTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// AdjustStock applies a signed delta to the stock record named by target,
// clamped at a floor of zero, and returns the resulting quantity. Runs inside
// the caller's transaction so the adjustment commits or rolls back with the
// order's status change.
func (s *Store) AdjustStock(ctx context.Context, tx *sqlx.Tx, target models.StockTarget, delta int) (int, error) {
	var table string
	switch target.Kind {
	case models.StockTargetVariant:
		table = "product_variants"
	case models.StockTargetProduct:
		table = "products"
	default:
		return 0, fmt.Errorf("unknown stock target kind: %s", target.Kind)
	}

	query := fmt.Sprintf(
		"UPDATE %s SET stock_quantity = GREATEST(0, stock_quantity + $1), updated_at = NOW() WHERE id = $2 RETURNING stock_quantity",
		table)

	var quantity int
	err := tx.GetContext(ctx, &quantity, query, delta, target.ID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s %d", ErrStockNotFound, target.Kind, target.ID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock for %s %d: %w", target.Kind, target.ID, err)
	}
	return quantity, nil
}

// GetStockQuantity reads the current stock quantity for a target.
func (s *Store) GetStockQuantity(ctx context.Context, target models.StockTarget) (int, error) {
	var table string
	switch target.Kind {
	case models.StockTargetVariant:
		table = "product_variants"
	case models.StockTargetProduct:
		table = "products"
	default:
		return 0, fmt.Errorf("unknown stock target kind: %s", target.Kind)
	}

	var quantity int
	err := s.db.GetContext(ctx, &quantity,
		fmt.Sprintf("SELECT stock_quantity FROM %s WHERE id = $1", table), target.ID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s %d", ErrStockNotFound, target.Kind, target.ID)
	}
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

// GetProducts retrieves all products
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetVariants retrieves all product variants
func (s *Store) GetVariants(ctx context.Context) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := s.db.SelectContext(ctx, &variants, "SELECT * FROM product_variants ORDER BY id")
	return variants, err
}
