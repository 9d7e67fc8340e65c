package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"storefront-orders/internal/models"
	"storefront-orders/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStockStore keeps quantities in memory with the same zero floor the SQL
// store applies.
type fakeStockStore struct {
	stocks  map[models.StockTarget]int
	missing map[models.StockTarget]bool
}

func newFakeStockStore() *fakeStockStore {
	return &fakeStockStore{
		stocks:  make(map[models.StockTarget]int),
		missing: make(map[models.StockTarget]bool),
	}
}

func (f *fakeStockStore) AdjustStock(_ context.Context, _ *sqlx.Tx, target models.StockTarget, delta int) (int, error) {
	if f.missing[target] {
		return 0, fmt.Errorf("%w: %s %d", store.ErrStockNotFound, target.Kind, target.ID)
	}
	quantity := f.stocks[target] + delta
	if quantity < 0 {
		quantity = 0
	}
	f.stocks[target] = quantity
	return quantity, nil
}

func variantTarget(id int64) models.StockTarget {
	return models.StockTarget{Kind: models.StockTargetVariant, ID: id}
}

func productTarget(id int64) models.StockTarget {
	return models.StockTarget{Kind: models.StockTargetProduct, ID: id}
}

func variantItem(orderID, variantID int64, quantity int) models.OrderItem {
	return models.OrderItem{
		OrderID:   orderID,
		ProductID: 99,
		VariantID: sql.NullInt64{Int64: variantID, Valid: true},
		Quantity:  quantity,
	}
}

func productItem(orderID, productID int64, quantity int) models.OrderItem {
	return models.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	}
}

func TestApplyReduceAndRestoreRoundTrip(t *testing.T) {
	stocks := newFakeStockStore()
	stocks.stocks[variantTarget(1)] = 10
	adjuster := NewInventoryAdjuster(stocks)

	items := []models.OrderItem{variantItem(1, 1, 2)}

	applied := adjuster.Apply(context.Background(), nil, StockActionReduce, items)
	require.Len(t, applied, 1)
	assert.Equal(t, 8, stocks.stocks[variantTarget(1)])
	assert.Equal(t, -2, applied[0].Delta)

	applied = adjuster.Apply(context.Background(), nil, StockActionRestore, items)
	require.Len(t, applied, 1)
	assert.Equal(t, 10, stocks.stocks[variantTarget(1)])
	assert.Equal(t, 2, applied[0].Delta)
}

func TestApplyClampsAtZero(t *testing.T) {
	stocks := newFakeStockStore()
	stocks.stocks[productTarget(7)] = 1
	adjuster := NewInventoryAdjuster(stocks)

	items := []models.OrderItem{productItem(1, 7, 5)}

	adjuster.Apply(context.Background(), nil, StockActionReduce, items)
	assert.Equal(t, 0, stocks.stocks[productTarget(7)], "stock must never go negative")

	adjuster.Apply(context.Background(), nil, StockActionReduce, items)
	assert.Equal(t, 0, stocks.stocks[productTarget(7)])
}

func TestApplyVariantTakesPrecedenceOverProduct(t *testing.T) {
	stocks := newFakeStockStore()
	stocks.stocks[variantTarget(3)] = 5
	stocks.stocks[productTarget(99)] = 5
	adjuster := NewInventoryAdjuster(stocks)

	items := []models.OrderItem{variantItem(1, 3, 1)}

	adjuster.Apply(context.Background(), nil, StockActionReduce, items)
	assert.Equal(t, 4, stocks.stocks[variantTarget(3)])
	assert.Equal(t, 5, stocks.stocks[productTarget(99)], "product-level stock must be untouched when a variant exists")
}

func TestApplySkipsFailedItemAndContinues(t *testing.T) {
	stocks := newFakeStockStore()
	stocks.stocks[variantTarget(1)] = 10
	stocks.stocks[variantTarget(3)] = 10
	stocks.missing[variantTarget(2)] = true
	adjuster := NewInventoryAdjuster(stocks)

	items := []models.OrderItem{
		variantItem(1, 1, 1),
		variantItem(1, 2, 1),
		variantItem(1, 3, 1),
	}

	applied := adjuster.Apply(context.Background(), nil, StockActionReduce, items)

	require.Len(t, applied, 2, "failure on one item must not abort the rest")
	assert.Equal(t, 9, stocks.stocks[variantTarget(1)])
	assert.Equal(t, 9, stocks.stocks[variantTarget(3)])
}
