package service

import (
	"context"

	"storefront-orders/internal/models"
	"storefront-orders/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// StockStore persists stock quantities for variants and products.
type StockStore interface {
	AdjustStock(ctx context.Context, tx *sqlx.Tx, target models.StockTarget, delta int) (int, error)
}

// AppliedAdjustment records a stock delta that was actually written, so the
// caller can mirror it into the read-side cache after commit.
type AppliedAdjustment struct {
	Target models.StockTarget
	Delta  int
}

// InventoryAdjuster applies stock deltas for an order's line items.
type InventoryAdjuster struct {
	stock  StockStore
	logger *zap.Logger
}

// NewInventoryAdjuster creates a new inventory adjuster
func NewInventoryAdjuster(stock StockStore) *InventoryAdjuster {
	return &InventoryAdjuster{
		stock:  stock,
		logger: util.GetLogger(),
	}
}

// Apply adjusts stock for every item by quantity x (-1 for reduce, +1 for
// restore), variant record preferred over product record, floored at zero.
// A failure on one item is logged and skipped; it never aborts the remaining
// items. Callers must skip the call entirely when the policy says none.
func (a *InventoryAdjuster) Apply(ctx context.Context, tx *sqlx.Tx, action StockAction, items []models.OrderItem) []AppliedAdjustment {
	ctx, span := util.StartSpan(ctx, "InventoryAdjuster.Apply")
	defer span.End()

	sign := 1
	if action == StockActionReduce {
		sign = -1
	}

	applied := make([]AppliedAdjustment, 0, len(items))
	for _, item := range items {
		target := models.ResolveStockTarget(item)
		delta := sign * item.Quantity

		newQuantity, err := a.stock.AdjustStock(ctx, tx, target, delta)
		if err != nil {
			util.StockAdjustmentFailuresTotal.Inc()
			a.logger.Error("Failed to adjust stock for order item",
				zap.Int64("order_id", item.OrderID),
				zap.Int64("item_id", item.ID),
				zap.String("target_kind", string(target.Kind)),
				zap.Int64("target_id", target.ID),
				zap.Int("delta", delta),
				zap.Error(err))
			continue
		}

		util.StockAdjustmentsTotal.WithLabelValues(string(action)).Inc()
		a.logger.Info("Stock adjusted",
			zap.Int64("order_id", item.OrderID),
			zap.String("target_kind", string(target.Kind)),
			zap.Int64("target_id", target.ID),
			zap.Int("delta", delta),
			zap.Int("stock_quantity", newQuantity))

		applied = append(applied, AppliedAdjustment{Target: target, Delta: delta})
	}

	return applied
}
