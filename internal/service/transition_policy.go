package service

import "storefront-orders/internal/models"

// StockAction is the inventory effect implied by a status transition.
type StockAction string

const (
	StockActionReduce  StockAction = "reduce"
	StockActionRestore StockAction = "restore"
	StockActionNone    StockAction = "none"
)

// DecideStockAction maps a (previous, next) status pair to the stock action
// it implies. Stock leaves inventory once an order moves past pending, and
// returns when a committed order reverts to pending or is cancelled. The
// pending<->cancel pair is a no-op in both directions: neither state has
// committed stock.
func DecideStockAction(previous, next models.OrderStatus) StockAction {
	committed := func(s models.OrderStatus) bool {
		return s != models.StatusPending && s != models.StatusCancel
	}

	switch {
	case previous == models.StatusPending && committed(next):
		return StockActionReduce
	case next == models.StatusPending && committed(previous):
		return StockActionRestore
	case next == models.StatusCancel && committed(previous):
		return StockActionRestore
	case previous == models.StatusCancel && committed(next):
		return StockActionReduce
	default:
		return StockActionNone
	}
}
