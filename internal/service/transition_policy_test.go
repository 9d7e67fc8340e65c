package service

import (
	"fmt"
	"testing"

	"storefront-orders/internal/models"

	"github.com/stretchr/testify/assert"
)

type statusPair struct {
	previous models.OrderStatus
	next     models.OrderStatus
}

// The pairs with a stock effect, enumerated explicitly: reduce when leaving
// pending or cancel for a committed status, restore when a committed status
// falls back to pending or cancel. Everything else is a no-op.
var (
	reducePairs = []statusPair{
		{models.StatusPending, models.StatusConfirmed},
		{models.StatusPending, models.StatusPacked},
		{models.StatusPending, models.StatusDispatched},
		{models.StatusPending, models.StatusOutForDelivery},
		{models.StatusPending, models.StatusDelivered},
		{models.StatusCancel, models.StatusConfirmed},
		{models.StatusCancel, models.StatusPacked},
		{models.StatusCancel, models.StatusDispatched},
		{models.StatusCancel, models.StatusOutForDelivery},
		{models.StatusCancel, models.StatusDelivered},
	}
	restorePairs = []statusPair{
		{models.StatusConfirmed, models.StatusPending},
		{models.StatusPacked, models.StatusPending},
		{models.StatusDispatched, models.StatusPending},
		{models.StatusOutForDelivery, models.StatusPending},
		{models.StatusDelivered, models.StatusPending},
		{models.StatusConfirmed, models.StatusCancel},
		{models.StatusPacked, models.StatusCancel},
		{models.StatusDispatched, models.StatusCancel},
		{models.StatusOutForDelivery, models.StatusCancel},
		{models.StatusDelivered, models.StatusCancel},
	}
)

func expectedAction(p statusPair) StockAction {
	for _, r := range reducePairs {
		if r == p {
			return StockActionReduce
		}
	}
	for _, r := range restorePairs {
		if r == p {
			return StockActionRestore
		}
	}
	return StockActionNone
}

func TestDecideStockActionAllPairs(t *testing.T) {
	count := 0
	for _, prev := range models.AllStatuses {
		for _, next := range models.AllStatuses {
			pair := statusPair{prev, next}
			t.Run(fmt.Sprintf("%s_to_%s", prev, next), func(t *testing.T) {
				assert.Equal(t, expectedAction(pair), DecideStockAction(prev, next))
			})
			count++
		}
	}
	assert.Equal(t, 49, count)
}

func TestDecideStockActionSelfTransitionIsNoop(t *testing.T) {
	for _, s := range models.AllStatuses {
		assert.Equal(t, StockActionNone, DecideStockAction(s, s),
			"self transition for %s must be a no-op", s)
	}
}

func TestDecideStockActionPendingCancelPair(t *testing.T) {
	// Neither pending nor cancel has committed stock, so flipping between
	// them moves nothing in either direction.
	assert.Equal(t, StockActionNone, DecideStockAction(models.StatusPending, models.StatusCancel))
	assert.Equal(t, StockActionNone, DecideStockAction(models.StatusCancel, models.StatusPending))
}

func TestDecideStockActionCommittedToCommitted(t *testing.T) {
	assert.Equal(t, StockActionNone, DecideStockAction(models.StatusConfirmed, models.StatusPacked))
	assert.Equal(t, StockActionNone, DecideStockAction(models.StatusDispatched, models.StatusDelivered))
	assert.Equal(t, StockActionNone, DecideStockAction(models.StatusDelivered, models.StatusPacked))
}
