package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  OrderStatus
		ok    bool
	}{
		{"pending", StatusPending, true},
		{"confirmed", StatusConfirmed, true},
		{"packed", StatusPacked, true},
		{"dispatched", StatusDispatched, true},
		{"out_for_delivery", StatusOutForDelivery, true},
		{"out for delivery", StatusOutForDelivery, true},
		{"delivered", StatusDelivered, true},
		{"cancel", StatusCancel, true},
		{"Confirmed", StatusConfirmed, true},
		{" delivered ", StatusDelivered, true},
		{"shipped", "", false},
		{"cancelled", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestIsNotifiable(t *testing.T) {
	notifiable := map[OrderStatus]bool{
		StatusConfirmed:      true,
		StatusDispatched:     true,
		StatusOutForDelivery: true,
		StatusDelivered:      true,
	}

	for _, s := range AllStatuses {
		assert.Equal(t, notifiable[s], s.IsNotifiable(), "status %s", s)
	}
}

func TestResolveStockTargetVariantPrecedence(t *testing.T) {
	item := OrderItem{ProductID: 9}
	assert.Equal(t, StockTarget{Kind: StockTargetProduct, ID: 9}, ResolveStockTarget(item))

	item.VariantID.Int64 = 4
	item.VariantID.Valid = true
	assert.Equal(t, StockTarget{Kind: StockTargetVariant, ID: 4}, ResolveStockTarget(item))
}
