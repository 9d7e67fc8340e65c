package models

import "strings"

// OrderStatus is the closed set of states an order can be in.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPacked         OrderStatus = "packed"
	StatusDispatched     OrderStatus = "dispatched"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancel         OrderStatus = "cancel"
)

// AllStatuses lists every valid status in lifecycle order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPacked,
	StatusDispatched,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancel,
}

// ValidStatusList is the human-readable enumeration used in API error messages.
const ValidStatusList = "pending, confirmed, packed, dispatched, out for delivery, delivered, cancel"

// ParseStatus parses a status string from the API boundary. It accepts both
// "out_for_delivery" and "out for delivery" and is case-insensitive; the
// canonical underscored form is what gets stored.
func ParseStatus(s string) (OrderStatus, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	status := OrderStatus(normalized)
	if status.IsValid() {
		return status, true
	}
	return "", false
}

// IsValid reports whether the status is a member of the enumerated domain.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPacked, StatusDispatched,
		StatusOutForDelivery, StatusDelivered, StatusCancel:
		return true
	default:
		return false
	}
}

// IsNotifiable reports whether a customer-facing notification may ever be
// sent for this status.
func (s OrderStatus) IsNotifiable() bool {
	switch s {
	case StatusConfirmed, StatusDispatched, StatusOutForDelivery, StatusDelivered:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}
