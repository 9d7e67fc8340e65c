package models

import "time"

// Event types
const (
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeTrackingUpdated    = "ORDER_TRACKING_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent is published when an order reaches a notifiable
// status, or when tracking is attached to a notifiable order for the first
// time (the tracking payload rides along in that case).
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID        int64       `json:"order_id"`
	CustomerName   string      `json:"customer_name"`
	CustomerEmail  string      `json:"customer_email"`
	PreviousStatus OrderStatus `json:"previous_status"`
	NewStatus      OrderStatus `json:"new_status"`
	TrackingURL    string      `json:"tracking_url,omitempty"`
	TrackingID     string      `json:"tracking_id,omitempty"`
	Total          int64       `json:"total"`
	Currency       string      `json:"currency"`
}

// TrackingUpdatedEvent is published when tracking that already existed on an
// order is changed again, so the customer gets a correction rather than a
// second full status announcement.
type TrackingUpdatedEvent struct {
	BaseEvent
	OrderID       int64       `json:"order_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Status        OrderStatus `json:"status"`
	TrackingURL   string      `json:"tracking_url,omitempty"`
	TrackingID    string      `json:"tracking_id,omitempty"`
}
