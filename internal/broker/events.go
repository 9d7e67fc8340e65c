package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-orders/internal/models"
	"storefront-orders/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing notification events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishStatusChanged publishes an OrderStatusChanged event
func (ep *EventPublisher) PublishStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishTrackingUpdated publishes a TrackingUpdated event
func (ep *EventPublisher) PublishTrackingUpdated(ctx context.Context, event *models.TrackingUpdatedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming notification events
type EventHandler struct {
	onStatusChanged   func(context.Context, *models.OrderStatusChangedEvent) error
	onTrackingUpdated func(context.Context, *models.TrackingUpdatedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnStatusChanged registers a handler for OrderStatusChanged events
func (eh *EventHandler) OnStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onStatusChanged = handler
}

// OnTrackingUpdated registers a handler for TrackingUpdated events
func (eh *EventHandler) OnTrackingUpdated(handler func(context.Context, *models.TrackingUpdatedEvent) error) {
	eh.onTrackingUpdated = handler
}

// HandleMessage routes messages to the appropriate handler by event type
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderStatusChanged:
		if eh.onStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
			}
			return eh.onStatusChanged(ctx, &event)
		}

	case models.EventTypeTrackingUpdated:
		if eh.onTrackingUpdated != nil {
			var event models.TrackingUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal TrackingUpdated event: %w", err)
			}
			return eh.onTrackingUpdated(ctx, &event)
		}

	default:
		util.GetLogger().Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
