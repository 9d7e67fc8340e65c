package service

import (
	"context"
	"time"

	"storefront-orders/internal/models"
	"storefront-orders/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationPublisher hands notification events to the delivery queue.
type NotificationPublisher interface {
	PublishStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishTrackingUpdated(ctx context.Context, event *models.TrackingUpdatedEvent) error
}

// NotificationDispatcher decides whether a transition warrants a customer
// notification and which of the two shapes to emit. Dispatch is best-effort:
// publish failures are logged and swallowed, never surfaced to the caller.
type NotificationDispatcher struct {
	publisher NotificationPublisher
	logger    *zap.Logger
}

// NewNotificationDispatcher creates a new notification dispatcher
func NewNotificationDispatcher(publisher NotificationPublisher) *NotificationDispatcher {
	return &NotificationDispatcher{
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// MaybeNotify inspects an already-persisted transition. order carries the
// post-transition state; previousStatus and the previous tracking values
// describe the order as it was before.
//
// Only confirmed, dispatched, out_for_delivery and delivered ever notify, and
// only when the order has a customer email. A genuine status change sends the
// "status changed" shape. Unchanged status with tracking attached for the
// first time also sends the "status changed" shape, carrying the tracking
// payload; changing tracking that already existed sends the distinct
// "tracking updated" shape instead, so correcting a courier's tracking number
// does not re-send a full status announcement.
func (d *NotificationDispatcher) MaybeNotify(ctx context.Context, order *models.Order, previousStatus models.OrderStatus, prevTrackingURL, prevTrackingID string) {
	ctx, span := util.StartSpan(ctx, "NotificationDispatcher.MaybeNotify")
	defer span.End()

	if !order.Status.IsNotifiable() || order.CustomerEmail == "" {
		return
	}

	hadTracking := prevTrackingURL != "" || prevTrackingID != ""
	trackingChanged := order.TrackingURL != prevTrackingURL || order.TrackingID != prevTrackingID
	statusChanged := order.Status != previousStatus

	if !statusChanged && !trackingChanged {
		return
	}

	// Delivery latency must never leak into the request path.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if statusChanged || !hadTracking {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:        order.ID,
			CustomerName:   order.CustomerName,
			CustomerEmail:  order.CustomerEmail,
			PreviousStatus: previousStatus,
			NewStatus:      order.Status,
			TrackingURL:    order.TrackingURL,
			TrackingID:     order.TrackingID,
			Total:          order.Total,
			Currency:       order.Currency,
		}

		if err := d.publisher.PublishStatusChanged(ctx, event); err != nil {
			util.NotificationsFailedTotal.Inc()
			d.logger.Error("Failed to publish status notification",
				zap.Int64("order_id", order.ID),
				zap.String("status", order.Status.String()),
				zap.Error(err))
			return
		}
		util.NotificationsPublishedTotal.WithLabelValues("status").Inc()
		return
	}

	event := &models.TrackingUpdatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeTrackingUpdated,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Status:        order.Status,
		TrackingURL:   order.TrackingURL,
		TrackingID:    order.TrackingID,
	}

	if err := d.publisher.PublishTrackingUpdated(ctx, event); err != nil {
		util.NotificationsFailedTotal.Inc()
		d.logger.Error("Failed to publish tracking notification",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return
	}
	util.NotificationsPublishedTotal.WithLabelValues("tracking").Inc()
}
