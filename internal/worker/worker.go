package worker

import (
	"context"
	"fmt"
	"strings"

	"storefront-orders/internal/broker"
	"storefront-orders/internal/models"
	"storefront-orders/internal/notify"
	"storefront-orders/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes notification events from the queue and hands
// them to the notifier. Runs outside the request path so notifier latency and
// failures never touch a status transition.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	notifier     notify.Notifier
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, notifier notify.Notifier) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		notifier: notifier,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnStatusChanged(w.handleStatusChanged)
	eventHandler.OnTrackingUpdated(w.handleTrackingUpdated)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	subject := fmt.Sprintf("Your order #%d is %s", event.OrderID, statusPhrase(event.NewStatus))

	if err := w.notifier.Send(ctx, event.CustomerEmail, subject, event); err != nil {
		w.logger.Error("Failed to deliver status notification",
			zap.Int64("order_id", event.OrderID),
			zap.String("event_id", event.EventID),
			zap.Error(err))
		// Delivery is best-effort: don't leave the message uncommitted, a
		// redelivery would just re-fail against the same notifier.
		return nil
	}

	util.NotificationsDeliveredTotal.WithLabelValues("status").Inc()
	return nil
}

func (w *NotificationWorker) handleTrackingUpdated(ctx context.Context, event *models.TrackingUpdatedEvent) error {
	subject := fmt.Sprintf("Tracking updated for order #%d", event.OrderID)

	if err := w.notifier.Send(ctx, event.CustomerEmail, subject, event); err != nil {
		w.logger.Error("Failed to deliver tracking notification",
			zap.Int64("order_id", event.OrderID),
			zap.String("event_id", event.EventID),
			zap.Error(err))
		return nil
	}

	util.NotificationsDeliveredTotal.WithLabelValues("tracking").Inc()
	return nil
}

func statusPhrase(status models.OrderStatus) string {
	return strings.ReplaceAll(status.String(), "_", " ")
}
