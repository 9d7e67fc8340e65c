package service

import (
	"context"
	"errors"
	"time"

	"storefront-orders/internal/models"
	"storefront-orders/internal/store"
	"storefront-orders/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var (
	// ErrInvalidStatus is returned when a target status is outside the
	// enumerated domain.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrOrderNotFound is returned when an order id does not resolve.
	ErrOrderNotFound = store.ErrOrderNotFound
	// ErrTrackingRequired is returned when a tracking update supplies
	// neither a tracking URL nor a tracking id.
	ErrTrackingRequired = errors.New("tracking_url or tracking_id is required")
)

// OrderStore loads and persists orders and their items.
type OrderStore interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	GetOrderForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Order, error)
	GetOrderItems(ctx context.Context, tx *sqlx.Tx, orderID int64) ([]models.OrderItem, error)
	ApplyTransition(ctx context.Context, tx *sqlx.Tx, orderID int64, status models.OrderStatus, trackingURL, trackingID string) (*models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
}

// StockCache mirrors stock quantities into a read-side cache, best-effort.
type StockCache interface {
	AdjustStock(ctx context.Context, target models.StockTarget, delta int) error
}

// OrderStatusEngine is the entry point for order status transitions. The
// read-decide-apply-persist sequence runs inside one transaction holding a
// row lock on the order, so concurrent transitions for the same order are
// serialized and a crashed request leaves no partial state to double-apply
// on retry.
type OrderStatusEngine struct {
	orders     OrderStore
	adjuster   *InventoryAdjuster
	dispatcher *NotificationDispatcher
	cache      StockCache
	logger     *zap.Logger
}

// NewOrderStatusEngine creates a new order status engine. cache may be nil
// when no read-side mirror is configured.
func NewOrderStatusEngine(
	orders OrderStore,
	adjuster *InventoryAdjuster,
	dispatcher *NotificationDispatcher,
	cache StockCache,
) *OrderStatusEngine {
	return &OrderStatusEngine{
		orders:     orders,
		adjuster:   adjuster,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     util.GetLogger(),
	}
}

// Transition applies one status-change request and returns the updated order.
// Tracking fields are additive: empty values leave stored ones untouched.
func (e *OrderStatusEngine) Transition(ctx context.Context, orderID int64, newStatus models.OrderStatus, trackingURL, trackingID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderStatusEngine.Transition")
	defer span.End()
	util.SpanOrderID(span, orderID)

	start := time.Now()
	defer func() {
		util.TransitionLatency.Observe(time.Since(start).Seconds())
	}()

	if !newStatus.IsValid() {
		util.TransitionsRejectedTotal.WithLabelValues("invalid_status").Inc()
		return nil, ErrInvalidStatus
	}

	var (
		updated         *models.Order
		previousStatus  models.OrderStatus
		prevTrackingURL string
		prevTrackingID  string
		appliedDeltas   []AppliedAdjustment
	)

	err := e.orders.WithTx(ctx, func(tx *sqlx.Tx) error {
		order, err := e.orders.GetOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		previousStatus = order.Status
		prevTrackingURL = order.TrackingURL
		prevTrackingID = order.TrackingID

		action := DecideStockAction(previousStatus, newStatus)
		if action != StockActionNone {
			items, err := e.orders.GetOrderItems(ctx, tx, orderID)
			if err != nil {
				return err
			}
			// Adjust before persisting the status: a crash here rolls the
			// whole transaction back, so a retry re-reads the old status and
			// derives the same action exactly once.
			appliedDeltas = e.adjuster.Apply(ctx, tx, action, items)
		}

		updated, err = e.orders.ApplyTransition(ctx, tx, orderID, newStatus, trackingURL, trackingID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			util.TransitionsRejectedTotal.WithLabelValues("order_not_found").Inc()
		} else {
			util.TransitionsRejectedTotal.WithLabelValues("persistence_error").Inc()
		}
		return nil, err
	}

	util.OrderTransitionsTotal.WithLabelValues(newStatus.String()).Inc()
	e.logger.Info("Order transitioned",
		zap.Int64("order_id", orderID),
		zap.String("from", previousStatus.String()),
		zap.String("to", newStatus.String()))

	e.refreshStockCache(appliedDeltas)
	e.dispatcher.MaybeNotify(ctx, updated, previousStatus, prevTrackingURL, prevTrackingID)

	return updated, nil
}

// UpdateTracking merges new tracking values onto an order without changing
// its status. At least one of the two values must be supplied. A notification
// goes out only when requested and the current status is notifiable.
func (e *OrderStatusEngine) UpdateTracking(ctx context.Context, orderID int64, trackingURL, trackingID string, sendNotification bool) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderStatusEngine.UpdateTracking")
	defer span.End()
	util.SpanOrderID(span, orderID)

	if trackingURL == "" && trackingID == "" {
		return nil, ErrTrackingRequired
	}

	var (
		updated         *models.Order
		previousStatus  models.OrderStatus
		prevTrackingURL string
		prevTrackingID  string
	)

	err := e.orders.WithTx(ctx, func(tx *sqlx.Tx) error {
		order, err := e.orders.GetOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		previousStatus = order.Status
		prevTrackingURL = order.TrackingURL
		prevTrackingID = order.TrackingID

		updated, err = e.orders.ApplyTransition(ctx, tx, orderID, order.Status, trackingURL, trackingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Order tracking updated",
		zap.Int64("order_id", orderID),
		zap.Bool("notify", sendNotification))

	if sendNotification {
		e.dispatcher.MaybeNotify(ctx, updated, previousStatus, prevTrackingURL, prevTrackingID)
	}

	return updated, nil
}

// GetOrder retrieves an order and its items.
func (e *OrderStatusEngine) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := e.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := e.orders.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// refreshStockCache mirrors committed stock deltas into the read-side cache.
// Best-effort and off the request path; cache drift self-heals on the next
// startup sync.
func (e *OrderStatusEngine) refreshStockCache(applied []AppliedAdjustment) {
	if e.cache == nil || len(applied) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, adj := range applied {
			if err := e.cache.AdjustStock(ctx, adj.Target, adj.Delta); err != nil {
				e.logger.Warn("Failed to refresh stock cache",
					zap.String("target_kind", string(adj.Target.Kind)),
					zap.Int64("target_id", adj.Target.ID),
					zap.Error(err))
			}
		}
	}()
}
