package service

import (
	"context"
	"testing"

	"storefront-orders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifiableOrder(status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:            7,
		Status:        status,
		Total:         990,
		Currency:      "USD",
		CustomerName:  "Grace",
		CustomerEmail: "grace@example.com",
	}
}

func TestMaybeNotifyGatesOnStatus(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusPending, models.StatusPacked, models.StatusCancel} {
		publisher := &fakePublisher{}
		d := NewNotificationDispatcher(publisher)

		order := notifiableOrder(status)
		order.TrackingID = "TRK1"
		d.MaybeNotify(context.Background(), order, models.StatusPending, "", "")

		assert.Empty(t, publisher.statusEvents, "status %s must never notify", status)
		assert.Empty(t, publisher.trackingEvents, "status %s must never notify", status)
	}
}

func TestMaybeNotifyRequiresCustomerEmail(t *testing.T) {
	publisher := &fakePublisher{}
	d := NewNotificationDispatcher(publisher)

	order := notifiableOrder(models.StatusConfirmed)
	order.CustomerEmail = ""
	d.MaybeNotify(context.Background(), order, models.StatusPending, "", "")

	assert.Empty(t, publisher.statusEvents)
}

func TestMaybeNotifyOnStatusChange(t *testing.T) {
	publisher := &fakePublisher{}
	d := NewNotificationDispatcher(publisher)

	d.MaybeNotify(context.Background(), notifiableOrder(models.StatusConfirmed), models.StatusPending, "", "")

	require.Len(t, publisher.statusEvents, 1)
	event := publisher.statusEvents[0]
	assert.Equal(t, models.StatusPending, event.PreviousStatus)
	assert.Equal(t, models.StatusConfirmed, event.NewStatus)
	assert.Equal(t, "grace@example.com", event.CustomerEmail)
	assert.NotEmpty(t, event.EventID)
}

func TestMaybeNotifySkipsUnchangedOrder(t *testing.T) {
	publisher := &fakePublisher{}
	d := NewNotificationDispatcher(publisher)

	order := notifiableOrder(models.StatusDelivered)
	d.MaybeNotify(context.Background(), order, models.StatusDelivered, "", "")

	assert.Empty(t, publisher.statusEvents)
	assert.Empty(t, publisher.trackingEvents)
}

func TestMaybeNotifyFirstTrackingSendsStatusVariant(t *testing.T) {
	publisher := &fakePublisher{}
	d := NewNotificationDispatcher(publisher)

	order := notifiableOrder(models.StatusDispatched)
	order.TrackingID = "TRK1"
	// Status unchanged, tracking attached for the first time.
	d.MaybeNotify(context.Background(), order, models.StatusDispatched, "", "")

	require.Len(t, publisher.statusEvents, 1)
	assert.Equal(t, "TRK1", publisher.statusEvents[0].TrackingID)
	assert.Empty(t, publisher.trackingEvents)
}

func TestMaybeNotifyTrackingCorrectionSendsTrackingVariant(t *testing.T) {
	publisher := &fakePublisher{}
	d := NewNotificationDispatcher(publisher)

	order := notifiableOrder(models.StatusDispatched)
	order.TrackingID = "TRK2"
	d.MaybeNotify(context.Background(), order, models.StatusDispatched, "", "TRK1")

	assert.Empty(t, publisher.statusEvents)
	require.Len(t, publisher.trackingEvents, 1)
	assert.Equal(t, "TRK2", publisher.trackingEvents[0].TrackingID)
	assert.Equal(t, models.StatusDispatched, publisher.trackingEvents[0].Status)
}

func TestMaybeNotifyStatusChangeWinsOverTrackingChange(t *testing.T) {
	publisher := &fakePublisher{}
	d := NewNotificationDispatcher(publisher)

	order := notifiableOrder(models.StatusOutForDelivery)
	order.TrackingID = "TRK2"
	d.MaybeNotify(context.Background(), order, models.StatusDispatched, "", "TRK1")

	require.Len(t, publisher.statusEvents, 1, "a genuine status change sends the status variant even if tracking moved too")
	assert.Empty(t, publisher.trackingEvents)
}
