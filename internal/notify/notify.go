// Package notify defines the outbound notification collaborator. Template
// rendering and SMTP transport live outside this service; the boundary is
// "send this payload to this address", fire-and-forget.
package notify

import (
	"context"

	"storefront-orders/internal/util"

	"go.uber.org/zap"
)

// Notifier delivers a customer notification. Implementations must treat
// delivery as best-effort; callers never propagate failures to end users.
type Notifier interface {
	Send(ctx context.Context, to, subject string, payload interface{}) error
}

// LogNotifier writes notifications to the structured log. Used in development
// and as the default until a real mail transport is wired in deployment.
type LogNotifier struct {
	senderName    string
	senderAddress string
	logger        *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(senderName, senderAddress string) *LogNotifier {
	return &LogNotifier{
		senderName:    senderName,
		senderAddress: senderAddress,
		logger:        util.GetLogger(),
	}
}

// Send logs the notification instead of delivering it.
func (n *LogNotifier) Send(_ context.Context, to, subject string, payload interface{}) error {
	n.logger.Info("Notification sent",
		zap.String("from", n.senderName+" <"+n.senderAddress+">"),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Any("payload", payload))
	return nil
}
