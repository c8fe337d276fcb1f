package service

import (
	"context"

	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// Notifier delivers user notifications after a workflow commits.  The
// services call it outside the database transaction and never inspect
// the outcome; the RabbitMQ publisher satisfies this interface in
// production.
type Notifier interface {
	Notify(ctx context.Context, n queue.Notification)
}

// NopNotifier discards notifications.  Used in tests and when the
// broker is not configured.
type NopNotifier struct{}

// Notify implements Notifier by doing nothing.
func (NopNotifier) Notify(context.Context, queue.Notification) {}
