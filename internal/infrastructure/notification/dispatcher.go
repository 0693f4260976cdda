// Package notification fans order lifecycle events out to mail and the event bus.
package notification

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
)

const defaultTimeout = 30 * time.Second

// Channel is one delivery route. Channels ignore kinds they do not handle.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, n application.Notification) error
}

// Dispatcher implements application.NotificationSink. Every Send runs detached
// from the caller's context with its own deadline.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, logger *slog.Logger, channels ...Channel) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		channels: channels,
		timeout:  timeout,
		logger:   logger,
	}
}

func (d *Dispatcher) Send(n application.Notification) {
	for _, ch := range d.channels {
		d.wg.Add(1)
		go d.deliver(ch, n)
	}
}

// Wait blocks until every in-flight delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ch Channel, n application.Notification) {
	defer d.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("notification channel panicked",
				"channel", ch.Name(),
				"kind", n.Kind,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	orderID := ""
	if n.Order != nil {
		orderID = n.Order.ID
	}

	if err := ch.Deliver(ctx, n); err != nil {
		d.logger.Warn("notification delivery failed",
			"channel", ch.Name(),
			"kind", n.Kind,
			"order_id", orderID,
			"error", err,
		)
		return
	}

	d.logger.Debug("notification delivered", "channel", ch.Name(), "kind", n.Kind, "order_id", orderID)
}
