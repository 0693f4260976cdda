// Package services holds the order reconciliation engine and the read-side
// services used by the REST layer.
package services

import (
	"log/slog"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
)

// OrderService turns verified payments into orders exactly once and drives
// their fulfilment lifecycle.
type OrderService struct {
	catalog       application.CatalogLookup
	gateway       application.PaymentGateway
	orders        application.OrderRepository
	discrepancies application.DiscrepancyRepository
	notifier      application.NotificationSink
	clock         application.Clock
	currency      string
	logger        *slog.Logger
}

func NewOrderService(
	catalog application.CatalogLookup,
	gateway application.PaymentGateway,
	orders application.OrderRepository,
	discrepancies application.DiscrepancyRepository,
	notifier application.NotificationSink,
	clock application.Clock,
	currency string,
	logger *slog.Logger,
) *OrderService {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &OrderService{
		catalog:       catalog,
		gateway:       gateway,
		orders:        orders,
		discrepancies: discrepancies,
		notifier:      notifier,
		clock:         clock,
		currency:      currency,
		logger:        logger,
	}
}
