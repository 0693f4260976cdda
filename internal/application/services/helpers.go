package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

// priceCart resolves current prices in one batch and builds order lines.
func (s *OrderService) priceCart(ctx context.Context, cart []domain.CartItem) ([]domain.OrderItem, error) {
	prices, err := s.catalog.ResolveMany(ctx, domain.ProductIDs(cart))
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	var missing []int64
	items := make([]domain.OrderItem, 0, len(cart))
	for _, line := range cart {
		price, ok := prices[line.ProductID]
		if !ok {
			missing = append(missing, line.ProductID)
			continue
		}
		items = append(items, domain.OrderItem{
			ProductID:           line.ProductID,
			Quantity:            line.Quantity,
			UnitPriceAtPurchase: price,
		})
	}
	if len(missing) > 0 {
		return nil, domain.NewProductNotFoundError(missing)
	}
	return items, nil
}

// notify hands a snapshot of order to the sink. The sink never blocks.
func (s *OrderService) notify(kind application.NotificationKind, order *domain.Order) {
	if s.notifier == nil {
		return
	}
	s.notifier.Send(application.Notification{
		Kind:       kind,
		Order:      order.Clone(),
		OccurredAt: s.clock.Now(),
	})
}

// gatewayFailure keeps caller cancellations intact and wraps everything else,
// provider answers included, as GatewayUnavailable.
func gatewayFailure(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return application.NewGatewayUnavailableError(err)
}

// intentLookupFailure treats a reference the gateway rejects as a payment
// that never succeeded.
func intentLookupFailure(ref string, err error) error {
	if gwErr, ok := application.IsGatewayError(err); ok {
		switch gwErr.StatusCode {
		case http.StatusBadRequest, http.StatusNotFound:
			return domain.NewPaymentNotSucceededError(ref, domain.IntentStatusUnknown)
		}
	}
	return gatewayFailure(err)
}

// storeFailure passes typed errors through and hides raw storage errors.
func storeFailure(err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if _, ok := application.IsServiceError(err); ok {
		return err
	}
	return application.NewInternalError(err)
}
