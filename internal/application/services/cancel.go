package services

import (
	"context"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

const cancelPersistTimeout = 5 * time.Second

func refundIdempotencyKey(externalRef string) string {
	return "refund-" + externalRef
}

// CancelOrder refunds the payment, if any, and then cancels the order. The
// row stays locked across the refund so two cancellations cannot both refund.
// A failed refund leaves the order Processing. Once the refund has gone
// through, the status change is persisted even if the caller gives up.
func (s *OrderService) CancelOrder(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error) {
	txCtx := context.WithoutCancel(ctx)

	var order *domain.Order
	err := s.orders.WithTx(txCtx, func(tx application.OrderRepository) error {
		o, err := tx.FindByIDForUpdate(ctx, cmd.OrderID)
		if err != nil {
			return storeFailure(err)
		}

		if err := o.CanTransitionTo(domain.StatusCancelled); err != nil {
			return err
		}

		if o.HasPaymentRef() {
			ref := o.PaymentRef()
			_, err := s.gateway.Refund(ctx, application.RefundRequest{PaymentIntent: ref}, refundIdempotencyKey(ref))
			if err != nil {
				s.logger.Error("refund failed", "order_id", o.ID, "external_ref", ref, "error", err)
				return domain.NewRefundFailedError(ref, err)
			}
		}

		if err := o.Cancel(cmd.Reason, s.clock.Now()); err != nil {
			return err
		}

		persistCtx, cancel := context.WithTimeout(txCtx, cancelPersistTimeout)
		defer cancel()

		if err := tx.Update(persistCtx, o); err != nil {
			return storeFailure(err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled", "order_id", order.ID, "user_id", order.UserID, "refunded", order.HasPaymentRef())
	s.notify(application.NotificationOrderCancelled, order)
	s.notify(application.NotificationAdminCancelled, order)

	return order, nil
}
