package services

import (
	"context"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

// MarkDelivered moves a Processing order to Delivered.
func (s *OrderService) MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.orders.WithTx(ctx, func(tx application.OrderRepository) error {
		o, err := tx.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return storeFailure(err)
		}

		if err := o.MarkDelivered(s.clock.Now()); err != nil {
			return err
		}

		if err := tx.Update(ctx, o); err != nil {
			return storeFailure(err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order delivered", "order_id", order.ID, "user_id", order.UserID)
	s.notify(application.NotificationOrderDelivered, order)

	return order, nil
}
