package services

import (
	"context"
	"fmt"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type QueryService struct {
	orders application.OrderRepository
}

func NewQueryService(orders application.OrderRepository) *QueryService {
	return &QueryService{orders: orders}
}

func (s *QueryService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	return order, nil
}

// GetOrderForUser hides other buyers' orders behind NotFound.
func (s *QueryService) GetOrderForUser(ctx context.Context, userID int64, id string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.NewOrderNotFoundError(id)
	}
	return order, nil
}

func (s *QueryService) ListOrders(ctx context.Context, q ListOrdersQuery) (*OrderPage, error) {
	if q.Status != nil && !q.Status.Valid() {
		return nil, application.NewInvalidInputError(fmt.Errorf("unknown order status %q", *q.Status))
	}

	filter := domain.OrderFilter{
		UserID: q.UserID,
		Status: q.Status,
		Limit:  clampLimit(q.Limit),
		Offset: max(q.Offset, 0),
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, storeFailure(err)
	}

	return &OrderPage{
		Orders: orders,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}
