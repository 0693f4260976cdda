package postgres

import (
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

// toDomainOrder: maps db rows to the order aggregate
func toDomainOrder(m OrderModel, items []OrderItemModel) *domain.Order {
	order := &domain.Order{
		ID:                 m.ID,
		UserID:             m.UserID,
		TotalAmount:        m.TotalAmount,
		Status:             domain.OrderStatus(m.Status),
		ExternalPaymentRef: m.ExternalPaymentRef,
		PurchaseDate:       m.PurchaseDate,
		DeliveredAt:        m.DeliveredAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: m.CancellationReason,
		IsDeleted:          m.IsDeleted,
		Items:              make([]domain.OrderItem, 0, len(items)),
	}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:           it.ProductID,
			Quantity:            it.Quantity,
			UnitPriceAtPurchase: it.UnitPriceAtPurchase,
		})
	}
	return order
}

// toOrderModel: maps the aggregate to its orders row
func toOrderModel(o *domain.Order) OrderModel {
	return OrderModel{
		ID:                 o.ID,
		UserID:             o.UserID,
		TotalAmount:        o.TotalAmount,
		Status:             string(o.Status),
		ExternalPaymentRef: o.ExternalPaymentRef,
		PurchaseDate:       o.PurchaseDate,
		DeliveredAt:        o.DeliveredAt,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
		IsDeleted:          o.IsDeleted,
	}
}

func toDomainDiscrepancy(m DiscrepancyModel) *domain.PaymentDiscrepancy {
	return &domain.PaymentDiscrepancy{
		ID:            m.ID,
		ExternalRef:   m.ExternalPaymentRef,
		UserID:        m.UserID,
		ExpectedMinor: m.ExpectedMinor,
		CapturedMinor: m.CapturedMinor,
		DetectedAt:    m.DetectedAt,
		ResolvedAt:    m.ResolvedAt,
		Resolution:    m.Resolution,
	}
}
