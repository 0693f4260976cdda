package rest

import (
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application/services"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

// OrderItemResponse renders money as a fixed two-decimal string, e.g. "59.99".
type OrderItemResponse struct {
	ProductID           int64  `json:"product_id"`
	Quantity            int    `json:"quantity"`
	UnitPriceAtPurchase string `json:"unit_price_at_purchase"`
	LineTotal           string `json:"line_total"`
}

type OrderResponse struct {
	ID                 string              `json:"id"`
	UserID             int64               `json:"user_id"`
	Items              []OrderItemResponse `json:"items"`
	TotalAmount        string              `json:"total_amount"`
	Status             string              `json:"status"`
	ExternalPaymentRef *string             `json:"external_payment_ref,omitempty"`
	PurchaseDate       time.Time           `json:"purchase_date"`
	DeliveredAt        *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time          `json:"cancelled_at,omitempty"`
	CancellationReason *string             `json:"cancellation_reason,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	TotalAmount     string `json:"total_amount"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
}

type DiscrepancyResponse struct {
	ID            int64      `json:"id"`
	ExternalRef   string     `json:"external_payment_ref"`
	UserID        int64      `json:"user_id"`
	ExpectedMinor int64      `json:"expected_minor"`
	CapturedMinor int64      `json:"captured_minor"`
	DetectedAt    time.Time  `json:"detected_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	Resolution    *string    `json:"resolution,omitempty"`
}

func ToOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:           item.ProductID,
			Quantity:            item.Quantity,
			UnitPriceAtPurchase: item.UnitPriceAtPurchase.StringFixed(2),
			LineTotal:           item.LineTotal().StringFixed(2),
		})
	}

	return OrderResponse{
		ID:                 o.ID,
		UserID:             o.UserID,
		Items:              items,
		TotalAmount:        o.TotalAmount.StringFixed(2),
		Status:             string(o.Status),
		ExternalPaymentRef: o.ExternalPaymentRef,
		PurchaseDate:       o.PurchaseDate,
		DeliveredAt:        o.DeliveredAt,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
	}
}

func ToOrderListResponse(page *services.OrderPage) OrderListResponse {
	orders := make([]OrderResponse, 0, len(page.Orders))
	for _, o := range page.Orders {
		orders = append(orders, ToOrderResponse(o))
	}
	return OrderListResponse{
		Orders: orders,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

func ToPaymentIntentResponse(r *services.PaymentIntentResult) PaymentIntentResponse {
	return PaymentIntentResponse{
		ClientSecret:    r.ClientSecret,
		PaymentIntentID: r.ExternalRef,
		TotalAmount:     r.TotalAmount.StringFixed(2),
		AmountMinor:     r.AmountMinor,
		Currency:        r.Currency,
	}
}

func ToDiscrepancyResponses(items []*domain.PaymentDiscrepancy) []DiscrepancyResponse {
	out := make([]DiscrepancyResponse, 0, len(items))
	for _, d := range items {
		out = append(out, DiscrepancyResponse{
			ID:            d.ID,
			ExternalRef:   d.ExternalRef,
			UserID:        d.UserID,
			ExpectedMinor: d.ExpectedMinor,
			CapturedMinor: d.CapturedMinor,
			DetectedAt:    d.DetectedAt,
			ResolvedAt:    d.ResolvedAt,
			Resolution:    d.Resolution,
		})
	}
	return out
}
