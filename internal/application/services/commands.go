package services

import (
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

type CreatePaymentIntentCommand struct {
	UserID int64
	Items  []domain.CartItem
}

type ConfirmOrderCommand struct {
	UserID      int64
	ExternalRef string
	Items       []domain.CartItem
}

type CancelOrderCommand struct {
	OrderID string
	Reason  *string
}

// PaymentIntentResult is what the storefront needs to collect card details.
type PaymentIntentResult struct {
	ClientSecret string
	ExternalRef  string
	TotalAmount  decimal.Decimal
	AmountMinor  int64
	Currency     string
}

type ListOrdersQuery struct {
	UserID *int64
	Status *domain.OrderStatus
	Limit  int
	Offset int
}

type OrderPage struct {
	Orders []*domain.Order
	Total  int
	Limit  int
	Offset int
}
