// Package domain holds the order aggregate, its status machine and money rules.
package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents where an order is in its fulfilment lifecycle
type OrderStatus string

const (
	StatusProcessing OrderStatus = "PROCESSING"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID           int64
	Quantity            int
	UnitPriceAtPurchase decimal.Decimal
}

// LineTotal is quantity × the price captured at purchase.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID                 string
	UserID             int64
	Items              []OrderItem
	TotalAmount        decimal.Decimal
	Status             OrderStatus
	ExternalPaymentRef *string
	PurchaseDate       time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	IsDeleted          bool
}

// NewOrder builds a Processing order for a verified payment. The total is
// computed here once and never recomputed afterwards.
func NewOrder(userID int64, externalRef string, items []OrderItem, purchasedAt time.Time) (*Order, error) {
	if userID <= 0 {
		return nil, NewMissingRequiredFieldError("user ID")
	}
	if externalRef == "" {
		return nil, NewMissingRequiredFieldError("external payment reference")
	}
	if len(items) == 0 {
		return nil, NewInvalidCartError("order has no items")
	}

	ref := externalRef
	return &Order{
		UserID:             userID,
		Items:              slices.Clone(items),
		TotalAmount:        CalculateTotal(items),
		Status:             StatusProcessing,
		ExternalPaymentRef: &ref,
		PurchaseDate:       purchasedAt,
	}, nil
}

// CalculateTotal sums line totals and rounds to cents. Catalog prices are
// stored with two decimals, so for persisted orders the rounding is a no-op
// and TotalAmount equals the exact sum of line totals. Sub-cent prices only
// reach here from callers outside the catalog; their total is the rounded sum.
func CalculateTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return RoundMoney(total)
}

func (o *Order) MarkDelivered(deliveredAt time.Time) error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	o.DeliveredAt = &deliveredAt
	return nil
}

// Cancel records the cancellation. Refunding is the caller's job and must
// succeed before this is called.
func (o *Order) Cancel(reason *string, cancelledAt time.Time) error {
	if err := o.transition(StatusCancelled); err != nil {
		return err
	}
	o.CancelledAt = &cancelledAt
	if reason != nil && *reason != "" {
		r := *reason
		o.CancellationReason = &r
	}
	return nil
}

// CanTransitionTo reports whether target is reachable from the current status.
func (o *Order) CanTransitionTo(target OrderStatus) error {
	return o.canTransitionTo(target)
}

func (o *Order) transition(target OrderStatus) error {
	if err := o.canTransitionTo(target); err != nil {
		return err
	}
	o.Status = target
	return nil
}

func (o *Order) canTransitionTo(target OrderStatus) error {
	switch o.Status {
	case StatusProcessing:
		return o.allow(target, StatusDelivered, StatusCancelled)
	}
	return NewInvalidTransitionError(o.Status, target)
}

func (o *Order) allow(target OrderStatus, allowed ...OrderStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(o.Status, target)
}

func (o *Order) IsTerminal() bool {
	switch o.Status {
	case StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (o *Order) HasPaymentRef() bool {
	return o.ExternalPaymentRef != nil && *o.ExternalPaymentRef != ""
}

// PaymentRef returns the external reference or "" when the order predates payments.
func (o *Order) PaymentRef() string {
	if o.ExternalPaymentRef == nil {
		return ""
	}
	return *o.ExternalPaymentRef
}

// Clone returns a deep copy safe to hand to another goroutine.
func (o *Order) Clone() *Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	c.ExternalPaymentRef = clonePtr(o.ExternalPaymentRef)
	c.DeliveredAt = clonePtr(o.DeliveredAt)
	c.CancelledAt = clonePtr(o.CancelledAt)
	c.CancellationReason = clonePtr(o.CancellationReason)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// OrderFilter narrows admin listings. Zero values mean "any".
type OrderFilter struct {
	UserID *int64
	Status *OrderStatus
	Limit  int
	Offset int
}
