package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderModel mirrors a row of the orders table.
type OrderModel struct {
	ID                 string
	UserID             int64
	TotalAmount        decimal.Decimal
	Status             string
	ExternalPaymentRef *string
	PurchaseDate       time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	IsDeleted          bool
}

type OrderItemModel struct {
	OrderID             string
	ProductID           int64
	Quantity            int
	UnitPriceAtPurchase decimal.Decimal
}

type DiscrepancyModel struct {
	ID                 int64
	ExternalPaymentRef string
	UserID             int64
	ExpectedMinor      int64
	CapturedMinor      int64
	DetectedAt         time.Time
	ResolvedAt         *time.Time
	Resolution         *string
}
