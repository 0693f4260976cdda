package application

import (
	"context"
	"errors"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrUniqueViolation is wrapped by stores when an insert collides with a
// unique constraint, e.g. a second order for the same payment reference.
var ErrUniqueViolation = errors.New("unique constraint violation")

type CreateIntentRequest struct {
	AmountMinor    int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Metadata       map[string]string `json:"metadata"`
	IdempotencyKey string            `json:"-"`
}

type IntentResponse struct {
	ID             string            `json:"id"`
	ClientSecret   string            `json:"client_secret"`
	Status         string            `json:"status"`
	Amount         int64             `json:"amount"`
	AmountReceived int64             `json:"amount_received"`
	Currency       string            `json:"currency"`
	Metadata       map[string]string `json:"metadata"`
}

func (r *IntentResponse) ToDomain() *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ExternalRef:         r.ID,
		ClientSecret:        r.ClientSecret,
		Status:              r.Status,
		AmountMinor:         r.Amount,
		CapturedAmountMinor: r.AmountReceived,
		Currency:            r.Currency,
		Metadata:            r.Metadata,
	}
}

type RefundRequest struct {
	PaymentIntent string `json:"payment_intent"`
}

type RefundResponse struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
}

// PaymentGateway is the card processor holding payment intents.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResponse, error)
	GetIntent(ctx context.Context, externalRef string) (*IntentResponse, error)
	Refund(ctx context.Context, req RefundRequest, idempotencyKey string) (*RefundResponse, error)
}

// CatalogLookup resolves current supplement prices. Missing or deleted
// products are absent from the result.
type CatalogLookup interface {
	ResolveMany(ctx context.Context, productIDs []int64) (map[int64]decimal.Decimal, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Order, error)
	// FindByExternalRef returns nil, nil when no order holds the reference.
	FindByExternalRef(ctx context.Context, externalRef string) (*domain.Order, error)
	// InsertAtomic writes the order and its items together and assigns order.ID.
	// A reused payment reference yields an error wrapping ErrUniqueViolation.
	InsertAtomic(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int, error)
	WithTx(ctx context.Context, fn func(OrderRepository) error) error
}

type DiscrepancyRepository interface {
	Record(ctx context.Context, d *domain.PaymentDiscrepancy) error
	ListUnresolved(ctx context.Context, limit int) ([]*domain.PaymentDiscrepancy, error)
	Resolve(ctx context.Context, id int64, note string, resolvedAt time.Time) error
}

// Recipient is the contact data the mailer needs for a buyer.
type Recipient struct {
	UserID   int64
	Email    string
	FullName string
}

type RecipientLookup interface {
	FindRecipient(ctx context.Context, userID int64) (*Recipient, error)
}

type NotificationKind string

const (
	NotificationOrderConfirmation NotificationKind = "OrderConfirmation"
	NotificationOrderDelivered    NotificationKind = "OrderDelivered"
	NotificationOrderCancelled    NotificationKind = "OrderCancelled"
	NotificationAdminNewOrder     NotificationKind = "AdminNewOrder"
	NotificationAdminCancelled    NotificationKind = "AdminOrderCancelled"
)

// IsAdmin reports whether the kind targets back-office staff rather than the buyer.
func (k NotificationKind) IsAdmin() bool {
	return k == NotificationAdminNewOrder || k == NotificationAdminCancelled
}

type Notification struct {
	Kind       NotificationKind
	Order      *domain.Order
	OccurredAt time.Time
}

// NotificationSink delivers notifications without blocking the caller.
// Delivery failures are logged by the sink and never returned.
type NotificationSink interface {
	Send(n Notification)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
