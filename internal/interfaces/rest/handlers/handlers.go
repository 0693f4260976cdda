package handlers

import (
	"context"
	"net/http"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application/services"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest/middleware"
	"github.com/go-playground/validator"
)

type OrderEngine interface {
	CreatePaymentIntent(ctx context.Context, cmd services.CreatePaymentIntentCommand) (*services.PaymentIntentResult, error)
	ConfirmOrder(ctx context.Context, cmd services.ConfirmOrderCommand) (*domain.Order, error)
	MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, cmd services.CancelOrderCommand) (*domain.Order, error)
}

type OrderQueries interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrderForUser(ctx context.Context, userID int64, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, q services.ListOrdersQuery) (*services.OrderPage, error)
}

type DiscrepancyQueue interface {
	ListUnresolved(ctx context.Context, limit int) ([]*domain.PaymentDiscrepancy, error)
	Resolve(ctx context.Context, id int64, note string) error
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	engine        OrderEngine
	queries       OrderQueries
	discrepancies DiscrepancyQueue
	health        Pinger
	validate      *validator.Validate
}

func NewHandlers(
	engine OrderEngine,
	queries OrderQueries,
	discrepancies DiscrepancyQueue,
	health Pinger,
) *Handlers {
	return &Handlers{
		engine:        engine,
		queries:       queries,
		discrepancies: discrepancies,
		health:        health,
		validate:      validator.New(),
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux, auth *middleware.Authenticator) {
	buyer := func(fn http.HandlerFunc) http.Handler {
		return auth.Authenticate(fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return auth.RequireRole(middleware.RoleAdmin, fn)
	}

	mux.Handle("POST /api/v1/checkout/payment-intents", buyer(h.HandleCreatePaymentIntent))
	mux.Handle("POST /api/v1/orders/confirm", buyer(h.HandleConfirmOrder))
	mux.Handle("GET /api/v1/orders/{id}", buyer(h.HandleGetOrder))

	mux.Handle("GET /api/v1/admin/orders", admin(h.HandleListOrders))
	mux.Handle("POST /api/v1/admin/orders/{id}/deliver", admin(h.HandleDeliverOrder))
	mux.Handle("POST /api/v1/admin/orders/{id}/cancel", admin(h.HandleCancelOrder))
	mux.Handle("GET /api/v1/admin/discrepancies", admin(h.HandleListDiscrepancies))
	mux.Handle("POST /api/v1/admin/discrepancies/{id}/resolve", admin(h.HandleResolveDiscrepancy))

	mux.HandleFunc("GET /healthz", h.HandleHealth)
}
