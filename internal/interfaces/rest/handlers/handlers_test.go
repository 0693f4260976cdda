package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/application/services"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

const testOrderID = "1f0e8d4c-6b7a-4d3e-9c2b-1a0f9e8d7c6b"

// Mock services
type mockEngine struct {
	createPaymentIntentFn func(ctx context.Context, cmd services.CreatePaymentIntentCommand) (*services.PaymentIntentResult, error)
	confirmOrderFn        func(ctx context.Context, cmd services.ConfirmOrderCommand) (*domain.Order, error)
	markDeliveredFn       func(ctx context.Context, orderID string) (*domain.Order, error)
	cancelOrderFn         func(ctx context.Context, cmd services.CancelOrderCommand) (*domain.Order, error)
}

func (m *mockEngine) CreatePaymentIntent(ctx context.Context, cmd services.CreatePaymentIntentCommand) (*services.PaymentIntentResult, error) {
	return m.createPaymentIntentFn(ctx, cmd)
}

func (m *mockEngine) ConfirmOrder(ctx context.Context, cmd services.ConfirmOrderCommand) (*domain.Order, error) {
	return m.confirmOrderFn(ctx, cmd)
}

func (m *mockEngine) MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error) {
	return m.markDeliveredFn(ctx, orderID)
}

func (m *mockEngine) CancelOrder(ctx context.Context, cmd services.CancelOrderCommand) (*domain.Order, error) {
	return m.cancelOrderFn(ctx, cmd)
}

type mockQueries struct {
	getOrderFn        func(ctx context.Context, id string) (*domain.Order, error)
	getOrderForUserFn func(ctx context.Context, userID int64, id string) (*domain.Order, error)
	listOrdersFn      func(ctx context.Context, q services.ListOrdersQuery) (*services.OrderPage, error)
}

func (m *mockQueries) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return m.getOrderFn(ctx, id)
}

func (m *mockQueries) GetOrderForUser(ctx context.Context, userID int64, id string) (*domain.Order, error) {
	return m.getOrderForUserFn(ctx, userID, id)
}

func (m *mockQueries) ListOrders(ctx context.Context, q services.ListOrdersQuery) (*services.OrderPage, error) {
	return m.listOrdersFn(ctx, q)
}

type mockDiscrepancies struct {
	listFn    func(ctx context.Context, limit int) ([]*domain.PaymentDiscrepancy, error)
	resolveFn func(ctx context.Context, id int64, note string) error
}

func (m *mockDiscrepancies) ListUnresolved(ctx context.Context, limit int) ([]*domain.PaymentDiscrepancy, error) {
	return m.listFn(ctx, limit)
}

func (m *mockDiscrepancies) Resolve(ctx context.Context, id int64, note string) error {
	return m.resolveFn(ctx, id, note)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newServer(engine OrderEngine, queries OrderQueries, discrepancies DiscrepancyQueue) http.Handler {
	mux := http.NewServeMux()
	NewHandlers(engine, queries, discrepancies, pingerFunc(func(context.Context) error { return nil })).
		RegisterRoutes(mux, middleware.NewAuthenticator(testSecret))
	return mux
}

func token(t *testing.T, userID int64, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func do(t *testing.T, h http.Handler, method, target, auth string, body any) (*httptest.ResponseRecorder, rest.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp rest.APIResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func sampleOrder(status domain.OrderStatus) *domain.Order {
	ref := "pi_1"
	return &domain.Order{
		ID:     testOrderID,
		UserID: 42,
		Items: []domain.OrderItem{
			{ProductID: 3, Quantity: 3, UnitPriceAtPurchase: decimal.RequireFromString("19.995")},
		},
		TotalAmount:        decimal.RequireFromString("59.99"),
		Status:             status,
		ExternalPaymentRef: &ref,
		PurchaseDate:       time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestHandleCreatePaymentIntent_Success(t *testing.T) {
	engine := &mockEngine{
		createPaymentIntentFn: func(_ context.Context, cmd services.CreatePaymentIntentCommand) (*services.PaymentIntentResult, error) {
			assert.Equal(t, int64(42), cmd.UserID)
			assert.Equal(t, []domain.CartItem{{ProductID: 3, Quantity: 3}}, cmd.Items)
			return &services.PaymentIntentResult{
				ClientSecret: "secret",
				ExternalRef:  "pi_1",
				TotalAmount:  decimal.RequireFromString("59.985"),
				AmountMinor:  5999,
				Currency:     "usd",
			}, nil
		},
	}
	server := newServer(engine, nil, nil)

	rec, resp := do(t, server, http.MethodPost, "/api/v1/checkout/payment-intents", token(t, 42, "member"),
		CreatePaymentIntentRequest{Items: []CartItemRequest{{ProductID: 3, Quantity: 3}}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "pi_1", data["payment_intent_id"])
	assert.Equal(t, "59.99", data["total_amount"])
	assert.EqualValues(t, 5999, data["amount_minor"])
}

func TestHandleCreatePaymentIntent_RequiresToken(t *testing.T) {
	server := newServer(&mockEngine{}, nil, nil)

	rec, resp := do(t, server, http.MethodPost, "/api/v1/checkout/payment-intents", "",
		CreatePaymentIntentRequest{Items: []CartItemRequest{{ProductID: 3, Quantity: 1}}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, application.ErrCodeUnauthorized, resp.Error.Code)
}

func TestHandleCreatePaymentIntent_InvalidBody(t *testing.T) {
	server := newServer(&mockEngine{}, nil, nil)

	rec, resp := do(t, server, http.MethodPost, "/api/v1/checkout/payment-intents", token(t, 42, ""),
		map[string]any{"items": []map[string]any{{"quantity": 1}}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, application.ErrCodeInvalidInput, resp.Error.Code)
}

func TestHandleConfirmOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid cart", domain.NewInvalidCartError("cart is empty"), http.StatusBadRequest, domain.ErrCodeInvalidCart},
		{"unknown product", domain.NewProductNotFoundError([]int64{9}), http.StatusUnprocessableEntity, domain.ErrCodeProductNotFound},
		{"payment pending", domain.NewPaymentNotSucceededError("pi_1", "processing"), http.StatusPaymentRequired, domain.ErrCodePaymentNotSucceeded},
		{"foreign payment", domain.NewPaymentOwnershipMismatchError("pi_1"), http.StatusForbidden, domain.ErrCodePaymentOwnershipMismatch},
		{"duplicate", domain.NewDuplicateConfirmationError("pi_1", testOrderID), http.StatusConflict, domain.ErrCodeDuplicateConfirmation},
		{"amount mismatch", domain.NewAmountMismatchError("pi_1", decimal.NewFromInt(24), decimal.NewFromInt(20)), http.StatusConflict, domain.ErrCodeAmountMismatch},
		{"gateway down", application.NewGatewayUnavailableError(errors.New("dial tcp")), http.StatusBadGateway, application.ErrCodeGatewayUnavailable},
		{"storage", application.NewInternalError(errors.New("pq: connection reset")), http.StatusInternalServerError, application.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockEngine{
				confirmOrderFn: func(context.Context, services.ConfirmOrderCommand) (*domain.Order, error) {
					return nil, tt.err
				},
			}
			server := newServer(engine, nil, nil)

			rec, resp := do(t, server, http.MethodPost, "/api/v1/orders/confirm", token(t, 42, ""),
				ConfirmOrderRequest{PaymentIntentID: "pi_1", Items: []CartItemRequest{{ProductID: 3, Quantity: 1}}})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotContains(t, resp.Error.Message, "pq:")
		})
	}
}

func TestHandleCreatePaymentIntent_HidesProviderText(t *testing.T) {
	engine := &mockEngine{
		createPaymentIntentFn: func(context.Context, services.CreatePaymentIntentCommand) (*services.PaymentIntentResult, error) {
			return nil, &application.GatewayError{Code: "resource_missing", Message: "No such payment_intent: 'pi_x'", StatusCode: 404}
		},
	}
	server := newServer(engine, nil, nil)

	rec, resp := do(t, server, http.MethodPost, "/api/v1/checkout/payment-intents", token(t, 42, ""),
		CreatePaymentIntentRequest{Items: []CartItemRequest{{ProductID: 3, Quantity: 1}}})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.NotNil(t, resp.Error)
	assert.NotContains(t, resp.Error.Message, "No such payment_intent")
}

func TestHandleConfirmOrder_DuplicateCarriesExistingOrder(t *testing.T) {
	engine := &mockEngine{
		confirmOrderFn: func(_ context.Context, cmd services.ConfirmOrderCommand) (*domain.Order, error) {
			return nil, domain.NewDuplicateConfirmationError(cmd.ExternalRef, testOrderID)
		},
	}
	server := newServer(engine, nil, nil)

	_, resp := do(t, server, http.MethodPost, "/api/v1/orders/confirm", token(t, 42, ""),
		ConfirmOrderRequest{PaymentIntentID: "pi_1", Items: []CartItemRequest{{ProductID: 3, Quantity: 1}}})

	require.NotNil(t, resp.Error)
	assert.Equal(t, testOrderID, resp.Error.Details["existing_order_id"])
}

func TestHandleGetOrder(t *testing.T) {
	queries := &mockQueries{
		getOrderForUserFn: func(_ context.Context, userID int64, id string) (*domain.Order, error) {
			if userID != 42 {
				return nil, domain.NewOrderNotFoundError(id)
			}
			return sampleOrder(domain.StatusProcessing), nil
		},
		getOrderFn: func(context.Context, string) (*domain.Order, error) {
			return sampleOrder(domain.StatusProcessing), nil
		},
	}
	server := newServer(nil, queries, nil)

	rec, resp := do(t, server, http.MethodGet, "/api/v1/orders/"+testOrderID, token(t, 42, ""), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "59.99", data["total_amount"])
	items := data["items"].([]any)
	assert.Equal(t, "59.99", items[0].(map[string]any)["line_total"])

	rec, _ = do(t, server, http.MethodGet, "/api/v1/orders/"+testOrderID, token(t, 7, ""), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, server, http.MethodGet, "/api/v1/orders/"+testOrderID, token(t, 1, middleware.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, server, http.MethodGet, "/api/v1/orders/not-a-uuid", token(t, 42, ""), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	server := newServer(&mockEngine{}, &mockQueries{}, &mockDiscrepancies{})

	rec, resp := do(t, server, http.MethodPost, "/api/v1/admin/orders/"+testOrderID+"/deliver", token(t, 42, "member"), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, application.ErrCodeForbidden, resp.Error.Code)
}

func TestHandleDeliverOrder_InvalidTransition(t *testing.T) {
	engine := &mockEngine{
		markDeliveredFn: func(_ context.Context, id string) (*domain.Order, error) {
			assert.Equal(t, testOrderID, id)
			return nil, domain.NewInvalidTransitionError(domain.StatusCancelled, domain.StatusDelivered)
		},
	}
	server := newServer(engine, nil, nil)

	rec, resp := do(t, server, http.MethodPost, "/api/v1/admin/orders/"+testOrderID+"/deliver", token(t, 1, middleware.RoleAdmin), nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.ErrCodeInvalidTransition, resp.Error.Code)
}

func TestHandleCancelOrder(t *testing.T) {
	var got services.CancelOrderCommand
	engine := &mockEngine{
		cancelOrderFn: func(_ context.Context, cmd services.CancelOrderCommand) (*domain.Order, error) {
			got = cmd
			o := sampleOrder(domain.StatusCancelled)
			o.CancellationReason = cmd.Reason
			return o, nil
		},
	}
	server := newServer(engine, nil, nil)
	admin := token(t, 1, middleware.RoleAdmin)

	reason := "out of stock"
	rec, resp := do(t, server, http.MethodPost, "/api/v1/admin/orders/"+testOrderID+"/cancel", admin, CancelOrderRequest{Reason: &reason})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testOrderID, got.OrderID)
	require.NotNil(t, got.Reason)
	assert.Equal(t, reason, *got.Reason)
	assert.Equal(t, "CANCELLED", resp.Data.(map[string]any)["status"])

	rec, _ = do(t, server, http.MethodPost, "/api/v1/admin/orders/"+testOrderID+"/cancel", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Reason)
}

func TestHandleCancelOrder_RefundFailed(t *testing.T) {
	engine := &mockEngine{
		cancelOrderFn: func(context.Context, services.CancelOrderCommand) (*domain.Order, error) {
			return nil, domain.NewRefundFailedError("pi_1", errors.New("card_declined"))
		},
	}
	server := newServer(engine, nil, nil)

	rec, resp := do(t, server, http.MethodPost, "/api/v1/admin/orders/"+testOrderID+"/cancel", token(t, 1, middleware.RoleAdmin), nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, domain.ErrCodeRefundFailed, resp.Error.Code)
}

func TestHandleListOrders_BindsQuery(t *testing.T) {
	var got services.ListOrdersQuery
	queries := &mockQueries{
		listOrdersFn: func(_ context.Context, q services.ListOrdersQuery) (*services.OrderPage, error) {
			got = q
			return &services.OrderPage{
				Orders: []*domain.Order{sampleOrder(domain.StatusDelivered)},
				Total:  11,
				Limit:  5,
				Offset: 10,
			}, nil
		},
	}
	server := newServer(nil, queries, nil)

	rec, resp := do(t, server, http.MethodGet, "/api/v1/admin/orders?status=DELIVERED&user_id=42&limit=5&offset=10", token(t, 1, middleware.RoleAdmin), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.StatusDelivered, *got.Status)
	require.NotNil(t, got.UserID)
	assert.Equal(t, int64(42), *got.UserID)
	assert.Equal(t, 5, got.Limit)
	assert.Equal(t, 10, got.Offset)
	assert.EqualValues(t, 11, resp.Data.(map[string]any)["total"])

	rec, _ = do(t, server, http.MethodGet, "/api/v1/admin/orders?limit=abc", token(t, 1, middleware.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDiscrepancies(t *testing.T) {
	var resolvedID int64
	queue := &mockDiscrepancies{
		listFn: func(_ context.Context, limit int) ([]*domain.PaymentDiscrepancy, error) {
			assert.Equal(t, 0, limit)
			return []*domain.PaymentDiscrepancy{{ID: 4, ExternalRef: "pi_9", ExpectedMinor: 2400, CapturedMinor: 2000}}, nil
		},
		resolveFn: func(_ context.Context, id int64, note string) error {
			if id != 4 {
				return domain.NewDiscrepancyNotFoundError(id)
			}
			resolvedID = id
			return nil
		},
	}
	server := newServer(nil, nil, queue)
	admin := token(t, 1, middleware.RoleAdmin)

	rec, resp := do(t, server, http.MethodGet, "/api/v1/admin/discrepancies", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 1)

	rec, _ = do(t, server, http.MethodPost, "/api/v1/admin/discrepancies/4/resolve", admin, ResolveDiscrepancyRequest{Note: "refunded"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(4), resolvedID)

	rec, _ = do(t, server, http.MethodPost, "/api/v1/admin/discrepancies/5/resolve", admin, ResolveDiscrepancyRequest{Note: "refunded"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, server, http.MethodPost, "/api/v1/admin/discrepancies/4/resolve", admin, ResolveDiscrepancyRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	mux := http.NewServeMux()
	NewHandlers(nil, nil, nil, pingerFunc(func(context.Context) error { return errors.New("db down") })).
		RegisterRoutes(mux, middleware.NewAuthenticator(testSecret))

	rec, resp := do(t, mux, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, application.ErrCodeInternal, resp.Error.Code)
}
