package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to a running back office.
type TestClient struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

func NewTestClient(baseURL, secret string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// envelope mirrors rest.APIResponse with a typed data member.
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *rest.APIError `json:"error"`
}

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Status int
	Code   string
	Msg    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d [%s]: %s", e.Status, e.Code, e.Msg)
}

// Token signs a bearer token for userID with role ("" for a buyer).
func (c *TestClient) Token(t *testing.T, userID int64, role string) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}).SignedString([]byte(c.secret))
	require.NoError(t, err)
	return signed
}

func (c *TestClient) CreatePaymentIntent(t *testing.T, token string, items []map[string]any) (*rest.PaymentIntentResponse, error) {
	return do[rest.PaymentIntentResponse](t, c, http.MethodPost, "/api/v1/checkout/payment-intents", token,
		map[string]any{"items": items})
}

func (c *TestClient) ConfirmOrder(t *testing.T, token, ref string, items []map[string]any) (*rest.OrderResponse, error) {
	return do[rest.OrderResponse](t, c, http.MethodPost, "/api/v1/orders/confirm", token,
		map[string]any{"payment_intent_id": ref, "items": items})
}

func (c *TestClient) GetOrder(t *testing.T, token, id string) (*rest.OrderResponse, error) {
	return do[rest.OrderResponse](t, c, http.MethodGet, "/api/v1/orders/"+id, token, nil)
}

func (c *TestClient) ListOrders(t *testing.T, token, status string) (*rest.OrderListResponse, error) {
	path := "/api/v1/admin/orders?limit=10"
	if status != "" {
		path += "&status=" + status
	}
	return do[rest.OrderListResponse](t, c, http.MethodGet, path, token, nil)
}

func (c *TestClient) ListDiscrepancies(t *testing.T, token string) (*[]rest.DiscrepancyResponse, error) {
	return do[[]rest.DiscrepancyResponse](t, c, http.MethodGet, "/api/v1/admin/discrepancies", token, nil)
}

func (c *TestClient) Healthy() bool {
	resp, err := c.httpClient.Get(c.baseURL + "/healthz")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func do[T any](t *testing.T, c *TestClient, method, path, token string, body any) (*T, error) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	var env envelope[T]
	if resp.StatusCode >= 400 {
		_ = json.Unmarshal(bodyBytes, &env)
		se := &StatusError{Status: resp.StatusCode}
		if env.Error != nil {
			se.Code, se.Msg = env.Error.Code, env.Error.Message
		}
		return nil, se
	}

	require.NoError(t, json.Unmarshal(bodyBytes, &env))
	return &env.Data, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(t *testing.T, key string) int64 {
	t.Helper()

	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		t.Skipf("%s must name an existing row", key)
	}
	return v
}
