package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DanielPopoola/gymfit-backoffice/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidatedMux(t *testing.T) http.Handler {
	t.Helper()

	doc, err := api.LoadSpec(context.Background())
	require.NoError(t, err)

	validate, err := api.RequestValidator(doc, func(w http.ResponseWriter, err error) {
		var vErr *api.ValidationError
		if errors.As(err, &vErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	return validate(mux)
}

func TestLoadSpec(t *testing.T) {
	doc, err := api.LoadSpec(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/v1/orders/confirm"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/admin/orders/{id}/cancel"))
}

func TestRequestValidator(t *testing.T) {
	handler := newValidatedMux(t)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{
			name:       "valid payment intent body",
			method:     http.MethodPost,
			target:     "/api/v1/checkout/payment-intents",
			body:       `{"items":[{"product_id":1,"quantity":2}]}`,
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "missing items",
			method:     http.MethodPost,
			target:     "/api/v1/checkout/payment-intents",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "confirm without payment intent",
			method:     http.MethodPost,
			target:     "/api/v1/orders/confirm",
			body:       `{"items":[{"product_id":1,"quantity":1}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "order id is not a uuid",
			method:     http.MethodGet,
			target:     "/api/v1/orders/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown status filter",
			method:     http.MethodGet,
			target:     "/api/v1/admin/orders?status=SHIPPED",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "limit out of range",
			method:     http.MethodGet,
			target:     "/api/v1/admin/orders?limit=500",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "undocumented route passes through",
			method:     http.MethodGet,
			target:     "/healthz",
			wantStatus: http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRegisterDocsRoutes(t *testing.T) {
	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/api/v1", doc["basePath"])
}
