package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/config"
)

type HTTPGatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGatewayClient(cfg config.PaymentGatewayConfig) *HTTPGatewayClient {
	return &HTTPGatewayClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (c *HTTPGatewayClient) CreateIntent(ctx context.Context, req application.CreateIntentRequest) (*application.IntentResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_intents", c.baseURL)
	return sendRequest[application.CreateIntentRequest, application.IntentResponse](c, ctx, http.MethodPost, endpoint, &req, req.IdempotencyKey)
}

func (c *HTTPGatewayClient) GetIntent(ctx context.Context, externalRef string) (*application.IntentResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s", c.baseURL, url.PathEscape(externalRef))
	return sendRequest[any, application.IntentResponse](c, ctx, http.MethodGet, endpoint, nil, "")
}

func (c *HTTPGatewayClient) Refund(ctx context.Context, req application.RefundRequest, idempotencyKey string) (*application.RefundResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/refunds", c.baseURL)
	return sendRequest[application.RefundRequest, application.RefundResponse](c, ctx, http.MethodPost, endpoint, &req, idempotencyKey)
}

func sendRequest[Req any, Resp any](c *HTTPGatewayClient, ctx context.Context, method, endpoint string, reqBody *Req, idempotencyKey string) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var gwErrResp application.GatewayErrorResponse
		if err := json.Unmarshal(body, &gwErrResp); err != nil || gwErrResp.Error.Message == "" {
			return nil, &application.GatewayError{
				Code:       http.StatusText(resp.StatusCode),
				Message:    strings.TrimSpace(string(body)),
				StatusCode: resp.StatusCode,
			}
		}
		code := gwErrResp.Error.Code
		if code == "" {
			code = gwErrResp.Error.Type
		}
		return nil, &application.GatewayError{
			Code:       code,
			Message:    gwErrResp.Error.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var gwResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&gwResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &gwResp, nil
}
