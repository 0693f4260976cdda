package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/config"
)

type RetryGatewayClient struct {
	inner      application.PaymentGateway
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryGatewayClient(inner application.PaymentGateway, cfg config.RetryConfig) *RetryGatewayClient {
	maxRetries := int(cfg.MaxRetries)
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryGatewayClient{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: maxRetries,
	}
}

// CreateIntent with retry logic. The idempotency key on req keeps retries
// from creating a second intent.
func (r *RetryGatewayClient) CreateIntent(ctx context.Context, req application.CreateIntentRequest) (*application.IntentResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.IntentResponse, error) {
			return r.inner.CreateIntent(ctx, req)
		},
	)
}

func (r *RetryGatewayClient) GetIntent(ctx context.Context, externalRef string) (*application.IntentResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.IntentResponse, error) {
			return r.inner.GetIntent(ctx, externalRef)
		},
	)
}

// Refund with retry logic
func (r *RetryGatewayClient) Refund(ctx context.Context, req application.RefundRequest, idempotencyKey string) (*application.RefundResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.RefundResponse, error) {
			return r.inner.Refund(ctx, req, idempotencyKey)
		},
	)
}

// Generic retry helper
func retry[T any](r *RetryGatewayClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !application.IsRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			timer := time.NewTimer(r.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Backoff calculation with exponential delay and jitter
func (r *RetryGatewayClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Int63n(int64(r.baseDelay)/2 + 1))

	return base + jitter
}
