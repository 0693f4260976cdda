package services

import (
	"context"
	"strconv"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/google/uuid"
)

// CreatePaymentIntent prices the cart and opens an intent at the gateway.
// Nothing is persisted.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, cmd CreatePaymentIntentCommand) (*PaymentIntentResult, error) {
	if cmd.UserID <= 0 {
		return nil, domain.NewMissingRequiredFieldError("user ID")
	}
	if err := domain.ValidateCart(cmd.Items); err != nil {
		return nil, err
	}

	items, err := s.priceCart(ctx, cmd.Items)
	if err != nil {
		return nil, err
	}

	total := domain.CalculateTotal(items)
	amountMinor := domain.ToMinorUnits(total)

	resp, err := s.gateway.CreateIntent(ctx, application.CreateIntentRequest{
		AmountMinor: amountMinor,
		Currency:    s.currency,
		Metadata: map[string]string{
			domain.MetadataUserIDKey: strconv.FormatInt(cmd.UserID, 10),
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		s.logger.Warn("create payment intent failed", "user_id", cmd.UserID, "amount_minor", amountMinor, "error", err)
		return nil, gatewayFailure(err)
	}

	s.logger.Info("payment intent created",
		"user_id", cmd.UserID,
		"external_ref", resp.ID,
		"amount_minor", amountMinor,
	)

	return &PaymentIntentResult{
		ClientSecret: resp.ClientSecret,
		ExternalRef:  resp.ID,
		TotalAmount:  total,
		AmountMinor:  amountMinor,
		Currency:     s.currency,
	}, nil
}
