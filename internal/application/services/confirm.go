package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

const discrepancyWriteTimeout = 5 * time.Second

// ConfirmOrder materializes the order for a succeeded payment. A payment
// reference yields at most one order no matter how many confirmations race.
func (s *OrderService) ConfirmOrder(ctx context.Context, cmd ConfirmOrderCommand) (*domain.Order, error) {
	if cmd.ExternalRef == "" {
		return nil, domain.NewMissingRequiredFieldError("external payment reference")
	}
	if cmd.UserID <= 0 {
		return nil, domain.NewMissingRequiredFieldError("user ID")
	}
	if err := domain.ValidateCart(cmd.Items); err != nil {
		return nil, err
	}

	resp, err := s.gateway.GetIntent(ctx, cmd.ExternalRef)
	if err != nil {
		s.logger.Warn("payment intent lookup failed", "external_ref", cmd.ExternalRef, "error", err)
		return nil, intentLookupFailure(cmd.ExternalRef, err)
	}
	intent := resp.ToDomain()

	// ownership first: a stranger learns nothing about the payment's state
	if intent.Metadata[domain.MetadataUserIDKey] != strconv.FormatInt(cmd.UserID, 10) {
		s.logger.Warn("payment ownership mismatch", "external_ref", cmd.ExternalRef, "user_id", cmd.UserID)
		return nil, domain.NewPaymentOwnershipMismatchError(cmd.ExternalRef)
	}
	if !intent.Succeeded() {
		return nil, domain.NewPaymentNotSucceededError(cmd.ExternalRef, intent.Status)
	}

	captured := domain.FromMinorUnits(intent.CapturedAmountMinor)

	var order *domain.Order
	err = s.orders.WithTx(ctx, func(tx application.OrderRepository) error {
		existing, err := tx.FindByExternalRef(ctx, cmd.ExternalRef)
		if err != nil {
			return storeFailure(err)
		}
		if existing != nil {
			return domain.NewDuplicateConfirmationError(cmd.ExternalRef, existing.ID)
		}

		items, err := s.priceCart(ctx, cmd.Items)
		if err != nil {
			return err
		}

		total := domain.CalculateTotal(items)
		if !captured.Equal(total) {
			return domain.NewAmountMismatchError(cmd.ExternalRef, total, captured)
		}

		newOrder, err := domain.NewOrder(cmd.UserID, cmd.ExternalRef, items, s.clock.Now())
		if err != nil {
			return err
		}

		if err := tx.InsertAtomic(ctx, newOrder); err != nil {
			if errors.Is(err, application.ErrUniqueViolation) {
				return domain.NewDuplicateConfirmationError(cmd.ExternalRef, "")
			}
			return storeFailure(err)
		}

		order = newOrder
		return nil
	})
	if err != nil {
		return nil, s.confirmFailure(ctx, cmd, err)
	}

	s.logger.Info("order confirmed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"external_ref", cmd.ExternalRef,
		"total", order.TotalAmount.StringFixed(2),
	)

	s.notify(application.NotificationOrderConfirmation, order)
	s.notify(application.NotificationAdminNewOrder, order)

	return order, nil
}

// confirmFailure runs after the transaction has rolled back.
func (s *OrderService) confirmFailure(ctx context.Context, cmd ConfirmOrderCommand, err error) error {
	var dup *domain.DuplicateConfirmationError
	if errors.As(err, &dup) {
		if dup.ExistingOrderID == "" {
			if existing, findErr := s.orders.FindByExternalRef(ctx, cmd.ExternalRef); findErr == nil && existing != nil {
				dup.ExistingOrderID = existing.ID
			}
		}
		s.logger.Info("duplicate confirmation", "external_ref", cmd.ExternalRef, "existing_order_id", dup.ExistingOrderID)
		return dup
	}

	var mismatch *domain.AmountMismatchError
	if errors.As(err, &mismatch) {
		s.logger.Error("captured amount does not match order total",
			"external_ref", cmd.ExternalRef,
			"user_id", cmd.UserID,
			"expected", mismatch.Expected.StringFixed(2),
			"captured", mismatch.Captured.StringFixed(2),
		)
		s.recordDiscrepancy(ctx, cmd.UserID, mismatch)
		return mismatch
	}

	return err
}

// recordDiscrepancy queues the mismatch for manual reconciliation. Failures
// are logged and otherwise ignored.
func (s *OrderService) recordDiscrepancy(ctx context.Context, userID int64, mismatch *domain.AmountMismatchError) {
	if s.discrepancies == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discrepancyWriteTimeout)
	defer cancel()

	d := &domain.PaymentDiscrepancy{
		ExternalRef:   mismatch.ExternalRef,
		UserID:        userID,
		ExpectedMinor: domain.ToMinorUnits(mismatch.Expected),
		CapturedMinor: domain.ToMinorUnits(mismatch.Captured),
		DetectedAt:    s.clock.Now(),
	}
	if err := s.discrepancies.Record(ctx, d); err != nil {
		s.logger.Error("failed to record payment discrepancy", "external_ref", mismatch.ExternalRef, "error", err)
	}
}
