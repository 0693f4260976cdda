package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so the sentinels below
// work with errors.Is regardless of the message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

const (
	ErrCodeInvalidCart              = "INVALID_CART"
	ErrCodeProductNotFound          = "PRODUCT_NOT_FOUND"
	ErrCodePaymentNotSucceeded      = "PAYMENT_NOT_SUCCEEDED"
	ErrCodePaymentOwnershipMismatch = "PAYMENT_OWNERSHIP_MISMATCH"
	ErrCodeDuplicateConfirmation    = "DUPLICATE_CONFIRMATION"
	ErrCodeAmountMismatch           = "AMOUNT_MISMATCH"
	ErrCodeRefundFailed             = "REFUND_FAILED"
	ErrCodeInvalidTransition        = "INVALID_TRANSITION"
	ErrCodeOrderNotFound            = "ORDER_NOT_FOUND"
	ErrCodeDiscrepancyNotFound      = "DISCREPANCY_NOT_FOUND"
	ErrCodeMissingRequiredField     = "MISSING_REQUIRED_FIELD"
)

var (
	ErrInvalidCart              = &DomainError{Code: ErrCodeInvalidCart, Message: "invalid cart"}
	ErrProductNotFound          = &DomainError{Code: ErrCodeProductNotFound, Message: "product not found"}
	ErrPaymentNotSucceeded      = &DomainError{Code: ErrCodePaymentNotSucceeded, Message: "payment not succeeded"}
	ErrPaymentOwnershipMismatch = &DomainError{Code: ErrCodePaymentOwnershipMismatch, Message: "payment belongs to another user"}
	ErrDuplicateConfirmation    = &DomainError{Code: ErrCodeDuplicateConfirmation, Message: "payment already confirmed"}
	ErrAmountMismatch           = &DomainError{Code: ErrCodeAmountMismatch, Message: "amount mismatch"}
	ErrRefundFailed             = &DomainError{Code: ErrCodeRefundFailed, Message: "refund failed"}
	ErrInvalidTransition        = &DomainError{Code: ErrCodeInvalidTransition, Message: "invalid status transition"}
	ErrOrderNotFound            = &DomainError{Code: ErrCodeOrderNotFound, Message: "order not found"}
	ErrDiscrepancyNotFound      = &DomainError{Code: ErrCodeDiscrepancyNotFound, Message: "discrepancy not found"}
	ErrMissingRequiredField     = &DomainError{Code: ErrCodeMissingRequiredField, Message: "missing required field"}
)

func NewInvalidCartError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidCart,
		Message: fmt.Sprintf("invalid cart: %s", reason),
	}
}

func NewProductNotFoundError(missing []int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeProductNotFound,
		Message: fmt.Sprintf("products not found: %v", missing),
	}
}

func NewPaymentNotSucceededError(ref, status string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentNotSucceeded,
		Message: fmt.Sprintf("payment %s has status %q", ref, status),
	}
}

func NewPaymentOwnershipMismatchError(ref string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentOwnershipMismatch,
		Message: fmt.Sprintf("payment %s was not created for this user", ref),
	}
}

// DuplicateConfirmationError is returned when a payment reference already has an
// order. ExistingOrderID is set whenever the original order could be read back.
type DuplicateConfirmationError struct {
	ExternalRef     string
	ExistingOrderID string
}

func (e *DuplicateConfirmationError) Error() string {
	if e.ExistingOrderID != "" {
		return fmt.Sprintf("payment %s already confirmed as order %s", e.ExternalRef, e.ExistingOrderID)
	}
	return fmt.Sprintf("payment %s already confirmed", e.ExternalRef)
}

func (e *DuplicateConfirmationError) Unwrap() error {
	return ErrDuplicateConfirmation
}

func NewDuplicateConfirmationError(ref, existingOrderID string) *DuplicateConfirmationError {
	return &DuplicateConfirmationError{ExternalRef: ref, ExistingOrderID: existingOrderID}
}

// AmountMismatchError carries both sides of a failed captured-vs-computed check.
type AmountMismatchError struct {
	ExternalRef string
	Expected    decimal.Decimal
	Captured    decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("amount mismatch for payment %s: expected %s, captured %s",
		e.ExternalRef, e.Expected.StringFixed(2), e.Captured.StringFixed(2))
}

func (e *AmountMismatchError) Unwrap() error {
	return ErrAmountMismatch
}

func NewAmountMismatchError(ref string, expected, captured decimal.Decimal) *AmountMismatchError {
	return &AmountMismatchError{ExternalRef: ref, Expected: expected, Captured: captured}
}

func NewRefundFailedError(ref string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeRefundFailed,
		Message: fmt.Sprintf("refund of payment %s failed", ref),
		Err:     err,
	}
}

func NewInvalidTransitionError(from, to OrderStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewOrderNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeOrderNotFound,
		Message: fmt.Sprintf("order with ID %s not found", id),
	}
}

func NewDiscrepancyNotFoundError(id int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeDiscrepancyNotFound,
		Message: fmt.Sprintf("discrepancy %d not found", id),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
