package application

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCart),
		errors.Is(err, domain.ErrMissingRequiredField),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrDiscrepancyNotFound),
		errors.Is(err, domain.ErrPaymentOwnershipMismatch):
		return CategoryClientError
	case errors.Is(err, domain.ErrPaymentNotSucceeded),
		errors.Is(err, domain.ErrDuplicateConfirmation),
		errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrInvalidTransition):
		return CategoryBusinessRule
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput, ErrCodeUnauthorized, ErrCodeForbidden:
			return CategoryClientError
		case ErrCodeInternal:
			return CategoryInfrastructure
		case ErrCodeTimeout:
			return CategoryTransient
		}
	}

	// checked before RefundFailed so a wrapped 5xx still reads as transient
	if gwErr, ok := IsGatewayError(err); ok {
		if gwErr.IsRetryable() {
			return CategoryTransient
		}
		return CategoryPermanent
	}

	if errors.Is(err, domain.ErrRefundFailed) {
		return CategoryPermanent
	}

	// Default: Transient (safe fallback)
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient || category == CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCart),
		errors.Is(err, domain.ErrMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPaymentNotSucceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrPaymentOwnershipMismatch):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDuplicateConfirmation),
		errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrDiscrepancyNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRefundFailed):
		return http.StatusBadGateway
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	if _, ok := IsGatewayError(err); ok {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	if gwErr, ok := IsGatewayError(err); ok && gwErr.Code != "" {
		return "GATEWAY_" + strings.ToUpper(gwErr.Code)
	}

	return ErrCodeInternal
}
