package rest

import (
	"errors"
	"net/http"

	"github.com/DanielPopoola/gymfit-backoffice/internal/api"
	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error) {
	var vErr *api.ValidationError
	if errors.As(err, &vErr) {
		err = application.NewInvalidInputError(vErr.Err)
	}

	statusCode := application.ToHTTPStatus(err)

	WriteJSON(w, statusCode, &APIError{
		Code:    application.ToErrorCode(err),
		Message: errorMessage(err),
		Details: errorDetails(err),
	})
}

// errorMessage keeps storage and transport details out of responses.
func errorMessage(err error) string {
	var dup *domain.DuplicateConfirmationError
	if errors.As(err, &dup) {
		return dup.Error()
	}

	var mismatch *domain.AmountMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.Error()
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	if svcErr, ok := application.IsServiceError(err); ok {
		if svcErr.Code == application.ErrCodeInvalidInput && svcErr.Err != nil {
			return svcErr.Error()
		}
		return svcErr.Message
	}

	if _, ok := application.IsGatewayError(err); ok {
		return "Payment gateway error"
	}

	if application.ToHTTPStatus(err) == http.StatusRequestTimeout {
		return "Request timeout"
	}

	return "An internal error occurred"
}

func errorDetails(err error) map[string]string {
	var dup *domain.DuplicateConfirmationError
	if errors.As(err, &dup) && dup.ExistingOrderID != "" {
		return map[string]string{"existing_order_id": dup.ExistingOrderID}
	}
	return nil
}
