package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

const maxBodyBytes = 1 << 20

// Quantity bounds and duplicate products are checked by the domain so that
// they surface as INVALID_CART.
type CartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required" example:"12"`
	Quantity  int   `json:"quantity" example:"2"`
}

type CreatePaymentIntentRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,dive"`
}

type ConfirmOrderRequest struct {
	PaymentIntentID string            `json:"payment_intent_id" validate:"required" example:"pi_3Nx8"`
	Items           []CartItemRequest `json:"items" validate:"required,dive"`
}

type CancelOrderRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500" example:"out of stock"`
}

type ResolveDiscrepancyRequest struct {
	Note string `json:"note" validate:"required,max=1000" example:"refunded difference manually"`
}

func toCart(items []CartItemRequest) []domain.CartItem {
	cart := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		cart = append(cart, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return cart
}

// decodeBody reads a JSON body into dst and validates its tags. An empty body
// is accepted when optional is set.
func (h *Handlers) decodeBody(r *http.Request, dst any, optional bool) error {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return application.NewInvalidInputError(err)
	}

	if len(body) > 0 {
		if err := json.Unmarshal(body, dst); err != nil {
			return application.NewInvalidInputError(err)
		}
	} else if !optional {
		return application.NewInvalidInputError(errors.New("request body is required"))
	}

	if err := h.validate.Struct(dst); err != nil {
		return application.NewInvalidInputError(err)
	}
	return nil
}

func orderIDParam(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", r.PathValue("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Required:      true,
	})
	if err != nil {
		return "", application.NewInvalidInputError(err)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", application.NewInvalidInputError(fmt.Errorf("order id %q is not a UUID", id))
	}
	return id, nil
}

func discrepancyIDParam(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", r.PathValue("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Required:      true,
	})
	if err != nil {
		return 0, application.NewInvalidInputError(err)
	}
	return id, nil
}

// optional query parameters bind into pointers
type listParams struct {
	Status *string
	UserID *int64
	Limit  *int
	Offset *int
}

func bindListParams(r *http.Request) (listParams, error) {
	var p listParams
	query := r.URL.Query()

	bindings := []struct {
		name string
		dst  any
	}{
		{"status", &p.Status},
		{"user_id", &p.UserID},
		{"limit", &p.Limit},
		{"offset", &p.Offset},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dst); err != nil {
			return listParams{}, application.NewInvalidInputError(err)
		}
	}
	return p, nil
}
