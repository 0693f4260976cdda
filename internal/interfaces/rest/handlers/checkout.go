package handlers

import (
	"net/http"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application/services"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest/middleware"
)

// HandleCreatePaymentIntent prices the caller's cart and opens a payment intent
// @Summary      Price a cart and open a payment intent
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreatePaymentIntentRequest  true  "Cart"
// @Success      201      {object}  rest.APIResponse
// @Failure      400      {object}  rest.APIResponse  "Invalid cart"
// @Failure      422      {object}  rest.APIResponse  "Unknown product"
// @Failure      502      {object}  rest.APIResponse  "Payment gateway error"
// @Router       /checkout/payment-intents [post]
func (h *Handlers) HandleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	var req CreatePaymentIntentRequest
	if err := h.decodeBody(r, &req, false); err != nil {
		rest.WriteError(w, err)
		return
	}

	result, err := h.engine.CreatePaymentIntent(r.Context(), services.CreatePaymentIntentCommand{
		UserID: claims.UserID,
		Items:  toCart(req.Items),
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToPaymentIntentResponse(result))
}

// HandleConfirmOrder creates the order for a succeeded payment
// @Summary      Create the order for a succeeded payment
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ConfirmOrderRequest  true  "Payment reference and cart"
// @Success      201      {object}  rest.APIResponse
// @Failure      402      {object}  rest.APIResponse  "Payment not succeeded"
// @Failure      403      {object}  rest.APIResponse  "Payment belongs to another user"
// @Failure      409      {object}  rest.APIResponse  "Already confirmed or amount mismatch"
// @Router       /orders/confirm [post]
func (h *Handlers) HandleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	var req ConfirmOrderRequest
	if err := h.decodeBody(r, &req, false); err != nil {
		rest.WriteError(w, err)
		return
	}

	order, err := h.engine.ConfirmOrder(r.Context(), services.ConfirmOrderCommand{
		UserID:      claims.UserID,
		ExternalRef: req.PaymentIntentID,
		Items:       toCart(req.Items),
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToOrderResponse(order))
}
