package handlers

import (
	"net/http"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application/services"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest/middleware"
)

// HandleGetOrder returns one order. Buyers only see their own.
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"  format(uuid)
// @Success      200  {object}  rest.APIResponse
// @Failure      404  {object}  rest.APIResponse
// @Router       /orders/{id} [get]
func (h *Handlers) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	id, err := orderIDParam(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	var order *domain.Order
	if claims.IsAdmin() {
		order, err = h.queries.GetOrder(r.Context(), id)
	} else {
		order, err = h.queries.GetOrderForUser(r.Context(), claims.UserID, id)
	}
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToOrderResponse(order))
}

// HandleListOrders
// @Summary      List orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "PROCESSING, DELIVERED or CANCELLED"
// @Param        user_id  query     int     false  "Buyer"
// @Param        limit    query     int     false  "Page size (1-100)"
// @Param        offset   query     int     false  "Offset"
// @Success      200      {object}  rest.APIResponse
// @Router       /admin/orders [get]
func (h *Handlers) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	q := services.ListOrdersQuery{UserID: params.UserID}
	if params.Limit != nil {
		q.Limit = *params.Limit
	}
	if params.Offset != nil {
		q.Offset = *params.Offset
	}
	if params.Status != nil {
		status := domain.OrderStatus(*params.Status)
		q.Status = &status
	}

	page, err := h.queries.ListOrders(r.Context(), q)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToOrderListResponse(page))
}

// HandleDeliverOrder
// @Summary      Mark an order delivered
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"  format(uuid)
// @Success      200  {object}  rest.APIResponse
// @Failure      409  {object}  rest.APIResponse  "Invalid transition"
// @Router       /admin/orders/{id}/deliver [post]
func (h *Handlers) HandleDeliverOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	order, err := h.engine.MarkDelivered(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToOrderResponse(order))
}

// HandleCancelOrder refunds and cancels a Processing order
// @Summary      Refund and cancel an order
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true   "Order ID"  format(uuid)
// @Param        request  body      CancelOrderRequest  false  "Reason"
// @Success      200      {object}  rest.APIResponse
// @Failure      409      {object}  rest.APIResponse  "Invalid transition"
// @Failure      502      {object}  rest.APIResponse  "Refund failed"
// @Router       /admin/orders/{id}/cancel [post]
func (h *Handlers) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	var req CancelOrderRequest
	if err := h.decodeBody(r, &req, true); err != nil {
		rest.WriteError(w, err)
		return
	}

	order, err := h.engine.CancelOrder(r.Context(), services.CancelOrderCommand{
		OrderID: id,
		Reason:  req.Reason,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToOrderResponse(order))
}
