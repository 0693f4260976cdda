package handlers

import (
	"net/http"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest"
	"github.com/oapi-codegen/runtime"
)

// HandleListDiscrepancies
// @Summary      List unresolved payment discrepancies
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {object}  rest.APIResponse
// @Router       /admin/discrepancies [get]
func (h *Handlers) HandleListDiscrepancies(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	pageSize := 0
	if limit != nil {
		pageSize = *limit
	}

	items, err := h.discrepancies.ListUnresolved(r.Context(), pageSize)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToDiscrepancyResponses(items))
}

// HandleResolveDiscrepancy
// @Summary      Mark a discrepancy handled
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id       path  int                        true  "Discrepancy ID"
// @Param        request  body  ResolveDiscrepancyRequest  true  "Resolution"
// @Success      204
// @Failure      404  {object}  rest.APIResponse
// @Router       /admin/discrepancies/{id}/resolve [post]
func (h *Handlers) HandleResolveDiscrepancy(w http.ResponseWriter, r *http.Request) {
	id, err := discrepancyIDParam(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	var req ResolveDiscrepancyRequest
	if err := h.decodeBody(r, &req, false); err != nil {
		rest.WriteError(w, err)
		return
	}

	if err := h.discrepancies.Resolve(r.Context(), id, req.Note); err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
