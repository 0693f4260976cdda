package handlers

import (
	"net/http"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest"
)

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			rest.WriteError(w, application.NewInternalError(err))
			return
		}
	}
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
