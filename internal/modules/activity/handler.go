package activity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/account"
)

// Handler exposes activity-log HTTP endpoints.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *chi.Mux, authorize account.Middleware) {
	router.With(authorize(account.RoleAdmin, account.RoleManager)).
		Get("/accounts/{id}/activity", h.listForAccount)
}

func (h *Handler) listForAccount(w http.ResponseWriter, r *http.Request) {
	f := Filters{Action: r.URL.Query().Get("action")}
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondErr(w, apperr.Validation("invalid start_date: %v", err))
			return
		}
		f.StartDate = t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondErr(w, apperr.Validation("invalid end_date: %v", err))
			return
		}
		f.EndDate = t
	}

	entries, err := h.service.ListForAccount(r.Context(), chi.URLParam(r, "id"), f)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, entries)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
