package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/account"
	"github.com/lubinda/stockline-backend/internal/modules/auth"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, authorize account.Middleware) {
	router.Route("/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authorize(account.RoleAdmin, account.RoleManager, account.RoleUser))
			r.Get("/", h.listOrders)          // GET /orders (role-filtered view)
			r.Put("/{id}/cancel", h.cancel)   // PUT /orders/{id}/cancel
		})

		r.Group(func(r chi.Router) {
			r.Use(authorize(account.RoleUser))
			r.Post("/", h.createOrder)             // POST /orders
			r.Get("/{id}/status", h.trackStatus)   // GET  /orders/{id}/status
		})

		r.Group(func(r chi.Router) {
			r.Use(authorize(account.RoleAdmin, account.RoleManager))
			r.Get("/{id}", h.getOrder)           // GET /orders/{id}
			r.Put("/{id}", h.updateOrder)        // PUT /orders/{id}
			r.Put("/{id}/process", h.process)    // PUT /orders/{id}/process
			r.Put("/{id}/ship", h.ship)          // PUT /orders/{id}/ship
			r.Put("/{id}/deliver", h.deliver)    // PUT /orders/{id}/deliver
		})
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondErr(w, apperr.Unauthorized("missing principal"))
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	o, err := h.service.Create(r.Context(), p.AccountID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondErr(w, apperr.Unauthorized("missing principal"))
		return
	}

	orders, err := h.service.List(r.Context(), p.Role, p.AccountID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if _, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Order updated"})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Process(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Order processed"})
}

func (h *Handler) ship(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ship(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Order shipped"})
}

func (h *Handler) deliver(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deliver(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Order delivered"})
}

func (h *Handler) trackStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondErr(w, apperr.Unauthorized("missing principal"))
		return
	}

	status, err := h.service.TrackStatus(r.Context(), chi.URLParam(r, "id"), p.AccountID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]Status{"orderStatus": status})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
