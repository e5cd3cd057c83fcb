package branch

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/account"
)

// Handler exposes branch HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, authorize account.Middleware) {
	router.Route("/branches", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authorize(account.RoleAdmin, account.RoleManager))
			r.Get("/", h.listBranches)
			r.Get("/{id}", h.getBranch)
		})

		r.Group(func(r chi.Router) {
			r.Use(authorize(account.RoleAdmin))
			r.Post("/", h.createBranch)
			r.Put("/{id}", h.updateBranch)
			r.Delete("/{id}", h.deleteBranch)
			r.Post("/{id}/assign", h.assignAccount)
			r.Post("/{id}/remove", h.removeAccount)
			r.Put("/{id}/role", h.updateRole)
			r.Put("/{id}/deactivate", h.deactivate)
			r.Put("/{id}/reactivate", h.reactivate)
		})
	})
}

func (h *Handler) createBranch(w http.ResponseWriter, r *http.Request) {
	var req CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.service.CreateBranch(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, b)
}

func (h *Handler) getBranch(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBranch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.service.ListBranches(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, branches)
}

func (h *Handler) updateBranch(w http.ResponseWriter, r *http.Request) {
	var req UpdateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.service.UpdateBranch(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) deleteBranch(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBranch(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "branch deleted"})
}

func (h *Handler) assignAccount(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.AssignAccount(r.Context(), chi.URLParam(r, "id"), req.AccountID); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Account assigned to branch"})
}

func (h *Handler) removeAccount(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.RemoveAccount(r.Context(), chi.URLParam(r, "id"), req.AccountID); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Account removed from branch"})
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.UpdateRole(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Roles updated"})
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Branch deactivated"})
}

func (h *Handler) reactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Branch reactivated"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
