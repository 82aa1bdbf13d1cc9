package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/afterglow3292/portops/internal/api/respond"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/services"
)

// VoyageHandler is a thin HTTP transport over VoyageService.
type VoyageHandler struct {
	svc *services.VoyageService
}

func NewVoyageHandler(svc *services.VoyageService) *VoyageHandler { return &VoyageHandler{svc: svc} }

// Create POST /api/voyages
func (h *VoyageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateVoyageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// List GET /api/voyages
func (h *VoyageHandler) List(w http.ResponseWriter, r *http.Request) {
	voyages, err := h.svc.List(r.Context())
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"voyagePlans": voyages, "count": len(voyages)})
}

// Get GET /api/voyages/{id}
func (h *VoyageHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PUT /api/voyages/{id}
func (h *VoyageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateVoyageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateStatus PATCH /api/voyages/{id}/status
func (h *VoyageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Delete DELETE /api/voyages/{id}
func (h *VoyageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
