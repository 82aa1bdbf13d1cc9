package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/afterglow3292/portops/internal/api/respond"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/services"
)

// PortHandler is a thin HTTP transport over PortService.
type PortHandler struct {
	svc   *services.PortService
	stats *services.StatsService
}

func NewPortHandler(svc *services.PortService, stats *services.StatsService) *PortHandler {
	return &PortHandler{svc: svc, stats: stats}
}

// Create POST /api/ports
func (h *PortHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePortRequest
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

// List GET /api/ports
func (h *PortHandler) List(w http.ResponseWriter, r *http.Request) {
	ports, err := h.svc.List(r.Context())
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"ports": ports, "count": len(ports)})
}

// Get GET /api/ports/{id}
func (h *PortHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PUT /api/ports/{id}
func (h *PortHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePortRequest
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

// Delete DELETE /api/ports/{id}
func (h *PortHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Occupancy GET /api/ports/{id}/occupancy
func (h *PortHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	out, err := h.stats.PortOccupancy(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
