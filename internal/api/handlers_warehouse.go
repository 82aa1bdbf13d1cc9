package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/afterglow3292/portops/internal/api/respond"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/services"
)

// WarehouseHandler is a thin HTTP transport over WarehouseService.
type WarehouseHandler struct {
	svc   *services.WarehouseService
	stats *services.StatsService
}

func NewWarehouseHandler(svc *services.WarehouseService, stats *services.StatsService) *WarehouseHandler {
	return &WarehouseHandler{svc: svc, stats: stats}
}

// Create POST /api/warehouses
func (h *WarehouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateWarehouseRequest
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

// List GET /api/warehouses?q=term
func (h *WarehouseHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"warehouses": items, "count": len(items)})
}

// Get GET /api/warehouses/{id}
func (h *WarehouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PUT /api/warehouses/{id}
func (h *WarehouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateWarehouseRequest
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

// Delete DELETE /api/warehouses/{id}
func (h *WarehouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Usage GET /api/warehouses/{id}/usage
func (h *WarehouseHandler) Usage(w http.ResponseWriter, r *http.Request) {
	out, err := h.stats.WarehouseUsage(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
