package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/afterglow3292/portops/internal/api/respond"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/services"
)

// CargoHandler is a thin HTTP transport over CargoService.
type CargoHandler struct {
	svc   *services.CargoService
	stats *services.StatsService
}

func NewCargoHandler(svc *services.CargoService, stats *services.StatsService) *CargoHandler {
	return &CargoHandler{svc: svc, stats: stats}
}

// Create POST /api/cargo
func (h *CargoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCargoRequest
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

// List GET /api/cargo?q=term
func (h *CargoHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"cargo": items, "count": len(items)})
}

// Get GET /api/cargo/{id}
func (h *CargoHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PUT /api/cargo/{id}
func (h *CargoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCargoRequest
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

// Delete DELETE /api/cargo/{id}
func (h *CargoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MonthlyStats GET /api/cargo/stats/monthly
func (h *CargoHandler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.MonthlyCargo(r.Context())
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"months": stats, "count": len(stats)})
}
