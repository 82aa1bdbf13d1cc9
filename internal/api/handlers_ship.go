package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/afterglow3292/portops/internal/api/respond"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/services"
)

// ShipHandler is a thin HTTP transport over ShipService.
type ShipHandler struct {
	svc *services.ShipService
}

func NewShipHandler(svc *services.ShipService) *ShipHandler { return &ShipHandler{svc: svc} }

// Create POST /api/ships
func (h *ShipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateShipRequest
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

// List GET /api/ships
func (h *ShipHandler) List(w http.ResponseWriter, r *http.Request) {
	ships, err := h.svc.List(r.Context())
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"ships": ships, "count": len(ships)})
}

// Get GET /api/ships/{id}
func (h *ShipHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PUT /api/ships/{id}
func (h *ShipHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateShipRequest
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

// Delete DELETE /api/ships/{id}
func (h *ShipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
