package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/afterglow3292/portops/internal/api/respond"
	"github.com/afterglow3292/portops/internal/model"
	"github.com/afterglow3292/portops/internal/services"
)

// BerthHandler is a thin HTTP transport over BerthService.
type BerthHandler struct {
	svc *services.BerthService
}

func NewBerthHandler(svc *services.BerthService) *BerthHandler { return &BerthHandler{svc: svc} }

// Create POST /api/berths
func (h *BerthHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBerthRequest
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

// List GET /api/berths?upcoming=true
func (h *BerthHandler) List(w http.ResponseWriter, r *http.Request) {
	upcoming := r.URL.Query().Get("upcoming") == "true"
	berths, err := h.svc.List(r.Context(), upcoming)
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"berthAssignments": berths, "count": len(berths)})
}

// Get GET /api/berths/{id}
func (h *BerthHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PUT /api/berths/{id}
func (h *BerthHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateBerthRequest
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

// UpdateStatus PATCH /api/berths/{id}/status
func (h *BerthHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

// Delete DELETE /api/berths/{id}
func (h *BerthHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
