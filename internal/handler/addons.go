package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/catalog"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// AddonService defines the product addon operations needed by the handler.
// Satisfied by *catalog.Service.
type AddonService interface {
	Addons(ctx context.Context, restaurantID string) ([]model.Addon, error)
	CreateAddon(ctx context.Context, restaurantID string, in catalog.AddonInput) (*model.Addon, error)
	UpdateAddon(ctx context.Context, addonID string, in catalog.AddonInput) (*model.Addon, error)
	DeleteAddon(ctx context.Context, addonID string) error
}

// AddonHandler handles product addon endpoints.
type AddonHandler struct {
	svc AddonService
}

// NewAddonHandler creates a new AddonHandler.
func NewAddonHandler(svc AddonService) *AddonHandler {
	return &AddonHandler{svc: svc}
}

// RegisterRoutes registers addon endpoints on the given Chi router.
func (h *AddonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *AddonHandler) List(w http.ResponseWriter, r *http.Request) {
	addons, err := h.svc.Addons(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addons)
}

func (h *AddonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in catalog.AddonInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	addon, err := h.svc.CreateAddon(r.Context(), chi.URLParam(r, "rid"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addon)
}

func (h *AddonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid addon id")
	if !ok {
		return
	}

	var in catalog.AddonInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	addon, err := h.svc.UpdateAddon(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addon)
}

func (h *AddonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid addon id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAddon(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
