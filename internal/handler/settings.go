package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/settings"
)

// SettingsService defines the restaurant settings operations needed by the
// handler. Satisfied by *settings.Service.
type SettingsService interface {
	Get(ctx context.Context, restaurantID string) (*model.Restaurant, error)
	Update(ctx context.Context, restaurantID string, in settings.UpdateInput) (*model.Restaurant, error)
}

// SettingsHandler handles restaurant settings endpoints.
type SettingsHandler struct {
	svc SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// RegisterRoutes registers settings endpoints on the given Chi router.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.svc.Get(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in settings.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	restaurant, err := h.svc.Update(r.Context(), chi.URLParam(r, "rid"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}
