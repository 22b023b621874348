package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/delivery"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/middleware"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// DriverService defines the roster operations needed by driver handlers.
// Satisfied by *delivery.DriverService.
type DriverService interface {
	List(ctx context.Context, restaurantID string) ([]model.Driver, error)
	Create(ctx context.Context, restaurantID string, in delivery.DriverInput) (*model.Driver, error)
	Update(ctx context.Context, driverID string, in delivery.DriverInput) (*model.Driver, error)
	Delete(ctx context.Context, driverID string) error
	ToggleStatus(ctx context.Context, driverID string) (*model.Driver, error)
	Approve(ctx context.Context, driverID, approvedBy string) (*model.Driver, error)
	ActiveDeliveries(ctx context.Context, restaurantID string) ([]model.ActiveDelivery, error)
}

// DriverHandler handles driver roster and delivery map endpoints.
type DriverHandler struct {
	svc DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(svc DriverService) *DriverHandler {
	return &DriverHandler{svc: svc}
}

// RegisterRoutes registers driver endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter:
// /restaurants/{rid}/drivers
func (h *DriverHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/toggle", h.Toggle)
	r.Post("/{id}/approve", h.Approve)
}

// RegisterTrackingRoutes registers the delivery map endpoint:
// /restaurants/{rid}/deliveries
func (h *DriverHandler) RegisterTrackingRoutes(r chi.Router) {
	r.Get("/active", h.ActiveDeliveries)
}

func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.svc.List(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drivers)
}

func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in delivery.DriverInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := in.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	driver, err := h.svc.Create(r.Context(), chi.URLParam(r, "rid"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, driver)
}

func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := driverID(w, r)
	if !ok {
		return
	}

	var in delivery.DriverInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := in.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	driver, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := driverID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DriverHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := driverID(w, r)
	if !ok {
		return
	}
	driver, err := h.svc.ToggleStatus(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

func (h *DriverHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := driverID(w, r)
	if !ok {
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	driver, err := h.svc.Approve(r.Context(), id, claims.UserID.String())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

func (h *DriverHandler) ActiveDeliveries(w http.ResponseWriter, r *http.Request) {
	active, err := h.svc.ActiveDeliveries(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func driverID(w http.ResponseWriter, r *http.Request) (string, bool) {
	idStr := chi.URLParam(r, "id")
	if _, err := uuid.Parse(idStr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid driver id"})
		return "", false
	}
	return idStr, true
}
