package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/catalog"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// CategoryService defines the menu category operations needed by the
// handler. Satisfied by *catalog.Service.
type CategoryService interface {
	Categories(ctx context.Context, restaurantID string) ([]model.Category, error)
	CreateCategory(ctx context.Context, restaurantID string, in catalog.CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, in catalog.CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoryHandler handles menu category endpoints.
type CategoryHandler struct {
	svc CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// RegisterRoutes registers category endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter:
// /restaurants/{rid}/categories
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), chi.URLParam(r, "rid"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid category id")
	if !ok {
		return
	}

	var in catalog.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid category id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(w http.ResponseWriter, r *http.Request, msg string) (string, bool) {
	idStr := chi.URLParam(r, "id")
	if _, err := uuid.Parse(idStr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return "", false
	}
	return idStr, true
}
