package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/catalog"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// ProductService defines the product operations needed by the handler.
// Satisfied by *catalog.Service.
type ProductService interface {
	Products(ctx context.Context, restaurantID string) ([]model.Product, error)
	CreateProduct(ctx context.Context, restaurantID string, in catalog.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, in catalog.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ToggleProductAvailability(ctx context.Context, productID string) (*model.Product, error)
}

// ProductHandler handles product endpoints.
type ProductHandler struct {
	svc ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// RegisterRoutes registers product endpoints on the given Chi router.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/toggle", h.Toggle)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), chi.URLParam(r, "rid"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid product id")
	if !ok {
		return
	}

	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid product id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ProductHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid product id")
	if !ok {
		return
	}
	product, err := h.svc.ToggleProductAvailability(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
