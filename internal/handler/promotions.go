package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/promo"
)

// PromoService defines the promotion and coupon operations needed by the
// handler. Satisfied by *promo.Service.
type PromoService interface {
	Promotions(ctx context.Context, restaurantID string) ([]model.Promotion, error)
	CreatePromotion(ctx context.Context, restaurantID string, in promo.PromotionInput) (*model.Promotion, error)
	UpdatePromotion(ctx context.Context, promotionID string, in promo.PromotionInput) (*model.Promotion, error)
	DeletePromotion(ctx context.Context, promotionID string) error
	TogglePromotion(ctx context.Context, promotionID string) (*model.Promotion, error)

	Coupons(ctx context.Context, restaurantID string) ([]model.Coupon, error)
	CreateCoupon(ctx context.Context, restaurantID string, in promo.CouponInput) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, couponID string, in promo.CouponInput) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID string) error
	ToggleCoupon(ctx context.Context, couponID string) (*model.Coupon, error)
}

// PromoHandler handles promotion and coupon endpoints.
type PromoHandler struct {
	svc PromoService
}

// NewPromoHandler creates a new PromoHandler.
func NewPromoHandler(svc PromoService) *PromoHandler {
	return &PromoHandler{svc: svc}
}

// RegisterRoutes registers promotion and coupon endpoints on the given
// Chi router.
func (h *PromoHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListPromotions)
	r.Post("/", h.CreatePromotion)
	r.Put("/{id}", h.UpdatePromotion)
	r.Delete("/{id}", h.DeletePromotion)
	r.Post("/{id}/toggle", h.TogglePromotion)

	r.Get("/coupons", h.ListCoupons)
	r.Post("/coupons", h.CreateCoupon)
	r.Put("/coupons/{id}", h.UpdateCoupon)
	r.Delete("/coupons/{id}", h.DeleteCoupon)
	r.Post("/coupons/{id}/toggle", h.ToggleCoupon)
}

func (h *PromoHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.svc.Promotions(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promotions)
}

func (h *PromoHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var in promo.PromotionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	promotion, err := h.svc.CreatePromotion(r.Context(), chi.URLParam(r, "rid"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, promotion)
}

func (h *PromoHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid promotion id")
	if !ok {
		return
	}

	var in promo.PromotionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	promotion, err := h.svc.UpdatePromotion(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promotion)
}

func (h *PromoHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid promotion id")
	if !ok {
		return
	}
	if err := h.svc.DeletePromotion(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PromoHandler) TogglePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid promotion id")
	if !ok {
		return
	}
	promotion, err := h.svc.TogglePromotion(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promotion)
}

func (h *PromoHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.svc.Coupons(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *PromoHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var in promo.CouponInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	coupon, err := h.svc.CreateCoupon(r.Context(), chi.URLParam(r, "rid"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, coupon)
}

func (h *PromoHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid coupon id")
	if !ok {
		return
	}

	var in promo.CouponInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	coupon, err := h.svc.UpdateCoupon(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}

func (h *PromoHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid coupon id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCoupon(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PromoHandler) ToggleCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid coupon id")
	if !ok {
		return
	}
	coupon, err := h.svc.ToggleCoupon(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}
