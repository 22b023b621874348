package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/handler"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/promo"
)

// --- Mock promo service ---

type mockPromo struct {
	promotions      func(ctx context.Context, restaurantID string) ([]model.Promotion, error)
	createPromotion func(ctx context.Context, restaurantID string, in promo.PromotionInput) (*model.Promotion, error)
	updatePromotion func(ctx context.Context, promotionID string, in promo.PromotionInput) (*model.Promotion, error)
	deletePromotion func(ctx context.Context, promotionID string) error
	togglePromotion func(ctx context.Context, promotionID string) (*model.Promotion, error)

	coupons      func(ctx context.Context, restaurantID string) ([]model.Coupon, error)
	createCoupon func(ctx context.Context, restaurantID string, in promo.CouponInput) (*model.Coupon, error)
	updateCoupon func(ctx context.Context, couponID string, in promo.CouponInput) (*model.Coupon, error)
	deleteCoupon func(ctx context.Context, couponID string) error
	toggleCoupon func(ctx context.Context, couponID string) (*model.Coupon, error)
}

func (m *mockPromo) Promotions(ctx context.Context, restaurantID string) ([]model.Promotion, error) {
	return m.promotions(ctx, restaurantID)
}

func (m *mockPromo) CreatePromotion(ctx context.Context, restaurantID string, in promo.PromotionInput) (*model.Promotion, error) {
	return m.createPromotion(ctx, restaurantID, in)
}

func (m *mockPromo) UpdatePromotion(ctx context.Context, promotionID string, in promo.PromotionInput) (*model.Promotion, error) {
	return m.updatePromotion(ctx, promotionID, in)
}

func (m *mockPromo) DeletePromotion(ctx context.Context, promotionID string) error {
	return m.deletePromotion(ctx, promotionID)
}

func (m *mockPromo) TogglePromotion(ctx context.Context, promotionID string) (*model.Promotion, error) {
	return m.togglePromotion(ctx, promotionID)
}

func (m *mockPromo) Coupons(ctx context.Context, restaurantID string) ([]model.Coupon, error) {
	return m.coupons(ctx, restaurantID)
}

func (m *mockPromo) CreateCoupon(ctx context.Context, restaurantID string, in promo.CouponInput) (*model.Coupon, error) {
	return m.createCoupon(ctx, restaurantID, in)
}

func (m *mockPromo) UpdateCoupon(ctx context.Context, couponID string, in promo.CouponInput) (*model.Coupon, error) {
	return m.updateCoupon(ctx, couponID, in)
}

func (m *mockPromo) DeleteCoupon(ctx context.Context, couponID string) error {
	return m.deleteCoupon(ctx, couponID)
}

func (m *mockPromo) ToggleCoupon(ctx context.Context, couponID string) (*model.Coupon, error) {
	return m.toggleCoupon(ctx, couponID)
}

func setupPromoRouter(svc *mockPromo) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/restaurants/{rid}/promotions", handler.NewPromoHandler(svc).RegisterRoutes)
	return r
}

func TestPromotionToggle_OK(t *testing.T) {
	promotionID := uuid.New()
	svc := &mockPromo{
		togglePromotion: func(_ context.Context, id string) (*model.Promotion, error) {
			if id != promotionID.String() {
				t.Errorf("promotion id: got %s", id)
			}
			return &model.Promotion{ID: promotionID, IsActive: false}, nil
		},
	}
	router := setupPromoRouter(svc)

	rr := doRequest(t, router, "POST", "/restaurants/"+testRestaurantID.String()+"/promotions/"+promotionID.String()+"/toggle", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	var resp model.Promotion
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.IsActive {
		t.Error("expected promotion toggled off")
	}
}

func TestPromotionToggle_RejectsMalformedID(t *testing.T) {
	router := setupPromoRouter(&mockPromo{})

	rr := doRequest(t, router, "POST", "/restaurants/"+testRestaurantID.String()+"/promotions/banana/toggle", nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestCouponToggle_OK(t *testing.T) {
	couponID := uuid.New()
	svc := &mockPromo{
		toggleCoupon: func(_ context.Context, id string) (*model.Coupon, error) {
			if id != couponID.String() {
				t.Errorf("coupon id: got %s", id)
			}
			return &model.Coupon{ID: couponID, Code: "VERANO20", IsActive: true}, nil
		},
	}
	router := setupPromoRouter(svc)

	rr := doRequest(t, router, "POST", "/restaurants/"+testRestaurantID.String()+"/promotions/coupons/"+couponID.String()+"/toggle", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	var resp model.Coupon
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.IsActive {
		t.Error("expected coupon toggled on")
	}
}
