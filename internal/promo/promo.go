// Package promo manages promotions and coupon codes.
package promo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/cache"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// KeyPrefix is the cache key prefix of promotion and coupon lists.
const KeyPrefix = "promo:"

// Service manages promotions and coupons.
type Service struct {
	gw     gateway.Caller
	cache  cache.Store
	logger *zap.Logger
	sf     singleflight.Group
}

// NewService creates the promotions service.
func NewService(gw gateway.Caller, store cache.Store, logger *zap.Logger) *Service {
	return &Service{gw: gw, cache: store, logger: logger}
}

// PromotionInput carries the staff-editable promotion fields.
type PromotionInput struct {
	Name          string             `json:"name"`
	Description   *string            `json:"description"`
	ImageURL      *string            `json:"image_url"`
	DiscountType  model.DiscountType `json:"discount_type"`
	DiscountValue int64              `json:"discount_value"`
	StartsAt      *time.Time         `json:"starts_at"`
	EndsAt        *time.Time         `json:"ends_at"`
	IsActive      bool               `json:"is_active"`
}

// Validate rejects inputs the remote procedures would reject anyway.
func (in PromotionInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: promotion name is required", model.ErrInvalidInput)
	}
	return validateDiscount(in.DiscountType, in.DiscountValue)
}

// CouponInput carries the staff-editable coupon fields.
type CouponInput struct {
	Code          string             `json:"code"`
	Description   *string            `json:"description"`
	DiscountType  model.DiscountType `json:"discount_type"`
	DiscountValue int64              `json:"discount_value"`
	MinOrderCents int64              `json:"min_order_cents"`
	MaxUses       *int32             `json:"max_uses"`
	ExpiresAt     *time.Time         `json:"expires_at"`
	IsActive      bool               `json:"is_active"`
}

// Validate rejects inputs the remote procedures would reject anyway. Codes
// are normalized upper-case before the round trip.
func (in CouponInput) Validate() error {
	if strings.TrimSpace(in.Code) == "" {
		return fmt.Errorf("%w: coupon code is required", model.ErrInvalidInput)
	}
	return validateDiscount(in.DiscountType, in.DiscountValue)
}

func validateDiscount(dt model.DiscountType, value int64) error {
	switch dt {
	case model.DiscountPercentage:
		if value < 1 || value > 100 {
			return fmt.Errorf("%w: percentage discount must be between 1 and 100", model.ErrInvalidInput)
		}
	case model.DiscountFixedAmount:
		if value < 1 {
			return fmt.Errorf("%w: fixed discount must be positive", model.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", model.ErrInvalidInput, dt)
	}
	return nil
}

// Promotions returns the restaurant's promotions.
func (s *Service) Promotions(ctx context.Context, restaurantID string) ([]model.Promotion, error) {
	var out []model.Promotion
	err := s.cachedList(ctx, "get_admin_promotions", restaurantID, &out)
	return out, err
}

// Coupons returns the restaurant's coupons.
func (s *Service) Coupons(ctx context.Context, restaurantID string) ([]model.Coupon, error) {
	var out []model.Coupon
	err := s.cachedList(ctx, "get_admin_coupons", restaurantID, &out)
	return out, err
}

// CreatePromotion adds a promotion.
func (s *Service) CreatePromotion(ctx context.Context, restaurantID string, in PromotionInput) (*model.Promotion, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out := &model.Promotion{}
	err := s.mutate(ctx, "create_admin_promotion", gateway.Args{
		"p_restaurant_id":  restaurantID,
		"p_name":           in.Name,
		"p_description":    in.Description,
		"p_image_url":      in.ImageURL,
		"p_discount_type":  string(in.DiscountType),
		"p_discount_value": in.DiscountValue,
		"p_starts_at":      in.StartsAt,
		"p_ends_at":        in.EndsAt,
		"p_is_active":      in.IsActive,
	}, out)
	return out, err
}

// UpdatePromotion edits a promotion.
func (s *Service) UpdatePromotion(ctx context.Context, promotionID string, in PromotionInput) (*model.Promotion, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out := &model.Promotion{}
	err := s.mutate(ctx, "update_admin_promotion", gateway.Args{
		"p_promotion_id":   promotionID,
		"p_name":           in.Name,
		"p_description":    in.Description,
		"p_image_url":      in.ImageURL,
		"p_discount_type":  string(in.DiscountType),
		"p_discount_value": in.DiscountValue,
		"p_starts_at":      in.StartsAt,
		"p_ends_at":        in.EndsAt,
		"p_is_active":      in.IsActive,
	}, out)
	return out, err
}

// DeletePromotion removes a promotion.
func (s *Service) DeletePromotion(ctx context.Context, promotionID string) error {
	return s.mutate(ctx, "delete_admin_promotion", gateway.Args{
		"p_promotion_id": promotionID,
	}, nil)
}

// TogglePromotion flips a promotion between active and inactive.
func (s *Service) TogglePromotion(ctx context.Context, promotionID string) (*model.Promotion, error) {
	out := &model.Promotion{}
	err := s.mutate(ctx, "toggle_promotion_status", gateway.Args{
		"p_promotion_id": promotionID,
	}, out)
	return out, err
}

// CreateCoupon adds a coupon code.
func (s *Service) CreateCoupon(ctx context.Context, restaurantID string, in CouponInput) (*model.Coupon, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out := &model.Coupon{}
	err := s.mutate(ctx, "create_admin_coupon", gateway.Args{
		"p_restaurant_id":   restaurantID,
		"p_code":            strings.ToUpper(strings.TrimSpace(in.Code)),
		"p_description":     in.Description,
		"p_discount_type":   string(in.DiscountType),
		"p_discount_value":  in.DiscountValue,
		"p_min_order_cents": in.MinOrderCents,
		"p_max_uses":        in.MaxUses,
		"p_expires_at":      in.ExpiresAt,
		"p_is_active":       in.IsActive,
	}, out)
	return out, err
}

// UpdateCoupon edits a coupon.
func (s *Service) UpdateCoupon(ctx context.Context, couponID string, in CouponInput) (*model.Coupon, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out := &model.Coupon{}
	err := s.mutate(ctx, "update_admin_coupon", gateway.Args{
		"p_coupon_id":       couponID,
		"p_code":            strings.ToUpper(strings.TrimSpace(in.Code)),
		"p_description":     in.Description,
		"p_discount_type":   string(in.DiscountType),
		"p_discount_value":  in.DiscountValue,
		"p_min_order_cents": in.MinOrderCents,
		"p_max_uses":        in.MaxUses,
		"p_expires_at":      in.ExpiresAt,
		"p_is_active":       in.IsActive,
	}, out)
	return out, err
}

// DeleteCoupon removes a coupon.
func (s *Service) DeleteCoupon(ctx context.Context, couponID string) error {
	return s.mutate(ctx, "delete_admin_coupon", gateway.Args{
		"p_coupon_id": couponID,
	}, nil)
}

// ToggleCoupon flips a coupon between active and inactive.
func (s *Service) ToggleCoupon(ctx context.Context, couponID string) (*model.Coupon, error) {
	out := &model.Coupon{}
	err := s.mutate(ctx, "toggle_coupon_status", gateway.Args{
		"p_coupon_id": couponID,
	}, out)
	return out, err
}

func (s *Service) cachedList(ctx context.Context, procedure, restaurantID string, out any) error {
	key := KeyPrefix + procedure + "|rid=" + restaurantID
	if v, ok := s.cache.Get(key); ok {
		if raw, ok := v.(json.RawMessage); ok {
			return json.Unmarshal(raw, out)
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		raw, err := s.gw.Call(ctx, procedure, gateway.Args{
			"p_restaurant_id": restaurantID,
		})
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, raw)
		return raw, nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(v.(json.RawMessage), out); err != nil {
		return fmt.Errorf("decode %s: %w", procedure, err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, procedure string, args gateway.Args, out any) error {
	raw, err := s.gw.Call(ctx, procedure, args)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s: %w", procedure, err)
		}
	}
	cache.InvalidatePrefix(s.cache, KeyPrefix)
	return nil
}
