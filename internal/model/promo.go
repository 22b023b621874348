package model

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType is how a promotion or coupon discounts.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// Promotion is a time-boxed menu promotion.
type Promotion struct {
	ID            uuid.UUID    `json:"id"`
	RestaurantID  uuid.UUID    `json:"restaurant_id"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	ImageURL      *string      `json:"image_url"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"`
	StartsAt      *time.Time   `json:"starts_at"`
	EndsAt        *time.Time   `json:"ends_at"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Coupon is a redeemable discount code.
type Coupon struct {
	ID            uuid.UUID    `json:"id"`
	RestaurantID  uuid.UUID    `json:"restaurant_id"`
	Code          string       `json:"code"`
	Description   *string      `json:"description"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"`
	MinOrderCents int64        `json:"min_order_cents"`
	MaxUses       *int32       `json:"max_uses"`
	UsedCount     int32        `json:"used_count"`
	ExpiresAt     *time.Time   `json:"expires_at"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
