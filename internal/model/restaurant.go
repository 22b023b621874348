package model

import (
	"time"

	"github.com/google/uuid"
)

// OperatingHours is one weekday's open window.
type OperatingHours struct {
	Weekday  int    `json:"weekday"` // 0 = Sunday
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
	IsClosed bool   `json:"is_closed"`
}

// Restaurant is the restaurant profile and settings record.
type Restaurant struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email"`
	LogoURL     *string   `json:"logo_url"`
	BannerURL   *string   `json:"banner_url"`

	Street    *string  `json:"street"`
	City      *string  `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	DeliveryFeeCents  int64   `json:"delivery_fee_cents"`
	MinOrderCents     int64   `json:"min_order_cents"`
	DeliveryRadiusKm  float64 `json:"delivery_radius_km"`
	EstimatedPrepMin  int32   `json:"estimated_prep_minutes"`
	AcceptingOrders   bool    `json:"accepting_orders"`
	AcceptingDelivery bool    `json:"accepting_delivery"`
	AcceptingPickup   bool    `json:"accepting_pickup"`

	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
	Locale   string `json:"locale"`

	Hours []OperatingHours `json:"hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
