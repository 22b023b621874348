package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products on the menu.
type Category struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url"`
	SortOrder    int32     `json:"sort_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductVariant is a size/preparation option of a product with its own
// price.
type ProductVariant struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	IsDefault  bool      `json:"is_default"`
	SortOrder  int32     `json:"sort_order"`
}

// Product is a menu entry.
type Product struct {
	ID             uuid.UUID        `json:"id"`
	RestaurantID   uuid.UUID        `json:"restaurant_id"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Name           string           `json:"name"`
	Description    *string          `json:"description"`
	ImageURL       *string          `json:"image_url"`
	BasePriceCents int64            `json:"base_price_cents"`
	IsAvailable    bool             `json:"is_available"`
	SortOrder      int32            `json:"sort_order"`
	Variants       []ProductVariant `json:"variants,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Addon is an extra that can be attached to products (e.g. extra cheese).
type Addon struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
	PriceCents   int64     `json:"price_cents"`
	IsAvailable  bool      `json:"is_available"`
	SortOrder    int32     `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
