// Package model holds the plain records exchanged with the admin stored
// procedures. JSON tags match the snake_case keys the procedures emit.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/status"
)

// CancelActor identifies who cancelled an order.
type CancelActor string

const (
	CancelledByCustomer   CancelActor = "customer"
	CancelledByRestaurant CancelActor = "restaurant"
	CancelledByDriver     CancelActor = "driver"
	CancelledBySystem     CancelActor = "system"
)

// OrderType is how the order reaches the customer.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDineIn   OrderType = "dine_in"
)

// CustomerSnapshot is the customer contact data frozen at order time.
type CustomerSnapshot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AddressSnapshot is the delivery address frozen at order time.
type AddressSnapshot struct {
	Street string  `json:"street"`
	City   string  `json:"city"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// DriverRef is the assigned driver as embedded in order rows.
type DriverRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// OrderItem is a product/variant snapshot on an order. Items are immutable
// once the order exists.
type OrderItem struct {
	ID              uuid.UUID  `json:"id"`
	ProductID       *uuid.UUID `json:"product_id"`
	VariantID       *uuid.UUID `json:"variant_id"`
	ProductName     string     `json:"product_name"`
	VariantName     *string    `json:"variant_name"`
	ProductImageURL *string    `json:"product_image_url"`
	Quantity        int32      `json:"quantity"`
	UnitPriceCents  int64      `json:"unit_price_cents"`
	TotalPriceCents int64      `json:"total_price_cents"`
	Notes           *string    `json:"notes"`
}

// Order is one customer purchase. Money fields are integer minor units;
// totals are computed by the ordering system, never recomputed here. Every
// status milestone has a nullable timestamp the remote procedures stamp at
// most once.
type Order struct {
	ID           uuid.UUID     `json:"id"`
	RestaurantID uuid.UUID     `json:"restaurant_id"`
	OrderNumber  string        `json:"order_number"`
	Status       status.Status `json:"status"`
	OrderType    OrderType     `json:"order_type"`

	SubtotalCents    int64 `json:"subtotal_cents"`
	TaxCents         int64 `json:"tax_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	TipCents         int64 `json:"tip_cents"`
	DiscountCents    int64 `json:"discount_cents"`
	TotalCents       int64 `json:"total_cents"`

	DriverID            *uuid.UUID `json:"driver_id"`
	Driver              *DriverRef `json:"driver"`
	DriverEarningsCents int64      `json:"driver_earnings_cents"`

	CustomerID       *uuid.UUID        `json:"customer_id"`
	CustomerSnapshot *CustomerSnapshot `json:"customer_snapshot"`
	AddressSnapshot  *AddressSnapshot  `json:"address_snapshot"`

	PaymentMethod    *string `json:"payment_method"`
	PaymentStatus    string  `json:"payment_status"`
	PaymentReference *string `json:"payment_reference"`

	CustomerNotes *string `json:"customer_notes"`
	KitchenNotes  *string `json:"kitchen_notes"`
	DriverNotes   *string `json:"driver_notes"`

	CancellationReason *string      `json:"cancellation_reason"`
	CancelledBy        *CancelActor `json:"cancelled_by"`

	CreatedAt    time.Time  `json:"created_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	AcceptedAt   *time.Time `json:"accepted_at"`
	ProcessingAt *time.Time `json:"processing_at"`
	ReadyAt      *time.Time `json:"ready_at"`
	PickedUpAt   *time.Time `json:"picked_up_at"`
	DeliveredAt  *time.Time `json:"delivered_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	OrderItems []OrderItem `json:"order_items,omitempty"`
}

// PageMeta is the pagination envelope of a windowed list. PageIndex is
// zero-based.
type PageMeta struct {
	PageIndex  int `json:"page_index"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
}

// PaginatedOrders is one cached page of the order board, newest first.
type PaginatedOrders struct {
	Results []Order  `json:"results"`
	Meta    PageMeta `json:"meta"`
}
