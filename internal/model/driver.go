package model

import (
	"time"

	"github.com/google/uuid"
)

// DriverStatus is the availability state of a courier.
type DriverStatus string

const (
	DriverPending   DriverStatus = "pending"
	DriverApproved  DriverStatus = "approved"
	DriverActive    DriverStatus = "active"
	DriverInactive  DriverStatus = "inactive"
	DriverSuspended DriverStatus = "suspended"
)

// Valid reports whether s is a known driver status.
func (s DriverStatus) Valid() bool {
	switch s {
	case DriverPending, DriverApproved, DriverActive, DriverInactive, DriverSuspended:
		return true
	}
	return false
}

// VehicleType matches the vehicle_type CHECK constraint.
type VehicleType string

const (
	VehicleMoto      VehicleType = "moto"
	VehicleBici      VehicleType = "bici"
	VehicleAuto      VehicleType = "auto"
	VehicleCamioneta VehicleType = "camioneta"
	VehicleOtro      VehicleType = "otro"
)

// Valid reports whether v is a known vehicle type.
func (v VehicleType) Valid() bool {
	switch v {
	case VehicleMoto, VehicleBici, VehicleAuto, VehicleCamioneta, VehicleOtro:
		return true
	}
	return false
}

// Driver is a delivery courier. Position fields are written by the courier
// mobile client and are read-only here.
type Driver struct {
	ID           uuid.UUID    `json:"id"`
	RestaurantID uuid.UUID    `json:"restaurant_id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        *string      `json:"phone"`
	PhotoURL     *string      `json:"photo_url"`
	VehicleType  VehicleType  `json:"vehicle_type"`
	LicensePlate *string      `json:"license_plate"`
	Status       DriverStatus `json:"status"`

	IsOnline     bool `json:"is_online"`
	IsOnDelivery bool `json:"is_on_delivery"`

	CurrentLatitude  *float64   `json:"current_latitude"`
	CurrentLongitude *float64   `json:"current_longitude"`
	LastLocationAt   *time.Time `json:"last_location_at"`

	TotalDeliveries    int64   `json:"total_deliveries"`
	TotalEarningsCents int64   `json:"total_earnings_cents"`
	AverageRating      float64 `json:"average_rating"`

	ApprovedAt *time.Time `json:"approved_at"`
	ApprovedBy *uuid.UUID `json:"approved_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ActiveDelivery is one row of the live delivery map: an order out for
// delivery together with its driver's last known position.
type ActiveDelivery struct {
	OrderID           uuid.UUID `json:"order_id"`
	OrderNumber       string    `json:"order_number"`
	DriverID          uuid.UUID `json:"driver_id"`
	DriverName        string    `json:"driver_name"`
	DriverPhone       *string   `json:"driver_phone"`
	DriverVehicleType string    `json:"driver_vehicle_type"`
	DeliveryAddress   string    `json:"delivery_address"`
	CustomerName      string    `json:"customer_name"`
	CurrentLatitude   *float64  `json:"current_latitude"`
	CurrentLongitude  *float64  `json:"current_longitude"`
}
