package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/cache"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// ListKeyPrefix is the cache key prefix of driver lists.
const ListKeyPrefix = "drivers:"

// ActiveKeyPrefix is the cache key prefix of live delivery snapshots.
const ActiveKeyPrefix = "active-deliveries:"

func listKey(restaurantID string) string {
	return ListKeyPrefix + "rid=" + restaurantID
}

func activeKey(restaurantID string) string {
	return ActiveKeyPrefix + "rid=" + restaurantID
}

// DriverInput carries the staff-editable driver fields.
type DriverInput struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        *string           `json:"phone"`
	VehicleType  model.VehicleType `json:"vehicle_type"`
	LicensePlate *string           `json:"license_plate"`
}

// Validate rejects inputs the remote procedures would reject anyway, before
// the round trip.
func (in DriverInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: driver name is required", model.ErrInvalidInput)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: driver email is required", model.ErrInvalidInput)
	}
	if !in.VehicleType.Valid() {
		return fmt.Errorf("%w: unknown vehicle type %q", model.ErrInvalidInput, in.VehicleType)
	}
	return nil
}

// DriverService manages the restaurant's courier roster and the live
// delivery view.
type DriverService struct {
	gw     gateway.Caller
	cache  cache.Store
	logger *zap.Logger
	sf     singleflight.Group
}

// NewDriverService creates the driver management service.
func NewDriverService(gw gateway.Caller, store cache.Store, logger *zap.Logger) *DriverService {
	return &DriverService{gw: gw, cache: store, logger: logger}
}

// List returns the restaurant's drivers, served from cache when fresh.
func (s *DriverService) List(ctx context.Context, restaurantID string) ([]model.Driver, error) {
	key := listKey(restaurantID)
	if v, ok := s.cache.Get(key); ok {
		if drivers, ok := v.([]model.Driver); ok {
			return drivers, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		raw, err := s.gw.Call(ctx, "get_admin_drivers", gateway.Args{
			"p_restaurant_id": restaurantID,
		})
		if err != nil {
			return nil, err
		}
		var drivers []model.Driver
		if err := json.Unmarshal(raw, &drivers); err != nil {
			return nil, fmt.Errorf("decode drivers: %w", err)
		}
		s.cache.Set(key, drivers)
		return drivers, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Driver), nil
}

// Create registers a new driver in "pending" status.
func (s *DriverService) Create(ctx context.Context, restaurantID string, in DriverInput) (*model.Driver, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	raw, err := s.gw.Call(ctx, "create_admin_driver", gateway.Args{
		"p_restaurant_id": restaurantID,
		"p_name":          in.Name,
		"p_email":         in.Email,
		"p_phone":         nullable(in.Phone),
		"p_vehicle_type":  string(in.VehicleType),
		"p_license_plate": nullable(in.LicensePlate),
	})
	if err != nil {
		return nil, err
	}
	return s.decodeAndInvalidate(raw)
}

// Update edits an existing driver's staff-editable fields.
func (s *DriverService) Update(ctx context.Context, driverID string, in DriverInput) (*model.Driver, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	raw, err := s.gw.Call(ctx, "update_admin_driver", gateway.Args{
		"p_driver_id":     driverID,
		"p_name":          in.Name,
		"p_email":         in.Email,
		"p_phone":         nullable(in.Phone),
		"p_vehicle_type":  string(in.VehicleType),
		"p_license_plate": nullable(in.LicensePlate),
	})
	if err != nil {
		return nil, err
	}
	return s.decodeAndInvalidate(raw)
}

// Delete removes a driver from the roster.
func (s *DriverService) Delete(ctx context.Context, driverID string) error {
	if _, err := s.gw.Call(ctx, "delete_admin_driver", gateway.Args{
		"p_driver_id": driverID,
	}); err != nil {
		return err
	}
	cache.InvalidatePrefix(s.cache, ListKeyPrefix)
	return nil
}

// ToggleStatus flips a driver between active and inactive.
func (s *DriverService) ToggleStatus(ctx context.Context, driverID string) (*model.Driver, error) {
	raw, err := s.gw.Call(ctx, "toggle_driver_status", gateway.Args{
		"p_driver_id": driverID,
	})
	if err != nil {
		return nil, err
	}
	return s.decodeAndInvalidate(raw)
}

// Approve clears a pending driver for work.
func (s *DriverService) Approve(ctx context.Context, driverID, approvedBy string) (*model.Driver, error) {
	raw, err := s.gw.Call(ctx, "approve_driver", gateway.Args{
		"p_driver_id":   driverID,
		"p_approved_by": approvedBy,
	})
	if err != nil {
		return nil, err
	}
	return s.decodeAndInvalidate(raw)
}

// ActiveDeliveries returns the orders currently out for delivery with their
// drivers' last known positions, served from cache when fresh. The tracker
// invalidates this entry on every poll tick.
func (s *DriverService) ActiveDeliveries(ctx context.Context, restaurantID string) ([]model.ActiveDelivery, error) {
	key := activeKey(restaurantID)
	if v, ok := s.cache.Get(key); ok {
		if active, ok := v.([]model.ActiveDelivery); ok {
			return active, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		raw, err := s.gw.Call(ctx, "get_active_deliveries", gateway.Args{
			"p_restaurant_id": restaurantID,
		})
		if err != nil {
			return nil, err
		}
		var active []model.ActiveDelivery
		if err := json.Unmarshal(raw, &active); err != nil {
			return nil, fmt.Errorf("decode active deliveries: %w", err)
		}
		s.cache.Set(key, active)
		return active, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.ActiveDelivery), nil
}

// RefreshActiveDeliveries drops the cached snapshot and fetches a fresh one.
func (s *DriverService) RefreshActiveDeliveries(ctx context.Context, restaurantID string) ([]model.ActiveDelivery, error) {
	s.cache.Invalidate(activeKey(restaurantID))
	return s.ActiveDeliveries(ctx, restaurantID)
}

func (s *DriverService) decodeAndInvalidate(raw json.RawMessage) (*model.Driver, error) {
	var driver model.Driver
	if err := json.Unmarshal(raw, &driver); err != nil {
		return nil, fmt.Errorf("decode driver: %w", err)
	}
	cache.InvalidatePrefix(s.cache, ListKeyPrefix)
	return &driver, nil
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
