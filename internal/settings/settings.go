// Package settings serves and edits the restaurant profile. Profile edits
// are the one place the dashboard patches optimistically: the form writes
// the new values into the cache immediately and rolls back if the remote
// update is rejected, since a settings form round trip feels sluggish
// otherwise and the fields carry no cross-entity invariants.
package settings

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

// Key is the cache key of the restaurant settings record.
func Key(restaurantID string) string {
	return "restaurant:" + restaurantID
}

// Service reads and updates the restaurant profile.
type Service struct {
	gw     gateway.Caller
	cache  cache.Store
	logger *zap.Logger
	sf     singleflight.Group
}

// NewService creates the settings service.
func NewService(gw gateway.Caller, store cache.Store, logger *zap.Logger) *Service {
	return &Service{gw: gw, cache: store, logger: logger}
}

// Get returns the restaurant profile, served from cache when fresh.
func (s *Service) Get(ctx context.Context, restaurantID string) (*model.Restaurant, error) {
	key := Key(restaurantID)
	if v, ok := s.cache.Get(key); ok {
		if r, ok := v.(*model.Restaurant); ok {
			return r, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		raw, err := s.gw.Call(ctx, "get_admin_restaurant", gateway.Args{
			"p_restaurant_id": restaurantID,
		})
		if err != nil {
			return nil, err
		}
		var r model.Restaurant
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode restaurant: %w", err)
		}
		s.cache.Set(key, &r)
		return &r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Restaurant), nil
}

// UpdateInput carries the editable profile fields. A full record is sent;
// the procedure replaces everything it covers.
type UpdateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`

	Street *string  `json:"street"`
	City   *string  `json:"city"`
	Lat    *float64 `json:"latitude"`
	Lng    *float64 `json:"longitude"`

	DeliveryFeeCents  int64   `json:"delivery_fee_cents"`
	MinOrderCents     int64   `json:"min_order_cents"`
	DeliveryRadiusKm  float64 `json:"delivery_radius_km"`
	EstimatedPrepMin  int32   `json:"estimated_prep_minutes"`
	AcceptingOrders   bool    `json:"accepting_orders"`
	AcceptingDelivery bool    `json:"accepting_delivery"`
	AcceptingPickup   bool    `json:"accepting_pickup"`

	Hours []model.OperatingHours `json:"hours"`
}

// Update applies in optimistically to the cached record, then runs the
// remote update. A failure restores the previous cached record before the
// error is returned.
func (s *Service) Update(ctx context.Context, restaurantID string, in UpdateInput) (*model.Restaurant, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", model.ErrInvalidInput)
	}
	if in.DeliveryFeeCents < 0 || in.MinOrderCents < 0 {
		return nil, fmt.Errorf("%w: amounts cannot be negative", model.ErrInvalidInput)
	}

	key := Key(restaurantID)
	previous, hadPrevious := s.cache.Peek(key)
	if hadPrevious {
		if cur, ok := previous.(*model.Restaurant); ok {
			patched := *cur
			applyInput(&patched, in)
			s.cache.Set(key, &patched)
		}
	}

	hours, err := json.Marshal(in.Hours)
	if err != nil {
		return nil, fmt.Errorf("encode hours: %w", err)
	}
	raw, err := s.gw.Call(ctx, "update_admin_restaurant", gateway.Args{
		"p_restaurant_id":          restaurantID,
		"p_name":                   in.Name,
		"p_description":            in.Description,
		"p_phone":                  in.Phone,
		"p_email":                  in.Email,
		"p_street":                 in.Street,
		"p_city":                   in.City,
		"p_latitude":               in.Lat,
		"p_longitude":              in.Lng,
		"p_delivery_fee_cents":     in.DeliveryFeeCents,
		"p_min_order_cents":        in.MinOrderCents,
		"p_delivery_radius_km":     in.DeliveryRadiusKm,
		"p_estimated_prep_minutes": in.EstimatedPrepMin,
		"p_accepting_orders":       in.AcceptingOrders,
		"p_accepting_delivery":     in.AcceptingDelivery,
		"p_accepting_pickup":       in.AcceptingPickup,
		"p_hours":                  string(hours),
	})
	if err != nil {
		if hadPrevious {
			s.cache.Set(key, previous)
		}
		return nil, err
	}

	var r model.Restaurant
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode restaurant: %w", err)
	}
	s.cache.Set(key, &r)
	return &r, nil
}

func applyInput(r *model.Restaurant, in UpdateInput) {
	r.Name = in.Name
	r.Description = in.Description
	r.Phone = in.Phone
	r.Email = in.Email
	r.Street = in.Street
	r.City = in.City
	r.Latitude = in.Lat
	r.Longitude = in.Lng
	r.DeliveryFeeCents = in.DeliveryFeeCents
	r.MinOrderCents = in.MinOrderCents
	r.DeliveryRadiusKm = in.DeliveryRadiusKm
	r.EstimatedPrepMin = in.EstimatedPrepMin
	r.AcceptingOrders = in.AcceptingOrders
	r.AcceptingDelivery = in.AcceptingDelivery
	r.AcceptingPickup = in.AcceptingPickup
	r.Hours = in.Hours
}
