// Package catalog manages the menu: categories, products with their
// variants, and addons. Reads are cached per restaurant; every mutation
// invalidates the whole menu prefix since category and product lists embed
// each other's data.
package catalog

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

// KeyPrefix is the cache key prefix of menu data.
const KeyPrefix = "menu:"

// Service manages the restaurant's menu.
type Service struct {
	gw     gateway.Caller
	cache  cache.Store
	logger *zap.Logger
	sf     singleflight.Group
}

// NewService creates the menu service.
func NewService(gw gateway.Caller, store cache.Store, logger *zap.Logger) *Service {
	return &Service{gw: gw, cache: store, logger: logger}
}

// CategoryInput carries the staff-editable category fields.
type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	SortOrder   int32   `json:"sort_order"`
	IsActive    bool    `json:"is_active"`
}

// ProductInput carries the staff-editable product fields.
type ProductInput struct {
	CategoryID     *string `json:"category_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	ImageURL       *string `json:"image_url"`
	BasePriceCents int64   `json:"base_price_cents"`
	IsAvailable    bool    `json:"is_available"`
	SortOrder      int32   `json:"sort_order"`
}

// AddonInput carries the staff-editable addon fields.
type AddonInput struct {
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	IsAvailable bool   `json:"is_available"`
	SortOrder   int32  `json:"sort_order"`
}

// Categories returns the restaurant's menu categories.
func (s *Service) Categories(ctx context.Context, restaurantID string) ([]model.Category, error) {
	var out []model.Category
	err := s.cachedList(ctx, "get_admin_categories", restaurantID, &out)
	return out, err
}

// Products returns the restaurant's products with variants.
func (s *Service) Products(ctx context.Context, restaurantID string) ([]model.Product, error) {
	var out []model.Product
	err := s.cachedList(ctx, "get_admin_products", restaurantID, &out)
	return out, err
}

// Addons returns the restaurant's addons.
func (s *Service) Addons(ctx context.Context, restaurantID string) ([]model.Addon, error) {
	var out []model.Addon
	err := s.cachedList(ctx, "get_admin_addons", restaurantID, &out)
	return out, err
}

// CreateCategory adds a menu category.
func (s *Service) CreateCategory(ctx context.Context, restaurantID string, in CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", model.ErrInvalidInput)
	}
	out := &model.Category{}
	err := s.mutate(ctx, "create_admin_category", gateway.Args{
		"p_restaurant_id": restaurantID,
		"p_name":          in.Name,
		"p_description":   in.Description,
		"p_image_url":     in.ImageURL,
		"p_sort_order":    in.SortOrder,
		"p_is_active":     in.IsActive,
	}, out)
	return out, err
}

// UpdateCategory edits a menu category.
func (s *Service) UpdateCategory(ctx context.Context, categoryID string, in CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", model.ErrInvalidInput)
	}
	out := &model.Category{}
	err := s.mutate(ctx, "update_admin_category", gateway.Args{
		"p_category_id": categoryID,
		"p_name":        in.Name,
		"p_description": in.Description,
		"p_image_url":   in.ImageURL,
		"p_sort_order":  in.SortOrder,
		"p_is_active":   in.IsActive,
	}, out)
	return out, err
}

// DeleteCategory removes a category. Products under it fall back to
// uncategorized server-side.
func (s *Service) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.mutate(ctx, "delete_admin_category", gateway.Args{
		"p_category_id": categoryID,
	}, nil)
}

// CreateProduct adds a product to the menu.
func (s *Service) CreateProduct(ctx context.Context, restaurantID string, in ProductInput) (*model.Product, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", model.ErrInvalidInput)
	}
	if in.BasePriceCents < 0 {
		return nil, fmt.Errorf("%w: product price cannot be negative", model.ErrInvalidInput)
	}
	out := &model.Product{}
	err := s.mutate(ctx, "create_admin_product", gateway.Args{
		"p_restaurant_id":    restaurantID,
		"p_category_id":      in.CategoryID,
		"p_name":             in.Name,
		"p_description":      in.Description,
		"p_image_url":        in.ImageURL,
		"p_base_price_cents": in.BasePriceCents,
		"p_is_available":     in.IsAvailable,
		"p_sort_order":       in.SortOrder,
	}, out)
	return out, err
}

// UpdateProduct edits a product.
func (s *Service) UpdateProduct(ctx context.Context, productID string, in ProductInput) (*model.Product, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", model.ErrInvalidInput)
	}
	if in.BasePriceCents < 0 {
		return nil, fmt.Errorf("%w: product price cannot be negative", model.ErrInvalidInput)
	}
	out := &model.Product{}
	err := s.mutate(ctx, "update_admin_product", gateway.Args{
		"p_product_id":       productID,
		"p_category_id":      in.CategoryID,
		"p_name":             in.Name,
		"p_description":      in.Description,
		"p_image_url":        in.ImageURL,
		"p_base_price_cents": in.BasePriceCents,
		"p_is_available":     in.IsAvailable,
		"p_sort_order":       in.SortOrder,
	}, out)
	return out, err
}

// DeleteProduct removes a product and its variants.
func (s *Service) DeleteProduct(ctx context.Context, productID string) error {
	return s.mutate(ctx, "delete_admin_product", gateway.Args{
		"p_product_id": productID,
	}, nil)
}

// ToggleProductAvailability flips a product on or off the menu without a
// full edit.
func (s *Service) ToggleProductAvailability(ctx context.Context, productID string) (*model.Product, error) {
	out := &model.Product{}
	err := s.mutate(ctx, "toggle_product_availability", gateway.Args{
		"p_product_id": productID,
	}, out)
	return out, err
}

// CreateAddon adds an addon.
func (s *Service) CreateAddon(ctx context.Context, restaurantID string, in AddonInput) (*model.Addon, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: addon name is required", model.ErrInvalidInput)
	}
	out := &model.Addon{}
	err := s.mutate(ctx, "create_admin_addon", gateway.Args{
		"p_restaurant_id": restaurantID,
		"p_name":          in.Name,
		"p_price_cents":   in.PriceCents,
		"p_is_available":  in.IsAvailable,
		"p_sort_order":    in.SortOrder,
	}, out)
	return out, err
}

// UpdateAddon edits an addon.
func (s *Service) UpdateAddon(ctx context.Context, addonID string, in AddonInput) (*model.Addon, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: addon name is required", model.ErrInvalidInput)
	}
	out := &model.Addon{}
	err := s.mutate(ctx, "update_admin_addon", gateway.Args{
		"p_addon_id":     addonID,
		"p_name":         in.Name,
		"p_price_cents":  in.PriceCents,
		"p_is_available": in.IsAvailable,
		"p_sort_order":   in.SortOrder,
	}, out)
	return out, err
}

// DeleteAddon removes an addon.
func (s *Service) DeleteAddon(ctx context.Context, addonID string) error {
	return s.mutate(ctx, "delete_admin_addon", gateway.Args{
		"p_addon_id": addonID,
	}, nil)
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

// mutate runs one menu mutation and, on success, decodes the returned
// record into out (when non-nil) and invalidates the menu cache.
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
