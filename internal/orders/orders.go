// Package orders is the order lifecycle manager: it issues status-changing
// procedures against the gateway and keeps the cached order board consistent
// with acknowledged server state.
//
// The cache discipline is strict: nothing is written before the remote
// command succeeds (the server is the sole authority on whether a transition
// is legal), and on success every cached list page embedding the order gets
// its status patched in place while the order's detail entry is invalidated,
// because timestamps, items and the driver reference may have changed
// server-side in ways the list patch cannot know.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/cache"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/status"
)

// ListKeyPrefix is the cache key prefix of paginated order pages.
const ListKeyPrefix = "orders:"

// DetailKey is the cache key of a single order's detail entry.
func DetailKey(orderID string) string {
	return "order-details:" + orderID
}

// ErrDriverRequired is returned when dispatch is attempted from "ready"
// without an assigned driver.
var ErrDriverRequired = errors.New("a driver must be assigned before dispatching a ready order")

// Notifier is told about acknowledged status changes. Implementations must
// not block; a notification failure never fails the transition.
type Notifier interface {
	OrderStatusChanged(orderID string, newStatus status.Status)
}

// Service is the order lifecycle manager.
type Service struct {
	gw     gateway.Caller
	cache  cache.Store
	notify Notifier
	logger *zap.Logger
	sf     singleflight.Group
}

// NewService creates the lifecycle manager. notify may be nil.
func NewService(gw gateway.Caller, store cache.Store, notify Notifier, logger *zap.Logger) *Service {
	return &Service{gw: gw, cache: store, notify: notify, logger: logger}
}

// ListParams are the order board filters. Page is 1-based; the returned
// meta carries the zero-based index.
type ListParams struct {
	Page        int
	Status      []status.Status
	OrderNumber string
}

func listKey(restaurantID string, p ListParams) string {
	statuses := make([]string, len(p.Status))
	for i, s := range p.Status {
		statuses[i] = string(s)
	}
	sort.Strings(statuses)
	return fmt.Sprintf("%srid=%s|page=%d|status=%s|number=%s",
		ListKeyPrefix, restaurantID, p.Page, strings.Join(statuses, ","), p.OrderNumber)
}

// List returns one page of the order board, served from cache when fresh.
// Concurrent misses for the same key share a single fetch.
func (s *Service) List(ctx context.Context, restaurantID string, p ListParams) (*model.PaginatedOrders, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	key := listKey(restaurantID, p)
	if v, ok := s.cache.Get(key); ok {
		if page, ok := v.(*model.PaginatedOrders); ok {
			return page, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		var statuses any
		if len(p.Status) > 0 {
			ss := make([]string, len(p.Status))
			for i, st := range p.Status {
				ss[i] = string(st)
			}
			statuses = ss
		}
		var number any
		if p.OrderNumber != "" {
			number = p.OrderNumber
		}
		raw, err := s.gw.Call(ctx, "get_admin_orders", gateway.Args{
			"p_restaurant_id":       restaurantID,
			"p_page":                p.Page,
			"p_status_filter":       statuses,
			"p_order_number_filter": number,
		})
		if err != nil {
			return nil, err
		}
		var page model.PaginatedOrders
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decode order page: %w", err)
		}
		s.cache.Set(key, &page)
		return &page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.PaginatedOrders), nil
}

// Details returns a single order with items, served from cache when fresh.
func (s *Service) Details(ctx context.Context, orderID string) (*model.Order, error) {
	key := DetailKey(orderID)
	if v, ok := s.cache.Get(key); ok {
		if order, ok := v.(*model.Order); ok {
			return order, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		raw, err := s.gw.Call(ctx, "get_admin_order_details", gateway.Args{
			"p_order_id": orderID,
		})
		if err != nil {
			return nil, err
		}
		var order model.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, fmt.Errorf("decode order details: %w", err)
		}
		s.cache.Set(key, &order)
		return &order, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Order), nil
}

// --- Transitions ---

// Approve moves a pending order to accepted.
func (s *Service) Approve(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, status.OpApprove)
}

// Process moves an accepted order into preparation.
func (s *Service) Process(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, status.OpProcess)
}

// MarkReady marks an order ready for pickup by its driver.
func (s *Service) MarkReady(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, status.OpMarkReady)
}

// Dispatch sends an order out for delivery. From "ready" a driver must
// already be assigned; see the coordinator in internal/delivery for the
// combined assign-then-dispatch flow.
func (s *Service) Dispatch(ctx context.Context, orderID string) error {
	if cur, ok := s.cachedStatus(orderID); ok && cur == status.Ready && !s.cachedDriverAssigned(orderID) {
		return ErrDriverRequired
	}
	return s.transition(ctx, orderID, status.OpDispatch)
}

// Deliver marks an order delivered.
func (s *Service) Deliver(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, status.OpDeliver)
}

// Cancel cancels an order with an optional reason. The procedure stamps the
// timestamp and records the restaurant as the cancelling actor.
func (s *Service) Cancel(ctx context.Context, orderID, reason string) error {
	if cur, ok := s.cachedStatus(orderID); ok && !status.CanTransition(cur, status.OpCancel) {
		return &status.IllegalTransitionError{Current: cur, Op: status.OpCancel}
	}
	var r any
	if reason != "" {
		r = reason
	}
	if _, err := s.gw.Call(ctx, "cancel_admin_order", gateway.Args{
		"p_order_id": orderID,
		"p_reason":   r,
	}); err != nil {
		return err
	}
	s.applyTransition(orderID, status.Cancelled)
	return nil
}

// transition runs one forward operation: client-side guard when the current
// status is known locally, remote command, then the cache patch. Failures
// leave every cache entry untouched and are returned as-is; retrying is the
// caller's decision.
func (s *Service) transition(ctx context.Context, orderID string, op status.Operation) error {
	tr, ok := status.Lookup(op)
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}
	if cur, known := s.cachedStatus(orderID); known && !status.CanTransition(cur, op) {
		return &status.IllegalTransitionError{Current: cur, Op: op}
	}

	if _, err := s.gw.Call(ctx, "update_admin_order_status", gateway.Args{
		"p_order_id":        orderID,
		"p_status":          string(tr.To),
		"p_timestamp_field": tr.TimestampColumn,
	}); err != nil {
		return err
	}

	s.applyTransition(orderID, tr.To)
	return nil
}

// applyTransition runs the post-acknowledgment cache discipline and fans the
// change out to listeners.
func (s *Service) applyTransition(orderID string, newStatus status.Status) {
	s.patchLists(orderID, newStatus)
	s.cache.Invalidate(DetailKey(orderID))
	s.logger.Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("status", string(newStatus)),
	)
	if s.notify != nil {
		s.notify.OrderStatusChanged(orderID, newStatus)
	}
}

// patchLists walks every cached order page and replaces the status of the
// matching entry, preserving all other fields and the page shape. Pages are
// replaced, never mutated in place.
func (s *Service) patchLists(orderID string, newStatus status.Status) {
	for _, key := range s.cache.Keys() {
		if !strings.HasPrefix(key, ListKeyPrefix) {
			continue
		}
		v, ok := s.cache.Peek(key)
		if !ok {
			continue
		}
		page, ok := v.(*model.PaginatedOrders)
		if !ok {
			continue
		}
		patched := false
		results := make([]model.Order, len(page.Results))
		copy(results, page.Results)
		for i := range results {
			if results[i].ID.String() == orderID {
				results[i].Status = newStatus
				patched = true
			}
		}
		if patched {
			s.cache.Set(key, &model.PaginatedOrders{Results: results, Meta: page.Meta})
		}
	}
}

// cachedStatus looks the order's current status up in the cache: the detail
// entry first, then any list page. Stale entries count; they are what the
// caller is looking at.
func (s *Service) cachedStatus(orderID string) (status.Status, bool) {
	if v, ok := s.cache.Peek(DetailKey(orderID)); ok {
		if order, ok := v.(*model.Order); ok {
			return order.Status, true
		}
	}
	for _, key := range s.cache.Keys() {
		if !strings.HasPrefix(key, ListKeyPrefix) {
			continue
		}
		v, ok := s.cache.Peek(key)
		if !ok {
			continue
		}
		page, ok := v.(*model.PaginatedOrders)
		if !ok {
			continue
		}
		for i := range page.Results {
			if page.Results[i].ID.String() == orderID {
				return page.Results[i].Status, true
			}
		}
	}
	return "", false
}

// cachedDriverAssigned reports whether the cached view of the order shows an
// assigned driver. Unknown orders report true; the procedure is the
// authority and will reject a driverless dispatch itself.
func (s *Service) cachedDriverAssigned(orderID string) bool {
	if v, ok := s.cache.Peek(DetailKey(orderID)); ok {
		if order, ok := v.(*model.Order); ok {
			return order.DriverID != nil || order.Driver != nil
		}
	}
	return true
}
