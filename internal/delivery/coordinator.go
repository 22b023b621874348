// Package delivery covers the courier side of the dashboard: driver records,
// the live delivery list, and the coordinator that assigns a driver to an
// order and sends it out in one action.
package delivery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/cache"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/orders"
)

// Dispatcher is the slice of the order lifecycle manager the coordinator
// needs: the single transition it chains after a successful assignment.
type Dispatcher interface {
	Dispatch(ctx context.Context, orderID string) error
}

// Coordinator assigns drivers to orders. Assignment and dispatch are two
// separate remote commands; there is no compensating unassign, so a failed
// dispatch leaves the order assigned-but-not-dispatched on purpose. The UI
// can retry just the dispatch.
type Coordinator struct {
	gw       gateway.Caller
	cache    cache.Store
	dispatch Dispatcher
	logger   *zap.Logger
}

// NewCoordinator wires the coordinator over the gateway and the lifecycle
// manager's dispatch operation.
func NewCoordinator(gw gateway.Caller, store cache.Store, dispatch Dispatcher, logger *zap.Logger) *Coordinator {
	return &Coordinator{gw: gw, cache: store, dispatch: dispatch, logger: logger}
}

// Assign writes the driver reference onto the order. On acknowledgment the
// driver and order caches are invalidated, since the driver's workload
// changed, and the cached order detail gets its driver reference patched so
// a follow-up dispatch sees the assignment without refetching.
func (c *Coordinator) Assign(ctx context.Context, orderID, driverID string) error {
	if _, err := c.gw.Call(ctx, "assign_driver_to_order", gateway.Args{
		"p_order_id":  orderID,
		"p_driver_id": driverID,
	}); err != nil {
		return err
	}
	c.afterAssign(orderID, driverID)
	return nil
}

// AssignAndDispatch runs assignment then dispatch in sequence and reports
// success only when both succeed. Each command applies its own cache
// discipline as it lands, so a partial failure leaves the caches honest
// about what actually happened.
func (c *Coordinator) AssignAndDispatch(ctx context.Context, orderID, driverID string) error {
	if err := c.Assign(ctx, orderID, driverID); err != nil {
		return err
	}
	if err := c.dispatch.Dispatch(ctx, orderID); err != nil {
		return fmt.Errorf("driver assigned but dispatch failed: %w", err)
	}
	return nil
}

func (c *Coordinator) afterAssign(orderID, driverID string) {
	c.patchDetailDriver(orderID, driverID)
	cache.InvalidatePrefix(c.cache, ListKeyPrefix)
	cache.InvalidatePrefix(c.cache, orders.ListKeyPrefix)
	c.cache.Invalidate(orders.DetailKey(orderID))
	c.logger.Info("driver assigned",
		zap.String("order_id", orderID),
		zap.String("driver_id", driverID),
	)
}

// patchDetailDriver replaces the driver reference on the cached order
// detail, if present. The entry is replaced, never mutated in place.
func (c *Coordinator) patchDetailDriver(orderID, driverID string) {
	v, ok := c.cache.Peek(orders.DetailKey(orderID))
	if !ok {
		return
	}
	order, ok := v.(*model.Order)
	if !ok {
		return
	}
	did, err := uuid.Parse(driverID)
	if err != nil {
		return
	}
	patched := *order
	patched.DriverID = &did
	patched.Driver = nil
	c.cache.Set(orders.DetailKey(orderID), &patched)
}
