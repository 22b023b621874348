// Package tracker polls the live delivery snapshot on a fixed interval and
// pushes each refresh to connected dashboard clients.
package tracker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// DefaultInterval matches the dashboard's delivery map refresh cadence.
const DefaultInterval = 30 * time.Second

// Source produces a fresh active-delivery snapshot, bypassing any cached
// copy.
type Source interface {
	RefreshActiveDeliveries(ctx context.Context, restaurantID string) ([]model.ActiveDelivery, error)
}

// Broadcaster pushes a snapshot to whoever is watching the delivery map.
type Broadcaster interface {
	ActiveDeliveriesUpdated(restaurantID string, active []model.ActiveDelivery)
}

// Tracker drives the poll loop for one restaurant. Ticks never overlap: if a
// poll is still unresolved when the next tick fires, the tick is skipped.
type Tracker struct {
	source       Source
	broadcast    Broadcaster
	restaurantID string
	interval     time.Duration
	logger       *zap.Logger

	inFlight atomic.Bool
}

// New creates a tracker. interval <= 0 falls back to DefaultInterval.
func New(source Source, broadcast Broadcaster, restaurantID string, interval time.Duration, logger *zap.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tracker{
		source:       source,
		broadcast:    broadcast,
		restaurantID: restaurantID,
		interval:     interval,
		logger:       logger,
	}
}

// Run polls until ctx is cancelled. The first poll fires immediately so the
// map is populated without waiting a full interval. Polls run off the loop
// goroutine so a slow refresh cannot delay the ticker; the skip logic in
// poll keeps them from stacking. Run waits for the last poll to finish
// before returning.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	var polls sync.WaitGroup
	defer polls.Wait()

	launch := func() {
		polls.Add(1)
		go func() {
			defer polls.Done()
			t.poll(ctx)
		}()
	}

	launch()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			launch()
		}
	}
}

func (t *Tracker) poll(ctx context.Context) {
	if !t.inFlight.CompareAndSwap(false, true) {
		t.logger.Debug("delivery poll still in flight, skipping tick",
			zap.String("restaurant_id", t.restaurantID))
		return
	}
	defer t.inFlight.Store(false)

	active, err := t.source.RefreshActiveDeliveries(ctx, t.restaurantID)
	if err != nil {
		// A failed poll is not fatal; the next tick tries again.
		t.logger.Warn("delivery poll failed",
			zap.String("restaurant_id", t.restaurantID),
			zap.Error(err))
		return
	}
	t.broadcast.ActiveDeliveriesUpdated(t.restaurantID, active)
}
