package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/status"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/ws"
)

// Broadcaster pushes events to connected dashboard clients. *ws.Hub
// implements it.
type Broadcaster interface {
	BroadcastToRestaurant(restaurantID uuid.UUID, event ws.Event)
}

// Fanout relays acknowledged changes to the WebSocket hub and the broker.
// It is scoped to one restaurant, matching the hub's room layout.
type Fanout struct {
	hub          Broadcaster
	publisher    *Publisher
	restaurantID uuid.UUID
	logger       *zap.Logger
}

// NewFanout creates the fanout. publisher may be nil.
func NewFanout(hub Broadcaster, publisher *Publisher, restaurantID uuid.UUID, logger *zap.Logger) *Fanout {
	return &Fanout{hub: hub, publisher: publisher, restaurantID: restaurantID, logger: logger}
}

type statusChangedPayload struct {
	OrderID    string        `json:"order_id"`
	Status     status.Status `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// OrderStatusChanged pushes a status change to connected dashboards and the
// broker under "order.status.<status>".
func (f *Fanout) OrderStatusChanged(orderID string, newStatus status.Status) {
	payload := statusChangedPayload{
		OrderID:    orderID,
		Status:     newStatus,
		OccurredAt: time.Now().UTC(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		f.logger.Warn("encode status change", zap.Error(err))
		return
	}
	f.hub.BroadcastToRestaurant(f.restaurantID, ws.Event{
		Type:    "order.status_changed",
		Payload: body,
	})
	f.publisher.Publish("order.status."+string(newStatus), payload)
}

// ActiveDeliveriesUpdated pushes a fresh delivery map snapshot to connected
// dashboards. Snapshots are not forwarded to the broker; consumers that care
// poll the procedures themselves.
func (f *Fanout) ActiveDeliveriesUpdated(restaurantID string, active []model.ActiveDelivery) {
	body, err := json.Marshal(active)
	if err != nil {
		f.logger.Warn("encode delivery snapshot", zap.Error(err))
		return
	}
	f.hub.BroadcastToRestaurant(f.restaurantID, ws.Event{
		Type:    "deliveries.updated",
		Payload: body,
	})
}
