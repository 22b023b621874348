package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/status"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/ws"
)

type stubChannel struct {
	mu        sync.Mutex
	published []amqp.Publishing
	keys      []string
	err       error
}

func (c *stubChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, msg)
	c.keys = append(c.keys, key)
	return nil
}

func TestPublishRoutesAndEncodes(t *testing.T) {
	ch := &stubChannel{}
	p := &Publisher{ch: ch, logger: zap.NewNop()}

	p.Publish("order.status.accepted", map[string]string{"order_id": "o1"})

	require.Len(t, ch.published, 1)
	assert.Equal(t, "order.status.accepted", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.JSONEq(t, `{"order_id":"o1"}`, string(ch.published[0].Body))
}

func TestPublishSwallowsBrokerFailure(t *testing.T) {
	ch := &stubChannel{err: errors.New("broker gone")}
	p := &Publisher{ch: ch, logger: zap.NewNop()}

	// Must not panic or propagate.
	p.Publish("order.status.accepted", map[string]string{"order_id": "o1"})
	assert.Empty(t, ch.published)
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	p.Publish("order.status.accepted", "ignored")
}

type stubBroadcaster struct {
	mu     sync.Mutex
	rooms  []uuid.UUID
	events []ws.Event
}

func (b *stubBroadcaster) BroadcastToRestaurant(restaurantID uuid.UUID, event ws.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, restaurantID)
	b.events = append(b.events, event)
}

func TestFanoutBroadcastsStatusChange(t *testing.T) {
	hub := &stubBroadcaster{}
	ch := &stubChannel{}
	rid := uuid.New()

	f := NewFanout(hub, &Publisher{ch: ch, logger: zap.NewNop()}, rid, zap.NewNop())
	f.OrderStatusChanged("o1", status.Accepted)

	require.Len(t, hub.events, 1)
	assert.Equal(t, rid, hub.rooms[0])
	assert.Equal(t, "order.status_changed", hub.events[0].Type)

	var payload statusChangedPayload
	require.NoError(t, json.Unmarshal(hub.events[0].Payload, &payload))
	assert.Equal(t, "o1", payload.OrderID)
	assert.Equal(t, status.Accepted, payload.Status)

	require.Len(t, ch.keys, 1)
	assert.Equal(t, "order.status.accepted", ch.keys[0])
}

func TestFanoutBroadcastsDeliverySnapshot(t *testing.T) {
	hub := &stubBroadcaster{}
	rid := uuid.New()

	f := NewFanout(hub, nil, rid, zap.NewNop())
	f.ActiveDeliveriesUpdated(rid.String(), []model.ActiveDelivery{{OrderNumber: "NAP-0102"}})

	require.Len(t, hub.events, 1)
	assert.Equal(t, "deliveries.updated", hub.events[0].Type)
	assert.Contains(t, string(hub.events[0].Payload), "NAP-0102")
}
