package settings

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/cache"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

var restR1 = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

type stubGateway struct {
	mu      sync.Mutex
	calls   []string
	respond func(procedure string) (json.RawMessage, error)
}

func (g *stubGateway) Call(_ context.Context, procedure string, _ gateway.Args) (json.RawMessage, error) {
	g.mu.Lock()
	g.calls = append(g.calls, procedure)
	g.mu.Unlock()
	return g.respond(procedure)
}

func restaurantJSON(name string) json.RawMessage {
	return json.RawMessage(`{"id": "` + restR1.String() + `", "name": "` + name + `", "currency": "MXN", "accepting_orders": true}`)
}

func TestGetCached(t *testing.T) {
	gw := &stubGateway{respond: func(string) (json.RawMessage, error) {
		return restaurantJSON("Napoli"), nil
	}}
	svc := NewService(gw, cache.New(8, time.Minute), zap.NewNop())

	first, err := svc.Get(context.Background(), restR1.String())
	require.NoError(t, err)
	assert.Equal(t, "Napoli", first.Name)

	_, err = svc.Get(context.Background(), restR1.String())
	require.NoError(t, err)
	assert.Len(t, gw.calls, 1)
}

func TestUpdateReplacesCachedRecord(t *testing.T) {
	gw := &stubGateway{respond: func(procedure string) (json.RawMessage, error) {
		if procedure == "update_admin_restaurant" {
			return restaurantJSON("Napoli Centro"), nil
		}
		return restaurantJSON("Napoli"), nil
	}}
	store := cache.New(8, time.Minute)
	svc := NewService(gw, store, zap.NewNop())

	_, err := svc.Get(context.Background(), restR1.String())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), restR1.String(), UpdateInput{Name: "Napoli Centro"})
	require.NoError(t, err)
	assert.Equal(t, "Napoli Centro", updated.Name)

	got, err := svc.Get(context.Background(), restR1.String())
	require.NoError(t, err)
	assert.Equal(t, "Napoli Centro", got.Name)
	assert.Len(t, gw.calls, 2, "the updated record must be served from cache")
}

func TestUpdateRollsBackOnFailure(t *testing.T) {
	gw := &stubGateway{respond: func(procedure string) (json.RawMessage, error) {
		if procedure == "update_admin_restaurant" {
			return nil, &gateway.Error{Procedure: procedure, Kind: gateway.KindRejected, Message: "invalid hours"}
		}
		return restaurantJSON("Napoli"), nil
	}}
	store := cache.New(8, time.Minute)
	svc := NewService(gw, store, zap.NewNop())

	_, err := svc.Get(context.Background(), restR1.String())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), restR1.String(), UpdateInput{Name: "Napoli Centro"})
	require.Error(t, err)
	assert.True(t, gateway.IsRejected(err))

	// The optimistic patch is rolled back to the pre-call record.
	v, ok := store.Get(Key(restR1.String()))
	require.True(t, ok)
	assert.Equal(t, "Napoli", v.(*model.Restaurant).Name)
}

func TestUpdateValidates(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw, cache.New(8, time.Minute), zap.NewNop())

	_, err := svc.Update(context.Background(), restR1.String(), UpdateInput{})
	assert.ErrorContains(t, err, "name is required")

	_, err = svc.Update(context.Background(), restR1.String(), UpdateInput{Name: "Napoli", MinOrderCents: -5})
	assert.ErrorContains(t, err, "cannot be negative")

	assert.Empty(t, gw.calls)
}
