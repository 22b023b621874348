package promo

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

type stubGateway struct {
	mu      sync.Mutex
	calls   []string
	lastArg gateway.Args
	respond func(procedure string) (json.RawMessage, error)
}

func (g *stubGateway) Call(_ context.Context, procedure string, args gateway.Args) (json.RawMessage, error) {
	g.mu.Lock()
	g.calls = append(g.calls, procedure)
	g.lastArg = args
	g.mu.Unlock()
	return g.respond(procedure)
}

func newService(respond func(string) (json.RawMessage, error)) (*Service, *stubGateway) {
	gw := &stubGateway{respond: respond}
	return NewService(gw, cache.New(32, time.Minute), zap.NewNop()), gw
}

func TestDiscountValidation(t *testing.T) {
	cases := []struct {
		name  string
		dt    model.DiscountType
		value int64
		want  string
	}{
		{"percentage over 100", model.DiscountPercentage, 120, "between 1 and 100"},
		{"percentage zero", model.DiscountPercentage, 0, "between 1 and 100"},
		{"fixed zero", model.DiscountFixedAmount, 0, "must be positive"},
		{"unknown type", "bogo", 10, "unknown discount type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := PromotionInput{Name: "2x1", DiscountType: tc.dt, DiscountValue: tc.value}.Validate()
			assert.ErrorContains(t, err, tc.want)
		})
	}

	assert.NoError(t, PromotionInput{Name: "2x1", DiscountType: model.DiscountPercentage, DiscountValue: 50}.Validate())
}

func TestCreateCouponNormalizesCode(t *testing.T) {
	svc, gw := newService(func(string) (json.RawMessage, error) {
		return json.RawMessage(`{"id": "` + uuid.NewString() + `", "code": "VERANO20"}`), nil
	})

	created, err := svc.CreateCoupon(context.Background(), "r1", CouponInput{
		Code:          " verano20 ",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "VERANO20", gw.lastArg["p_code"])
	assert.Equal(t, "VERANO20", created.Code)
}

func TestTogglePromotionInvalidatesCachedLists(t *testing.T) {
	promoID := uuid.NewString()
	svc, gw := newService(func(procedure string) (json.RawMessage, error) {
		switch procedure {
		case "get_admin_promotions":
			return json.RawMessage("[]"), nil
		default:
			return json.RawMessage(`{"id": "` + promoID + `", "name": "2x1", "is_active": false}`), nil
		}
	})

	_, err := svc.Promotions(context.Background(), "r1")
	require.NoError(t, err)

	toggled, err := svc.TogglePromotion(context.Background(), promoID)
	require.NoError(t, err)
	assert.Equal(t, "toggle_promotion_status", gw.calls[len(gw.calls)-1])
	assert.Equal(t, promoID, gw.lastArg["p_promotion_id"])
	assert.False(t, toggled.IsActive)

	_, err = svc.Promotions(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "get_admin_promotions", gw.calls[len(gw.calls)-1])
}

func TestToggleCouponInvalidatesCachedLists(t *testing.T) {
	couponID := uuid.NewString()
	svc, gw := newService(func(procedure string) (json.RawMessage, error) {
		switch procedure {
		case "get_admin_coupons":
			return json.RawMessage("[]"), nil
		default:
			return json.RawMessage(`{"id": "` + couponID + `", "code": "VERANO20", "is_active": true}`), nil
		}
	})

	_, err := svc.Coupons(context.Background(), "r1")
	require.NoError(t, err)

	toggled, err := svc.ToggleCoupon(context.Background(), couponID)
	require.NoError(t, err)
	assert.Equal(t, "toggle_coupon_status", gw.calls[len(gw.calls)-1])
	assert.Equal(t, couponID, gw.lastArg["p_coupon_id"])
	assert.True(t, toggled.IsActive)

	_, err = svc.Coupons(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "get_admin_coupons", gw.calls[len(gw.calls)-1])
}

func TestListsCachedAndInvalidatedOnMutation(t *testing.T) {
	svc, gw := newService(func(procedure string) (json.RawMessage, error) {
		switch procedure {
		case "get_admin_promotions", "get_admin_coupons":
			return json.RawMessage("[]"), nil
		default:
			return json.RawMessage(`{"id": "` + uuid.NewString() + `", "name": "2x1"}`), nil
		}
	})

	_, err := svc.Promotions(context.Background(), "r1")
	require.NoError(t, err)
	_, err = svc.Promotions(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, gw.calls, 1)

	_, err = svc.CreatePromotion(context.Background(), "r1", PromotionInput{
		Name: "2x1", DiscountType: model.DiscountPercentage, DiscountValue: 50,
	})
	require.NoError(t, err)

	_, err = svc.Promotions(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "get_admin_promotions", gw.calls[len(gw.calls)-1])
}
