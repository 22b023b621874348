// Package metrics serves the dashboard's aggregate cards and charts. The
// heavy lifting happens in the aggregate procedures; this service adds the
// period-over-period percentage and a short-lived cache so a dashboard full
// of cards does not hammer the database.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/cache"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// KeyPrefix is the cache key prefix of aggregate results.
const KeyPrefix = "metrics:"

// Service answers the dashboard's aggregate queries.
type Service struct {
	gw     gateway.Caller
	cache  cache.Store
	logger *zap.Logger
	sf     singleflight.Group
}

// NewService creates the metrics service.
func NewService(gw gateway.Caller, store cache.Store, logger *zap.Logger) *Service {
	return &Service{gw: gw, cache: store, logger: logger}
}

// percentDiff renders the change from previous to current as a fixed
// two-decimal percentage string. A zero previous period reports 0.00 rather
// than a division blowup; the UI shows the absolute number in that case.
func percentDiff(current, previous int64) string {
	if previous == 0 {
		return "0.00"
	}
	cur := decimal.NewFromInt(current)
	prev := decimal.NewFromInt(previous)
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

type counts struct {
	Amount         int64 `json:"amount"`
	PreviousAmount int64 `json:"previous_amount"`
}

// DayOrdersAmount is today's order count against yesterday.
func (s *Service) DayOrdersAmount(ctx context.Context, restaurantID string) (*model.DayOrdersAmount, error) {
	var c counts
	if err := s.fetch(ctx, "get_day_orders_amount", restaurantID, nil, &c); err != nil {
		return nil, err
	}
	return &model.DayOrdersAmount{
		Amount:         c.Amount,
		PreviousAmount: c.PreviousAmount,
		DiffPercent:    percentDiff(c.Amount, c.PreviousAmount),
	}, nil
}

// MonthOrdersAmount is this month's order count against last month.
func (s *Service) MonthOrdersAmount(ctx context.Context, restaurantID string) (*model.MonthOrdersAmount, error) {
	var c counts
	if err := s.fetch(ctx, "get_month_orders_amount", restaurantID, nil, &c); err != nil {
		return nil, err
	}
	return &model.MonthOrdersAmount{
		Amount:         c.Amount,
		PreviousAmount: c.PreviousAmount,
		DiffPercent:    percentDiff(c.Amount, c.PreviousAmount),
	}, nil
}

// MonthCanceledOrdersAmount is this month's cancellations against last
// month.
func (s *Service) MonthCanceledOrdersAmount(ctx context.Context, restaurantID string) (*model.MonthCanceledOrdersAmount, error) {
	var c counts
	if err := s.fetch(ctx, "get_month_canceled_orders_amount", restaurantID, nil, &c); err != nil {
		return nil, err
	}
	return &model.MonthCanceledOrdersAmount{
		Amount:         c.Amount,
		PreviousAmount: c.PreviousAmount,
		DiffPercent:    percentDiff(c.Amount, c.PreviousAmount),
	}, nil
}

// MonthRevenue is this month's receipts against last month.
func (s *Service) MonthRevenue(ctx context.Context, restaurantID string) (*model.MonthRevenue, error) {
	var c struct {
		ReceiptCents         int64 `json:"receipt_cents"`
		PreviousReceiptCents int64 `json:"previous_receipt_cents"`
	}
	if err := s.fetch(ctx, "get_month_revenue", restaurantID, nil, &c); err != nil {
		return nil, err
	}
	return &model.MonthRevenue{
		ReceiptCents:         c.ReceiptCents,
		PreviousReceiptCents: c.PreviousReceiptCents,
		DiffPercent:          percentDiff(c.ReceiptCents, c.PreviousReceiptCents),
	}, nil
}

// DailyRevenueInPeriod is the revenue chart series for [from, to], one row
// per day.
func (s *Service) DailyRevenueInPeriod(ctx context.Context, restaurantID string, from, to time.Time) ([]model.DailyRevenue, error) {
	extra := gateway.Args{
		"p_from": from.Format("2006-01-02"),
		"p_to":   to.Format("2006-01-02"),
	}
	var series []model.DailyRevenue
	if err := s.fetch(ctx, "get_daily_revenue_in_period", restaurantID, extra, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// SalesTransactions is the sales report for [from, to]: settled orders with
// their line items, newest first.
func (s *Service) SalesTransactions(ctx context.Context, restaurantID string, from, to time.Time) ([]model.SalesTransaction, error) {
	extra := gateway.Args{
		"p_from": from.Format("2006-01-02"),
		"p_to":   to.Format("2006-01-02"),
	}
	var rows []model.SalesTransaction
	if err := s.fetch(ctx, "get_sales_transactions", restaurantID, extra, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// PopularProducts is the best-sellers card, top rows first.
func (s *Service) PopularProducts(ctx context.Context, restaurantID string) ([]model.PopularProduct, error) {
	var rows []model.PopularProduct
	if err := s.fetch(ctx, "get_popular_products", restaurantID, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// fetch runs one aggregate procedure with a short cache in front. The key
// folds in the extra arguments so period queries do not collide.
func (s *Service) fetch(ctx context.Context, procedure, restaurantID string, extra gateway.Args, out any) error {
	key := fmt.Sprintf("%s%s|rid=%s", KeyPrefix, procedure, restaurantID)
	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key += fmt.Sprintf("|%s=%v", name, extra[name])
	}

	if v, ok := s.cache.Get(key); ok {
		if raw, ok := v.(json.RawMessage); ok {
			return json.Unmarshal(raw, out)
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		args := gateway.Args{"p_restaurant_id": restaurantID}
		for name, value := range extra {
			args[name] = value
		}
		raw, err := s.gw.Call(ctx, procedure, args)
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

// Invalidate marks every cached aggregate stale, typically after a status
// change lands.
func (s *Service) Invalidate() {
	cache.InvalidatePrefix(s.cache, KeyPrefix)
}
