package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
)

// MetricsService defines the aggregate queries needed by metrics handlers.
// Satisfied by *metrics.Service.
type MetricsService interface {
	DayOrdersAmount(ctx context.Context, restaurantID string) (*model.DayOrdersAmount, error)
	MonthOrdersAmount(ctx context.Context, restaurantID string) (*model.MonthOrdersAmount, error)
	MonthCanceledOrdersAmount(ctx context.Context, restaurantID string) (*model.MonthCanceledOrdersAmount, error)
	MonthRevenue(ctx context.Context, restaurantID string) (*model.MonthRevenue, error)
	DailyRevenueInPeriod(ctx context.Context, restaurantID string, from, to time.Time) ([]model.DailyRevenue, error)
	SalesTransactions(ctx context.Context, restaurantID string, from, to time.Time) ([]model.SalesTransaction, error)
	PopularProducts(ctx context.Context, restaurantID string) ([]model.PopularProduct, error)
}

// MetricsHandler handles dashboard card and chart endpoints.
type MetricsHandler struct {
	svc MetricsService
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(svc MetricsService) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

// RegisterRoutes registers metrics endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter:
// /restaurants/{rid}/metrics
func (h *MetricsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/day-orders-amount", h.card(func(ctx context.Context, rid string) (any, error) {
		return h.svc.DayOrdersAmount(ctx, rid)
	}))
	r.Get("/month-orders-amount", h.card(func(ctx context.Context, rid string) (any, error) {
		return h.svc.MonthOrdersAmount(ctx, rid)
	}))
	r.Get("/month-canceled-orders-amount", h.card(func(ctx context.Context, rid string) (any, error) {
		return h.svc.MonthCanceledOrdersAmount(ctx, rid)
	}))
	r.Get("/month-revenue", h.card(func(ctx context.Context, rid string) (any, error) {
		return h.svc.MonthRevenue(ctx, rid)
	}))
	r.Get("/popular-products", h.card(func(ctx context.Context, rid string) (any, error) {
		return h.svc.PopularProducts(ctx, rid)
	}))
	r.Get("/daily-revenue-in-period", h.DailyRevenue)
	r.Get("/sales-transactions", h.SalesTransactions)
}

func (h *MetricsHandler) card(fetch func(ctx context.Context, rid string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fetch(r.Context(), chi.URLParam(r, "rid"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// reportPeriod reads the from/to query params (YYYY-MM-DD), defaulting to
// the last 7 days. Writes a 400 and returns false on a malformed or
// inverted period.
func reportPeriod(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	to = time.Now().UTC().Truncate(24 * time.Hour)
	from = to.AddDate(0, 0, -6)

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date"})
			return from, to, false
		}
		from = parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to date"})
			return from, to, false
		}
		to = parsed
	}
	if to.Before(from) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "to must not precede from"})
		return from, to, false
	}
	return from, to, true
}

// DailyRevenue returns the revenue chart series.
func (h *MetricsHandler) DailyRevenue(w http.ResponseWriter, r *http.Request) {
	from, to, ok := reportPeriod(w, r)
	if !ok {
		return
	}

	series, err := h.svc.DailyRevenueInPeriod(r.Context(), chi.URLParam(r, "rid"), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// SalesTransactions returns the sales report rows for the period.
func (h *MetricsHandler) SalesTransactions(w http.ResponseWriter, r *http.Request) {
	from, to, ok := reportPeriod(w, r)
	if !ok {
		return
	}

	rows, err := h.svc.SalesTransactions(r.Context(), chi.URLParam(r, "rid"), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
