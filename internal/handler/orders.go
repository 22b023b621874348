package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/orders"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/status"
)

// OrderService defines the lifecycle operations needed by order handlers.
// Satisfied by *orders.Service; narrow interface for testability.
type OrderService interface {
	List(ctx context.Context, restaurantID string, p orders.ListParams) (*model.PaginatedOrders, error)
	Details(ctx context.Context, orderID string) (*model.Order, error)
	Approve(ctx context.Context, orderID string) error
	Process(ctx context.Context, orderID string) error
	MarkReady(ctx context.Context, orderID string) error
	Dispatch(ctx context.Context, orderID string) error
	Deliver(ctx context.Context, orderID string) error
	Cancel(ctx context.Context, orderID, reason string) error
}

// AssignService defines the coordinator operations needed by order handlers.
// Satisfied by *delivery.Coordinator.
type AssignService interface {
	Assign(ctx context.Context, orderID, driverID string) error
	AssignAndDispatch(ctx context.Context, orderID, driverID string) error
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc    OrderService
	assign AssignService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderService, assign AssignService) *OrderHandler {
	return &OrderHandler{svc: svc, assign: assign}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter:
// /restaurants/{rid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/approve", h.transition(h.svc.Approve))
	r.Post("/{id}/process", h.transition(h.svc.Process))
	r.Post("/{id}/ready", h.transition(h.svc.MarkReady))
	r.Post("/{id}/dispatch", h.Dispatch)
	r.Post("/{id}/deliver", h.transition(h.svc.Deliver))
	r.Post("/{id}/assign", h.Assign)
	r.Delete("/{id}", h.Cancel)
}

// --- Request types ---

type dispatchRequest struct {
	DriverID string `json:"driver_id"`
}

type assignRequest struct {
	DriverID string `json:"driver_id"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// --- Handlers ---

// List returns one page of the order board.
// Query params: page (1-based), status (comma-separated), order_number.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	rid := chi.URLParam(r, "rid")

	params := orders.ListParams{Page: 1}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page"})
			return
		}
		params.Page = page
	}
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		for _, s := range strings.Split(statusStr, ",") {
			st := status.Status(strings.TrimSpace(s))
			if !st.Valid() {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status " + string(st)})
				return
			}
			params.Status = append(params.Status, st)
		}
	}
	params.OrderNumber = r.URL.Query().Get("order_number")

	page, err := h.svc.List(r.Context(), rid, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get returns a single order with its items.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.Details(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// transition wraps a single-argument lifecycle operation as a handler.
func (h *OrderHandler) transition(op func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}
		if err := op(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Dispatch sends an order out for delivery. An optional driver_id in the
// body assigns the driver first and then dispatches.
func (h *OrderHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req dispatchRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	var err error
	if req.DriverID != "" {
		if _, parseErr := uuid.Parse(req.DriverID); parseErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid driver id"})
			return
		}
		err = h.assign.AssignAndDispatch(r.Context(), id, req.DriverID)
	} else {
		err = h.svc.Dispatch(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Assign writes a driver onto an order without changing its status.
func (h *OrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if _, err := uuid.Parse(req.DriverID); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid driver id"})
		return
	}

	if err := h.assign.Assign(r.Context(), id, req.DriverID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Cancel cancels an order with an optional free-text reason.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	if err := h.svc.Cancel(r.Context(), id, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func orderID(w http.ResponseWriter, r *http.Request) (string, bool) {
	idStr := chi.URLParam(r, "id")
	if _, err := uuid.Parse(idStr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return "", false
	}
	return idStr, true
}
