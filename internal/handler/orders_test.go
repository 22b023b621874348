package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/handler"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/orders"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/status"
)

// --- Mocks ---

type mockOrderService struct {
	list     func(ctx context.Context, restaurantID string, p orders.ListParams) (*model.PaginatedOrders, error)
	details  func(ctx context.Context, orderID string) (*model.Order, error)
	approve  func(ctx context.Context, orderID string) error
	process  func(ctx context.Context, orderID string) error
	ready    func(ctx context.Context, orderID string) error
	dispatch func(ctx context.Context, orderID string) error
	deliver  func(ctx context.Context, orderID string) error
	cancel   func(ctx context.Context, orderID, reason string) error
}

func (m *mockOrderService) List(ctx context.Context, restaurantID string, p orders.ListParams) (*model.PaginatedOrders, error) {
	return m.list(ctx, restaurantID, p)
}

func (m *mockOrderService) Details(ctx context.Context, orderID string) (*model.Order, error) {
	return m.details(ctx, orderID)
}

func (m *mockOrderService) Approve(ctx context.Context, orderID string) error {
	return m.approve(ctx, orderID)
}

func (m *mockOrderService) Process(ctx context.Context, orderID string) error {
	return m.process(ctx, orderID)
}

func (m *mockOrderService) MarkReady(ctx context.Context, orderID string) error {
	return m.ready(ctx, orderID)
}

func (m *mockOrderService) Dispatch(ctx context.Context, orderID string) error {
	return m.dispatch(ctx, orderID)
}

func (m *mockOrderService) Deliver(ctx context.Context, orderID string) error {
	return m.deliver(ctx, orderID)
}

func (m *mockOrderService) Cancel(ctx context.Context, orderID, reason string) error {
	return m.cancel(ctx, orderID, reason)
}

type mockAssignService struct {
	assign            func(ctx context.Context, orderID, driverID string) error
	assignAndDispatch func(ctx context.Context, orderID, driverID string) error
}

func (m *mockAssignService) Assign(ctx context.Context, orderID, driverID string) error {
	return m.assign(ctx, orderID, driverID)
}

func (m *mockAssignService) AssignAndDispatch(ctx context.Context, orderID, driverID string) error {
	return m.assignAndDispatch(ctx, orderID, driverID)
}

// --- Helpers ---

func setupOrderRouter(svc *mockOrderService, assign *mockAssignService) *chi.Mux {
	h := handler.NewOrderHandler(svc, assign)
	r := chi.NewRouter()
	r.Route("/restaurants/{rid}/orders", h.RegisterRoutes)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

var (
	testRestaurantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testOrderID      = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testDriverID     = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func ordersPath(suffix string) string {
	return "/restaurants/" + testRestaurantID.String() + "/orders" + suffix
}

// --- List tests ---

func TestOrderList_PassesQueryParams(t *testing.T) {
	var got orders.ListParams
	svc := &mockOrderService{
		list: func(_ context.Context, restaurantID string, p orders.ListParams) (*model.PaginatedOrders, error) {
			if restaurantID != testRestaurantID.String() {
				t.Errorf("restaurant id: got %s", restaurantID)
			}
			got = p
			return &model.PaginatedOrders{Results: []model.Order{}, Meta: model.PageMeta{PerPage: 10}}, nil
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "GET", ordersPath("?page=3&status=pending,accepted&order_number=ORD-42"), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	if got.Page != 3 {
		t.Errorf("page: got %d, want 3", got.Page)
	}
	if len(got.Status) != 2 || got.Status[0] != status.Pending || got.Status[1] != status.Accepted {
		t.Errorf("status filter: got %v", got.Status)
	}
	if got.OrderNumber != "ORD-42" {
		t.Errorf("order_number: got %q", got.OrderNumber)
	}
}

func TestOrderList_DefaultsToFirstPage(t *testing.T) {
	svc := &mockOrderService{
		list: func(_ context.Context, _ string, p orders.ListParams) (*model.PaginatedOrders, error) {
			if p.Page != 1 {
				t.Errorf("page: got %d, want 1", p.Page)
			}
			return &model.PaginatedOrders{}, nil
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "GET", ordersPath(""), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
}

func TestOrderList_RejectsBadPage(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockAssignService{})

	for _, page := range []string{"0", "-1", "abc"} {
		rr := doRequest(t, router, "GET", ordersPath("?page="+page), nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("page=%s: got %d, want 400", page, rr.Code)
		}
	}
}

func TestOrderList_RejectsUnknownStatus(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockAssignService{})

	rr := doRequest(t, router, "GET", ordersPath("?status=shipped"), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestOrderList_UpstreamUnavailable(t *testing.T) {
	svc := &mockOrderService{
		list: func(_ context.Context, _ string, _ orders.ListParams) (*model.PaginatedOrders, error) {
			return nil, &gateway.Error{Procedure: "get_admin_orders", Kind: gateway.KindUnavailable, Message: "connect refused"}
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "GET", ordersPath(""), nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rr.Code)
	}
}

// --- Detail tests ---

func TestOrderGet_ReturnsOrder(t *testing.T) {
	svc := &mockOrderService{
		details: func(_ context.Context, orderID string) (*model.Order, error) {
			if orderID != testOrderID.String() {
				t.Errorf("order id: got %s", orderID)
			}
			return &model.Order{ID: testOrderID, OrderNumber: "ORD-42", Status: status.Pending}, nil
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "GET", ordersPath("/"+testOrderID.String()), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	var resp model.Order
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.OrderNumber != "ORD-42" {
		t.Errorf("order_number: got %q", resp.OrderNumber)
	}
}

func TestOrderGet_RejectsMalformedID(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockAssignService{})

	rr := doRequest(t, router, "GET", ordersPath("/not-a-uuid"), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	svc := &mockOrderService{
		details: func(_ context.Context, _ string) (*model.Order, error) {
			return nil, &gateway.Error{Procedure: "get_admin_order_details", Kind: gateway.KindNotFound, Message: "no order"}
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "GET", ordersPath("/"+testOrderID.String()), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
}

// --- Transition tests ---

func TestOrderApprove_OK(t *testing.T) {
	var calledWith string
	svc := &mockOrderService{
		approve: func(_ context.Context, orderID string) error {
			calledWith = orderID
			return nil
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/approve"), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	if calledWith != testOrderID.String() {
		t.Errorf("approve called with %q", calledWith)
	}
}

func TestOrderApprove_IllegalTransitionConflicts(t *testing.T) {
	svc := &mockOrderService{
		approve: func(_ context.Context, _ string) error {
			return &status.IllegalTransitionError{Current: status.Ready, Op: status.OpApprove}
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/approve"), nil)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rr.Code)
	}
	resp := decodeErrorResponse(t, rr)
	if resp["error"] != "cannot approve an order in status ready" {
		t.Errorf("error: got %q", resp["error"])
	}
}

func TestOrderTransition_RemoteRejection(t *testing.T) {
	svc := &mockOrderService{
		process: func(_ context.Context, _ string) error {
			return &gateway.Error{Procedure: "process_order", Kind: gateway.KindRejected, Message: "order already processing"}
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/process"), nil)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", rr.Code)
	}
	resp := decodeErrorResponse(t, rr)
	if resp["error"] != "order already processing" {
		t.Errorf("error: got %q", resp["error"])
	}
}

// --- Dispatch tests ---

func TestOrderDispatch_WithoutBody(t *testing.T) {
	dispatched := false
	svc := &mockOrderService{
		dispatch: func(_ context.Context, _ string) error {
			dispatched = true
			return nil
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/dispatch"), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	if !dispatched {
		t.Error("expected plain dispatch")
	}
}

func TestOrderDispatch_DriverRequired(t *testing.T) {
	svc := &mockOrderService{
		dispatch: func(_ context.Context, _ string) error {
			return orders.ErrDriverRequired
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/dispatch"), nil)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", rr.Code)
	}
}

func TestOrderDispatch_WithDriverAssignsFirst(t *testing.T) {
	var gotOrder, gotDriver string
	assign := &mockAssignService{
		assignAndDispatch: func(_ context.Context, orderID, driverID string) error {
			gotOrder, gotDriver = orderID, driverID
			return nil
		},
	}
	router := setupOrderRouter(&mockOrderService{}, assign)

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/dispatch"),
		map[string]string{"driver_id": testDriverID.String()})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	if gotOrder != testOrderID.String() || gotDriver != testDriverID.String() {
		t.Errorf("assign and dispatch called with order=%q driver=%q", gotOrder, gotDriver)
	}
}

func TestOrderDispatch_RejectsMalformedDriverID(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockAssignService{})

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/dispatch"),
		map[string]string{"driver_id": "nope"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

// --- Assign tests ---

func TestOrderAssign_OK(t *testing.T) {
	var gotDriver string
	assign := &mockAssignService{
		assign: func(_ context.Context, _, driverID string) error {
			gotDriver = driverID
			return nil
		},
	}
	router := setupOrderRouter(&mockOrderService{}, assign)

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/assign"),
		map[string]string{"driver_id": testDriverID.String()})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	if gotDriver != testDriverID.String() {
		t.Errorf("assign called with driver %q", gotDriver)
	}
}

func TestOrderAssign_RequiresDriverID(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockAssignService{})

	rr := doRequest(t, router, "POST", ordersPath("/"+testOrderID.String()+"/assign"),
		map[string]string{})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

// --- Cancel tests ---

func TestOrderCancel_PassesReason(t *testing.T) {
	var gotReason string
	svc := &mockOrderService{
		cancel: func(_ context.Context, _, reason string) error {
			gotReason = reason
			return nil
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "DELETE", ordersPath("/"+testOrderID.String()),
		map[string]string{"reason": "customer changed their mind"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	if gotReason != "customer changed their mind" {
		t.Errorf("reason: got %q", gotReason)
	}
}

func TestOrderCancel_ReasonOptional(t *testing.T) {
	var gotReason string
	svc := &mockOrderService{
		cancel: func(_ context.Context, _, reason string) error {
			gotReason = reason
			return nil
		},
	}
	router := setupOrderRouter(svc, &mockAssignService{})

	rr := doRequest(t, router, "DELETE", ordersPath("/"+testOrderID.String()), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rr.Code, rr.Body.String())
	}
	if gotReason != "" {
		t.Errorf("reason: got %q, want empty", gotReason)
	}
}
