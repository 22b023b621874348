// Package status defines the order status progression and the legal
// transitions between statuses. It is pure logic: the remote procedures
// enforce the same rules authoritatively, this package lets callers reject
// impossible transitions before a network round trip and lets the UI know
// which actions to offer for a given order.
package status

import "fmt"

// Status is an order status. Values match the CHECK constraint on the
// orders table exactly.
type Status string

const (
	Pending    Status = "pending"
	Accepted   Status = "accepted"
	Processing Status = "processing"
	Ready      Status = "ready"
	Delivering Status = "delivering"
	Delivered  Status = "delivered"
	Cancelled  Status = "cancelled"
)

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	switch s {
	case Pending, Accepted, Processing, Ready, Delivering, Delivered, Cancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	return s == Delivered || s == Cancelled
}

// Operation is a named status-changing action.
type Operation string

const (
	OpApprove   Operation = "approve"
	OpProcess   Operation = "process"
	OpMarkReady Operation = "mark_ready"
	OpDispatch  Operation = "dispatch"
	OpDeliver   Operation = "deliver"
	OpCancel    Operation = "cancel"
)

// Transition describes the effect of an operation: the statuses it is legal
// from, the status it produces, and the timestamp column the remote
// procedure stamps on success.
type Transition struct {
	From            []Status
	To              Status
	TimestampColumn string
}

// transitions is the full table. Cancellation is reachable from early
// statuses only; once an order is ready or out for delivery it can no
// longer be cancelled from the dashboard.
var transitions = map[Operation]Transition{
	OpApprove:   {From: []Status{Pending}, To: Accepted, TimestampColumn: "accepted_at"},
	OpProcess:   {From: []Status{Accepted}, To: Processing, TimestampColumn: "processing_at"},
	OpMarkReady: {From: []Status{Accepted, Processing}, To: Ready, TimestampColumn: "ready_at"},
	OpDispatch:  {From: []Status{Accepted, Ready}, To: Delivering, TimestampColumn: "picked_up_at"},
	OpDeliver:   {From: []Status{Processing, Delivering}, To: Delivered, TimestampColumn: "delivered_at"},
	OpCancel:    {From: []Status{Pending, Accepted, Processing}, To: Cancelled, TimestampColumn: "cancelled_at"},
}

// Lookup returns the transition for op. The second result is false for an
// unknown operation.
func Lookup(op Operation) (Transition, bool) {
	t, ok := transitions[op]
	return t, ok
}

// CanTransition reports whether op is legal from current.
func CanTransition(current Status, op Operation) bool {
	t, ok := transitions[op]
	if !ok {
		return false
	}
	for _, from := range t.From {
		if from == current {
			return true
		}
	}
	return false
}

// LegalOperations returns the operations legal from current, in a fixed
// order. Empty for terminal statuses.
func LegalOperations(current Status) []Operation {
	ordered := []Operation{OpApprove, OpProcess, OpMarkReady, OpDispatch, OpDeliver, OpCancel}
	var ops []Operation
	for _, op := range ordered {
		if CanTransition(current, op) {
			ops = append(ops, op)
		}
	}
	return ops
}

// IllegalTransitionError reports an operation attempted from a status it is
// not legal from. It is returned before any remote call is issued.
type IllegalTransitionError struct {
	Current Status
	Op      Operation
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an order in status %s", e.Op, e.Current)
}
