// Package gateway is the boundary to the remote data layer. All business
// rules (transition guards, driver workload, discounts, aggregates) live in
// named stored procedures behind this boundary; this process only invokes
// them and interprets the outcome.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Args are the named arguments of a procedure call.
type Args map[string]any

// Caller invokes a named remote procedure and returns its JSON result.
// Satisfied by *Postgres; narrow interface so services can be tested with a
// stub.
type Caller interface {
	Call(ctx context.Context, procedure string, args Args) (json.RawMessage, error)
}

// Kind classifies a gateway failure.
type Kind int

const (
	// KindRejected is a server-side validation or authorization failure.
	KindRejected Kind = iota
	// KindNotFound means the procedure reported no matching record.
	KindNotFound
	// KindUnavailable is a transport-level failure (network, timeout).
	KindUnavailable
)

// Error is the typed failure surfaced by a gateway call. No cache mutation
// ever follows one of these.
type Error struct {
	Procedure string
	Kind      Kind
	Code      string
	Message   string
	cause     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Procedure, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Procedure, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsRejected reports whether err is a remote rejection.
func IsRejected(err error) bool { return hasKind(err, KindRejected) }

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsUnavailable reports whether err is a transport failure.
func IsUnavailable(err error) bool { return hasKind(err, KindUnavailable) }

func hasKind(err error, kind Kind) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == kind
}
