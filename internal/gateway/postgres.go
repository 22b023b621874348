package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DB is the subset of pgxpool.Pool the binding needs. Also satisfied by
// pgxmock pools in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres invokes admin stored procedures directly on the database.
// Every admin procedure returns jsonb (possibly null), so a call is always a
// single-row, single-column query.
type Postgres struct {
	db     DB
	logger *zap.Logger
}

// NewPostgres creates the stored-procedure binding.
func NewPostgres(db DB, logger *zap.Logger) *Postgres {
	return &Postgres{db: db, logger: logger}
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Call executes SELECT procedure(name => $1, ...) and returns the jsonb
// result. Argument order in the generated SQL is alphabetical so a given
// call always produces the same statement.
func (g *Postgres) Call(ctx context.Context, procedure string, args Args) (json.RawMessage, error) {
	if !identPattern.MatchString(procedure) {
		return nil, &Error{Procedure: procedure, Kind: KindRejected, Message: "invalid procedure name"}
	}

	names := make([]string, 0, len(args))
	for name := range args {
		if !identPattern.MatchString(name) {
			return nil, &Error{Procedure: procedure, Kind: KindRejected, Message: fmt.Sprintf("invalid argument name %q", name)}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	placeholders := make([]string, len(names))
	values := make([]any, len(names))
	for i, name := range names {
		placeholders[i] = fmt.Sprintf("%s => $%d", name, i+1)
		values[i] = args[name]
	}

	sql := fmt.Sprintf("SELECT %s(%s)", procedure, strings.Join(placeholders, ", "))

	var raw []byte
	if err := g.db.QueryRow(ctx, sql, values...).Scan(&raw); err != nil {
		ge := classify(procedure, err)
		g.logger.Warn("procedure call failed",
			zap.String("procedure", procedure),
			zap.String("code", ge.Code),
			zap.String("message", ge.Message),
		)
		return nil, ge
	}

	g.logger.Debug("procedure call ok", zap.String("procedure", procedure))
	if raw == nil {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(raw), nil
}

// classify maps a pgx error onto the gateway failure taxonomy. Anything the
// database itself said (constraint, raised exception, bad argument) is a
// rejection; anything that kept us from hearing back is unavailability.
func classify(procedure string, err error) *Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := KindRejected
		if pgErr.Code == "P0002" { // no_data_found
			kind = KindNotFound
		}
		return &Error{
			Procedure: procedure,
			Kind:      kind,
			Code:      pgErr.Code,
			Message:   pgErr.Message,
			cause:     err,
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &Error{Procedure: procedure, Kind: KindNotFound, Message: "no result", cause: err}
	}
	return &Error{Procedure: procedure, Kind: KindUnavailable, Message: err.Error(), cause: err}
}
