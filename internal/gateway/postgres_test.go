package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBinding(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgres(mock, zap.NewNop()), mock
}

func TestCallBuildsNamedArgumentsAlphabetically(t *testing.T) {
	g, mock := newBinding(t)

	mock.ExpectQuery(`SELECT get_admin_orders\(p_page => \$1, p_restaurant_id => \$2\)`).
		WithArgs(2, "r1").
		WillReturnRows(pgxmock.NewRows([]string{"get_admin_orders"}).AddRow([]byte(`{"results":[]}`)))

	raw, err := g.Call(context.Background(), "get_admin_orders", Args{
		"p_restaurant_id": "r1",
		"p_page":          2,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallNullResult(t *testing.T) {
	g, mock := newBinding(t)

	mock.ExpectQuery(`SELECT update_admin_order_status\(`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"update_admin_order_status"}).AddRow([]byte(nil)))

	raw, err := g.Call(context.Background(), "update_admin_order_status", Args{
		"p_order_id": "o1",
		"p_status":   "accepted",
	})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestCallRejectsInvalidProcedureName(t *testing.T) {
	g, _ := newBinding(t)

	_, err := g.Call(context.Background(), "get_admin_orders; DROP TABLE orders", nil)
	require.Error(t, err)
	assert.True(t, IsRejected(err))
}

func TestCallRejectsInvalidArgumentName(t *testing.T) {
	g, _ := newBinding(t)

	_, err := g.Call(context.Background(), "get_admin_orders", Args{"p_page) --": 1})
	require.Error(t, err)
	assert.True(t, IsRejected(err))
}

func TestCallClassifiesRaisedExceptionAsRejection(t *testing.T) {
	g, mock := newBinding(t)

	mock.ExpectQuery(`SELECT cancel_admin_order\(`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "P0001", Message: "order can no longer be cancelled"})

	_, err := g.Call(context.Background(), "cancel_admin_order", Args{"p_order_id": "o1"})
	require.Error(t, err)
	assert.True(t, IsRejected(err))

	var ge *Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "cancel_admin_order", ge.Procedure)
	assert.Equal(t, "P0001", ge.Code)
	assert.Contains(t, ge.Message, "no longer be cancelled")
}

func TestCallClassifiesNoDataFoundAsNotFound(t *testing.T) {
	g, mock := newBinding(t)

	mock.ExpectQuery(`SELECT get_admin_order_details\(`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "P0002", Message: "order not found"})

	_, err := g.Call(context.Background(), "get_admin_order_details", Args{"p_order_id": "nope"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCallClassifiesTransportFailureAsUnavailable(t *testing.T) {
	g, mock := newBinding(t)

	mock.ExpectQuery(`SELECT get_admin_drivers\(`).
		WillReturnError(errors.New("dial tcp: connection refused"))

	_, err := g.Call(context.Background(), "get_admin_drivers", Args{"p_restaurant_id": "r1"})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsRejected(err))
}
