package dbmetrics

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCollector struct {
	mu         sync.Mutex
	operations []string
	errors     int
	poolCalls  int
}

func (c *recordingCollector) ObserveQuery(operation string, _ float64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operations = append(c.operations, operation)
	if err != nil {
		c.errors++
	}
}

func (c *recordingCollector) SetPoolStats(string, int, int, int, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poolCalls++
}

func TestDB_ObservesQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	collector := &recordingCollector{}
	wrapped := Wrap(db, collector, "main")

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM agendas").WillReturnError(errors.New("boom"))

	_, err = wrapped.ExecContext(context.Background(), "UPDATE bookings SET status = $1", "confirmed")
	require.NoError(t, err)

	_, err = wrapped.QueryContext(context.Background(), "SELECT id FROM agendas")
	require.Error(t, err)

	assert.Equal(t, []string{"update", "select"}, collector.operations)
	assert.Equal(t, 1, collector.errors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_TxObservesQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	collector := &recordingCollector{}
	wrapped := Wrap(db, collector, "main")

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := wrapped.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(context.Background(), "DELETE FROM availability WHERE agenda_id = $1", "a")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, []string{"delete"}, collector.operations)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_ReportStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	collector := &recordingCollector{}
	Wrap(db, collector, "main").reportStats()

	assert.Equal(t, 1, collector.poolCalls)
}

func TestGetExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(db), GetExecutor(ctx, db))

	mock.ExpectBegin()
	sqlTx, err := db.Begin()
	require.NoError(t, err)

	tx := &SqlTxWrapper{Tx: sqlTx}
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, DBExecutor(tx), GetExecutor(txCtx, db))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("  SELECT * FROM x"))
	assert.Equal(t, "insert", operation("INSERT INTO bookings"))
	assert.Equal(t, "unknown", operation(""))
}
