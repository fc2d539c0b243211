package availability

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/slots"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_ListWindows(t *testing.T) {
	repo, mock := newMock(t)
	agendaID := uuid.New()

	mock.ExpectQuery(`SELECT id, agenda_id, day_of_week, start_time, end_time FROM availability WHERE agenda_id = \$1 AND day_of_week = \$2 ORDER BY day_of_week ASC, start_time ASC`).
		WithArgs(agendaID.String(), int64(1)).
		WillReturnRows(sqlmock.NewRows(windowColumns).
			AddRow(uuid.New().String(), agendaID.String(), 1, "09:00:00", "12:00:00").
			AddRow(uuid.New().String(), agendaID.String(), 1, "14:00:00", "18:00:00"))

	windows, err := repo.ListWindows(context.Background(), agendaID, time.Monday)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, time.Monday, windows[0].DayOfWeek)
	assert.Equal(t, "18:00", windows[1].EndTime.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListWindows_EndOfDay(t *testing.T) {
	repo, mock := newMock(t)
	agendaID := uuid.New()

	// так lib/pq отдает TIME 20:00:00 и 24:00:00
	start := time.Date(0, 1, 1, 20, 0, 0, 0, time.UTC)
	end := time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, agenda_id, day_of_week, start_time, end_time FROM availability`).
		WillReturnRows(sqlmock.NewRows(windowColumns).
			AddRow(uuid.New().String(), agendaID.String(), 5, start, end))

	windows, err := repo.ListWindows(context.Background(), agendaID, time.Friday)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "24:00", windows[0].EndTime.String())

	got, err := slots.Compute(windows, nil, 120, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "20:00", got[0].String())
	assert.Equal(t, "22:00", got[1].String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReplaceWindows(t *testing.T) {
	repo, mock := newMock(t)
	agendaID := uuid.New()

	windows := []domain.AvailabilityWindow{
		{DayOfWeek: time.Monday, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("12:00")},
		{DayOfWeek: time.Tuesday, StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("16:00")},
	}

	mock.ExpectExec(`DELETE FROM availability WHERE agenda_id = \$1`).
		WithArgs(agendaID.String()).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`INSERT INTO availability \(id,agenda_id,day_of_week,start_time,end_time\) VALUES \(\$1,\$2,\$3,\$4,\$5\),\(\$6,\$7,\$8,\$9,\$10\)`).
		WithArgs(sqlmock.AnyArg(), agendaID.String(), int64(1), "09:00:00", "12:00:00",
			sqlmock.AnyArg(), agendaID.String(), int64(2), "10:00:00", "16:00:00").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.ReplaceWindows(context.Background(), agendaID, windows))
	assert.NotEqual(t, uuid.Nil, windows[0].ID)
	assert.Equal(t, agendaID, windows[1].AgendaID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReplaceWindows_Empty(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM availability`).WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.ReplaceWindows(context.Background(), uuid.New(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetLunchBreak(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT lunch_break_start, lunch_break_end FROM agendas WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"lunch_break_start", "lunch_break_end"}).AddRow("12:00:00", "13:00:00"))

	lunch, err := repo.GetLunchBreak(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, lunch)
	assert.Equal(t, 720, lunch.Start.Minutes())
}

func TestRepository_GetLunchBreak_None(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM agendas`).
		WillReturnRows(sqlmock.NewRows([]string{"lunch_break_start", "lunch_break_end"}).AddRow(nil, nil))

	lunch, err := repo.GetLunchBreak(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, lunch)
}

func TestRepository_GetLunchBreak_AgendaNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM agendas`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetLunchBreak(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAgendaNotFound)
}

func TestRepository_SetLunchBreak_Clear(t *testing.T) {
	repo, mock := newMock(t)
	agendaID := uuid.New()

	mock.ExpectExec(`UPDATE agendas SET lunch_break_start = \$1, lunch_break_end = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(nil, nil, agendaID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetLunchBreak(context.Background(), agendaID, nil))
}

func TestRepository_SetLunchBreak_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE agendas`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetLunchBreak(context.Background(), uuid.New(), &domain.LunchBreak{
		Start: types.MustTimeString("12:00"),
		End:   types.MustTimeString("13:00"),
	})
	assert.ErrorIs(t, err, ErrAgendaNotFound)
}
