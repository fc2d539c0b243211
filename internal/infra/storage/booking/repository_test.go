package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func sampleBooking(start, end string) *domain.Booking {
	return &domain.Booking{
		GroupID:     uuid.New(),
		AgendaID:    uuid.New(),
		ServiceID:   uuid.New(),
		BookingDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		Status:      domain.StatusPending,
		GuestName:   "Ana",
		GuestPhone:  "+5511999990000",
	}
}

func TestRepository_CreateBatch(t *testing.T) {
	repo, mock := newMock(t)

	first := sampleBooking("09:00", "09:30")
	second := sampleBooking("09:30", "10:00")
	second.GroupID = first.GroupID
	first.ID, second.ID = uuid.New(), uuid.New()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO bookings .* VALUES \(\$1,.*\),\(\$13,.*\) RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(first.ID.String(), now, now).
			AddRow(second.ID.String(), now, now))

	created, err := repo.CreateBatch(context.Background(), []*domain.Booking{first, second})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, now, created[0].CreatedAt)
	assert.Equal(t, now, created[1].UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_GeneratesID(t *testing.T) {
	repo, mock := newMock(t)

	b := sampleBooking("10:00", "11:00")
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))

	created, err := repo.Create(context.Background(), b)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})

	_, err := repo.Create(context.Background(), sampleBooking("10:00", "11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO bookings`).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), sampleBooking("10:00", "11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_Create_OtherError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO bookings`).WillReturnError(assert.AnError)

	_, err := repo.Create(context.Background(), sampleBooking("10:00", "11:00"))
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_ListIntervals(t *testing.T) {
	repo, mock := newMock(t)
	agendaID := uuid.New()
	date := time.Date(2025, 3, 10, 15, 30, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT start_time, end_time FROM bookings WHERE agenda_id = \$1 AND booking_date = \$2 AND status IN \(\$3,\$4\) ORDER BY start_time ASC$`).
		WithArgs(agendaID.String(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}).
			AddRow("09:00:00", "10:00:00").
			AddRow("13:30:00", "14:00:00"))

	intervals, err := repo.ListIntervals(context.Background(), agendaID, date, domain.BlockingStatuses)
	require.NoError(t, err)
	require.Len(t, intervals, 2)
	assert.Equal(t, "09:00", intervals[0].Start.String())
	assert.Equal(t, "14:00", intervals[1].End.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListIntervals_EndOfDay(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT start_time, end_time FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}).
			AddRow(time.Date(0, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))

	intervals, err := repo.ListIntervals(context.Background(), uuid.New(), time.Now(), domain.BlockingStatuses)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, "24:00", intervals[0].End.String())

	assert.True(t, intervals[0].Overlaps(23*60+30, 30))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListIntervals_LocksInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT start_time, end_time FROM bookings .* FOR UPDATE$`).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}))

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	intervals, err := repo.ListIntervals(ctx, uuid.New(), time.Now(), domain.BlockingStatuses)
	require.NoError(t, err)
	assert.Empty(t, intervals)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)
	b := sampleBooking("09:00", "10:00")
	b.ID = uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, group_id, .* FROM bookings WHERE id = \$1`).
		WithArgs(b.ID.String()).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
			b.ID.String(), b.GroupID.String(), b.AgendaID.String(), b.ServiceID.String(),
			b.BookingDate, "09:00:00", "10:00:00", "confirmed",
			"Ana", nil, "+5511999990000", "first visit", now, now,
		))

	got, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, 60, got.DurationMinutes())
	assert.Nil(t, got.GuestEmail)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "first visit", *got.Notes)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_ListByAgenda(t *testing.T) {
	repo, mock := newMock(t)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	status := domain.StatusPending

	mock.ExpectQuery(`FROM bookings WHERE agenda_id = \$1 AND booking_date >= \$2 AND booking_date <= \$3 AND status = \$4 ORDER BY booking_date ASC, start_time ASC`).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	list, err := repo.ListByAgenda(context.Background(), domain.BookingsFilter{
		AgendaID:  uuid.New(),
		StartDate: &from,
		EndDate:   &to,
		Status:    &status,
	})
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateGroupStatus(t *testing.T) {
	repo, mock := newMock(t)
	groupID := uuid.New()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE group_id = \$2 AND status = \$3`).
		WithArgs("confirmed", groupID.String(), "pending").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.UpdateGroupStatus(context.Background(), groupID, domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRepository_UpdateGroupStatus_Conflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateGroupStatus(context.Background(), uuid.New(), domain.StatusPending, domain.StatusCancelled)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3`).
		WithArgs("cancelled", id.String(), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), id, domain.StatusConfirmed, domain.StatusCancelled))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, IsSerializationFailure(assert.AnError))
}
