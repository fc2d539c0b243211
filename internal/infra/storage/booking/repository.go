package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"group_id",
	"agenda_id",
	"service_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"guest_name",
	"guest_email",
	"guest_phone",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает одно бронирование.
// Нарушение ограничения bookings_no_overlap возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created, err := r.CreateBatch(ctx, []*domain.Booking{booking})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// CreateBatch вставляет несколько бронирований одним INSERT.
// Для мультиуслуговых бронирований вызывается внутри транзакции,
// поэтому либо вставляются все строки, либо ни одной.
func (r *Repository) CreateBatch(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error) {
	if len(bookings) == 0 {
		return bookings, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"group_id",
			"agenda_id",
			"service_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"guest_name",
			"guest_email",
			"guest_phone",
			"notes",
		)

	byID := make(map[uuid.UUID]*domain.Booking, len(bookings))
	for _, b := range bookings {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		byID[b.ID] = b
		insert = insert.Values(
			b.ID,
			b.GroupID,
			b.AgendaID,
			b.ServiceID,
			b.BookingDate,
			b.StartTime,
			b.EndTime,
			b.Status,
			b.GuestName,
			b.GuestEmail,
			b.GuestPhone,
			b.Notes,
		)
	}

	query, args, err := insert.Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if IsConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                   uuid.UUID
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(&id, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: CreateBatch - scan returning: %v", ErrScanRow, err)
		}
		if b, ok := byID[id]; ok {
			b.CreatedAt = createdAt.Time
			b.UpdatedAt = updatedAt.Time
		}
	}

	// Ошибка ограничения может прийти при чтении результата, а не при отправке запроса
	if err := rows.Err(); err != nil {
		if IsConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: CreateBatch - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// ListIntervals возвращает занятые интервалы агенды на дату в указанных статусах.
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы проверка слота
// и вставка шли по актуальному состоянию.
func (r *Repository) ListIntervals(
	ctx context.Context,
	agendaID uuid.UUID,
	date time.Time,
	statuses []domain.BookingStatus,
) ([]domain.Interval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("start_time", "end_time").
		From("bookings").
		Where(squirrel.Eq{"agenda_id": agendaID, "booking_date": dateOnly(date)}).
		OrderBy("start_time ASC")

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListIntervals - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.Interval, 0)
	for rows.Next() {
		var i domain.Interval
		if err := rows.Scan(&i.Start, &i.End); err != nil {
			return nil, fmt.Errorf("%w: ListIntervals - scan row: %v", ErrScanRow, err)
		}
		intervals = append(intervals, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListIntervals - rows error: %w", ErrScanRow, err)
	}

	return intervals, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByGroupID получает все части мультиуслугового бронирования в порядке времени
func (r *Repository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGroupID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGroupID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}
	return bookings, nil
}

// ListByAgenda получает бронирования агенды с фильтрацией по периоду и статусу.
// Сортировка: сначала ближайшие даты, внутри дня по времени начала.
func (r *Repository) ListByAgenda(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"agenda_id": filter.AgendaID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": dateOnly(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": dateOnly(*filter.EndDate)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.OrderBy("booking_date ASC", "start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAgenda - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAgenda - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus переводит одно бронирование из статуса from в to
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from domain.BookingStatus,
	to domain.BookingStatus,
) error {
	return r.updateStatus(ctx, squirrel.Eq{"id": id, "status": string(from)}, to, "UpdateStatus")
}

// UpdateGroupStatus переводит все части бронирования из статуса from в to.
// Условие по текущему статусу защищает от гонки двух смен статуса:
// если ни одна строка не обновлена, возвращается ErrStatusConflict.
func (r *Repository) UpdateGroupStatus(
	ctx context.Context,
	groupID uuid.UUID,
	from domain.BookingStatus,
	to domain.BookingStatus,
) (int64, error) {
	return r.updateStatusCount(ctx, squirrel.Eq{"group_id": groupID, "status": string(from)}, to, "UpdateGroupStatus")
}

func (r *Repository) updateStatus(ctx context.Context, where squirrel.Eq, to domain.BookingStatus, method string) error {
	_, err := r.updateStatusCount(ctx, where, to, method)
	return err
}

func (r *Repository) updateStatusCount(ctx context.Context, where squirrel.Eq, to domain.BookingStatus, method string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if IsConstraintViolation(err) {
			return 0, fmt.Errorf("%w: %w", ErrSlotNotAvailable, err)
		}
		return 0, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return 0, ErrStatusConflict
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		status               string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.GroupID,
		&booking.AgendaID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&status,
		&booking.GuestName,
		&booking.GuestEmail,
		&booking.GuestPhone,
		&booking.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

// dateOnly отбрасывает время, оставляя календарную дату в UTC для колонки DATE
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
