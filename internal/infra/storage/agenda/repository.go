package agenda

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

var agendaColumns = []string{
	"id",
	"owner_id",
	"title",
	"slug",
	"description",
	"is_active",
	"lunch_break_start",
	"lunch_break_end",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с агендами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория агенд
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает агенду. Занятый slug возвращается как ErrSlugTaken.
func (r *Repository) Create(ctx context.Context, agenda *domain.Agenda) (*domain.Agenda, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if agenda.ID == uuid.Nil {
		agenda.ID = uuid.New()
	}

	lunchStart, lunchEnd := lunchColumns(agenda.LunchBreak)

	query, args, err := psqlbuilder.Insert("agendas").
		Columns(
			"id",
			"owner_id",
			"title",
			"slug",
			"description",
			"is_active",
			"lunch_break_start",
			"lunch_break_end",
		).
		Values(
			agenda.ID,
			agenda.OwnerID,
			agenda.Title,
			agenda.Slug,
			agenda.Description,
			agenda.IsActive,
			lunchStart,
			lunchEnd,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	agenda.CreatedAt = createdAt.Time
	agenda.UpdatedAt = updatedAt.Time

	return agenda, nil
}

// GetByID получает агенду по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agenda, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetBySlug получает агенду по публичному slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Agenda, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug}, "GetBySlug")
}

// SlugExists проверяет, занят ли slug
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("agendas").
		Where(squirrel.Eq{"slug": slug}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: SlugExists - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: SlugExists - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// ListByOwner получает агенды владельца, новые первыми
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Agenda, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(agendaColumns...).
		From("agendas").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	agendas := make([]*domain.Agenda, 0)
	for rows.Next() {
		agenda, err := scanAgenda(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByOwner - scan row: %v", ErrScanRow, err)
		}
		agendas = append(agendas, agenda)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - rows error: %v", ErrScanRow, err)
	}

	return agendas, nil
}

// Update обновляет название, описание и активность агенды. Slug не меняется.
func (r *Repository) Update(ctx context.Context, agenda *domain.Agenda) (*domain.Agenda, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("agendas").
		Set("title", agenda.Title).
		Set("description", agenda.Description).
		Set("is_active", agenda.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": agenda.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAgendaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	agenda.UpdatedAt = updatedAt.Time

	return agenda, nil
}

// Delete удаляет агенду владельца. Окна доступности и бронирования
// удаляются каскадно (ON DELETE CASCADE).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("agendas").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAgendaNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Agenda, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(agendaColumns...).
		From("agendas").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	agenda, err := scanAgenda(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAgendaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan agenda: %v", ErrScanRow, method, err)
	}

	return agenda, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAgenda(row rowScanner) (*domain.Agenda, error) {
	var (
		agenda               domain.Agenda
		lunchStart, lunchEnd types.TimeString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&agenda.ID,
		&agenda.OwnerID,
		&agenda.Title,
		&agenda.Slug,
		&agenda.Description,
		&agenda.IsActive,
		&lunchStart,
		&lunchEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if !lunchStart.IsZero() && !lunchEnd.IsZero() {
		agenda.LunchBreak = &domain.LunchBreak{Start: lunchStart, End: lunchEnd}
	}
	agenda.CreatedAt = createdAt.Time
	agenda.UpdatedAt = updatedAt.Time

	return &agenda, nil
}

// lunchColumns значения колонок перерыва; nil перерыв пишется как NULL
func lunchColumns(lunch *domain.LunchBreak) (interface{}, interface{}) {
	if lunch == nil {
		return nil, nil
	}
	return lunch.Start, lunch.End
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
