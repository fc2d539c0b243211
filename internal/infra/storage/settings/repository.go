package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
)

// Repository репозиторий настроек владельца
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки владельца
func (r *Repository) Get(ctx context.Context, ownerID uuid.UUID) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("owner_id", "webhook_url", "updated_at").
		From("settings").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		settings  domain.Settings
		updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&settings.OwnerID, &settings.WebhookURL, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// UpsertWebhook сохраняет URL вебхука владельца; nil очищает его
func (r *Repository) UpsertWebhook(ctx context.Context, ownerID uuid.UUID, webhookURL *string) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("settings").
		Columns("owner_id", "webhook_url").
		Values(ownerID, webhookURL).
		Suffix("ON CONFLICT (owner_id) DO UPDATE SET webhook_url = EXCLUDED.webhook_url, updated_at = NOW() RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWebhook - build upsert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertWebhook - execute upsert: %v", ErrExecQuery, err)
	}

	return &domain.Settings{
		OwnerID:    ownerID,
		WebhookURL: webhookURL,
		UpdatedAt:  updatedAt.Time,
	}, nil
}
