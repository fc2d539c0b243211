package settings

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
)

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	owner := uuid.New()

	mock.ExpectQuery(`SELECT owner_id, webhook_url, updated_at FROM settings WHERE owner_id = \$1`).
		WithArgs(owner.String()).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "webhook_url", "updated_at"}).
			AddRow(owner.String(), "https://hooks.example.com/x", time.Now()))

	settings, err := repo.Get(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, settings.WebhookURL)
	assert.Equal(t, "https://hooks.example.com/x", *settings.WebhookURL)
}

func TestRepository_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`FROM settings`).WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestRepository_UpsertWebhook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	owner := uuid.New()

	mock.ExpectQuery(`INSERT INTO settings \(owner_id,webhook_url\) VALUES \(\$1,\$2\) ON CONFLICT \(owner_id\) DO UPDATE SET webhook_url = EXCLUDED.webhook_url`).
		WithArgs(owner.String(), "https://hooks.example.com/x").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	settings, err := repo.UpsertWebhook(context.Background(), owner, ptr.Ptr("https://hooks.example.com/x"))
	require.NoError(t, err)
	assert.Equal(t, owner, settings.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpsertWebhook_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO settings`).
		WithArgs(sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	settings, err := repo.UpsertWebhook(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Nil(t, settings.WebhookURL)
}
