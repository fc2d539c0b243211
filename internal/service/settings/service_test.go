package settings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/webhook"
	"github.com/m04kA/SMC-AgendaService/internal/service/settings/models"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

type memorySettings struct {
	byOwner map[uuid.UUID]*domain.Settings
	err     error
}

func (m *memorySettings) Get(_ context.Context, ownerID uuid.UUID) (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.byOwner[ownerID]
	if !ok {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return s, nil
}

func (m *memorySettings) UpsertWebhook(_ context.Context, ownerID uuid.UUID, webhookURL *string) (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := &domain.Settings{OwnerID: ownerID, WebhookURL: webhookURL, UpdatedAt: time.Now()}
	m.byOwner[ownerID] = s
	return s, nil
}

type fakeSender struct {
	urls []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, targetURL string, _ string, _ interface{}) error {
	f.urls = append(f.urls, targetURL)
	return f.err
}

func newTestService() (*Service, *memorySettings) {
	svc, repo, _ := newTestServiceWithSender()
	return svc, repo
}

func newTestServiceWithSender() (*Service, *memorySettings, *fakeSender) {
	repo := &memorySettings{byOwner: map[uuid.UUID]*domain.Settings{}}
	policy := webhook.NewPolicy([]string{"zapier.com"}, false)
	sender := &fakeSender{}
	return NewService(repo, policy, sender, logger.Nop()), repo, sender
}

func TestGetWebhook_NoSettings(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.GetWebhook(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, resp.WebhookURL)
	assert.Nil(t, resp.UpdatedAt)
}

func TestSetWebhook(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	resp, err := svc.SetWebhook(context.Background(), &models.SetWebhookRequest{OwnerID: owner, WebhookURL: " https://hooks.zapier.com/1 "})
	require.NoError(t, err)
	require.NotNil(t, resp.WebhookURL)
	assert.Equal(t, "https://hooks.zapier.com/1", *resp.WebhookURL)

	url, err := svc.WebhookURL(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, url)
	assert.Equal(t, "https://hooks.zapier.com/1", *url)

	// пустая строка очищает адрес
	resp, err = svc.SetWebhook(context.Background(), &models.SetWebhookRequest{OwnerID: owner, WebhookURL: ""})
	require.NoError(t, err)
	assert.Nil(t, resp.WebhookURL)
	assert.Nil(t, repo.byOwner[owner].WebhookURL)
}

func TestSetWebhook_RejectedByPolicy(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	for _, raw := range []string{
		"http://localhost/hook",
		"http://169.254.169.254/latest",
		"ftp://hooks.zapier.com/1",
		"https://example.com/hook",
	} {
		_, err := svc.SetWebhook(context.Background(), &models.SetWebhookRequest{OwnerID: owner, WebhookURL: raw})
		assert.ErrorIs(t, err, ErrInvalidWebhookURL, raw)
	}
	assert.Empty(t, repo.byOwner)
}

func TestWebhookURL_MissingAndErrors(t *testing.T) {
	svc, repo := newTestService()

	url, err := svc.WebhookURL(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, url)

	repo.err = assert.AnError
	_, err = svc.WebhookURL(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrInternal)

	_, err = svc.GetWebhook(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestTestWebhook(t *testing.T) {
	svc, _, sender := newTestServiceWithSender()
	owner := uuid.New()

	err := svc.TestWebhook(context.Background(), owner)
	assert.ErrorIs(t, err, ErrWebhookNotConfigured)

	_, err = svc.SetWebhook(context.Background(), &models.SetWebhookRequest{OwnerID: owner, WebhookURL: "https://hooks.zapier.com/1"})
	require.NoError(t, err)

	require.NoError(t, svc.TestWebhook(context.Background(), owner))
	assert.Equal(t, []string{"https://hooks.zapier.com/1"}, sender.urls)

	sender.err = assert.AnError
	err = svc.TestWebhook(context.Background(), owner)
	assert.ErrorIs(t, err, ErrWebhookDelivery)
}
