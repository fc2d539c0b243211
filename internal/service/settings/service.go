package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	settingsRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AgendaService/internal/notifier"
	"github.com/m04kA/SMC-AgendaService/internal/service/settings/models"
)

// maxWebhookURLLength предел длины адреса вебхука
const maxWebhookURLLength = 2048

// Service сервис настроек профессионала
type Service struct {
	settingsRepo SettingsRepository
	policy       URLValidator
	sender       WebhookSender
	logger       Logger
	now          func() time.Time
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, policy URLValidator, sender WebhookSender, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		policy:       policy,
		sender:       sender,
		logger:       logger,
		now:          time.Now,
	}
}

// GetWebhook возвращает адрес вебхука владельца; отсутствие настроек не ошибка
func (s *Service) GetWebhook(ctx context.Context, ownerID uuid.UUID) (*models.WebhookResponse, error) {
	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return models.FromDomainSettings(nil), nil
		}
		s.logger.Error("GetWebhook: repository error for owner=%s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: GetWebhook - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// SetWebhook сохраняет адрес вебхука. Адрес проверяется той же политикой, что и при отправке.
func (s *Service) SetWebhook(ctx context.Context, req *models.SetWebhookRequest) (*models.WebhookResponse, error) {
	s.logger.Info("SetWebhook: owner=%s", req.OwnerID)

	var webhookURL *string
	if trimmed := strings.TrimSpace(req.WebhookURL); trimmed != "" {
		if len(trimmed) > maxWebhookURLLength {
			return nil, fmt.Errorf("%w: url must not exceed %d characters", ErrInvalidWebhookURL, maxWebhookURLLength)
		}
		if err := s.policy.Validate(trimmed); err != nil {
			s.logger.Warn("SetWebhook: url rejected for owner=%s: %v", req.OwnerID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
		}
		webhookURL = &trimmed
	}

	settings, err := s.settingsRepo.UpsertWebhook(ctx, req.OwnerID, webhookURL)
	if err != nil {
		s.logger.Error("SetWebhook: repository error for owner=%s: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: SetWebhook - repository error: %v", ErrInternal, err)
	}

	if webhookURL == nil {
		s.logger.Info("SetWebhook: webhook cleared for owner=%s", req.OwnerID)
	}

	return models.FromDomainSettings(settings), nil
}

// WebhookURL адрес вебхука владельца для доставки уведомлений; nil, если не задан
func (s *Service) WebhookURL(ctx context.Context, ownerID uuid.UUID) (*string, error) {
	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: WebhookURL - repository error: %v", ErrInternal, err)
	}
	return settings.WebhookURL, nil
}

// TestWebhook отправляет пробное уведомление на сохраненный адрес
func (s *Service) TestWebhook(ctx context.Context, ownerID uuid.UUID) error {
	s.logger.Info("TestWebhook: owner=%s", ownerID)

	webhookURL, err := s.WebhookURL(ctx, ownerID)
	if err != nil {
		s.logger.Error("TestWebhook: repository error for owner=%s: %v", ownerID, err)
		return err
	}
	if webhookURL == nil {
		return ErrWebhookNotConfigured
	}

	if err := s.sender.Send(ctx, *webhookURL, "test", notifier.TestPayload(s.now())); err != nil {
		s.logger.Warn("TestWebhook: delivery failed for owner=%s: %v", ownerID, err)
		return fmt.Errorf("%w: %v", ErrWebhookDelivery, err)
	}

	s.logger.Info("TestWebhook: test event delivered for owner=%s", ownerID)
	return nil
}
