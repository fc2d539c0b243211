package agendas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	agendaRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/agenda"
	"github.com/m04kA/SMC-AgendaService/internal/service/agendas/models"
	"github.com/m04kA/SMC-AgendaService/pkg/slug"
)

const (
	// slugSuffixLength длина случайного суффикса при коллизии slug
	slugSuffixLength = 6

	// maxSlugAttempts попытки вставки при гонке за один и тот же slug
	maxSlugAttempts = 3
)

// Service сервис для работы с агендами, их расписанием и публичной страницей
type Service struct {
	agendaRepo       AgendaRepository
	availabilityRepo AvailabilityRepository
	serviceRepo      ServiceRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса агенд
func NewService(
	agendaRepo AgendaRepository,
	availabilityRepo AvailabilityRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		agendaRepo:       agendaRepo,
		availabilityRepo: availabilityRepo,
		serviceRepo:      serviceRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Create создает агенду владельца.
// Slug строится из названия; при коллизии добавляется -<6 hex>.
func (s *Service) Create(ctx context.Context, req *models.CreateAgendaRequest) (*models.AgendaResponse, error) {
	s.logger.Info("Create: creating agenda for owner=%s", req.OwnerID)

	// 1. Валидируем входные данные
	title := strings.TrimSpace(req.Title)
	description := trimOptional(req.Description)
	if err := validateAgenda(title, description); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Подбираем свободный slug
	base := slug.Make(title)
	candidate, err := s.freeSlug(ctx, base)
	if err != nil {
		return nil, err
	}

	// 3. Создаем; между проверкой и вставкой slug могли занять
	agenda := &domain.Agenda{
		OwnerID:     req.OwnerID,
		Title:       title,
		Description: description,
		IsActive:    true,
	}

	for attempt := 1; ; attempt++ {
		agenda.Slug = candidate
		created, err := s.agendaRepo.Create(ctx, agenda)
		if err == nil {
			s.logger.Info("Create: successfully created agenda id=%s slug=%s", created.ID, created.Slug)
			return models.FromDomainAgenda(created), nil
		}

		if !errors.Is(err, agendaRepo.ErrSlugTaken) || attempt == maxSlugAttempts {
			s.logger.Error("Create: failed to create agenda for owner=%s: %v", req.OwnerID, err)
			return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		s.logger.Warn("Create: slug=%s taken concurrently, retrying", candidate)
		agenda.ID = uuid.Nil
		candidate = withSuffix(base)
	}
}

// Update частично обновляет агенду. Доступно только владельцу.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateAgendaRequest) (*models.AgendaResponse, error) {
	s.logger.Info("Update: updating agenda id=%s by owner=%s", id, req.OwnerID)

	agenda, err := s.getOwned(ctx, id, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		agenda.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		agenda.Description = trimOptional(req.Description)
	}
	if req.IsActive != nil {
		agenda.IsActive = *req.IsActive
	}

	if err := validateAgenda(agenda.Title, agenda.Description); err != nil {
		s.logger.Warn("Update: validation failed for agenda id=%s: %v", id, err)
		return nil, err
	}

	updated, err := s.agendaRepo.Update(ctx, agenda)
	if err != nil {
		if errors.Is(err, agendaRepo.ErrAgendaNotFound) {
			return nil, ErrAgendaNotFound
		}
		s.logger.Error("Update: failed to update agenda id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated agenda id=%s", id)
	return models.FromDomainAgenda(updated), nil
}

// Delete удаляет агенду вместе с расписанием и бронированиями
func (s *Service) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	s.logger.Info("Delete: deleting agenda id=%s by owner=%s", id, ownerID)

	if _, err := s.getOwned(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.agendaRepo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, agendaRepo.ErrAgendaNotFound) {
			return ErrAgendaNotFound
		}
		s.logger.Error("Delete: failed to delete agenda id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted agenda id=%s", id)
	return nil
}

// Get получает агенду владельца по ID
func (s *Service) Get(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.AgendaResponse, error) {
	agenda, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAgenda(agenda), nil
}

// List получает все агенды владельца
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) (*models.AgendaListResponse, error) {
	s.logger.Info("List: fetching agendas for owner=%s", ownerID)

	agendas, err := s.agendaRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("List: repository error for owner=%s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAgendaList(agendas), nil
}

// GetPublic возвращает публичную страницу активной агенды:
// активные услуги владельца, недельное расписание и перерыв.
func (s *Service) GetPublic(ctx context.Context, agendaSlug string) (*models.PublicAgendaResponse, error) {
	s.logger.Info("GetPublic: fetching agenda slug=%s", agendaSlug)

	agenda, err := s.agendaRepo.GetBySlug(ctx, agendaSlug)
	if err != nil {
		if errors.Is(err, agendaRepo.ErrAgendaNotFound) {
			s.logger.Warn("GetPublic: agenda slug=%s not found", agendaSlug)
			return nil, ErrAgendaNotFound
		}
		s.logger.Error("GetPublic: failed to get agenda slug=%s: %v", agendaSlug, err)
		return nil, fmt.Errorf("%w: GetPublic - failed to get agenda: %v", ErrInternal, err)
	}
	if !agenda.IsActive {
		s.logger.Warn("GetPublic: agenda slug=%s is inactive", agendaSlug)
		return nil, ErrAgendaNotFound
	}

	services, err := s.serviceRepo.ListByOwner(ctx, agenda.OwnerID, true)
	if err != nil {
		s.logger.Error("GetPublic: failed to list services for owner=%s: %v", agenda.OwnerID, err)
		return nil, fmt.Errorf("%w: GetPublic - failed to list services: %v", ErrInternal, err)
	}

	windows, err := s.availabilityRepo.ListByAgenda(ctx, agenda.ID)
	if err != nil {
		s.logger.Error("GetPublic: failed to list windows for agenda=%s: %v", agenda.ID, err)
		return nil, fmt.Errorf("%w: GetPublic - failed to list windows: %v", ErrInternal, err)
	}

	return models.FromDomainPublic(agenda, services, windows), nil
}

// SetLunchBreak устанавливает или снимает (nil) ежедневный перерыв
func (s *Service) SetLunchBreak(ctx context.Context, id uuid.UUID, req *models.SetLunchBreakRequest) (*models.AgendaResponse, error) {
	s.logger.Info("SetLunchBreak: agenda id=%s by owner=%s", id, req.OwnerID)

	agenda, err := s.getOwned(ctx, id, req.OwnerID)
	if err != nil {
		return nil, err
	}

	lunch := req.LunchBreak.ToDomain()
	if lunch != nil {
		if err := lunch.Validate(); err != nil {
			s.logger.Warn("SetLunchBreak: invalid lunch break for agenda id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if err := s.availabilityRepo.SetLunchBreak(ctx, id, lunch); err != nil {
		s.logger.Error("SetLunchBreak: failed to save lunch break for agenda id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: SetLunchBreak - repository error: %v", ErrInternal, err)
	}

	agenda.LunchBreak = lunch
	return models.FromDomainAgenda(agenda), nil
}

// GetAvailability возвращает недельное расписание агенды владельцу
func (s *Service) GetAvailability(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.AvailabilityResponse, error) {
	if _, err := s.getOwned(ctx, id, ownerID); err != nil {
		return nil, err
	}

	windows, err := s.availabilityRepo.ListByAgenda(ctx, id)
	if err != nil {
		s.logger.Error("GetAvailability: failed to list windows for agenda id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetAvailability - repository error: %v", ErrInternal, err)
	}

	return &models.AvailabilityResponse{AgendaID: id, Windows: models.FromDomainWindows(windows)}, nil
}

// ReplaceAvailability заменяет недельное расписание целиком одной транзакцией.
// Каждое окно проверяется до записи; пересекающиеся окна допустимы.
func (s *Service) ReplaceAvailability(ctx context.Context, id uuid.UUID, req *models.ReplaceAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("ReplaceAvailability: agenda id=%s, %d windows by owner=%s", id, len(req.Windows), req.OwnerID)

	if _, err := s.getOwned(ctx, id, req.OwnerID); err != nil {
		return nil, err
	}

	if len(req.Windows) > domain.MaxWindowsPerAgenda {
		s.logger.Warn("ReplaceAvailability: too many windows (%d) for agenda id=%s", len(req.Windows), id)
		return nil, fmt.Errorf("%w: at most %d windows allowed", ErrInvalidInput, domain.MaxWindowsPerAgenda)
	}

	windows := make([]domain.AvailabilityWindow, 0, len(req.Windows))
	for i, dto := range req.Windows {
		w := dto.ToDomain(id)
		if err := w.Validate(); err != nil {
			s.logger.Warn("ReplaceAvailability: window #%d invalid: %v", i, err)
			return nil, fmt.Errorf("%w: window #%d: %v", ErrInvalidInput, i, err)
		}
		windows = append(windows, w)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.availabilityRepo.ReplaceWindows(txCtx, id, windows)
	})
	if err != nil {
		s.logger.Error("ReplaceAvailability: failed to replace windows for agenda id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: ReplaceAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceAvailability: saved %d windows for agenda id=%s", len(windows), id)
	return &models.AvailabilityResponse{AgendaID: id, Windows: models.FromDomainWindows(windows)}, nil
}

// getOwned получает агенду и проверяет, что пользователь ее владелец
func (s *Service) getOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Agenda, error) {
	agenda, err := s.agendaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, agendaRepo.ErrAgendaNotFound) {
			s.logger.Warn("getOwned: agenda id=%s not found", id)
			return nil, ErrAgendaNotFound
		}
		s.logger.Error("getOwned: failed to get agenda id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get agenda: %v", ErrInternal, err)
	}

	if !agenda.IsOwnedBy(ownerID) {
		s.logger.Warn("getOwned: user=%s is not the owner of agenda=%s", ownerID, id)
		return nil, ErrAccessDenied
	}

	return agenda, nil
}

// freeSlug возвращает base, если он свободен, иначе base с суффиксом
func (s *Service) freeSlug(ctx context.Context, base string) (string, error) {
	exists, err := s.agendaRepo.SlugExists(ctx, base)
	if err != nil {
		s.logger.Error("freeSlug: failed to check slug=%s: %v", base, err)
		return "", fmt.Errorf("%w: failed to check slug: %v", ErrInternal, err)
	}
	if !exists {
		return base, nil
	}
	return withSuffix(base), nil
}

func withSuffix(base string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return base + "-" + hex[:slugSuffixLength]
}

func validateAgenda(title string, description *string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > domain.MaxAgendaTitleLength {
		return fmt.Errorf("%w: title must not exceed %d characters", ErrInvalidInput, domain.MaxAgendaTitleLength)
	}
	if description != nil && utf8.RuneCountInString(*description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
