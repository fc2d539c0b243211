package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AgendaService/internal/service/catalog/models"
)

// Service сервис каталога услуг профессионала
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Create создает услугу владельца
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service for owner=%s", req.OwnerID)

	service := &domain.Service{
		OwnerID:         req.OwnerID,
		Name:            strings.TrimSpace(req.Name),
		Description:     trimOptional(req.Description),
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := s.validateServiceData(service); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: failed to create service for owner=%s: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%s", created.ID)
	return models.FromDomainService(created), nil
}

// Update частично обновляет услугу. Доступно только владельцу.
// Изменение длительности не затрагивает уже созданные бронирования.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%s by owner=%s", id, req.OwnerID)

	service, err := s.getOwned(ctx, id, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = trimOptional(req.Description)
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := s.validateServiceData(service); err != nil {
		s.logger.Warn("Update: validation failed for service id=%s: %v", id, err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: failed to update service id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service id=%s", id)
	return models.FromDomainService(updated), nil
}

// Get получает услугу владельца по ID
func (s *Service) Get(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.ServiceResponse, error) {
	service, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainService(service), nil
}

// List получает услуги владельца; activeOnly оставляет только активные
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, activeOnly bool) (*models.ServiceListResponse, error) {
	s.logger.Info("List: fetching services for owner=%s, activeOnly=%t", ownerID, activeOnly)

	services, err := s.serviceRepo.ListByOwner(ctx, ownerID, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error for owner=%s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

func (s *Service) getOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("getOwned: service id=%s not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("getOwned: failed to get service id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.OwnerID != ownerID {
		s.logger.Warn("getOwned: user=%s is not the owner of service=%s", ownerID, id)
		return nil, ErrAccessDenied
	}

	return service, nil
}

// validateServiceData проверяет бизнес-правила услуги
func (s *Service) validateServiceData(service *domain.Service) error {
	nameLength := utf8.RuneCountInString(service.Name)
	if nameLength == 0 || nameLength > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must be between 1 and %d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}

	if service.Description != nil && utf8.RuneCountInString(*service.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	if service.DurationMinutes < domain.MinServiceDuration || service.DurationMinutes > domain.MaxServiceDuration {
		return fmt.Errorf("%w: duration_minutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDuration, domain.MaxServiceDuration)
	}

	if service.Price < 0 || math.IsNaN(service.Price) || math.IsInf(service.Price, 0) {
		return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidInput)
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
