package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	agendaRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/agenda"
	bookingRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AgendaService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями со стороны владельца агенды
type Service struct {
	bookingRepo BookingRepository
	agendaRepo  AgendaRepository
	txManager   TransactionManager
	notifier    Notifier
	metrics     Metrics
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	agendaRepo AgendaRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		agendaRepo:  agendaRepo,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// GetByID получает бронирование по ID.
// Доступно только владельцу агенды.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.BookingDetailResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for owner=%s", id, ownerID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, booking.AgendaID, ownerID); err != nil {
		return nil, err
	}

	group, err := s.bookingRepo.GetByGroupID(ctx, booking.GroupID)
	if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Error("GetByID: failed to load group=%s of booking id=%s: %v", booking.GroupID, id, err)
		return nil, fmt.Errorf("%w: GetByID - group error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s, parts=%d", id, len(group))
	return models.FromDomainBookingGroup(booking, group), nil
}

// ListByAgenda получает бронирования агенды с фильтрацией по периоду и статусу.
// Доступно только владельцу агенды.
func (s *Service) ListByAgenda(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByAgenda: fetching bookings for agenda=%s, owner=%s", req.AgendaID, req.OwnerID)

	if err := s.checkOwnerAccess(ctx, req.AgendaID, req.OwnerID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByAgenda: invalid filter for agenda=%s: %v", req.AgendaID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.ListByAgenda(ctx, filter)
	if err != nil {
		s.logger.Error("ListByAgenda: repository error for agenda=%s: %v", req.AgendaID, err)
		return nil, fmt.Errorf("%w: ListByAgenda - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByAgenda: successfully fetched %d bookings for agenda=%s", len(bookings), req.AgendaID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus меняет статус бронирования вместе со всеми частями группы.
// Допустимо: pending -> confirmed | cancelled, confirmed -> cancelled.
// На каждый успешный переход отправляется ровно одно событие.
func (s *Service) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s by owner=%s", bookingID, req.Status, req.OwnerID)

	// 1. Валидируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// 2. Получаем бронирование и проверяем владельца
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%s not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, booking.AgendaID, req.OwnerID); err != nil {
		return nil, err
	}

	// 3. Переводим всю группу под блокировкой строк
	var group []*domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		group, err = s.bookingRepo.GetByGroupID(txCtx, booking.GroupID)
		if err != nil {
			return err
		}

		current := group[0]
		if !current.CanTransitionTo(newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
		}

		if _, err := s.bookingRepo.UpdateGroupStatus(txCtx, current.GroupID, current.Status, newStatus); err != nil {
			return err
		}

		for _, b := range group {
			b.Status = newStatus
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("UpdateStatus: booking id=%s: %v", bookingID, err)
			return nil, err
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("UpdateStatus: booking id=%s status changed concurrently", bookingID)
			return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		default:
			s.logger.Error("UpdateStatus: failed to update booking id=%s: %v", bookingID, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	// 4. Событие после коммита; одно на всю группу
	primary := group[0]
	if eventType, ok := domain.EventForStatus(newStatus); ok {
		s.notifier.Publish(domain.NewEvent(primary.ID, eventType, s.now()))
	}
	s.metrics.IncStatusChange(string(newStatus))

	s.logger.Info("UpdateStatus: successfully updated booking group=%s (%d parts) to status=%s",
		primary.GroupID, len(group), newStatus)

	for _, b := range group {
		if b.ID == bookingID {
			return models.FromDomainBooking(b), nil
		}
	}
	return models.FromDomainBooking(primary), nil
}

// checkOwnerAccess проверяет, что пользователь владеет агендой
func (s *Service) checkOwnerAccess(ctx context.Context, agendaID uuid.UUID, ownerID uuid.UUID) error {
	agenda, err := s.agendaRepo.GetByID(ctx, agendaID)
	if err != nil {
		if errors.Is(err, agendaRepo.ErrAgendaNotFound) {
			s.logger.Warn("checkOwnerAccess: agenda id=%s not found", agendaID)
			return ErrAgendaNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get agenda id=%s: %v", agendaID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get agenda: %v", ErrInternal, err)
	}

	if !agenda.IsOwnedBy(ownerID) {
		s.logger.Warn("checkOwnerAccess: user=%s is not the owner of agenda=%s", ownerID, agendaID)
		return ErrAccessDenied
	}

	return nil
}
