package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	agendaRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/agenda"
	serviceRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AgendaService/internal/slots"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	agendaRepo       AgendaRepository
	serviceRepo      ServiceRepository
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	location         *time.Location
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	agendaRepo AgendaRepository,
	serviceRepo ServiceRepository,
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		agendaRepo:       agendaRepo,
		serviceRepo:      serviceRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		location:         location,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Результат носит рекомендательный характер: окончательная проверка идёт при создании бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: agenda=%s, services=%v, date=%s",
		req.AgendaID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем агенду
	agenda, err := uc.agendaRepo.GetByID(ctx, req.AgendaID)
	if err != nil {
		if errors.Is(err, agendaRepo.ErrAgendaNotFound) {
			uc.logger.Warn("GetAvailableSlots: agenda id=%s not found", req.AgendaID)
			return nil, ErrAgendaInactive
		}
		uc.logger.Error("GetAvailableSlots: failed to get agenda id=%s: %v", req.AgendaID, err)
		return nil, fmt.Errorf("%w: failed to get agenda: %v", ErrInternal, err)
	}
	if !agenda.IsActive {
		uc.logger.Warn("GetAvailableSlots: agenda id=%s is inactive", req.AgendaID)
		return nil, ErrAgendaInactive
	}

	// 3. Получаем услуги
	services, err := uc.serviceRepo.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service not found: %v", err)
			return nil, ErrServiceInactive
		}
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	duration := 0
	for _, s := range services {
		if !s.IsActive || s.OwnerID != agenda.OwnerID {
			uc.logger.Warn("GetAvailableSlots: service id=%s is inactive or foreign", s.ID)
			return nil, ErrServiceInactive
		}
		duration += s.DurationMinutes
	}

	response := &Response{
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}

	// 4. Прошедшая дата - свободных слотов нет
	now := uc.timeProvider.Now()
	relation := dayRelation(req.Date, now, uc.location)
	if relation < 0 {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 5. Окна на день недели; выходной - пустой список, а не ошибка
	windows, err := uc.availabilityRepo.ListWindows(ctx, agenda.ID, req.Date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list windows: %v", err)
		return nil, fmt.Errorf("%w: failed to list windows: %v", ErrInternal, err)
	}
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: no availability on %s", req.Date.Weekday())
		return response, nil
	}

	// 6. Занятые интервалы в статусах pending/confirmed
	existing, err := uc.bookingRepo.ListIntervals(ctx, agenda.ID, req.Date, domain.BlockingStatuses)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты
	starts, err := slots.Compute(windows, agenda.LunchBreak, duration, existing)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: slot generator failed for agenda=%s: %v", agenda.ID, err)
		return nil, fmt.Errorf("%w: slot generator: %v", ErrInternal, err)
	}

	// 8. Сегодня - убираем уже начавшиеся
	if relation == 0 {
		starts = dropStarted(starts, now, uc.location)
	}

	for _, s := range starts {
		start := s.On(req.Date, uc.location)
		response.Slots = append(response.Slots, Slot{
			Start: start,
			End:   start.Add(time.Duration(duration) * time.Minute),
		})
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for agenda=%s on %s",
		len(response.Slots), agenda.ID, req.Date.Format(domain.DateFormat))

	return response, nil
}
