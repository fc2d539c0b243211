package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	agendaRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/agenda"
	bookingRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AgendaService/internal/slots"
)

// UseCase use case для создания бронирования
type UseCase struct {
	agendaRepo       AgendaRepository
	serviceRepo      ServiceRepository
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	txManager        TransactionManager
	notifier         Notifier
	metrics          Metrics
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
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		agendaRepo:       agendaRepo,
		serviceRepo:      serviceRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		txManager:        txManager,
		notifier:         notifier,
		metrics:          metrics,
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

// Execute выполняет use case создания бронирования.
// Проверка слота и вставка идут в одной сериализуемой транзакции;
// exclusion-ограничение в БД остаётся последним рубежом против двойной записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: agenda=%s, services=%v, date=%s, time=%s",
		req.AgendaID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.Date, req.StartTime, now, uc.location); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем агенду
	agenda, err := uc.agendaRepo.GetByID(ctx, req.AgendaID)
	if err != nil {
		if errors.Is(err, agendaRepo.ErrAgendaNotFound) {
			uc.logger.Warn("CreateBooking: agenda id=%s not found", req.AgendaID)
			return nil, ErrAgendaInactive
		}
		uc.logger.Error("CreateBooking: failed to get agenda id=%s: %v", req.AgendaID, err)
		return nil, fmt.Errorf("%w: failed to get agenda: %v", ErrInternal, err)
	}
	if !agenda.IsActive {
		uc.logger.Warn("CreateBooking: agenda id=%s is inactive", req.AgendaID)
		return nil, ErrAgendaInactive
	}

	// 3. Получаем услуги и считаем суммарную длительность
	services, err := uc.serviceRepo.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service not found: %v", err)
			return nil, ErrServiceInactive
		}
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	if err := validateServices(services, agenda.OwnerID); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, ErrServiceInactive
	}
	duration := totalDuration(services)

	// 4-6. Свежая проверка слота и вставка в одной транзакции
	var created []*domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Окна на день недели и обеденный перерыв
		windows, err := uc.availabilityRepo.ListWindows(txCtx, agenda.ID, req.Date.Weekday())
		if err != nil {
			return fmt.Errorf("%w: failed to list windows: %v", ErrInternal, err)
		}

		lunch, err := uc.availabilityRepo.GetLunchBreak(txCtx, agenda.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to get lunch break: %v", ErrInternal, err)
		}

		// 4.2. Занятые интервалы читаются заново с блокировкой, кэш страницы не используется
		existing, err := uc.bookingRepo.ListIntervals(txCtx, agenda.ID, req.Date, domain.BlockingStatuses)
		if err != nil {
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		// 4.3. Повторно считаем слоты и проверяем, что выбранное время всё ещё свободно
		available, err := slots.Compute(windows, lunch, duration, existing)
		if err != nil {
			uc.logger.Error("CreateBooking: slot generator failed for agenda=%s: %v", agenda.ID, err)
			return fmt.Errorf("%w: slot generator: %v", ErrInternal, err)
		}

		// 5. Время уже занято или вне расписания
		if !slots.Contains(available, req.StartTime) {
			uc.logger.Warn("CreateBooking: slot %s %s is not available for agenda=%s",
				req.Date.Format(domain.DateFormat), req.StartTime, agenda.ID)
			uc.metrics.IncSlotConflict("check")
			return ErrSlotConflict
		}

		// 6. Вставляем части бронирования одной пачкой
		bookings, err := buildBookings(req, services, uuid.New())
		if err != nil {
			return err
		}

		created, err = uc.bookingRepo.CreateBatch(txCtx, bookings)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: constraint rejected slot for agenda=%s: %v", agenda.ID, err)
				uc.metrics.IncSlotConflict("constraint")
				return ErrSlotConflict
			}
			return fmt.Errorf("%w: failed to create bookings: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			return nil, ErrSlotConflict
		case bookingRepo.IsSerializationFailure(err), bookingRepo.IsConstraintViolation(err):
			// Конкурентная транзакция зафиксировала пересекающееся бронирование первой
			uc.logger.Warn("CreateBooking: concurrent booking won for agenda=%s: %v", agenda.ID, err)
			uc.metrics.IncSlotConflict("constraint")
			return nil, ErrSlotConflict
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	primary := created[0]
	uc.logger.Info("CreateBooking: successfully created booking id=%s group=%s (%d parts)",
		primary.ID, primary.GroupID, len(created))
	uc.metrics.IncBookingsCreated(strconv.Itoa(len(created)))

	// 7. Событие отправляется после коммита и не влияет на результат
	uc.notifier.Publish(domain.NewEvent(primary.ID, domain.EventCreated, now))

	return buildResponse(created, services, duration), nil
}

func buildResponse(created []*domain.Booking, services []*domain.Service, duration int) *Response {
	primary := created[0]
	last := created[len(created)-1]

	items := make([]Item, 0, len(created))
	for i, b := range created {
		items = append(items, Item{
			ID:              b.ID,
			ServiceID:       b.ServiceID,
			ServiceName:     services[i].Name,
			ServicePrice:    services[i].Price,
			StartTime:       b.StartTime,
			EndTime:         b.EndTime,
			DurationMinutes: b.DurationMinutes(),
		})
	}

	return &Response{
		ID:              primary.ID,
		GroupID:         primary.GroupID,
		AgendaID:        primary.AgendaID,
		BookingDate:     primary.BookingDate,
		StartTime:       primary.StartTime,
		EndTime:         last.EndTime,
		DurationMinutes: duration,
		Status:          string(primary.Status),
		Items:           items,
		GuestName:       primary.GuestName,
		GuestEmail:      primary.GuestEmail,
		GuestPhone:      primary.GuestPhone,
		Notes:           primary.Notes,
		CreatedAt:       primary.CreatedAt,
	}
}
