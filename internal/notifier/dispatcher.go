package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 256
	defaultTimeout   = 10 * time.Second

	// queueSink имя для метрики событий, отброшенных до доставки
	queueSink = "queue"
)

// Config параметры диспетчера
type Config struct {
	Workers         int
	QueueSize       int
	DeliveryTimeout time.Duration // на одно событие, все приемники
	PublicBaseURL   string        // база для public_url: <base>/agendar/<slug>
}

// Dispatcher асинхронно доставляет события жизненного цикла бронирований.
// Publish никогда не блокирует вызывающего; ошибки доставки логируются и не возвращаются.
type Dispatcher struct {
	queue chan domain.Event

	bookingRepo BookingRepository
	agendaRepo  AgendaRepository
	serviceRepo ServiceRepository
	settings    WebhookSettings
	sinks       []Sink

	metrics Metrics
	logger  Logger

	workers       int
	timeout       time.Duration
	publicBaseURL string

	wg sync.WaitGroup
}

// NewDispatcher создает диспетчер с ограниченной очередью
func NewDispatcher(
	cfg Config,
	bookingRepo BookingRepository,
	agendaRepo AgendaRepository,
	serviceRepo ServiceRepository,
	settings WebhookSettings,
	sinks []Sink,
	metrics Metrics,
	logger Logger,
) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = defaultTimeout
	}

	return &Dispatcher{
		queue:         make(chan domain.Event, cfg.QueueSize),
		bookingRepo:   bookingRepo,
		agendaRepo:    agendaRepo,
		serviceRepo:   serviceRepo,
		settings:      settings,
		sinks:         sinks,
		metrics:       metrics,
		logger:        logger,
		workers:       cfg.Workers,
		timeout:       cfg.DeliveryTimeout,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Publish ставит событие в очередь. Переполненная очередь отбрасывает событие.
func (d *Dispatcher) Publish(event domain.Event) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("Publish: queue is full, dropping event=%s type=%s booking=%s",
			event.ID, event.Type, event.BookingID)
		d.metrics.IncNotification(queueSink, OutcomeDropped)
	}
}

// Run запускает воркеров и блокируется до отмены ctx.
// Доставка, начатая до отмены, завершается в пределах DeliveryTimeout.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("Run: starting %d notifier workers, %d sinks", d.workers, len(d.sinks))

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}

	<-ctx.Done()
	d.wg.Wait()

	if pending := len(d.queue); pending > 0 {
		d.logger.Warn("Run: stopped with %d undelivered events", pending)
	}
	d.logger.Info("Run: notifier stopped")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.queue:
			deliveryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
			d.handle(deliveryCtx, event)
			cancel()
		}
	}
}

// handle собирает уведомление и отдает его каждому приемнику
func (d *Dispatcher) handle(ctx context.Context, event domain.Event) {
	delivery, err := d.buildDelivery(ctx, event)
	if err != nil {
		d.logger.Error("handle: event=%s booking=%s: %v", event.ID, event.BookingID, err)
		for _, sink := range d.sinks {
			d.metrics.IncNotification(sink.Name(), OutcomeFailed)
		}
		return
	}

	for _, sink := range d.sinks {
		err := sink.Deliver(ctx, delivery)
		switch {
		case err == nil:
			d.metrics.IncNotification(sink.Name(), OutcomeDelivered)
			d.logger.Info("handle: event=%s type=%s delivered to %s", event.ID, event.Type, sink.Name())
		case errors.Is(err, ErrSkipped):
			d.metrics.IncNotification(sink.Name(), OutcomeSkipped)
		default:
			d.metrics.IncNotification(sink.Name(), OutcomeFailed)
			d.logger.Error("handle: event=%s type=%s delivery to %s failed: %v", event.ID, event.Type, sink.Name(), err)
		}
	}
}

// buildDelivery загружает бронирование с группой, агенду, услуги и адрес вебхука
func (d *Dispatcher) buildDelivery(ctx context.Context, event domain.Event) (*Delivery, error) {
	booking, err := d.bookingRepo.GetByID(ctx, event.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking: %v", ErrLoadDetails, err)
	}

	group, err := d.bookingRepo.GetByGroupID(ctx, booking.GroupID)
	if err != nil || len(group) == 0 {
		group = []*domain.Booking{booking}
	}

	agenda, err := d.agendaRepo.GetByID(ctx, booking.AgendaID)
	if err != nil {
		return nil, fmt.Errorf("%w: agenda: %v", ErrLoadDetails, err)
	}

	serviceIDs := make([]uuid.UUID, 0, len(group))
	for _, part := range group {
		serviceIDs = append(serviceIDs, part.ServiceID)
	}
	services, err := d.serviceRepo.GetByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: services: %v", ErrLoadDetails, err)
	}

	// без вебхука остальные приемники все равно получают событие
	webhookURL, err := d.settings.WebhookURL(ctx, agenda.OwnerID)
	if err != nil {
		d.logger.Warn("buildDelivery: failed to load webhook settings for owner=%s: %v", agenda.OwnerID, err)
		webhookURL = nil
	}

	return &Delivery{
		Event:      event,
		OwnerID:    agenda.OwnerID,
		WebhookURL: webhookURL,
		Payload:    d.buildPayload(event, booking, group, agenda, services),
	}, nil
}

func (d *Dispatcher) buildPayload(
	event domain.Event,
	booking *domain.Booking,
	group []*domain.Booking,
	agenda *domain.Agenda,
	services []*domain.Service,
) *Payload {
	first, last := group[0], group[len(group)-1]

	service := ServicePayload{}
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name)
		service.Duration += s.DurationMinutes
		service.Price += s.Price
	}
	service.Name = strings.Join(names, " + ")

	return &Payload{
		Event:     event.Type,
		Timestamp: event.OccurredAt.UTC(),
		Booking: BookingPayload{
			ID:        booking.ID,
			Date:      booking.BookingDate.Format(domain.DateFormat),
			StartTime: first.StartTime.String(),
			EndTime:   last.EndTime.String(),
			Status:    string(booking.Status),
			Guest: GuestPayload{
				Name:  booking.GuestName,
				Email: booking.GuestEmail,
				Phone: booking.GuestPhone,
			},
			Agenda: AgendaPayload{
				Title: agenda.Title,
				Slug:  agenda.Slug,
			},
			Service:   service,
			PublicURL: d.publicBaseURL + "/agendar/" + agenda.Slug,
		},
	}
}

// TestPayload пробное уведомление для проверки адреса вебхука
func TestPayload(now time.Time) *Payload {
	email := "cliente@example.com"
	return &Payload{
		Event:     "test",
		Timestamp: now.UTC(),
		Booking: BookingPayload{
			ID:        uuid.Nil,
			Date:      now.Format(domain.DateFormat),
			StartTime: "10:00",
			EndTime:   "11:00",
			Status:    string(domain.StatusPending),
			Guest: GuestPayload{
				Name:  "Cliente Teste",
				Email: &email,
				Phone: "(11) 99999-9999",
			},
			Agenda: AgendaPayload{
				Title: "Agenda de Teste",
				Slug:  "agenda-de-teste",
			},
			Service: ServicePayload{
				Name:     "Serviço de Teste",
				Duration: 60,
				Price:    50,
			},
		},
	}
}
