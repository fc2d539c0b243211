package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	agendaRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/agenda"
	bookingRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

// store in-memory хранилище, общее для всех фейковых репозиториев.
// Транзакция сериализуется мьютексом и откатывает изменения при ошибке.
type store struct {
	mu       sync.Mutex
	agendas  map[uuid.UUID]*domain.Agenda
	services map[uuid.UUID]*domain.Service
	windows  []domain.AvailabilityWindow
	bookings []*domain.Booking

	// failOnPart заставляет CreateBatch упасть на указанной части после вставки предыдущих
	failOnPart int
	commitErr  error
}

func newStore() *store {
	return &store{
		agendas:    map[uuid.UUID]*domain.Agenda{},
		services:   map[uuid.UUID]*domain.Service{},
		failOnPart: -1,
	}
}

func (s *store) GetByID(_ context.Context, id uuid.UUID) (*domain.Agenda, error) {
	a, ok := s.agendas[id]
	if !ok {
		return nil, agendaRepo.ErrAgendaNotFound
	}
	return a, nil
}

type serviceStore struct{ *store }

func (s serviceStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Service, error) {
	result := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := s.services[id]
		if !ok {
			return nil, fmt.Errorf("%w: id=%s", serviceRepo.ErrServiceNotFound, id)
		}
		result = append(result, svc)
	}
	return result, nil
}

func (s *store) ListWindows(_ context.Context, agendaID uuid.UUID, day time.Weekday) ([]domain.AvailabilityWindow, error) {
	result := make([]domain.AvailabilityWindow, 0)
	for _, w := range s.windows {
		if w.AgendaID == agendaID && w.DayOfWeek == day {
			result = append(result, w)
		}
	}
	return result, nil
}

func (s *store) GetLunchBreak(_ context.Context, agendaID uuid.UUID) (*domain.LunchBreak, error) {
	return s.agendas[agendaID].LunchBreak, nil
}

func (s *store) ListIntervals(_ context.Context, agendaID uuid.UUID, date time.Time, _ []domain.BookingStatus) ([]domain.Interval, error) {
	result := make([]domain.Interval, 0)
	for _, b := range s.bookings {
		if b.AgendaID == agendaID && b.BookingDate.Equal(date) && b.IsBlocking() {
			result = append(result, b.Interval())
		}
	}
	return result, nil
}

func (s *store) CreateBatch(_ context.Context, bookings []*domain.Booking) ([]*domain.Booking, error) {
	for i, b := range bookings {
		if i == s.failOnPart {
			return nil, fmt.Errorf("%w: part %d", bookingRepo.ErrSlotNotAvailable, i)
		}
		b.CreatedAt = time.Now()
		s.bookings = append(s.bookings, b)
	}
	return bookings, nil
}

func (s *store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := append([]*domain.Booking(nil), s.bookings...)
	err := fn(ctx)
	if err == nil {
		err = s.commitErr
	}
	if err != nil {
		s.bookings = snapshot
	}
	return err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (n *recordingNotifier) Publish(e domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

type countingMetrics struct {
	mu        sync.Mutex
	created   int
	conflicts map[string]int
}

func (m *countingMetrics) IncBookingsCreated(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *countingMetrics) IncSlotConflict(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts == nil {
		m.conflicts = map[string]int{}
	}
	m.conflicts[source]++
}

type fixture struct {
	store    *store
	notifier *recordingNotifier
	metrics  *countingMetrics
	uc       *UseCase
	agenda   *domain.Agenda
	svc30a   *domain.Service
	svc30b   *domain.Service
	svc60    *domain.Service
	monday   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := newStore()
	owner := uuid.New()
	agenda := &domain.Agenda{ID: uuid.New(), OwnerID: owner, Title: "Studio", Slug: "studio", IsActive: true}
	s.agendas[agenda.ID] = agenda

	newService := func(name string, d int) *domain.Service {
		svc := &domain.Service{ID: uuid.New(), OwnerID: owner, Name: name, DurationMinutes: d, Price: 40, IsActive: true}
		s.services[svc.ID] = svc
		return svc
	}

	s.windows = []domain.AvailabilityWindow{{
		ID:        uuid.New(),
		AgendaID:  agenda.ID,
		DayOfWeek: time.Monday,
		StartTime: types.MustTimeString("09:00"),
		EndTime:   types.MustTimeString("12:00"),
	}}

	f := &fixture{
		store:    s,
		notifier: &recordingNotifier{},
		metrics:  &countingMetrics{},
		agenda:   agenda,
		svc30a:   newService("Cut", 30),
		svc30b:   newService("Wash", 30),
		svc60:    newService("Color", 60),
		monday:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	f.uc = NewUseCase(s, serviceStore{s}, s, s, s, f.notifier, f.metrics, time.UTC, logger.Nop()).
		WithTimeProvider(fixedTime{time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC)})

	return f
}

func (f *fixture) request(start string, services ...*domain.Service) *Request {
	ids := make([]uuid.UUID, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return &Request{
		AgendaID:   f.agenda.ID,
		ServiceIDs: ids,
		Date:       f.monday,
		StartTime:  types.MustTimeString(start),
		GuestName:  "  Maria Silva ",
		GuestEmail: ptr.Ptr("maria@example.com"),
		GuestPhone: "+55 11 99999-0000",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request("10:00", f.svc60))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "11:00", resp.EndTime.String())
	assert.Equal(t, "Maria Silva", resp.GuestName)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Color", resp.Items[0].ServiceName)

	require.Len(t, f.store.bookings, 1)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventCreated, f.notifier.events[0].Type)
	assert.Equal(t, resp.ID, f.notifier.events[0].BookingID)
	assert.Equal(t, 1, f.metrics.created)
}

func TestExecute_MultiServiceContiguous(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request("09:00", f.svc30a, f.svc30b))
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "09:00", resp.Items[0].StartTime.String())
	assert.Equal(t, "09:30", resp.Items[0].EndTime.String())
	assert.Equal(t, "09:30", resp.Items[1].StartTime.String())
	assert.Equal(t, "10:00", resp.Items[1].EndTime.String())

	group := f.store.bookings[0].GroupID
	for _, b := range f.store.bookings {
		assert.Equal(t, group, b.GroupID)
	}
	// Одно событие на всё бронирование
	assert.Len(t, f.notifier.events, 1)
}

func TestExecute_MultiServiceUsesSummedGrid(t *testing.T) {
	f := newFixture(t)

	// Две услуги по 30 минут шагают по сетке в 60 минут: 09:30 не является стартом
	_, err := f.uc.Execute(context.Background(), f.request("09:30", f.svc30a, f.svc30b))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.request("10:00", f.svc60))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), f.request("10:00", f.svc60))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Len(t, f.store.bookings, 1)
	assert.Len(t, f.notifier.events, 1)
	assert.Equal(t, 1, f.metrics.conflicts["check"])
}

func TestExecute_CancelledDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	f.store.bookings = append(f.store.bookings, &domain.Booking{
		AgendaID:    f.agenda.ID,
		BookingDate: f.monday,
		StartTime:   types.MustTimeString("10:00"),
		EndTime:     types.MustTimeString("11:00"),
		Status:      domain.StatusCancelled,
	})

	_, err := f.uc.Execute(context.Background(), f.request("10:00", f.svc60))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentRequestsOnlyOneWins(t *testing.T) {
	f := newFixture(t)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), f.request("11:00", f.svc60))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, f.store.bookings, 1)
}

func TestExecute_PartialBatchFailureLeavesNothing(t *testing.T) {
	f := newFixture(t)
	f.store.failOnPart = 1

	_, err := f.uc.Execute(context.Background(), f.request("09:00", f.svc30a, f.svc30b))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.notifier.events)
	assert.Equal(t, 1, f.metrics.conflicts["constraint"])
}

func TestExecute_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture(t)
	f.store.commitErr = &pq.Error{Code: "40001"}

	_, err := f.uc.Execute(context.Background(), f.request("09:00", f.svc60))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.notifier.events)
}

func TestExecute_AgendaInactive(t *testing.T) {
	f := newFixture(t)
	f.agenda.IsActive = false

	_, err := f.uc.Execute(context.Background(), f.request("09:00", f.svc60))
	assert.ErrorIs(t, err, ErrAgendaInactive)

	req := f.request("09:00", f.svc60)
	req.AgendaID = uuid.New()
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAgendaInactive)
}

func TestExecute_ServiceInactive(t *testing.T) {
	f := newFixture(t)

	f.svc60.IsActive = false
	_, err := f.uc.Execute(context.Background(), f.request("09:00", f.svc60))
	assert.ErrorIs(t, err, ErrServiceInactive)

	foreign := &domain.Service{ID: uuid.New(), OwnerID: uuid.New(), Name: "Other", DurationMinutes: 30, IsActive: true}
	f.store.services[foreign.ID] = foreign
	_, err = f.uc.Execute(context.Background(), f.request("09:00", foreign))
	assert.ErrorIs(t, err, ErrServiceInactive)

	req := f.request("09:00", f.svc30a)
	req.ServiceIDs = append(req.ServiceIDs, uuid.New())
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"empty name", func(r *Request) { r.GuestName = "   " }},
		{"long name", func(r *Request) { r.GuestName = string(make([]rune, 101)) }},
		{"short phone", func(r *Request) { r.GuestPhone = "123" }},
		{"long phone", func(r *Request) { r.GuestPhone = "1234567890123456789012345678901" }},
		{"bad email", func(r *Request) { r.GuestEmail = ptr.Ptr("not-an-email") }},
		{"display name email", func(r *Request) { r.GuestEmail = ptr.Ptr("Maria <maria@example.com>") }},
		{"long notes", func(r *Request) { r.Notes = ptr.Ptr(string(make([]byte, 501))) }},
		{"no services", func(r *Request) { r.ServiceIDs = nil }},
		{"three services", func(r *Request) { r.ServiceIDs = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()} }},
		{"duplicate service", func(r *Request) { r.ServiceIDs = []uuid.UUID{f.svc30a.ID, f.svc30a.ID} }},
		{"past date", func(r *Request) { r.Date = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }},
		{"missing start", func(r *Request) { r.StartTime = types.TimeString{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("10:00", f.svc60)
			tt.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Empty(t, f.store.bookings)
}

func TestExecute_TodayPastTimeRejected(t *testing.T) {
	f := newFixture(t)
	f.uc.WithTimeProvider(fixedTime{time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)})

	_, err := f.uc.Execute(context.Background(), f.request("10:00", f.svc60))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.uc.Execute(context.Background(), f.request("11:00", f.svc60))
	assert.NoError(t, err)
}

func TestExecute_EmptyEmailTreatedAsAbsent(t *testing.T) {
	f := newFixture(t)
	req := f.request("09:00", f.svc60)
	req.GuestEmail = ptr.Ptr("  ")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.GuestEmail)
}
