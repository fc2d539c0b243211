package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	agendaRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/agenda"
	serviceRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

var brt = time.FixedZone("BRT", -3*60*60)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeRepos struct {
	agendas   map[uuid.UUID]*domain.Agenda
	services  map[uuid.UUID]*domain.Service
	windows   []domain.AvailabilityWindow
	intervals []domain.Interval
}

func (f *fakeRepos) GetByID(_ context.Context, id uuid.UUID) (*domain.Agenda, error) {
	a, ok := f.agendas[id]
	if !ok {
		return nil, agendaRepo.ErrAgendaNotFound
	}
	return a, nil
}

type serviceRepoFake struct{ *fakeRepos }

func (f serviceRepoFake) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Service, error) {
	result := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := f.services[id]
		if !ok {
			return nil, serviceRepo.ErrServiceNotFound
		}
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeRepos) ListWindows(_ context.Context, _ uuid.UUID, day time.Weekday) ([]domain.AvailabilityWindow, error) {
	result := make([]domain.AvailabilityWindow, 0)
	for _, w := range f.windows {
		if w.DayOfWeek == day {
			result = append(result, w)
		}
	}
	return result, nil
}

func (f *fakeRepos) ListIntervals(context.Context, uuid.UUID, time.Time, []domain.BookingStatus) ([]domain.Interval, error) {
	return f.intervals, nil
}

type fixture struct {
	repos  *fakeRepos
	uc     *UseCase
	agenda *domain.Agenda
	svc30a *domain.Service
	svc30b *domain.Service
	svc60  *domain.Service
	monday time.Time
}

func window(day time.Weekday, start, end string) domain.AvailabilityWindow {
	return domain.AvailabilityWindow{
		ID:        uuid.New(),
		DayOfWeek: day,
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
	}
}

func newFixture(now time.Time) *fixture {
	owner := uuid.New()
	agenda := &domain.Agenda{ID: uuid.New(), OwnerID: owner, IsActive: true}

	f := &fixture{
		repos: &fakeRepos{
			agendas:  map[uuid.UUID]*domain.Agenda{agenda.ID: agenda},
			services: map[uuid.UUID]*domain.Service{},
			windows:  []domain.AvailabilityWindow{window(time.Monday, "09:00", "12:00")},
		},
		agenda: agenda,
		monday: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	add := func(d int) *domain.Service {
		s := &domain.Service{ID: uuid.New(), OwnerID: owner, DurationMinutes: d, IsActive: true}
		f.repos.services[s.ID] = s
		return s
	}
	f.svc30a, f.svc30b, f.svc60 = add(30), add(30), add(60)

	f.uc = NewUseCase(f.repos, serviceRepoFake{f.repos}, f.repos, f.repos, brt, logger.Nop()).
		WithTimeProvider(fixedTime{now})
	return f
}

func (f *fixture) request(services ...*domain.Service) *Request {
	ids := make([]uuid.UUID, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return &Request{AgendaID: f.agenda.ID, ServiceIDs: ids, Date: f.monday}
}

func startsOf(resp *Response) []string {
	result := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		result = append(result, s.Start.Format(domain.TimeFormat))
	}
	return result
}

var sunday = time.Date(2025, 3, 9, 12, 0, 0, 0, brt)

func TestExecute_Slots(t *testing.T) {
	f := newFixture(sunday)

	resp, err := f.uc.Execute(context.Background(), f.request(f.svc60))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, startsOf(resp))
	assert.Equal(t, 60, resp.DurationMinutes)

	first := resp.Slots[0]
	assert.Equal(t, "2025-03-10T09:00:00-03:00", first.Start.Format(time.RFC3339))
	assert.Equal(t, "2025-03-10T10:00:00-03:00", first.End.Format(time.RFC3339))
}

func TestExecute_LunchBreak(t *testing.T) {
	f := newFixture(sunday)
	f.repos.windows = []domain.AvailabilityWindow{window(time.Monday, "09:00", "17:00")}
	f.agenda.LunchBreak = &domain.LunchBreak{Start: types.MustTimeString("12:00"), End: types.MustTimeString("13:00")}

	resp, err := f.uc.Execute(context.Background(), f.request(f.svc60))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}, startsOf(resp))
}

func TestExecute_ExistingBooking(t *testing.T) {
	f := newFixture(sunday)
	f.repos.intervals = []domain.Interval{{Start: types.MustTimeString("10:00"), End: types.MustTimeString("11:00")}}

	resp, err := f.uc.Execute(context.Background(), f.request(f.svc60))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, startsOf(resp))
}

func TestExecute_TwoServicesSumDuration(t *testing.T) {
	f := newFixture(sunday)

	resp, err := f.uc.Execute(context.Background(), f.request(f.svc30a, f.svc30b))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, startsOf(resp))
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_NoWindowsForDay(t *testing.T) {
	f := newFixture(sunday)
	f.monday = f.monday.AddDate(0, 0, 1) // вторник

	resp, err := f.uc.Execute(context.Background(), f.request(f.svc60))
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots)
}

func TestExecute_TodayDropsStartedSlots(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 10, 10, 15, 0, 0, brt))

	resp, err := f.uc.Execute(context.Background(), f.request(f.svc60))
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00"}, startsOf(resp))
}

func TestExecute_TodayUsesAgendaTimezone(t *testing.T) {
	// 01:00 UTC понедельника - это ещё воскресенье по BRT, слоты понедельника целиком в будущем
	f := newFixture(time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC))

	resp, err := f.uc.Execute(context.Background(), f.request(f.svc60))
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 3)
}

func TestExecute_PastDateEmpty(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 12, 9, 0, 0, 0, brt))

	resp, err := f.uc.Execute(context.Background(), f.request(f.svc60))
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(sunday)

	_, err := f.uc.Execute(context.Background(), &Request{AgendaID: f.agenda.ID, Date: f.monday})
	assert.ErrorIs(t, err, ErrValidation)

	req := f.request(f.svc60)
	req.AgendaID = uuid.New()
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAgendaInactive)

	f.svc60.IsActive = false
	_, err = f.uc.Execute(context.Background(), f.request(f.svc60))
	assert.ErrorIs(t, err, ErrServiceInactive)

	f.agenda.IsActive = false
	_, err = f.uc.Execute(context.Background(), f.request(f.svc30a))
	assert.ErrorIs(t, err, ErrAgendaInactive)
}

func TestExecute_MalformedWindowIsInternal(t *testing.T) {
	f := newFixture(sunday)
	f.repos.windows = []domain.AvailabilityWindow{window(time.Monday, "12:00", "09:00")}

	_, err := f.uc.Execute(context.Background(), f.request(f.svc60))
	assert.ErrorIs(t, err, ErrInternal)
}
