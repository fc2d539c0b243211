package slots

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

func window(day time.Weekday, start, end string) domain.AvailabilityWindow {
	return domain.AvailabilityWindow{
		DayOfWeek: day,
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
	}
}

func interval(start, end string) domain.Interval {
	return domain.Interval{Start: types.MustTimeString(start), End: types.MustTimeString(end)}
}

func asStrings(slots []types.TimeString) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func TestCompute_Scenarios(t *testing.T) {
	lunch := &domain.LunchBreak{Start: types.MustTimeString("12:00"), End: types.MustTimeString("13:00")}

	tests := []struct {
		name     string
		windows  []domain.AvailabilityWindow
		lunch    *domain.LunchBreak
		duration int
		existing []domain.Interval
		want     []string
	}{
		{
			name:     "plain window",
			windows:  []domain.AvailabilityWindow{window(time.Monday, "09:00", "12:00")},
			duration: 60,
			want:     []string{"09:00", "10:00", "11:00"},
		},
		{
			name:     "lunch break excluded",
			windows:  []domain.AvailabilityWindow{window(time.Monday, "09:00", "17:00")},
			lunch:    lunch,
			duration: 60,
			want:     []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"},
		},
		{
			name:     "existing booking excluded",
			windows:  []domain.AvailabilityWindow{window(time.Monday, "09:00", "12:00")},
			duration: 60,
			existing: []domain.Interval{interval("10:00", "11:00")},
			want:     []string{"09:00", "11:00"},
		},
		{
			name:     "two services summed use a 60 minute step",
			windows:  []domain.AvailabilityWindow{window(time.Monday, "09:00", "12:00")},
			duration: 30 + 30,
			want:     []string{"09:00", "10:00", "11:00"},
		},
		{
			name:     "closed day",
			windows:  nil,
			lunch:    lunch,
			duration: 60,
			want:     []string{},
		},
		{
			name:     "step follows duration, tail that does not fit is dropped",
			windows:  []domain.AvailabilityWindow{window(time.Monday, "09:00", "12:00")},
			duration: 90,
			want:     []string{"09:00", "10:30"},
		},
		{
			name:     "partial overlap with booking blocks candidate",
			windows:  []domain.AvailabilityWindow{window(time.Monday, "09:00", "12:00")},
			duration: 60,
			existing: []domain.Interval{interval("10:30", "10:45")},
			want:     []string{"09:00", "11:00"},
		},
		{
			name:     "lunch break partially inside candidate",
			windows:  []domain.AvailabilityWindow{window(time.Monday, "11:00", "14:00")},
			lunch:    &domain.LunchBreak{Start: types.MustTimeString("12:30"), End: types.MustTimeString("13:00")},
			duration: 60,
			want:     []string{"11:00", "13:00"},
		},
		{
			name: "split windows with explicit gap and lunch both subtract",
			windows: []domain.AvailabilityWindow{
				window(time.Monday, "14:00", "18:00"),
				window(time.Monday, "08:00", "11:00"),
			},
			lunch:    &domain.LunchBreak{Start: types.MustTimeString("15:00"), End: types.MustTimeString("16:00")},
			duration: 60,
			want:     []string{"08:00", "09:00", "10:00", "14:00", "16:00", "17:00"},
		},
		{
			name: "overlapping windows are de-duplicated",
			windows: []domain.AvailabilityWindow{
				window(time.Monday, "09:00", "11:00"),
				window(time.Monday, "09:00", "10:00"),
			},
			duration: 60,
			want:     []string{"09:00", "10:00"},
		},
		{
			name:     "window shorter than duration",
			windows:  []domain.AvailabilityWindow{window(time.Monday, "09:00", "09:45")},
			duration: 60,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.windows, tt.lunch, tt.duration, tt.existing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, asStrings(got))
		})
	}
}

func TestCompute_CancelledBookingsDoNotBlock(t *testing.T) {
	bookings := []*domain.Booking{
		{StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("11:00"), Status: domain.StatusCancelled},
	}

	got, err := Compute(
		[]domain.AvailabilityWindow{window(time.Monday, "09:00", "12:00")},
		nil,
		60,
		BlockingIntervals(bookings),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, asStrings(got))
}

func TestCompute_InvalidDuration(t *testing.T) {
	windows := []domain.AvailabilityWindow{window(time.Monday, "09:00", "12:00")}

	_, err := Compute(windows, nil, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = Compute(windows, nil, -30, nil)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	// длительность проверяется даже для выходного дня
	_, err = Compute(nil, nil, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestCompute_MalformedWindow(t *testing.T) {
	_, err := Compute([]domain.AvailabilityWindow{window(time.Monday, "12:00", "09:00")}, nil, 30, nil)
	assert.ErrorIs(t, err, ErrMalformedWindow)
}

func TestCompute_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	durations := []int{15, 30, 45, 60, 90, 120}

	for iter := 0; iter < 500; iter++ {
		windows := randomWindows(rng)
		duration := durations[rng.Intn(len(durations))]
		existing := randomIntervals(rng, rng.Intn(5))

		var lunch *domain.LunchBreak
		if rng.Intn(2) == 0 {
			start := 600 + rng.Intn(180)
			lunch = &domain.LunchBreak{Start: minutes(start), End: minutes(start + 15 + rng.Intn(90))}
		}

		got, err := Compute(windows, lunch, duration, existing)
		require.NoError(t, err)

		again, err := Compute(windows, lunch, duration, existing)
		require.NoError(t, err)
		assert.Equal(t, got, again, "determinism")

		for i, s := range got {
			t0 := s.Minutes()

			if i > 0 {
				assert.Less(t, got[i-1].Minutes(), t0, "strictly ascending")
			}

			for _, b := range existing {
				assert.False(t, t0 < b.End.Minutes() && t0+duration > b.Start.Minutes(),
					"slot %s overlaps booking %s-%s", s, b.Start, b.End)
			}

			if lunch != nil {
				assert.False(t, t0 < lunch.End.Minutes() && t0+duration > lunch.Start.Minutes(),
					"slot %s overlaps lunch %s-%s", s, lunch.Start, lunch.End)
			}

			inWindow := false
			for _, w := range windows {
				if w.StartTime.Minutes() <= t0 && t0+duration <= w.EndTime.Minutes() {
					inWindow = true
					break
				}
			}
			assert.True(t, inWindow, "slot %s is outside every window", s)
		}
	}
}

func TestContains(t *testing.T) {
	list := []types.TimeString{types.MustTimeString("09:00"), types.MustTimeString("10:00"), types.MustTimeString("11:00")}

	assert.True(t, Contains(list, types.MustTimeString("10:00")))
	assert.False(t, Contains(list, types.MustTimeString("10:30")))
	assert.False(t, Contains(list, types.MustTimeString("12:00")))
	assert.False(t, Contains(nil, types.MustTimeString("09:00")))
}

func TestWindowsForDay(t *testing.T) {
	windows := []domain.AvailabilityWindow{
		window(time.Monday, "09:00", "12:00"),
		window(time.Tuesday, "09:00", "12:00"),
		window(time.Monday, "14:00", "18:00"),
	}

	assert.Len(t, WindowsForDay(windows, int(time.Monday)), 2)
	assert.Empty(t, WindowsForDay(windows, int(time.Sunday)))
}

func minutes(m int) types.TimeString {
	ts, err := types.NewTimeStringFromMinutes(m)
	if err != nil {
		panic(err)
	}
	return ts
}

func randomWindows(rng *rand.Rand) []domain.AvailabilityWindow {
	count := rng.Intn(3)
	windows := make([]domain.AvailabilityWindow, 0, count)
	for i := 0; i < count; i++ {
		start := 6*60 + rng.Intn(10)*30
		end := start + 60 + rng.Intn(8)*30
		windows = append(windows, domain.AvailabilityWindow{
			DayOfWeek: time.Wednesday,
			StartTime: minutes(start),
			EndTime:   minutes(end),
		})
	}
	return windows
}

func randomIntervals(rng *rand.Rand, count int) []domain.Interval {
	result := make([]domain.Interval, 0, count)
	for i := 0; i < count; i++ {
		start := 6*60 + rng.Intn(12*60)
		result = append(result, domain.Interval{Start: minutes(start), End: minutes(start + 15 + rng.Intn(120))})
	}
	return result
}
