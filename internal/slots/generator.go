// Package slots вычисляет свободные стартовые времена для бронирования.
//
// Вся арифметика в минутах от полуночи. Курсор внутри окна шагает на
// длительность запрошенной услуги (а не на фиксированную сетку), поэтому
// 90-минутная и 30-минутная услуги в одном окне дают разные старты.
package slots

import (
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

var (
	// ErrInvalidDuration возвращается при длительности <= 0
	ErrInvalidDuration = errors.New("slots: duration must be positive")

	// ErrMalformedWindow возвращается, если окно с start >= end дошло до генератора.
	// Такие окна отсекаются при записи, поэтому эта ошибка означает баг выше по стеку.
	ErrMalformedWindow = errors.New("slots: malformed availability window")
)

// Compute возвращает упорядоченный по возрастанию список стартов без дублей.
//
// windows уже отфильтрованы по дню недели; пустой список - валидный "выходной".
// existing - интервалы бронирований в статусах pending/confirmed.
// Кандидат t допустим, если t+duration <= конец окна и [t, t+duration)
// не пересекается ни с перерывом, ни с одним из существующих интервалов.
func Compute(
	windows []domain.AvailabilityWindow,
	lunch *domain.LunchBreak,
	durationMinutes int,
	existing []domain.Interval,
) ([]types.TimeString, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMinutes)
	}

	if len(windows) == 0 {
		return []types.TimeString{}, nil
	}

	blocked := make([]domain.Interval, 0, len(existing)+1)
	if lunch != nil {
		blocked = append(blocked, lunch.Interval())
	}
	blocked = append(blocked, existing...)

	seen := make(map[int]struct{})
	starts := make([]int, 0)

	for _, w := range windows {
		start, end := w.StartTime.Minutes(), w.EndTime.Minutes()
		if start >= end {
			return nil, fmt.Errorf("%w: %s-%s", ErrMalformedWindow, w.StartTime, w.EndTime)
		}

		for t := start; t+durationMinutes <= end; t += durationMinutes {
			if isBlocked(t, durationMinutes, blocked) {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			starts = append(starts, t)
		}
	}

	sort.Ints(starts)

	result := make([]types.TimeString, 0, len(starts))
	for _, m := range starts {
		ts, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			return nil, err
		}
		result = append(result, ts)
	}

	return result, nil
}

// Contains проверяет, входит ли start в список слотов
func Contains(slots []types.TimeString, start types.TimeString) bool {
	idx := sort.Search(len(slots), func(i int) bool {
		return slots[i].Minutes() >= start.Minutes()
	})
	return idx < len(slots) && slots[idx].Minutes() == start.Minutes()
}

// WindowsForDay оставляет окна указанного дня недели
func WindowsForDay(windows []domain.AvailabilityWindow, day int) []domain.AvailabilityWindow {
	result := make([]domain.AvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		if int(w.DayOfWeek) == day {
			result = append(result, w)
		}
	}
	return result
}

// BlockingIntervals интервалы бронирований, которые занимают слот
func BlockingIntervals(bookings []*domain.Booking) []domain.Interval {
	result := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.IsBlocking() {
			result = append(result, b.Interval())
		}
	}
	return result
}

// isBlocked пересечение полуоткрытых интервалов: соприкосновение не считается
func isBlocked(start, duration int, blocked []domain.Interval) bool {
	for _, b := range blocked {
		if b.Overlaps(start, duration) {
			return true
		}
	}
	return false
}
