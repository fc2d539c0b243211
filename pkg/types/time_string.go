package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerHour = 60
	// MinutesPerDay верхняя граница времени суток (24:00 допускается как конец интервала)
	MinutesPerDay = 24 * minutesPerHour
)

var (
	// ErrInvalidFormat возвращается, когда строка не в формате HH:MM или HH:MM:SS
	ErrInvalidFormat = errors.New("invalid time string format")

	// ErrOutOfRange возвращается, когда время выходит за пределы суток
	ErrOutOfRange = errors.New("time is out of day range")
)

// TimeString время суток без даты, хранится в минутах от полуночи.
// На границе (JSON, БД) представляется строкой "HH:MM".
type TimeString struct {
	minutes int
	set     bool
}

// NewTimeString извлекает время суток из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*minutesPerHour + t.Minute(), set: true}
}

// NewTimeStringFromMinutes создает время из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes", ErrOutOfRange, minutes)
	}
	return TimeString{minutes: minutes, set: true}, nil
}

// MustTimeString парсит строку и паникует при ошибке. Только для констант и тестов.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// NewTimeStringFromString парсит "HH:MM" или "HH:MM:SS".
// Секунды, если есть, должны быть нулевыми: вся арифметика ведётся в минутах.
func NewTimeStringFromString(s string) (TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		values[i] = v
	}

	hours, minutes := values[0], values[1]
	if minutes >= minutesPerHour {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	if len(values) == 3 && values[2] != 0 {
		return TimeString{}, fmt.Errorf("%w: seconds are not supported: %q", ErrInvalidFormat, s)
	}

	return NewTimeStringFromMinutes(hours*minutesPerHour + minutes)
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() int {
	return t.minutes
}

// String возвращает время в формате HH:MM
func (t TimeString) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/minutesPerHour, t.minutes%minutesPerHour)
}

// IsZero true, если время не было задано
func (t TimeString) IsZero() bool {
	return !t.set
}

// Validate проверяет, что время задано и лежит в пределах суток
func (t TimeString) Validate() error {
	if !t.set {
		return fmt.Errorf("%w: empty", ErrInvalidFormat)
	}
	if t.minutes < 0 || t.minutes > MinutesPerDay {
		return fmt.Errorf("%w: %d minutes", ErrOutOfRange, t.minutes)
	}
	return nil
}

// AddMinutes возвращает время, сдвинутое на n минут.
// Результат за пределами [00:00, 24:00] - ошибка.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	return NewTimeStringFromMinutes(t.minutes + n)
}

func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

func (t TimeString) Equal(other TimeString) bool {
	return t.minutes == other.minutes && t.set == other.set
}

// On возвращает момент времени в указанную дату и часовом поясе
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(t.minutes) * time.Minute)
}

// Scan реализует sql.Scanner для колонок типа TIME
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case time.Time:
		*t = fromClock(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidFormat, src)
	}
}

// fromClock переводит значение TIME, декодированное драйвером в time.Time.
// lib/pq отдает 24:00:00 как полночь следующего дня (0000-01-02 00:00).
func fromClock(v time.Time) TimeString {
	base := time.Date(v.Year(), v.Month(), 1, 0, 0, 0, 0, v.Location())
	if v.Sub(base) >= 24*time.Hour && v.Hour() == 0 && v.Minute() == 0 {
		return TimeString{minutes: MinutesPerDay, set: true}
	}
	return NewTimeString(v)
}

func (t *TimeString) scanString(s string) error {
	// postgres может вернуть дробные секунды: 09:00:00.000000
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if !t.set {
		return nil, nil
	}
	return t.String() + ":00", nil
}

// MarshalJSON сериализует время как "HH:MM"
func (t TimeString) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON принимает "HH:MM" или "HH:MM:SS"
func (t *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TimeString{}
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, string(data))
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
