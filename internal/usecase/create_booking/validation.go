package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// normalizeRequest обрезает пробелы в полях гостя; пустые опциональные поля становятся nil
func normalizeRequest(req *Request) {
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	req.GuestEmail = trimOptional(req.GuestEmail)
	req.Notes = trimOptional(req.Notes)
}

// validateRequest валидирует входные данные запроса до обращения к хранилищу
func validateRequest(req *Request) error {
	if req.AgendaID == uuid.Nil {
		return fmt.Errorf("%w: agenda_id is required", ErrValidation)
	}

	if err := validateServiceIDs(req.ServiceIDs); err != nil {
		return err
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", ErrValidation)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start_time: %v", ErrValidation, err)
	}

	return validateGuest(req)
}

func validateServiceIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrValidation)
	}
	if len(ids) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrValidation, domain.MaxServicesPerBooking)
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return fmt.Errorf("%w: service id is required", ErrValidation)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate service id %s", ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateGuest(req *Request) error {
	if req.GuestName == "" {
		return fmt.Errorf("%w: guest_name is required", ErrValidation)
	}
	if utf8.RuneCountInString(req.GuestName) > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: guest_name must be at most %d characters", ErrValidation, domain.MaxGuestNameLength)
	}

	phoneLen := utf8.RuneCountInString(req.GuestPhone)
	if phoneLen < domain.MinGuestPhoneLength || phoneLen > domain.MaxGuestPhoneLength {
		return fmt.Errorf("%w: guest_phone must be %d..%d characters",
			ErrValidation, domain.MinGuestPhoneLength, domain.MaxGuestPhoneLength)
	}

	if req.GuestEmail != nil {
		email := *req.GuestEmail
		if len(email) > domain.MaxGuestEmailLength {
			return fmt.Errorf("%w: guest_email must be at most %d characters", ErrValidation, domain.MaxGuestEmailLength)
		}
		addr, err := mail.ParseAddress(email)
		// Отклоняем формы вида "Name <a@b>": нужен голый адрес
		if err != nil || addr.Address != email {
			return fmt.Errorf("%w: guest_email is not a valid address", ErrValidation)
		}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrValidation, domain.MaxNotesLength)
	}

	return nil
}

// validateNotInPast проверяет дату и время начала относительно текущего момента в часовом поясе агенды
func validateNotInPast(date time.Time, start types.TimeString, now time.Time, loc *time.Location) error {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	if day.Before(today) {
		return fmt.Errorf("%w: date is in the past", ErrValidation)
	}
	if day.Equal(today) && start.IsBefore(types.NewTimeString(local)) {
		return fmt.Errorf("%w: start_time is in the past", ErrValidation)
	}
	return nil
}

// validateServices проверяет, что все услуги активны и принадлежат владельцу агенды
func validateServices(services []*domain.Service, ownerID uuid.UUID) error {
	for _, s := range services {
		if !s.IsActive || s.OwnerID != ownerID {
			return fmt.Errorf("%w: id=%s", ErrServiceInactive, s.ID)
		}
	}
	return nil
}

// buildBookings раскладывает услуги подряд, начиная с start
func buildBookings(req *Request, services []*domain.Service, groupID uuid.UUID) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0, len(services))
	cursor := req.StartTime

	for _, s := range services {
		end, err := cursor.AddMinutes(s.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: booking does not fit into the day", ErrSlotConflict)
		}

		bookings = append(bookings, &domain.Booking{
			ID:          uuid.New(),
			GroupID:     groupID,
			AgendaID:    req.AgendaID,
			ServiceID:   s.ID,
			BookingDate: req.Date,
			StartTime:   cursor,
			EndTime:     end,
			Status:      domain.StatusPending,
			GuestName:   req.GuestName,
			GuestEmail:  req.GuestEmail,
			GuestPhone:  req.GuestPhone,
			Notes:       req.Notes,
		})
		cursor = end
	}

	return bookings, nil
}

func totalDuration(services []*domain.Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
