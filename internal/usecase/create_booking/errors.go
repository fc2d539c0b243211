package create_booking

import "errors"

var (
	// ErrValidation возвращается при некорректных данных гостя или запроса
	ErrValidation = errors.New("create_booking: validation error")

	// ErrAgendaInactive возвращается, когда агенда не найдена или отключена
	ErrAgendaInactive = errors.New("create_booking: agenda not found or inactive")

	// ErrServiceInactive возвращается, когда услуга не найдена, отключена или принадлежит другому владельцу
	ErrServiceInactive = errors.New("create_booking: service not found or inactive")

	// ErrSlotConflict возвращается, когда выбранное время уже занято
	ErrSlotConflict = errors.New("create_booking: slot was just taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
