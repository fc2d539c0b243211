package get_available_slots

import "errors"

var (
	// ErrValidation возвращается при некорректных параметрах запроса
	ErrValidation = errors.New("get_available_slots: validation error")

	// ErrAgendaInactive возвращается, когда агенда не найдена или отключена
	ErrAgendaInactive = errors.New("get_available_slots: agenda not found or inactive")

	// ErrServiceInactive возвращается, когда услуга не найдена, отключена или принадлежит другому владельцу
	ErrServiceInactive = errors.New("get_available_slots: service not found or inactive")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
