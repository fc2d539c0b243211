package agendas

import "errors"

var (
	// ErrAgendaNotFound возвращается, когда агенда не найдена или неактивна для публичного доступа
	ErrAgendaNotFound = errors.New("agenda not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец агенды
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
