package webhook

import "errors"

var (
	// ErrInvalidURL возвращается, когда URL не разбирается или без хоста
	ErrInvalidURL = errors.New("webhook: invalid url")

	// ErrURLNotAllowed возвращается, когда URL запрещен политикой
	ErrURLNotAllowed = errors.New("webhook: url not allowed")

	// ErrDeliveryFailed возвращается, когда получатель ответил не 2xx
	ErrDeliveryFailed = errors.New("webhook: delivery failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("webhook client: internal error")
)
