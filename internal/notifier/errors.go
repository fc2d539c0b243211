package notifier

import "errors"

var (
	// ErrSkipped возвращается приемником, которому нечего отправлять (например, вебхук не настроен)
	ErrSkipped = errors.New("notifier: delivery skipped")

	// ErrLoadDetails возвращается, когда не удалось собрать данные бронирования
	ErrLoadDetails = errors.New("notifier: failed to load booking details")
)

// Исходы доставки для метрик
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
	OutcomeDropped   = "dropped"
)
