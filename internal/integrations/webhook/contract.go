package webhook

// URLValidator проверяет адрес получателя перед отправкой
type URLValidator interface {
	Validate(rawURL string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
