package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, когда конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Kafka     KafkaConfig     `toml:"kafka"`
	Webhook   WebhookConfig   `toml:"webhook"`
	Notifier  NotifierConfig  `toml:"notifier"`
	Booking   BookingConfig   `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения в формате postgres:// для golang-migrate
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто = stdout
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RateLimitConfig лимит запросов к публичным эндпоинтам на один IP
type RateLimitConfig struct {
	Enabled       bool `toml:"enabled"`
	Requests      int  `toml:"requests"`       // запросов за окно
	WindowSeconds int  `toml:"window_seconds"` // длина окна
	TrustProxy    bool `toml:"trust_proxy"`    // брать IP клиента из последнего элемента X-Forwarded-For
}

// Window длительность окна лимита
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

type KafkaConfig struct {
	Enabled bool   `toml:"enabled"`
	Brokers string `toml:"brokers"` // через запятую
	Topic   string `toml:"topic"`
}

// BrokerList список брокеров без пустых элементов
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type WebhookConfig struct {
	Timeout            int      `toml:"timeout"` // секунды
	AllowedDomains     []string `toml:"allowed_domains"`
	AllowCustomDomains bool     `toml:"allow_custom_domains"`
}

type NotifierConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

type BookingConfig struct {
	Timezone      string `toml:"timezone"`        // IANA, например America/Sao_Paulo
	PublicBaseURL string `toml:"public_base_url"` // база для public_url в уведомлениях
}

// Location часовой пояс отображения слотов
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// Load читает TOML-файл, накладывает .env и переменные окружения,
// проставляет значения по умолчанию и валидирует результат
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	// .env опционален, его отсутствие не ошибка
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Kafka.Brokers, "KAFKA_BROKERS")
	setString(&c.Logs.Level, "LOG_LEVEL")
	setInt(&c.Server.HTTPPort, "HTTP_PORT")
}

func (c *Config) applyDefaults() {
	defaultInt(&c.Server.HTTPPort, 8080)
	defaultInt(&c.Server.ReadTimeout, 10)
	defaultInt(&c.Server.WriteTimeout, 10)
	defaultInt(&c.Server.IdleTimeout, 60)
	defaultInt(&c.Server.ShutdownTimeout, 15)

	defaultInt(&c.Database.Port, 5432)
	defaultString(&c.Database.SSLMode, "disable")
	defaultInt(&c.Database.MaxOpenConns, 25)
	defaultInt(&c.Database.MaxIdleConns, 5)
	defaultInt(&c.Database.ConnMaxLifetime, 300)

	defaultString(&c.Logs.Level, "info")
	defaultString(&c.Metrics.Path, "/metrics")
	defaultString(&c.Metrics.ServiceName, "smc-agenda-service")

	defaultInt(&c.RateLimit.Requests, 60)
	defaultInt(&c.RateLimit.WindowSeconds, 60)

	defaultString(&c.Kafka.Topic, "booking.events")

	defaultInt(&c.Webhook.Timeout, 5)
	defaultInt(&c.Notifier.Workers, 2)
	defaultInt(&c.Notifier.QueueSize, 256)

	defaultString(&c.Booking.Timezone, "America/Sao_Paulo")
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database host, dbname and user are required", ErrInvalidConfig)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Kafka.Enabled && len(c.Kafka.BrokerList()) == 0 {
		return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func defaultString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func defaultInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}
