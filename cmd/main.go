package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createAgendaHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/create_agenda"
	createBookingHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/create_booking"
	createServiceHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/create_service"
	deleteAgendaHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/delete_agenda"
	getAgendaHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_agenda"
	getAgendaBookingsHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_agenda_bookings"
	getAvailabilityHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_booking"
	getPublicAgendaHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_public_agenda"
	getWebhookHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_webhook"
	listAgendasHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/list_agendas"
	listServicesHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/list_services"
	replaceAvailabilityHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/replace_availability"
	setLunchBreakHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/set_lunch_break"
	setWebhookHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/set_webhook"
	testWebhookHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/test_webhook"
	updateAgendaHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/update_agenda"
	updateBookingStatusHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/update_booking_status"
	updateServiceHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/update_service"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/config"
	agendaRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/agenda"
	availabilityRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/webhook"
	"github.com/m04kA/SMC-AgendaService/internal/notifier"
	agendasService "github.com/m04kA/SMC-AgendaService/internal/service/agendas"
	bookingsService "github.com/m04kA/SMC-AgendaService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-AgendaService/internal/service/catalog"
	settingsService "github.com/m04kA/SMC-AgendaService/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AgendaService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/metrics"
	"github.com/m04kA/SMC-AgendaService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AgendaService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AgendaService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load booking timezone %s: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики (если включены); nil-коллектор безопасен
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозитории работают либо через обёртку с метриками, либо напрямую через *sql.DB
	var (
		executor  dbmetrics.DBExecutor
		txManager *txmanager.TransactionManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txManager = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		executor = db
		txManager = simpletxmanager.NewTransactionManager(db)
	}

	agendaRepository := agendaRepo.NewRepository(executor)
	availabilityRepository := availabilityRepo.NewRepository(executor)
	bookingRepository := bookingRepo.NewRepository(executor)
	serviceRepository := serviceRepo.NewRepository(executor)
	settingsRepository := settingsRepo.NewRepository(executor)

	// Вебхуки: одна политика адресов для сохранения и для отправки
	webhookPolicy := webhook.NewPolicy(cfg.Webhook.AllowedDomains, cfg.Webhook.AllowCustomDomains)
	webhookClient := webhook.NewClient(time.Duration(cfg.Webhook.Timeout)*time.Second, webhookPolicy, log)

	settingsSvc := settingsService.NewService(settingsRepository, webhookPolicy, webhookClient, log)

	// Приемники уведомлений
	sinks := []notifier.Sink{notifier.NewWebhookSink(webhookClient)}
	if cfg.Kafka.Enabled {
		kafkaWriter := notifier.NewKafkaWriter(cfg.Kafka.BrokerList(), cfg.Kafka.Topic)
		defer func() {
			if err := kafkaWriter.Close(); err != nil {
				log.Error("Failed to close kafka writer: %v", err)
			}
		}()
		sinks = append(sinks, notifier.NewKafkaSink(kafkaWriter))
		log.Info("Kafka notification sink enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	dispatcher := notifier.NewDispatcher(
		notifier.Config{
			Workers:         cfg.Notifier.Workers,
			QueueSize:       cfg.Notifier.QueueSize,
			DeliveryTimeout: 2 * time.Duration(cfg.Webhook.Timeout) * time.Second,
			PublicBaseURL:   cfg.Booking.PublicBaseURL,
		},
		bookingRepository,
		agendaRepository,
		serviceRepository,
		settingsSvc,
		sinks,
		metricsCollector,
		log,
	)

	notifierCtx, stopNotifier := context.WithCancel(context.Background())
	notifierDone := make(chan struct{})
	go func() {
		defer close(notifierDone)
		dispatcher.Run(notifierCtx)
	}()

	// Инициализируем сервисы
	agendaSvc := agendasService.NewService(
		agendaRepository,
		availabilityRepository,
		serviceRepository,
		txManager,
		log,
	)
	catalogSvc := catalogService.NewService(serviceRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		agendaRepository,
		txManager,
		dispatcher,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		agendaRepository,
		serviceRepository,
		availabilityRepository,
		bookingRepository,
		txManager,
		dispatcher,
		metricsCollector,
		location,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		agendaRepository,
		serviceRepository,
		availabilityRepository,
		bookingRepository,
		location,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getPublicAgenda := getPublicAgendaHandler.NewHandler(agendaSvc, log)

	listAgendas := listAgendasHandler.NewHandler(agendaSvc, log)
	createAgenda := createAgendaHandler.NewHandler(agendaSvc, log)
	getAgenda := getAgendaHandler.NewHandler(agendaSvc, log)
	updateAgenda := updateAgendaHandler.NewHandler(agendaSvc, log)
	deleteAgenda := deleteAgendaHandler.NewHandler(agendaSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(agendaSvc, log)
	replaceAvailability := replaceAvailabilityHandler.NewHandler(agendaSvc, log)
	setLunchBreak := setLunchBreakHandler.NewHandler(agendaSvc, log)

	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getAgendaBookings := getAgendaBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)

	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)

	getWebhook := getWebhookHandler.NewHandler(settingsSvc, log)
	setWebhook := setWebhookHandler.NewHandler(settingsSvc, log)
	testWebhook := testWebhookHandler.NewHandler(settingsSvc, log)

	// Лимитер публичных запросов: Redis общий для всех экземпляров, иначе в памяти процесса
	var limiter middleware.Limiter
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis ping failed (addr=%s), rate limiter fails open until it recovers: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window(), "agenda:rl")
		log.Info("Redis rate limiter enabled (addr=%s)", cfg.Redis.Addr)
	} else {
		limiter = middleware.NewLocalLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window())
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с лимитом по IP)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		public.Use(middleware.RateLimit(limiter, cfg.RateLimit.TrustProxy, metricsCollector, log))
		log.Info("Rate limit enabled: %d requests per %ds", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
	}

	// Публичная страница агенды: услуги, расписание, перерыв
	public.HandleFunc("/public/agendas/{slug}", getPublicAgenda.Handle).Methods(http.MethodGet)

	// Свободные слоты на дату
	public.HandleFunc("/agendas/{agendaId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования гостем
	public.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Агенды ---
	protected.HandleFunc("/agendas", listAgendas.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/agendas", createAgenda.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/agendas/{agendaId}", getAgenda.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/agendas/{agendaId}", updateAgenda.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/agendas/{agendaId}", deleteAgenda.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/agendas/{agendaId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/agendas/{agendaId}/availability", replaceAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/agendas/{agendaId}/lunch-break", setLunchBreak.Handle).Methods(http.MethodPut)

	// --- Бронирования ---
	protected.HandleFunc("/agendas/{agendaId}/bookings", getAgendaBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Услуги ---
	protected.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)

	// --- Настройки ---
	protected.HandleFunc("/settings/webhook", getWebhook.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/settings/webhook", setWebhook.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/settings/webhook/test", testWebhook.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Новые события больше не появятся; ждем доставку уже взятых воркерами
	stopNotifier()
	<-notifierDone

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
