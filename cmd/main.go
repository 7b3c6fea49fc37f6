package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/check_availability"
	createBlackoutHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/create_blackout"
	createBookingHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/create_booking"
	deleteBlackoutHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/delete_blackout"
	getAvailableSlotsHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/get_booking"
	getCourtBookingsHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/get_court_bookings"
	getOperatingHoursHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/get_operating_hours"
	getUserBookingsHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/get_user_bookings"
	listBlackoutsHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/list_blackouts"
	updateOperatingHoursHandler "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers/update_operating_hours"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/config"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/consumer"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/events"
	bookingRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/booking"
	courtRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/court"
	facilityServiceClient "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/integrations/facilityservice"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/scheduler"
	bookingsService "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings"
	courtsService "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts"
	checkAvailabilityUC "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/check_availability"
	createBookingUC "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/get_available_slots"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/dbmetrics"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/logger"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/metrics"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/mq"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/tracing"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/txmanager"
)

// version проставляется при сборке через -ldflags
var version = "dev"

// eventPublisher общий интерфейс для mq.Publisher и mq.NopPublisher
type eventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

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

	log.Info("Starting badcourt booking service %s...", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Трейсинг (при enabled=false остаётся no-op провайдер)
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Metrics.ServiceName,
		Version:     version,
		Environment: cfg.Tracing.Environment,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("Failed to flush traces: %v", err)
		}
	}()

	// Метрики. Интерфейсы заполняются только при включённых метриках,
	// nil *metrics.Metrics в интерфейсе был бы не nil.
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
		verdicts         createBookingUC.VerdictRecorder
		schedulerMetrics scheduler.Metrics
	)
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		verdicts = metricsCollector
		schedulerMetrics = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopMetricsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	courtRepository := courtRepo.NewRepository(wrappedDB)

	// Интеграции
	facilityClient := facilityServiceClient.NewClient(
		cfg.FacilityService.URL,
		time.Duration(cfg.FacilityService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (FacilityService=%s timeout=%ds)",
		cfg.FacilityService.URL, cfg.FacilityService.Timeout)

	// Брокер событий
	var publisher eventPublisher = mq.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		p, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.BookingExchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = p
		log.Info("Publishing booking events to exchange=%s", cfg.RabbitMQ.BookingExchange)
	}
	defer publisher.Close()

	// Фоновые воркеры
	sched := scheduler.New(bookingRepository, publisher, schedulerMetrics, scheduler.Config{
		PendingGracePeriod: cfg.Scheduler.PendingGracePeriod,
		PollInterval:       cfg.Scheduler.ReaperPollInterval,
		IdleProbe:          cfg.Scheduler.ReaperIdleProbe,
		AdvanceInterval:    cfg.Scheduler.StateAdvanceInterval,
		DeleteExpired:      cfg.Scheduler.ReaperDeleteExpired,
	}, log)
	sched.Start(ctx)

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, courtRepository, facilityClient, publisher, log)
	courtSvc := courtsService.NewService(courtRepository, facilityClient, txMgr, log)

	// Подтверждения оплаты из брокера
	if cfg.RabbitMQ.Enabled {
		paymentConsumer, err := mq.NewConsumer(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.PaymentExchange,
			cfg.RabbitMQ.PaymentQueue,
			[]string{events.PaymentPaid},
			cfg.RabbitMQ.Prefetch,
		)
		if err != nil {
			log.Fatal("Failed to create payment consumer: %v", err)
		}
		defer paymentConsumer.Close()

		deliveries, err := paymentConsumer.Deliveries(ctx)
		if err != nil {
			log.Fatal("Failed to start consuming payments: %v", err)
		}
		go consumer.NewPaymentConsumer(bookingSvc, publisher, log).Run(ctx, deliveries)
	}

	// Use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		courtRepository,
		bookingRepository,
		txMgr,
		verdicts,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		courtRepository,
		txMgr,
		publisher,
		sched,
		verdicts,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		courtRepository,
		bookingRepository,
		txMgr,
		cfg.Booking.DefaultSlotMinutes,
		log,
	)

	// Handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getOperatingHours := getOperatingHoursHandler.NewHandler(courtSvc, log)
	listBlackouts := listBlackoutsHandler.NewHandler(courtSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getCourtBookings := getCourtBookingsHandler.NewHandler(bookingSvc, log)
	updateOperatingHours := updateOperatingHoursHandler.NewHandler(courtSvc, log)
	createBlackout := createBlackoutHandler.NewHandler(courtSvc, log)
	deleteBlackout := deleteBlackoutHandler.NewHandler(courtSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Tracing)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/courts/{courtId}/availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/operating-hours", getOperatingHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/blackouts", listBlackouts.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление кортом (для менеджеров площадки) ---
	protected.HandleFunc("/courts/{courtId}/bookings", getCourtBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/courts/{courtId}/operating-hours", updateOperatingHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/courts/{courtId}/blackouts", createBlackout.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/courts/{courtId}/blackouts/{blackoutId}", deleteBlackout.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := sched.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Scheduler stopped with error: %v", err)
	}

	close(stopMetricsCh)
	log.Info("Server stopped gracefully")
}
