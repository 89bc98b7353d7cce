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

	bookingFlowHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/booking_flow"
	cancelBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_booking"
	createBlockHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_block"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	getAgendaHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_agenda"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_client_bookings"
	getMonthCalendarHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_month_calendar"
	getProfessionalScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_professional_schedule"
	getStudioHoursHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_studio_hours"
	listProfessionalsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_professionals"
	updateBookingStatusHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_booking_status"
	updateStudioHoursHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_studio_hours"
	updateWorkingHoursHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_working_hours"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	scheduleCache "github.com/m04kA/SMC-SalonBooking/internal/infra/cache/schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/migrations"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	professionalRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/professional"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	studioRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/studio"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	schedulesService "github.com/m04kA/SMC-SalonBooking/internal/service/schedules"
	bookingFlowUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/booking_flow"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	getMonthCalendarUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_month_calendar"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

// studioClock текущее время в часовом поясе студии
type studioClock struct {
	loc *time.Location
}

func (c studioClock) Now() time.Time {
	return time.Now().In(c.loc)
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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from config.toml")

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
	}
	clock := studioClock{loc: loc}

	boundary, err := availability.ParseBoundaryPolicy(cfg.Booking.SlotBoundary)
	if err != nil {
		log.Fatal("Invalid slot boundary: %v", err)
	}
	slots := availability.NewSlotGenerator(boundary)
	log.Info("Availability engine configured (slot_boundary=%s, min_notice=%dm, timezone=%s)",
		boundary, cfg.Booking.MinNoticeMinutes, loc)

	// Инициализируем метрики (если включены)
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Без метрик обертка работает как обычный *sql.DB
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	professionalRepository := professionalRepo.NewRepository(wrappedDB, log)
	studioRepository := studioRepo.NewRepository(wrappedDB, log)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	var (
		professionalStore schedulesService.ProfessionalStore = professionalRepository
		studioStore       schedulesService.StudioStore       = studioRepository
	)

	// Кэш расписаний (если включен)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is unavailable, schedules will be read from database: %v", err)
		}

		cache := scheduleCache.NewCache(
			rdb,
			professionalRepository,
			studioRepository,
			time.Duration(cfg.Redis.TTL)*time.Second,
			log,
		)
		professionalStore = cache
		studioStore = cache
		log.Info("Schedule cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		professionalStore,
		cfg.Auth,
		txMgr,
		log,
	)
	scheduleSvc := schedulesService.NewService(
		professionalStore,
		studioStore,
		cfg.Auth,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		professionalStore,
		studioStore,
		serviceRepository,
		slots,
		cfg.Booking.MinNoticeMinutes,
		metricsCollector,
		log,
	).WithTimeProvider(clock)

	getMonthCalendarUseCase := getMonthCalendarUC.NewUseCase(
		appointmentRepository,
		professionalStore,
		studioStore,
		serviceRepository,
		slots,
		cfg.Booking.MinNoticeMinutes,
		metricsCollector,
		log,
	).WithTimeProvider(clock)

	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		professionalStore,
		studioStore,
		serviceRepository,
		txMgr,
		slots,
		cfg.Booking.MinNoticeMinutes,
		metricsCollector,
		log,
	).WithTimeProvider(clock)

	bookingFlowUseCase := bookingFlowUC.NewUseCase(
		getMonthCalendarUseCase,
		getAvailableSlotsUseCase,
		createBookingUseCase,
		time.Duration(cfg.Booking.FlowTTL)*time.Second,
		log,
	).WithTimeProvider(clock)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getMonthCalendar := getMonthCalendarHandler.NewHandler(getMonthCalendarUseCase, log).WithClock(clock.Now)
	getStudioHours := getStudioHoursHandler.NewHandler(scheduleSvc, log)
	listProfessionals := listProfessionalsHandler.NewHandler(scheduleSvc, log)
	getProfessionalSchedule := getProfessionalScheduleHandler.NewHandler(scheduleSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(appointmentSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(appointmentSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(appointmentSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(appointmentSvc, log)
	getAgenda := getAgendaHandler.NewHandler(appointmentSvc, log)
	createBlock := createBlockHandler.NewHandler(appointmentSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(scheduleSvc, log)
	updateStudioHours := updateStudioHoursHandler.NewHandler(scheduleSvc, log)
	bookingFlow := bookingFlowHandler.NewHandler(bookingFlowUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Ограничение частоты создания записей
	limit := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
		limit = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
		log.Info("Rate limiting enabled (rps=%.2f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Активные мастера студии
	api.HandleFunc("/professionals", listProfessionals.Handle).Methods(http.MethodGet)

	// Свободные слоты мастера на дату
	api.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Календарь месяца
	api.HandleFunc("/professionals/{professionalId}/calendar",
		getMonthCalendar.Handle).Methods(http.MethodGet)

	// Недельное расписание мастера
	api.HandleFunc("/professionals/{professionalId}/schedule",
		getProfessionalSchedule.Handle).Methods(http.MethodGet)

	// Часы работы студии
	api.HandleFunc("/studio/hours", getStudioHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.Handle("/bookings", limit(createBooking.Handle)).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Мастер записи ---
	protected.HandleFunc("/booking-flows", bookingFlow.Start).Methods(http.MethodPost)
	protected.HandleFunc("/booking-flows/{flowId}", bookingFlow.Get).Methods(http.MethodGet)
	protected.HandleFunc("/booking-flows/{flowId}/month", bookingFlow.ChangeMonth).Methods(http.MethodPost)
	protected.HandleFunc("/booking-flows/{flowId}/date", bookingFlow.SelectDate).Methods(http.MethodPost)
	protected.HandleFunc("/booking-flows/{flowId}/time", bookingFlow.SelectTime).Methods(http.MethodPost)
	protected.HandleFunc("/booking-flows/{flowId}/back", bookingFlow.Back).Methods(http.MethodPost)
	protected.Handle("/booking-flows/{flowId}/confirm", limit(bookingFlow.Confirm)).Methods(http.MethodPost)

	// --- Управление студией (для сотрудников) ---
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/professionals/{professionalId}/agenda", getAgenda.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/blocks", createBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/professionals/{professionalId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/studio/hours", updateStudioHours.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
