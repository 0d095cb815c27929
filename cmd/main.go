package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/cancel_booking"
	confirmPaymentHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/confirm_payment"
	createBookingHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/create_booking"
	createPaymentIntentHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/create_payment_intent"
	createReviewHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/create_review"
	deleteSlotHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/delete_slot"
	getAvailableSlotsHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/get_booking"
	getBookingPaymentHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/get_booking_payment"
	getPractitionerBookingsHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/get_practitioner_bookings"
	getSeekerBookingsHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/get_seeker_bookings"
	getSlotHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/get_slot"
	listSlotsHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/list_slots"
	markAttendanceHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/mark_attendance"
	publishSlotHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/publish_slot"
	requestRefundHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/request_refund"
	setSlotAvailabilityHandler "github.com/m04kA/SessionBookingService/internal/api/handlers/set_slot_availability"
	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/config"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/payment"
	reviewRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/review"
	slotRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SessionBookingService/internal/integrations/offeringservice"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
	bookingsService "github.com/m04kA/SessionBookingService/internal/service/bookings"
	paymentsService "github.com/m04kA/SessionBookingService/internal/service/payments"
	slotsService "github.com/m04kA/SessionBookingService/internal/service/slots"
	cancelBookingUC "github.com/m04kA/SessionBookingService/internal/usecase/cancel_booking"
	completeBookingUC "github.com/m04kA/SessionBookingService/internal/usecase/complete_booking"
	confirmPaymentUC "github.com/m04kA/SessionBookingService/internal/usecase/confirm_payment"
	createBookingUC "github.com/m04kA/SessionBookingService/internal/usecase/create_booking"
	createPaymentIntentUC "github.com/m04kA/SessionBookingService/internal/usecase/create_payment_intent"
	createReviewUC "github.com/m04kA/SessionBookingService/internal/usecase/create_review"
	getAvailableSlotsUC "github.com/m04kA/SessionBookingService/internal/usecase/get_available_slots"
	requestRefundUC "github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
	"github.com/m04kA/SessionBookingService/internal/worker/reaper"
	"github.com/m04kA/SessionBookingService/pkg/dbmetrics"
	"github.com/m04kA/SessionBookingService/pkg/logger"
	"github.com/m04kA/SessionBookingService/pkg/metrics"
	"github.com/m04kA/SessionBookingService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SessionBookingService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены). nil-коллектор безопасен: методы ничего не делают
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

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем интеграционных клиентов
	offeringClient := offeringservice.NewClient(
		cfg.OfferingService.URL,
		time.Duration(cfg.OfferingService.Timeout)*time.Second,
		log,
	).WithDefaultCurrency(cfg.Payments.Currency)
	paymentProvider := stripeprovider.NewClient(stripeprovider.Config{
		SecretKey:         cfg.Payments.SecretKey,
		APIURL:            cfg.Payments.APIURL,
		MaxNetworkRetries: cfg.Payments.MaxNetworkRetries,
	}, log)
	log.Info("Integration clients initialized (OfferingService=%s timeout=%ds, platform fee rate=%s)",
		cfg.OfferingService.URL, cfg.OfferingService.Timeout, cfg.Payments.FeeRate().String())

	// Инициализируем репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	reviewRepository := reviewRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, reviewRepository, log)
	slotSvc := slotsService.NewService(slotRepository, offeringClient, log)
	paymentSvc := paymentsService.NewService(bookingRepository, paymentRepository, log)

	// Инициализируем use cases
	requestRefundUseCase := requestRefundUC.NewUseCase(
		paymentRepository,
		bookingRepository,
		paymentProvider,
		txMgr,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		offeringClient,
		txMgr,
		metricsCollector,
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		bookingRepository,
		slotRepository,
		paymentRepository,
		paymentProvider,
		requestRefundUseCase,
		txMgr,
		metricsCollector,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		paymentRepository,
		paymentProvider,
		requestRefundUseCase,
		confirmPaymentUseCase,
		txMgr,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotRepository, offeringClient, log)
	completeBookingUseCase := completeBookingUC.NewUseCase(bookingRepository, metricsCollector, log)
	createReviewUseCase := createReviewUC.NewUseCase(bookingRepository, reviewRepository, log)
	createPaymentIntentUseCase := createPaymentIntentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		offeringClient,
		paymentProvider,
		txMgr,
		metricsCollector,
		cfg.Payments.FeeRate(),
		log,
	)

	// Инициализируем handlers
	publishSlot := publishSlotHandler.NewHandler(slotSvc, log)
	listSlots := listSlotsHandler.NewHandler(slotSvc, log)
	getSlot := getSlotHandler.NewHandler(slotSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	setSlotAvailability := setSlotAvailabilityHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getSeekerBookings := getSeekerBookingsHandler.NewHandler(bookingSvc, log)
	getPractitionerBookings := getPractitionerBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	markAttendance := markAttendanceHandler.NewHandler(completeBookingUseCase, log)
	createPaymentIntent := createPaymentIntentHandler.NewHandler(createPaymentIntentUseCase, log)
	confirmPayment := confirmPaymentHandler.NewHandler(confirmPaymentUseCase, log)
	getBookingPayment := getBookingPaymentHandler.NewHandler(paymentSvc, log)
	requestRefund := requestRefundHandler.NewHandler(requestRefundUseCase, log)
	createReview := createReviewHandler.NewHandler(createReviewUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Слоты практика и отдельный слот
	api.HandleFunc("/practitioners/{practitionerId}/slots", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slotId}", getSlot.Handle).Methods(http.MethodGet)

	// Свободные слоты для бронирования услуги
	api.HandleFunc("/offerings/{offeringId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание практика ---
	protected.HandleFunc("/practitioners/{practitionerId}/slots", publishSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/availability", setSlotAvailability.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/attendance", markAttendance.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/seekers/{seekerId}/bookings", getSeekerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/practitioners/{practitionerId}/bookings", getPractitionerBookings.Handle).Methods(http.MethodGet)

	// --- Оплата ---
	protected.HandleFunc("/bookings/{bookingId}/payment-intent", createPaymentIntent.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/payment-intents/{intentId}/confirm", confirmPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/payment", getBookingPayment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/transactions/{transactionId}/refunds", requestRefund.Handle).Methods(http.MethodPost)

	// --- Отзывы ---
	protected.HandleFunc("/bookings/{bookingId}/review", createReview.Handle).Methods(http.MethodPost)

	// Фоновая отмена брошенных неоплаченных бронирований
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	if cfg.Reaper.Enabled {
		abandonedReaper := reaper.New(bookingRepository, cancelBookingUseCase, metricsCollector, log, reaper.Config{
			Interval:       cfg.Reaper.Interval(),
			AbandonedAfter: cfg.Reaper.AbandonedAfter(),
			BatchSize:      cfg.Reaper.BatchSize,
		})
		workers.Add(1)
		go func() {
			defer workers.Done()
			abandonedReaper.Run(workerCtx)
		}()
		log.Info("Reaper started (interval=%s, abandoned after=%s)", cfg.Reaper.Interval(), cfg.Reaper.AbandonedAfter())
	}

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

	// Reaper останавливается после HTTP сервера
	stopWorkers()
	workers.Wait()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
