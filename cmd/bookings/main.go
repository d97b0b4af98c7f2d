package main

import (
	"context"
	"villa/internal/bookings/handler"
	"villa/internal/bookings/jobs"
	"villa/internal/bookings/repository"
	"villa/internal/bookings/service"
	"villa/internal/bookings/validator"
	"villa/internal/notifications"
	"villa/pkg/app"
	"villa/pkg/auth"
	"villa/pkg/config"
	"villa/pkg/kafka"
	kafka_config "villa/pkg/kafka/config"
	kafka_middleware "villa/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")

	dispatcher := initNotifications(cfg)
	dispatcher.Start()

	bookingHandler, runner := initServices(cfg, dispatcher)
	runner.Start()

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown("scheduler", func(context.Context) error {
		return runner.Shutdown()
	})
	serverApp.OnShutdown("notifications", dispatcher.Close)
	serverApp.SetApp(bookingHandler)
	serverApp.Run()
}

func initNotifications(cfg *config.Config) *notifications.Dispatcher {
	if !cfg.NotificationsEnabled {
		cfg.Log.Info("Kafka notifications disabled, events are logged only")
		return notifications.NewDispatcher(notifications.NewLogSink(cfg.Log), cfg.NotificationBuffer, cfg.NotificationWorkers, cfg.Log)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, cfg.NotificationsTopic, cfg.NotificationsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	return notifications.NewDispatcher(notifications.NewKafkaSink(producer), cfg.NotificationBuffer, cfg.NotificationWorkers, cfg.Log)
}

func initServices(cfg *config.Config, notifier notifications.Emitter) (*handler.BookingHandler, *jobs.Runner) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	catalogRepo := repository.NewMongoCatalogRepository(cfg)
	userRepo := repository.NewMongoUserRepository(cfg)

	catalogService := service.NewCatalogService(catalogRepo, cfg)
	oracle := service.NewAvailabilityService(bookingRepo)
	locker := service.NewLocker(lockRepo, cfg)
	assigner := service.NewInventoryAssigner(bookingRepo, catalogRepo, cfg.Log)

	bookingService := service.NewBookingService(
		bookingRepo,
		userRepo,
		catalogService,
		oracle,
		locker,
		assigner,
		bookingValidator,
		notifier,
		cfg,
	)
	blockService := service.NewBlockService(
		bookingRepo,
		catalogService,
		oracle,
		locker,
		bookingValidator,
		cfg,
	)

	runner, err := jobs.NewRunner(lockRepo, bookingService, cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to create job scheduler", "error", err)
	}

	if cfg.JWTSecret == "" {
		cfg.Log.Fatal("JWT_SECRET is required by the bookings service")
	}
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return handler.NewBookingHandler(
		bookingService,
		blockService,
		catalogService,
		auth.NewMiddleware(verifier, cfg.Log),
		cfg,
	), runner
}
