package main

import (
	"deskly/internal/bookings/events"
	"deskly/internal/bookings/handler"
	"deskly/internal/bookings/repository"
	"deskly/internal/bookings/service"
	"deskly/internal/bookings/validator"
	workspacesrepo "deskly/internal/workspaces/repository"
	workspacesservice "deskly/internal/workspaces/service"
	workspacesvalidator "deskly/internal/workspaces/validator"
	"deskly/pkg/app"
	"deskly/pkg/config"
	"deskly/pkg/kafka"
	kafka_config "deskly/pkg/kafka/config"
	kafka_middleware "deskly/pkg/kafka/middleware"
	"deskly/pkg/lock"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	if cfg.LockBackend == config.LockBackendRedis {
		cfg.SetRedis()
	}

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication()

	publisher, closePublisher := initPublisher(cfg)
	bookingService := initServices(cfg, publisher)
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.OnShutdown(closePublisher)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) (events.Publisher, func() error) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled")
		return events.NoopPublisher{}, func() error { return nil }
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingEventsTopic, kafkaCfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.MetricsProducerMiddleware())
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Booking events enabled", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, ServiceName), producer.Close
}

func initLocker(cfg *config.Config) lock.Locker {
	opts := lock.Options{
		TTL:           cfg.LockTTL,
		WaitTimeout:   cfg.LockWaitTimeout,
		RetryInterval: cfg.LockRetryInterval,
	}
	if cfg.LockBackend == config.LockBackendRedis {
		return lock.NewRedisLocker(cfg.Client.Redis, opts)
	}
	return lock.NewMongoLocker(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), opts)
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	workspaceService := workspacesservice.NewWorkspaceService(
		workspacesrepo.NewMongoWorkspaceRepository(cfg),
		workspacesvalidator.NewWorkspaceValidator(cfg.Log),
		cfg,
	)

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		workspaceService,
		initLocker(cfg),
		publisher,
		validator.NewBookingValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"lock_backend", cfg.LockBackend,
	)
	return bookingService
}
