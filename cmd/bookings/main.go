package main

import (
	"studio/internal/auth"
	"studio/internal/bookings/cache"
	"studio/internal/bookings/events"
	"studio/internal/bookings/handler"
	"studio/internal/bookings/repository"
	"studio/internal/bookings/service"
	"studio/internal/bookings/validator"
	"studio/pkg/app"
	"studio/pkg/config"
	mongotx "studio/pkg/db/mongo"
	"studio/pkg/kafka"
	kafka_config "studio/pkg/kafka/config"
	kafka_middleware "studio/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.SetMongo()
	cfg.SetRedis()

	tokens, err := auth.NewTokensFromKey(cfg.SessionKey)
	if err != nil {
		cfg.Log.Fatal("Invalid session key", "error", err)
	}

	cfg.Log.Info("Starting Bookings service")
	publisher := initPublisher(cfg)
	bookingService := initServices(cfg, publisher)

	health := handler.NewHealthHandler(cfg.Log).WithCheck("database", handler.MongoCheck(cfg.Client.Mongo))
	if cfg.Client.Redis != nil {
		health.WithCheck("cache", handler.RedisCheck(cfg.Client.Redis))
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log), health, tokens)
	serverApp.OnShutdown(publisher.Close)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	txManager := mongotx.NewTransactionManager(cfg.Client.Mongo, mongotx.RetryPolicy{
		MaxAttempts: cfg.TxMaxAttempts,
		BackoffBase: cfg.TxBackoffBase,
		BackoffMax:  cfg.TxBackoffMax,
	})

	var slotCache cache.Cache = cache.Noop{}
	if cfg.Client.Redis != nil {
		slotCache = cache.NewRedisCache(cfg.Client.Redis, cfg.SlotCacheTTL, cfg.UserBookingsCacheTTL)
	}

	bookingService := service.NewBookingService(
		repository.NewMongoSlotRepository(cfg),
		repository.NewMongoBookingRepository(cfg),
		txManager,
		validator.NewSlotValidator(cfg.Log),
		slotCache,
		publisher,
		auth.RoleOrUserPolicy(cfg.AdminRoles, cfg.AdminUserIDs),
		cfg.Log,
	)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"cache_enabled", cfg.Client.Redis != nil,
		"events_enabled", cfg.KafkaEnabled,
	)
	return bookingService
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events are not published")
		return events.Noop{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Failed to load Kafka configuration", "error", err)
	}
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingTopic, kafkaCfg.DLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	return events.NewKafkaPublisher(producer, kafkaCfg.ClientSource)
}
