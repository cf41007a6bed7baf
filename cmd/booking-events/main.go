package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio/internal/bookings/events"
	"studio/internal/bookings/repository"
	"studio/pkg/config"
	"studio/pkg/kafka"
	kafka_config "studio/pkg/kafka/config"
	kafka_middleware "studio/pkg/kafka/middleware"
)

const (
	ServiceName     = "booking-events"
	metricsInterval = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Failed to load Kafka configuration", "error", err)
	}
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	recorder := events.NewRecorder(repository.NewMongoEventRepository(cfg), cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.BookingTopic,
		kafkaCfg.ConsumerGroup,
		kafkaCfg.DLQTopic,
		recorder.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware(metrics))
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(metricsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.LogMetrics(cfg.Log)
				cfg.Log.Info("Consumer lag", "topic", kafkaCfg.BookingTopic, "lag", consumer.Lag())
			}
		}
	}()

	cfg.Log.Info("Recording booking events",
		"topic", kafkaCfg.BookingTopic,
		"group", kafkaCfg.ConsumerGroup,
		"collection", repository.BookingEventsCollection,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	metrics.LogMetrics(cfg.Log)
	cfg.Log.Info("Booking events recorder stopped")
}
