package main

import (
	"context"
	"errors"

	"rently/internal/bookings/events"
	"rently/internal/bookings/handler"
	"rently/internal/bookings/repository"
	"rently/internal/bookings/service"
	"rently/internal/bookings/validator"
	"rently/internal/directory"
	"rently/pkg/app"
	"rently/pkg/config"
	"rently/pkg/kafka"
	kafka_config "rently/pkg/kafka/config"
	kafka_middleware "rently/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer := initProducer(cfg, kafkaCfg)
	dir := directory.NewMongoDirectory(cfg)
	bookingService := initServices(cfg, dir, producer)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := startUserConsumer(consumerCtx, cfg, kafkaCfg, dir)

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(func() {
		stopConsumer()
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initProducer(cfg *config.Config, kafkaCfg *kafka_config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingConfirmedTopic, cfg.BookingConfirmedTopic+".dlq")
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	return producer
}

func initServices(cfg *config.Config, dir directory.Directory, producer *kafka.Producer) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	emitter := events.NewKafkaEmitter(producer, cfg.Log)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		dir,
		bookingValidator,
		emitter,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func startUserConsumer(ctx context.Context, cfg *config.Config, kafkaCfg *kafka_config.Config, dir directory.Directory) *kafka.Consumer {
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.UserRegisteredTopic,
		cfg.ConsumerGroupID,
		cfg.UserRegisteredTopic+".dlq",
		events.NewUserRegisteredHandler(dir, cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("User registration consumer stopped", "error", err)
		}
	}()

	cfg.Log.Info("User registration consumer started",
		"topic", cfg.UserRegisteredTopic,
		"group_id", cfg.ConsumerGroupID,
	)
	return consumer
}
