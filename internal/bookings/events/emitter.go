package events

import (
	"context"
	"fmt"

	"rently/pkg/kafka"
	"rently/pkg/logger"
	"rently/pkg/model"
)

const (
	EventTypeBookingConfirmed = "booking.confirmed"
	EventTypeUserRegistered   = "user.registered"

	sourceService = "bookings"
)

// Emitter publishes notification events for committed bookings. Emission is
// strictly post-commit: a failure here is reported to the caller but must
// never undo the booking.
type Emitter interface {
	BookingConfirmed(ctx context.Context, event *model.BookingConfirmedEvent) error
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaEmitter struct {
	producer publisher
	log      *logger.Logger
}

func NewKafkaEmitter(producer *kafka.Producer, log *logger.Logger) Emitter {
	return &kafkaEmitter{
		producer: producer,
		log:      log,
	}
}

func (e *kafkaEmitter) BookingConfirmed(ctx context.Context, event *model.BookingConfirmedEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(EventTypeBookingConfirmed).
		WithSource(sourceService).
		Build()

	if err := e.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish booking confirmed event: %w", err)
	}

	e.log.Debug("Booking confirmed event published",
		"booking_id", event.BookingID,
		"item_name", event.ItemName,
	)
	return nil
}
