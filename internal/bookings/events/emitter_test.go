package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"rently/pkg/kafka"
	"rently/pkg/logger"
	"rently/pkg/model"
)

type mockPublisher struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func sampleEvent() *model.BookingConfirmedEvent {
	return &model.BookingConfirmedEvent{
		BookingID:   "f47ac10b-58cc-4372-a567-0e02b2c3d479",
		UserID:      "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		ItemName:    "Camera",
		StartDate:   time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		TotalPrice:  150,
		Status:      model.StatusConfirmed,
		ConfirmedAt: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	}
}

func TestBookingConfirmed_PublishesKeyedMessage(t *testing.T) {
	var published kafka.Message
	emitter := &kafkaEmitter{
		producer: &mockPublisher{
			publishFunc: func(ctx context.Context, msg kafka.Message) error {
				published = msg
				return nil
			},
		},
		log: testLogger(),
	}

	event := sampleEvent()
	if err := emitter.BookingConfirmed(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Keyed by booking so all events for one booking land on one partition.
	if published.Key != event.BookingID {
		t.Errorf("expected key %s, got %s", event.BookingID, published.Key)
	}
	if got := published.GetEventType(); got != EventTypeBookingConfirmed {
		t.Errorf("expected event type %s, got %s", EventTypeBookingConfirmed, got)
	}
	if published.GetEventID() == "" {
		t.Error("expected an event ID header")
	}

	var decoded model.BookingConfirmedEvent
	if err := published.DecodeValue(&decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.BookingID != event.BookingID || decoded.TotalPrice != 150 || decoded.ItemName != "Camera" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestBookingConfirmed_PublishFailure(t *testing.T) {
	emitter := &kafkaEmitter{
		producer: &mockPublisher{
			publishFunc: func(ctx context.Context, msg kafka.Message) error {
				return errors.New("broker unreachable")
			},
		},
		log: testLogger(),
	}

	if err := emitter.BookingConfirmed(context.Background(), sampleEvent()); err == nil {
		t.Fatal("expected publish error to surface")
	}
}
