package kafka

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestProducer(t *testing.T) *Producer {
	t.Helper()
	producer, err := NewProducer(testConfig(), "test-topic", "test-topic.dlq")
	if err != nil {
		t.Fatalf("failed to create producer: %v", err)
	}
	return producer
}

func TestSendToDLQ_BareMessageDoesNotPanic(t *testing.T) {
	producer := newTestProducer(t)
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	// A message built by hand has no headers map; the DLQ path must still
	// be able to attach its diagnostic headers.
	msg := Message{Key: "k", Value: []byte(`{}`)}
	_ = producer.sendToDLQ(ctx, msg, errors.New("write failed"))
}

func TestToKafkaMessage_NilHeaders(t *testing.T) {
	msg := Message{Key: "k", Value: []byte(`{}`)}
	kafkaMsg := toKafkaMessage(msg)
	if len(kafkaMsg.Headers) != 0 {
		t.Errorf("expected no headers, got %d", len(kafkaMsg.Headers))
	}
	if string(kafkaMsg.Key) != "k" {
		t.Errorf("expected key 'k', got %q", kafkaMsg.Key)
	}
}

func TestPublish_RejectsEmptyKeyAndValue(t *testing.T) {
	producer := newTestProducer(t)
	defer producer.Close()

	if err := producer.Publish(context.Background(), Message{Value: []byte(`{}`)}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := producer.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
}

func TestPublish_AfterCloseReturnsClosed(t *testing.T) {
	producer := newTestProducer(t)
	if err := producer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	msg := NewMessage().WithKey("k").WithRawValue([]byte(`{}`)).Build()
	if err := producer.Publish(context.Background(), msg); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
}
