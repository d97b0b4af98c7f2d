package notifications

import (
	"context"
	"fmt"
	"villa/pkg/kafka"
	"villa/pkg/logger"
)

const EventSource = "villa-bookings"

// Sink is where the dispatcher workers deliver events.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Publisher is the part of the kafka producer the sink needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaSink publishes events to the notifications topic keyed by booking id,
// so all events for one booking stay ordered on one partition.
type KafkaSink struct {
	producer Publisher
}

func NewKafkaSink(producer Publisher) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	msg, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	if err := s.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}

func EncodeEvent(event Event) (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(event.Booking.ID).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(string(event.Type)).
		WithCorrelationID(event.RequestID).
		WithSchemaVersion(EventSchemaVersion).
		WithSource(EventSource).
		Build()
}

func DecodeEvent(msg kafka.Message) (Event, error) {
	var event Event
	if err := msg.DecodeValue(&event); err != nil {
		return Event{}, err
	}
	if event.Type == "" {
		return Event{}, kafka.NewPermanentError("event without type", nil)
	}
	return event, nil
}

// LogSink records events in the service log. It stands in for Kafka when
// notifications are disabled.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(_ context.Context, event Event) error {
	s.log.Info("Booking notification",
		"event_id", event.ID,
		"event_type", event.Type,
		"booking_id", event.Booking.ID,
		"status", event.Booking.Status,
		"recipient", event.RecipientEmail,
	)
	return nil
}

func (s *LogSink) Close() error {
	return nil
}
