package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Message is the transport-neutral envelope passed between producers, consumers and middleware.
type Message struct {
	Key       string            // Partition key; booking events use the booking id
	Value     []byte            // JSON payload
	Headers   map[string]string // Event metadata, see the Header* keys
	Topic     string            // Set by the consumer on receipt
	Partition int               // Assigned by Kafka
	Offset    int64             // Assigned by Kafka
	Timestamp time.Time         // Creation time, UTC
}

// Header keys shared by the bookings service and the notifier.
const (
	HeaderEventID       = "event-id"       // unique per event, used for dedup on the consumer side
	HeaderEventType     = "event-type"     // e.g. booking.status_changed
	HeaderCorrelationID = "correlation-id" // request id of the HTTP call that caused the event
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"         // emitting service name
	HeaderTimestamp     = "timestamp"      // RFC3339 creation time
	HeaderRetryCount    = "retry-count"    // handler attempts so far
	HeaderOriginalTopic = "original-topic" // set on DLQ copies
	HeaderDLQError      = "dlq-error"      // last handler error, set on DLQ copies
	HeaderDLQTimestamp  = "dlq-timestamp"  // when the message was dead-lettered
)

// MessageBuilder assembles a Message with a fluent API. Encoding errors are
// held until Build.
type MessageBuilder struct {
	msg Message
	err error
}

// NewMessage starts a builder with empty headers and the current UTC time.
func NewMessage() *MessageBuilder {
	return &MessageBuilder{
		msg: Message{
			Headers:   make(map[string]string),
			Timestamp: time.Now().UTC(),
		},
	}
}

// WithKey sets the partition key. Messages with the same key keep their order.
func (mb *MessageBuilder) WithKey(key string) *MessageBuilder {
	mb.msg.Key = key
	return mb
}

// WithValue JSON-encodes value. An encoding failure is reported by Build.
func (mb *MessageBuilder) WithValue(value any) *MessageBuilder {
	data, err := json.Marshal(value)
	if err != nil {
		mb.err = fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		return mb
	}
	mb.msg.Value = data
	return mb
}

// WithHeader sets an arbitrary header.
func (mb *MessageBuilder) WithHeader(key, value string) *MessageBuilder {
	mb.msg.Headers[key] = value
	return mb
}

// WithEventID sets the event id; an empty id gets a fresh UUID.
func (mb *MessageBuilder) WithEventID(eventID string) *MessageBuilder {
	if eventID == "" {
		eventID = uuid.NewString()
	}
	mb.msg.Headers[HeaderEventID] = eventID
	return mb
}

// WithEventType sets the event type the consumer routes on.
func (mb *MessageBuilder) WithEventType(eventType string) *MessageBuilder {
	mb.msg.Headers[HeaderEventType] = eventType
	return mb
}

// WithCorrelationID links the event to the request that produced it. Empty
// values are skipped.
func (mb *MessageBuilder) WithCorrelationID(correlationID string) *MessageBuilder {
	if correlationID != "" {
		mb.msg.Headers[HeaderCorrelationID] = correlationID
	}
	return mb
}

// WithSchemaVersion tags the payload layout version.
func (mb *MessageBuilder) WithSchemaVersion(version string) *MessageBuilder {
	mb.msg.Headers[HeaderSchemaVersion] = version
	return mb
}

// WithSource names the emitting service.
func (mb *MessageBuilder) WithSource(source string) *MessageBuilder {
	mb.msg.Headers[HeaderSource] = source
	return mb
}

// Build returns the message, filling in the event id and timestamp headers
// when they were not set.
func (mb *MessageBuilder) Build() (Message, error) {
	if mb.err != nil {
		return Message{}, mb.err
	}
	if mb.msg.Headers[HeaderEventID] == "" {
		mb.msg.Headers[HeaderEventID] = uuid.NewString()
	}
	if mb.msg.Headers[HeaderTimestamp] == "" {
		mb.msg.Headers[HeaderTimestamp] = mb.msg.Timestamp.Format(time.RFC3339)
	}
	return mb.msg, nil
}

// MessageHandler processes one message. A nil return commits it.
type MessageHandler func(ctx context.Context, msg Message) error

// DecodeValue unmarshals the JSON payload into v. A malformed payload is a
// permanent error and goes to the DLQ without retries.
func (m *Message) DecodeValue(v any) error {
	if err := json.Unmarshal(m.Value, v); err != nil {
		return NewPermanentError("deserialization failed", err)
	}
	return nil
}

// GetHeader returns a header value and whether it was present.
func (m *Message) GetHeader(key string) (string, bool) {
	value, exists := m.Headers[key]
	return value, exists
}

// GetEventID returns the event id header.
func (m *Message) GetEventID() string {
	return m.Headers[HeaderEventID]
}

// GetCorrelationID returns the correlation id header.
func (m *Message) GetCorrelationID() string {
	return m.Headers[HeaderCorrelationID]
}

// GetEventType returns the event type header.
func (m *Message) GetEventType() string {
	return m.Headers[HeaderEventType]
}

// GetRetryCount returns how many times the message was retried; a missing
// or malformed header counts as zero.
func (m *Message) GetRetryCount() int {
	count, err := strconv.Atoi(m.Headers[HeaderRetryCount])
	if err != nil {
		return 0
	}
	return count
}

// IncrementRetryCount bumps the retry-count header.
func (m *Message) IncrementRetryCount() {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[HeaderRetryCount] = strconv.Itoa(m.GetRetryCount() + 1)
}
