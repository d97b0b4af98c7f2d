package notifications

import (
	"time"
	"villa/pkg/model"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingReceived EventType = "booking.received"
	EventInquiryReceived EventType = "booking.inquiry_received"
	EventStatusChanged   EventType = "booking.status_changed"
	EventCancelledByUser EventType = "booking.cancelled_by_user"
)

const EventSchemaVersion = "1"

// Event is the outbound notification for one booking change. It carries a
// snapshot of the booking so delivery never reads the database.
type Event struct {
	ID             string              `json:"id"`
	Type           EventType           `json:"type"`
	OccurredAt     time.Time           `json:"occurred_at"`
	Booking        model.Booking       `json:"booking"`
	PreviousStatus model.BookingStatus `json:"previous_status,omitempty"`
	RecipientEmail string              `json:"recipient_email,omitempty"`
	RecipientName  string              `json:"recipient_name,omitempty"`
	RequestID      string              `json:"request_id,omitempty"`
}

func NewEvent(eventType EventType, booking *model.Booking) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Booking:    *booking,
	}
}

func (e Event) WithRecipient(email, name string) Event {
	e.RecipientEmail = email
	e.RecipientName = name
	return e
}

func (e Event) WithPreviousStatus(status model.BookingStatus) Event {
	e.PreviousStatus = status
	return e
}

func (e Event) WithRequestID(requestID string) Event {
	e.RequestID = requestID
	return e
}

// Emitter accepts events without blocking the caller.
type Emitter interface {
	Emit(event Event)
}
