package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"villa/pkg/kafka"
	"villa/pkg/logger"
	"villa/pkg/model"
)

// Router turns a booking event into concrete email and WhatsApp messages for
// the guest and for operations staff, then sends them.
type Router struct {
	email      EmailSender
	whatsapp   WhatsAppSender
	adminEmail string
	adminPhone string
	log        *logger.Logger
}

func NewRouter(email EmailSender, whatsapp WhatsAppSender, adminEmail, adminPhone string, log *logger.Logger) *Router {
	return &Router{
		email:      email,
		whatsapp:   whatsapp,
		adminEmail: adminEmail,
		adminPhone: adminPhone,
		log:        log,
	}
}

type delivery struct {
	channel string
	to      string
	send    func(ctx context.Context) error
}

// Handle is a kafka.MessageHandler. Single channel failures are logged; only
// when every delivery failed with a retryable error is the event handed back
// to the consumer for another attempt.
func (r *Router) Handle(ctx context.Context, msg kafka.Message) error {
	event, err := DecodeEvent(msg)
	if err != nil {
		return err
	}

	deliveries, err := r.plan(event)
	if err != nil {
		return kafka.NewPermanentError("failed to render notification", err)
	}
	if len(deliveries) == 0 {
		r.log.Debug("No recipients for event", "event_id", event.ID, "event_type", event.Type)
		return nil
	}

	var failures []error
	for _, d := range deliveries {
		if err := d.send(ctx); err != nil {
			r.log.Warn("Notification delivery failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"channel", d.channel,
				"to", d.to,
				"error", err,
			)
			failures = append(failures, err)
			continue
		}
		r.log.Info("Notification delivered",
			"event_id", event.ID,
			"event_type", event.Type,
			"channel", d.channel,
		)
	}

	if len(failures) == len(deliveries) {
		if anyTransient(failures) {
			return kafka.NewTransientError("all notification deliveries failed", errors.Join(failures...))
		}
	}
	return nil
}

// plan renders the messages an event produces without sending them.
func (r *Router) plan(event Event) ([]delivery, error) {
	var deliveries []delivery
	var renderErr error

	addEmail := func(to, subject, tmpl string) {
		if to == "" || renderErr != nil {
			return
		}
		body, err := render(tmpl, event)
		if err != nil {
			renderErr = err
			return
		}
		m := EmailMessage{To: to, Subject: subject, Body: body}
		deliveries = append(deliveries, delivery{
			channel: "email",
			to:      to,
			send:    func(ctx context.Context) error { return r.email.SendEmail(ctx, m) },
		})
	}
	addWhatsApp := func(to, tmpl string) {
		if to == "" || renderErr != nil {
			return
		}
		body, err := render(tmpl, event)
		if err != nil {
			renderErr = err
			return
		}
		m := WhatsAppMessage{To: to, Body: body}
		deliveries = append(deliveries, delivery{
			channel: "whatsapp",
			to:      to,
			send:    func(ctx context.Context) error { return r.whatsapp.SendWhatsApp(ctx, m) },
		})
	}

	switch event.Type {
	case EventBookingReceived:
		addEmail(event.RecipientEmail, "We received your booking request", "user_received")
		addEmail(r.adminEmail, "New booking request "+event.Booking.ID, "ops_received")
		addWhatsApp(r.adminPhone, "ops_received")
	case EventInquiryReceived:
		guest := event.Booking.ContactEmail
		if guest == "" {
			guest = event.RecipientEmail
		}
		addEmail(guest, "Your long stay inquiry", "user_inquiry")
		addEmail(r.adminEmail, "New long stay inquiry "+event.Booking.ID, "ops_inquiry")
		addWhatsApp(r.adminPhone, "ops_inquiry")
	case EventStatusChanged:
		addEmail(event.RecipientEmail, statusSubject(event.Booking.Status), "user_status")
	case EventCancelledByUser:
		addEmail(event.RecipientEmail, statusSubject(model.StatusCancelled), "user_status")
		if event.Booking.Type == model.BookingTypeStandard {
			addEmail(r.adminEmail, "Booking cancelled by guest "+event.Booking.ID, "ops_cancelled")
			addWhatsApp(r.adminPhone, "ops_cancelled")
		}
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}

	if renderErr != nil {
		return nil, renderErr
	}
	return deliveries, nil
}

func statusSubject(status model.BookingStatus) string {
	s := string(status)
	if s == "" {
		return "Your booking was updated"
	}
	return "Your booking is " + strings.ToLower(s)
}

func anyTransient(errs []error) bool {
	for _, err := range errs {
		if kafka.ClassifyError(err) == kafka.ErrorTypeTransient {
			return true
		}
	}
	return false
}
