package notifications

import (
	"bytes"
	"fmt"
	"text/template"
	"villa/pkg/model"
)

type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

type WhatsAppMessage struct {
	To   string
	Body string
}

var funcs = template.FuncMap{
	"day": func(b model.Booking, checkIn bool) string {
		t := b.CheckOut
		if checkIn {
			t = b.CheckIn
		}
		if t == nil {
			return "-"
		}
		return t.Format(model.DateLayout)
	},
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}

const (
	userReceivedTmpl = `Hello {{.RecipientName}},

We received your booking request for {{day .Booking true}} to {{day .Booking false}} ({{.Booking.Nights}} nights, {{.Booking.Guests}} guests).
Meal plan: {{.Booking.MealPlan}}
Total: {{money .Booking.TotalPrice}}

Your request is pending approval. We will email you as soon as it is reviewed.
Reference: {{.Booking.ID}}
`

	opsReceivedTmpl = `New booking request {{.Booking.ID}}
Guest: {{.RecipientName}} <{{.RecipientEmail}}>
Dates: {{day .Booking true}} to {{day .Booking false}} ({{.Booking.Nights}} nights)
Guests: {{.Booking.Guests}}
Meal plan: {{.Booking.MealPlan}}
Total: {{money .Booking.TotalPrice}}
{{if .Booking.Message}}Message: {{.Booking.Message}}
{{end}}`

	userInquiryTmpl = `Hello {{.RecipientName}},

Thank you for your long stay inquiry ({{.Booking.Duration}}, {{.Booking.Guests}} guests).
Our team will prepare a quotation and reply to {{.Booking.ContactEmail}} shortly.
Reference: {{.Booking.ID}}
`

	opsInquiryTmpl = `New long stay inquiry {{.Booking.ID}}
Contact: {{.RecipientName}} <{{.Booking.ContactEmail}}>
Duration: {{.Booking.Duration}}
Guests: {{.Booking.Guests}}
{{if .Booking.Message}}Message: {{.Booking.Message}}
{{end}}`

	userStatusTmpl = `Hello {{.RecipientName}},

Your booking {{.Booking.ID}} for {{day .Booking true}} to {{day .Booking false}} is now {{.Booking.Status}}.
`

	opsCancelledTmpl = `Booking {{.Booking.ID}} was cancelled by the guest.
Guest: {{.RecipientName}} <{{.RecipientEmail}}>
Dates: {{day .Booking true}} to {{day .Booking false}}
Previous status: {{.PreviousStatus}}
`
)

var templates = template.Must(template.New("notifications").Funcs(funcs).Parse(""))

func init() {
	for name, body := range map[string]string{
		"user_received": userReceivedTmpl,
		"ops_received":  opsReceivedTmpl,
		"user_inquiry":  userInquiryTmpl,
		"ops_inquiry":   opsInquiryTmpl,
		"user_status":   userStatusTmpl,
		"ops_cancelled": opsCancelledTmpl,
	} {
		template.Must(templates.New(name).Parse(body))
	}
}

func render(name string, event Event) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, event); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
