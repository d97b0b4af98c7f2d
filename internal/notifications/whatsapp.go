package notifications

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"villa/pkg/client"
	"villa/pkg/kafka"
	"villa/pkg/logger"
	"villa/pkg/sanitizer"
)

type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, msg WhatsAppMessage) error
}

type TwilioConfig struct {
	APIURL     string
	AccountSID string
	AuthToken  string
	From       string
	Region     string
}

// TwilioSender posts WhatsApp messages to the Twilio Messages API.
type TwilioSender struct {
	http   *client.HttpClient
	sid    string
	from   string
	region string
}

func NewTwilioSender(cfg TwilioConfig, httpClient *client.HttpClient) (*TwilioSender, error) {
	from := sanitizer.NormalizePhone(cfg.From, cfg.Region)
	if from == "" {
		return nil, fmt.Errorf("invalid WhatsApp sender number %q", cfg.From)
	}
	return &TwilioSender{
		http:   httpClient.WithBasicAuth(cfg.AccountSID, cfg.AuthToken),
		sid:    cfg.AccountSID,
		from:   from,
		region: cfg.Region,
	}, nil
}

func (s *TwilioSender) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) error {
	to := sanitizer.NormalizePhone(msg.To, s.region)
	if to == "" {
		return kafka.NewPermanentError(fmt.Sprintf("invalid WhatsApp number %q", msg.To), nil)
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.from)
	form.Set("To", "whatsapp:"+to)
	form.Set("Body", msg.Body)

	resp, err := s.http.POSTForm(ctx, "/Accounts/"+url.PathEscape(s.sid)+"/Messages.json", form)
	if err != nil {
		return kafka.NewTransientError("twilio request failed", err)
	}
	if !resp.IsSuccess() {
		cause := fmt.Errorf("twilio: %s", client.GetErrorMessage(resp))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return kafka.NewTransientError("twilio unavailable", cause)
		}
		return kafka.NewPermanentError("twilio rejected message", cause)
	}
	return nil
}

type LogWhatsAppSender struct {
	log *logger.Logger
}

func NewLogWhatsAppSender(log *logger.Logger) *LogWhatsAppSender {
	return &LogWhatsAppSender{log: log}
}

func (s *LogWhatsAppSender) SendWhatsApp(_ context.Context, msg WhatsAppMessage) error {
	s.log.Info("WhatsApp notification (Twilio disabled)", "to", msg.To, "chars", len(msg.Body))
	return nil
}
