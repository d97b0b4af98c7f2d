package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"
	"villa/internal/notifications"
	"villa/pkg/client"
	"villa/pkg/config"
	"villa/pkg/kafka"
	kafka_config "villa/pkg/kafka/config"
	kafka_middleware "villa/pkg/kafka/middleware"
)

const (
	ServiceName = "notifier"

	senderTimeout = 15 * time.Second
)

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	router := notifications.NewRouter(
		emailSender(cfg),
		whatsAppSender(cfg),
		cfg.AdminEmail,
		cfg.AdminPhone,
		cfg.Log,
	)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.Log,
		cfg.NotificationsTopic,
		cfg.NotificationsGroupID,
		cfg.NotificationsDLQTopic,
		router.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "topic", cfg.NotificationsTopic, "group_id", cfg.NotificationsGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped unexpectedly", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}

func emailSender(cfg *config.Config) notifications.EmailSender {
	if cfg.SMTPHost == "" {
		cfg.Log.Warn("SMTP_HOST not set, emails are logged instead of sent")
		return notifications.NewLogEmailSender(cfg.Log)
	}
	sender, err := notifications.NewSMTPSender(notifications.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Timeout:  senderTimeout,
	})
	if err != nil {
		cfg.Log.Fatal("Failed to configure SMTP sender", "error", err)
	}
	return sender
}

func whatsAppSender(cfg *config.Config) notifications.WhatsAppSender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		cfg.Log.Warn("Twilio credentials not set, WhatsApp messages are logged instead of sent")
		return notifications.NewLogWhatsAppSender(cfg.Log)
	}
	sender, err := notifications.NewTwilioSender(notifications.TwilioConfig{
		APIURL:     cfg.TwilioAPIURL,
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioFrom,
		Region:     cfg.PhoneRegion,
	}, client.NewHttpClient(cfg.TwilioAPIURL, senderTimeout))
	if err != nil {
		cfg.Log.Fatal("Failed to configure WhatsApp sender", "error", err)
	}
	return sender
}
