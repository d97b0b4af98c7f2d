package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "villa"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultJWTIssuer = ""

	DefaultBookingLockTTL        = 30 * time.Second
	DefaultBookingLockRetries    = 5
	DefaultBookingLockRetryDelay = 200 * time.Millisecond
	DefaultLockSweepInterval     = 1 * time.Minute
	DefaultAutoCompleteInterval  = 0

	DefaultPaginationLimit = 20
	MaxPaginationLimit     = 100

	DefaultNotificationsTopic    = "villa.booking-notifications"
	DefaultNotificationsDLQTopic = "villa.booking-notifications.dlq"
	DefaultNotificationsGroupID  = "villa-notifier"
	DefaultNotificationBuffer    = 256
	DefaultNotificationWorkers   = 2

	DefaultSMTPPort     = 587
	DefaultSMTPFrom     = "Villa Reservations <no-reply@villa.local>"
	DefaultAdminEmail   = "admin@villa.local"
	DefaultTwilioAPIURL = "https://api.twilio.com/2010-04-01"
	DefaultPhoneRegion  = "LK"
)
