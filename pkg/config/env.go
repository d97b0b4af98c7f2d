package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisURL = "REDIS_URL"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTIssuer = "JWT_ISSUER"

	EnvRoomTypeID            = "VILLA_ROOM_TYPE_ID"
	EnvBookingLockTTL        = "BOOKING_LOCK_TTL"
	EnvBookingLockRetries    = "BOOKING_LOCK_RETRIES"
	EnvBookingLockRetryDelay = "BOOKING_LOCK_RETRY_DELAY"
	EnvLockSweepInterval     = "LOCK_SWEEP_INTERVAL"
	EnvAutoCompleteInterval  = "AUTO_COMPLETE_INTERVAL"
	EnvPaginationLimit       = "PAGINATION_LIMIT"

	EnvNotificationsEnabled  = "NOTIFICATIONS_KAFKA_ENABLED"
	EnvNotificationsTopic    = "NOTIFICATIONS_TOPIC"
	EnvNotificationsDLQTopic = "NOTIFICATIONS_DLQ_TOPIC"
	EnvNotificationsGroupID  = "NOTIFICATIONS_GROUP_ID"
	EnvNotificationBuffer    = "NOTIFICATION_BUFFER"
	EnvNotificationWorkers   = "NOTIFICATION_WORKERS"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUsername = "SMTP_USERNAME"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvSMTPFrom     = "SMTP_FROM"

	EnvAdminEmail       = "ADMIN_EMAIL"
	EnvAdminPhone       = "ADMIN_PHONE_NUMBER"
	EnvPhoneRegion      = "PHONE_DEFAULT_REGION"
	EnvTwilioAccountSID = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken  = "TWILIO_AUTH_TOKEN"
	EnvTwilioFrom       = "TWILIO_WHATSAPP_FROM"
	EnvTwilioAPIURL     = "TWILIO_API_URL"
)
