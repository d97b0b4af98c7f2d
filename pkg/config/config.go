package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
	"villa/pkg/client"
	"villa/pkg/logger"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RedisURL string

	JWTSecret string
	JWTIssuer string

	// RoomTypeID is the id of the single sellable room type. Empty means
	// "resolve the only room type document at startup".
	RoomTypeID            string
	BookingLockTTL        time.Duration
	BookingLockRetries    int
	BookingLockRetryDelay time.Duration
	LockSweepInterval     time.Duration
	AutoCompleteInterval  time.Duration
	PaginationLimit       int

	NotificationsEnabled  bool
	NotificationsTopic    string
	NotificationsDLQTopic string
	NotificationsGroupID  string
	NotificationBuffer    int
	NotificationWorkers   int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	AdminEmail       string
	AdminPhone       string
	PhoneRegion      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	TwilioAPIURL     string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		RedisURL: getEnvStr(EnvRedisURL, ""),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),
		JWTIssuer: getEnvStr(EnvJWTIssuer, DefaultJWTIssuer),

		RoomTypeID:            getEnvStr(EnvRoomTypeID, ""),
		BookingLockTTL:        getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),
		BookingLockRetries:    getEnvNum(EnvBookingLockRetries, DefaultBookingLockRetries),
		BookingLockRetryDelay: getEnvDuration(EnvBookingLockRetryDelay, DefaultBookingLockRetryDelay),
		LockSweepInterval:     getEnvDuration(EnvLockSweepInterval, DefaultLockSweepInterval),
		AutoCompleteInterval:  getEnvDuration(EnvAutoCompleteInterval, DefaultAutoCompleteInterval),
		PaginationLimit:       getEnvNum(EnvPaginationLimit, DefaultPaginationLimit),

		NotificationsEnabled:  getEnvBool(EnvNotificationsEnabled, false),
		NotificationsTopic:    getEnvStr(EnvNotificationsTopic, DefaultNotificationsTopic),
		NotificationsDLQTopic: getEnvStr(EnvNotificationsDLQTopic, DefaultNotificationsDLQTopic),
		NotificationsGroupID:  getEnvStr(EnvNotificationsGroupID, DefaultNotificationsGroupID),
		NotificationBuffer:    getEnvNum(EnvNotificationBuffer, DefaultNotificationBuffer),
		NotificationWorkers:   getEnvNum(EnvNotificationWorkers, DefaultNotificationWorkers),

		SMTPHost:     getEnvStr(EnvSMTPHost, ""),
		SMTPPort:     getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUsername: getEnvStr(EnvSMTPUsername, ""),
		SMTPPassword: getEnvStr(EnvSMTPPassword, ""),
		SMTPFrom:     getEnvStr(EnvSMTPFrom, DefaultSMTPFrom),

		AdminEmail:       getEnvStr(EnvAdminEmail, DefaultAdminEmail),
		AdminPhone:       getEnvStr(EnvAdminPhone, ""),
		PhoneRegion:      getEnvStr(EnvPhoneRegion, DefaultPhoneRegion),
		TwilioAccountSID: getEnvStr(EnvTwilioAccountSID, ""),
		TwilioAuthToken:  getEnvStr(EnvTwilioAuthToken, ""),
		TwilioFrom:       getEnvStr(EnvTwilioFrom, ""),
		TwilioAPIURL:     getEnvStr(EnvTwilioAPIURL, DefaultTwilioAPIURL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects to Redis when REDIS_URL is configured. Without it the
// service keeps its in-memory fallbacks.
func (cfg *Config) SetRedis() {
	if cfg.RedisURL == "" {
		cfg.Log.Info("REDIS_URL not set, using in-memory idempotency store")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	positiveDurations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"BookingLockTTL", cfg.BookingLockTTL},
		{"BookingLockRetryDelay", cfg.BookingLockRetryDelay},
		{"LockSweepInterval", cfg.LockSweepInterval},
	}
	for _, d := range positiveDurations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.AutoCompleteInterval < 0 {
		errors = append(errors, fmt.Sprintf("AutoCompleteInterval cannot be negative, got: %s", cfg.AutoCompleteInterval))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.BookingLockTTL > 0 && cfg.BookingLockTTL <= cfg.WriteTimeout {
		errors = append(errors, fmt.Sprintf("BookingLockTTL must be longer than WriteTimeout (%s), got: %s", cfg.WriteTimeout, cfg.BookingLockTTL))
	}
	if cfg.BookingLockRetries < 0 {
		errors = append(errors, fmt.Sprintf("BookingLockRetries cannot be negative, got: %d", cfg.BookingLockRetries))
	}
	if cfg.PaginationLimit <= 0 || cfg.PaginationLimit > MaxPaginationLimit {
		errors = append(errors, fmt.Sprintf("PaginationLimit must be between 1 and %d, got: %d", MaxPaginationLimit, cfg.PaginationLimit))
	}

	if cfg.RoomTypeID != "" && !primitive.IsValidObjectID(cfg.RoomTypeID) {
		errors = append(errors, fmt.Sprintf("RoomTypeID must be a 24 character hex id, got: %s", cfg.RoomTypeID))
	}

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 32 {
		errors = append(errors, "JWTSecret must be at least 32 characters long")
	}

	if cfg.NotificationsEnabled && cfg.NotificationsTopic == "" {
		errors = append(errors, "NotificationsTopic cannot be empty when Kafka notifications are enabled")
	}
	if cfg.NotificationBuffer <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationBuffer must be positive, got: %d", cfg.NotificationBuffer))
	}
	if cfg.NotificationWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationWorkers must be positive, got: %d", cfg.NotificationWorkers))
	}

	if cfg.SMTPHost != "" && (cfg.SMTPPort < 1 || cfg.SMTPPort > 65535) {
		errors = append(errors, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"redis_set", cfg.RedisURL != "",
		"jwt_secret_set", cfg.JWTSecret != "",
		"room_type_id", cfg.RoomTypeID,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"booking_lock_retries", cfg.BookingLockRetries,
		"lock_sweep_interval", cfg.LockSweepInterval,
		"auto_complete_interval", cfg.AutoCompleteInterval,
		"notifications_kafka_enabled", cfg.NotificationsEnabled,
		"notifications_topic", cfg.NotificationsTopic,
		"smtp_set", cfg.SMTPHost != "",
		"whatsapp_set", cfg.TwilioAccountSID != "",
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func NormalizePaginationLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit > MaxPaginationLimit {
		limit = MaxPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
