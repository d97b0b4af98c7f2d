package kafka_config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config is the broker connection shared by the booking service (producer)
// and the notifier (consumer).
type Config struct {
	Brokers          []string
	ClientID         string
	DialTimeout      time.Duration
	Security         Security
	Producer         ProducerConfig
	Consumer         ConsumerConfig
	EnableMiddleware bool
}

type ProducerConfig struct {
	MaxAttempts  int
	BatchTimeout time.Duration
	RequiredAcks int    // -1 all, 0 none, 1 leader
	Compression  string // none, gzip, snappy, lz4, zstd
	Async        bool
}

type ConsumerConfig struct {
	StartOffset       int64 // -1 newest, -2 oldest
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	CommitInterval    time.Duration
	HeartbeatInterval time.Duration
	SessionTimeout    time.Duration
	MaxRetries        int
	RetryBackoff      time.Duration
}

var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

func Load() (*Config, error) {
	cfg := &Config{
		Brokers:     splitBrokers(envOr(EnvKafkaBrokers, DefaultKafkaBrokers, parseString)),
		ClientID:    envOr(EnvKafkaClientID, DefaultClientID, parseString),
		DialTimeout: envOr(EnvKafkaDialTimeout, DefaultDialTimeout, time.ParseDuration),
		Security: Security{
			Mechanism:  strings.ToLower(envOr(EnvKafkaSASLMechanism, SASLNone, parseString)),
			Username:   envOr(EnvKafkaSASLUsername, "", parseString),
			Password:   envOr(EnvKafkaSASLPassword, "", parseString),
			TLS:        envOr(EnvKafkaTLSEnabled, false, strconv.ParseBool),
			SkipVerify: envOr(EnvKafkaTLSSkipVerify, false, strconv.ParseBool),
		},
		Producer: ProducerConfig{
			MaxAttempts:  envOr(EnvKafkaProducerAttempts, DefaultProducerMaxAttempts, strconv.Atoi),
			BatchTimeout: envOr(EnvKafkaProducerBatchDelay, DefaultProducerBatchTimeout, time.ParseDuration),
			RequiredAcks: envOr(EnvKafkaProducerAcks, DefaultProducerRequireAcks, strconv.Atoi),
			Compression:  envOr(EnvKafkaProducerCodec, DefaultProducerCompression, parseString),
			Async:        envOr(EnvKafkaProducerAsync, false, strconv.ParseBool),
		},
		Consumer: ConsumerConfig{
			StartOffset:       envOr(EnvKafkaConsumerStartOffset, int64(DefaultConsumerStartOffset), parseInt64),
			MinBytes:          envOr(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes, strconv.Atoi),
			MaxBytes:          envOr(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes, strconv.Atoi),
			MaxWait:           envOr(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait, time.ParseDuration),
			CommitInterval:    envOr(EnvKafkaConsumerCommitEvery, DefaultConsumerCommitInterval, time.ParseDuration),
			HeartbeatInterval: envOr(EnvKafkaConsumerHeartbeat, DefaultConsumerHeartbeatInterval, time.ParseDuration),
			SessionTimeout:    envOr(EnvKafkaConsumerSession, DefaultConsumerSessionTimeout, time.ParseDuration),
			MaxRetries:        envOr(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries, strconv.Atoi),
			RetryBackoff:      envOr(EnvKafkaConsumerBackoff, DefaultConsumerRetryBackoff, time.ParseDuration),
		},
		EnableMiddleware: envOr(EnvKafkaEnableMiddleware, true, strconv.ParseBool),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(cfg.Brokers) == 0 {
		fail("At least one Kafka broker is required")
	}
	if cfg.DialTimeout <= 0 {
		fail("DialTimeout must be positive, got: %s", cfg.DialTimeout)
	}
	if err := cfg.Security.validate(); err != nil {
		fail("%v", err)
	}

	p := cfg.Producer
	if p.MaxAttempts <= 0 {
		fail("Producer.MaxAttempts must be positive, got: %d", p.MaxAttempts)
	}
	if p.BatchTimeout <= 0 {
		fail("Producer.BatchTimeout must be positive, got: %s", p.BatchTimeout)
	}
	if !slices.Contains(compressions, p.Compression) {
		fail("Producer.Compression must be one of %v, got: %s", compressions, p.Compression)
	}
	if p.RequiredAcks < -1 || p.RequiredAcks > 1 {
		fail("Producer.RequiredAcks must be -1, 0 or 1, got: %d", p.RequiredAcks)
	}

	c := cfg.Consumer
	if c.StartOffset != -1 && c.StartOffset != -2 {
		fail("Consumer.StartOffset must be -1 (newest) or -2 (oldest), got: %d", c.StartOffset)
	}
	if c.MinBytes <= 0 || c.MaxBytes < c.MinBytes {
		fail("Consumer.MinBytes/MaxBytes must satisfy 0 < min <= max, got: %d/%d", c.MinBytes, c.MaxBytes)
	}
	for name, d := range map[string]time.Duration{
		"Consumer.MaxWait":           c.MaxWait,
		"Consumer.CommitInterval":    c.CommitInterval,
		"Consumer.HeartbeatInterval": c.HeartbeatInterval,
		"Consumer.SessionTimeout":    c.SessionTimeout,
		"Consumer.RetryBackoff":      c.RetryBackoff,
	} {
		if d <= 0 {
			fail("%s must be positive, got: %s", name, d)
		}
	}
	if c.HeartbeatInterval >= c.SessionTimeout {
		fail("Consumer.HeartbeatInterval (%s) must be shorter than Consumer.SessionTimeout (%s)", c.HeartbeatInterval, c.SessionTimeout)
	}
	if c.MaxRetries < 0 {
		fail("Consumer.MaxRetries cannot be negative, got: %d", c.MaxRetries)
	}

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	var b strings.Builder
	b.WriteString("Kafka configuration validation failed:\n")
	for i, problem := range problems {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, problem)
	}
	return fmt.Errorf("%s", b.String())
}

func (cfg *Config) LogConfiguration(logFunc func(msg string, args ...any)) {
	if logFunc == nil {
		return
	}
	logFunc("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"client_id", cfg.ClientID,
		"sasl_mechanism", cfg.Security.Mechanism,
		"tls", cfg.Security.TLS,
		"producer_acks", cfg.Producer.RequiredAcks,
		"producer_compression", cfg.Producer.Compression,
		"consumer_start_offset", cfg.Consumer.StartOffset,
		"consumer_max_retries", cfg.Consumer.MaxRetries,
		"enable_middleware", cfg.EnableMiddleware,
	)
}

func splitBrokers(raw string) []string {
	var brokers []string
	for broker := range strings.SplitSeq(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// envOr parses the variable with parse and falls back on absence or parse failure.
func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
