package kafka_config

const (
	EnvKafkaBrokers  = "KAFKA_BROKERS"
	EnvKafkaClientID = "KAFKA_CLIENT_ID"

	EnvKafkaSASLMechanism      = "KAFKA_SASL_MECHANISM"
	EnvKafkaSASLUsername       = "KAFKA_SASL_USERNAME"
	EnvKafkaSASLPassword       = "KAFKA_SASL_PASSWORD"
	EnvKafkaTLSEnabled         = "KAFKA_TLS_ENABLED"
	EnvKafkaTLSSkipVerify      = "KAFKA_TLS_SKIP_VERIFY"
	EnvKafkaDialTimeout        = "KAFKA_DIAL_TIMEOUT"
	EnvKafkaEnableMiddleware   = "KAFKA_ENABLE_MIDDLEWARE"
	EnvKafkaProducerAttempts   = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchDelay = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerAcks       = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaProducerCodec      = "KAFKA_PRODUCER_COMPRESSION"
	EnvKafkaProducerAsync      = "KAFKA_PRODUCER_ASYNC"

	EnvKafkaConsumerStartOffset = "KAFKA_CONSUMER_START_OFFSET"
	EnvKafkaConsumerMinBytes    = "KAFKA_CONSUMER_MIN_BYTES"
	EnvKafkaConsumerMaxBytes    = "KAFKA_CONSUMER_MAX_BYTES"
	EnvKafkaConsumerMaxWait     = "KAFKA_CONSUMER_MAX_WAIT"
	EnvKafkaConsumerCommitEvery = "KAFKA_CONSUMER_COMMIT_INTERVAL"
	EnvKafkaConsumerHeartbeat   = "KAFKA_CONSUMER_HEARTBEAT_INTERVAL"
	EnvKafkaConsumerSession     = "KAFKA_CONSUMER_SESSION_TIMEOUT"
	EnvKafkaConsumerMaxRetries  = "KAFKA_CONSUMER_MAX_RETRIES"
	EnvKafkaConsumerBackoff     = "KAFKA_CONSUMER_RETRY_BACKOFF"
)
