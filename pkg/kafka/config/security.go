package kafka_config

import (
	"crypto/tls"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Security describes how clients authenticate to managed brokers.
type Security struct {
	Mechanism  string
	Username   string
	Password   string
	TLS        bool
	SkipVerify bool
}

func (s Security) validate() error {
	switch s.Mechanism {
	case SASLNone, "":
		return nil
	case SASLPlain, SASLScramSHA256, SASLScramSHA512:
		if s.Username == "" || s.Password == "" {
			return fmt.Errorf("SASL mechanism %q requires a username and password", s.Mechanism)
		}
		return nil
	default:
		return fmt.Errorf("SASL mechanism must be one of [%s, %s, %s, %s], got: %s",
			SASLNone, SASLPlain, SASLScramSHA256, SASLScramSHA512, s.Mechanism)
	}
}

// SASL returns nil when no mechanism is configured.
func (s Security) SASL() (sasl.Mechanism, error) {
	switch s.Mechanism {
	case SASLPlain:
		return plain.Mechanism{Username: s.Username, Password: s.Password}, nil
	case SASLScramSHA256:
		return scram.Mechanism(scram.SHA256, s.Username, s.Password)
	case SASLScramSHA512:
		return scram.Mechanism(scram.SHA512, s.Username, s.Password)
	default:
		return nil, nil
	}
}

func (s Security) TLSConfig() *tls.Config {
	if !s.TLS {
		return nil
	}
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: s.SkipVerify,
	}
}

// Transport is used by writers.
func (cfg *Config) Transport() (*kafka.Transport, error) {
	mechanism, err := cfg.Security.SASL()
	if err != nil {
		return nil, fmt.Errorf("kafka sasl: %w", err)
	}
	return &kafka.Transport{
		ClientID:    cfg.ClientID,
		DialTimeout: cfg.DialTimeout,
		SASL:        mechanism,
		TLS:         cfg.Security.TLSConfig(),
	}, nil
}

// Dialer is used by readers.
func (cfg *Config) Dialer() (*kafka.Dialer, error) {
	mechanism, err := cfg.Security.SASL()
	if err != nil {
		return nil, fmt.Errorf("kafka sasl: %w", err)
	}
	return &kafka.Dialer{
		ClientID:      cfg.ClientID,
		Timeout:       cfg.DialTimeout,
		DualStack:     true,
		SASLMechanism: mechanism,
		TLS:           cfg.Security.TLSConfig(),
	}, nil
}
