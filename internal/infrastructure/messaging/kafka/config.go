// Package kafka carries batch detection jobs over Kafka: a group consumer
// for job requests with retry and dead-lettering, and a producer for job
// results.
package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/turtacn/hbond-engine/pkg/errors"
)

// Default topic names.
const (
	DefaultRequestTopic    = "hbond.detect.requests"
	DefaultResultTopic     = "hbond.detect.results"
	DefaultDeadLetterTopic = "hbond.detect.requests.dlq"
	DefaultGroupID         = "hbond-worker"
)

// SASL mechanisms.
const (
	SASLPlain       = "PLAIN"
	SASLScramSHA256 = "SCRAM-SHA-256"
	SASLScramSHA512 = "SCRAM-SHA-512"
)

// Config describes the brokers and topics of the batch pipeline.
type Config struct {
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	RequestTopic    string   `mapstructure:"request_topic"`
	ResultTopic     string   `mapstructure:"result_topic"`
	DeadLetterTopic string   `mapstructure:"dead_letter_topic"`
	// StartOffset is "earliest" or "latest" and applies to new groups only.
	StartOffset string `mapstructure:"start_offset"`

	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	MaxRetryBackoff time.Duration `mapstructure:"max_retry_backoff"`
	MaxMessageBytes int           `mapstructure:"max_message_bytes"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`

	SASLMechanism string `mapstructure:"sasl_mechanism"`
	SASLUsername  string `mapstructure:"sasl_username"`
	SASLPassword  string `mapstructure:"sasl_password"`
	TLSEnabled    bool   `mapstructure:"tls_enabled"`
	TLSCAPath     string `mapstructure:"tls_ca_path"`
}

// ApplyDefaults fills zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.GroupID == "" {
		c.GroupID = DefaultGroupID
	}
	if c.RequestTopic == "" {
		c.RequestTopic = DefaultRequestTopic
	}
	if c.ResultTopic == "" {
		c.ResultTopic = DefaultResultTopic
	}
	if c.StartOffset == "" {
		c.StartOffset = "earliest"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = time.Second
	}
	if c.MaxRetryBackoff == 0 {
		c.MaxRetryBackoff = 30 * time.Second
	}
	if c.MaxMessageBytes == 0 {
		c.MaxMessageBytes = 8 << 20
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
}

// Validate checks the fields the consumer and producer depend on.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if c.StartOffset != "" && c.StartOffset != "earliest" && c.StartOffset != "latest" {
		return errors.New(errors.ErrCodeValidation, "invalid kafka start offset").WithDetail(c.StartOffset)
	}
	if c.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "kafka max retries must be >= 0")
	}
	switch c.SASLMechanism {
	case "":
	case SASLPlain, SASLScramSHA256, SASLScramSHA512:
		if c.SASLUsername == "" || c.SASLPassword == "" {
			return errors.New(errors.ErrCodeValidation, "SASL credentials required")
		}
	default:
		return errors.New(errors.ErrCodeValidation, "unsupported SASL mechanism").WithDetail(c.SASLMechanism)
	}
	return nil
}

func (c *Config) saslMechanism() (sasl.Mechanism, error) {
	switch c.SASLMechanism {
	case SASLPlain:
		return plain.Mechanism{Username: c.SASLUsername, Password: c.SASLPassword}, nil
	case SASLScramSHA256:
		return scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
	case SASLScramSHA512:
		return scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
	}
	return nil, nil
}

func (c *Config) tlsConfig() (*tls.Config, error) {
	if !c.TLSEnabled {
		return nil, nil
	}
	tc := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.TLSCAPath != "" {
		pem, err := os.ReadFile(c.TLSCAPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "read kafka CA bundle")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New(errors.ErrCodeValidation, "kafka CA bundle holds no certificates")
		}
		tc.RootCAs = pool
	}
	return tc, nil
}

func (c *Config) dialer() (*kafka.Dialer, error) {
	d := &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true}
	var err error
	if d.TLS, err = c.tlsConfig(); err != nil {
		return nil, err
	}
	if d.SASLMechanism, err = c.saslMechanism(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "create SASL mechanism")
	}
	return d, nil
}

func (c *Config) transport() (*kafka.Transport, error) {
	t := &kafka.Transport{DialTimeout: 10 * time.Second}
	var err error
	if t.TLS, err = c.tlsConfig(); err != nil {
		return nil, err
	}
	if t.SASL, err = c.saslMechanism(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "create SASL mechanism")
	}
	return t, nil
}

//Personal.AI order the ending
