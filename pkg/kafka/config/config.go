package kafka_config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"studio/pkg/logger"
)

// Config is shared by the booking event producer and the recorder consumer.
type Config struct {
	Brokers       []string
	BookingTopic  string
	DLQTopic      string
	ConsumerGroup string
	// ClientSource is stamped on every produced message.
	ClientSource     string
	EnableMiddleware bool

	Producer ProducerConfig
	Consumer ConsumerConfig
}

type ProducerConfig struct {
	MaxAttempts  int
	BatchTimeout time.Duration
	RequiredAcks int    // -1 all replicas, 0 none, 1 leader
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
	RebalanceTimeout  time.Duration
	MaxRetries        int
}

// Load reads the Kafka settings from the environment and validates them.
func Load() (*Config, error) {
	p, c := defaultProducer(), defaultConsumer()

	cfg := &Config{
		Brokers:          splitList(envStr(EnvKafkaBrokers, DefaultKafkaBrokers)),
		BookingTopic:     envStr(EnvKafkaBookingTopic, DefaultBookingTopic),
		DLQTopic:         envStr(EnvKafkaDLQTopic, DefaultDLQTopic),
		ConsumerGroup:    envStr(EnvKafkaConsumerGroup, DefaultConsumerGroup),
		ClientSource:     envStr(EnvKafkaClientSource, DefaultClientSource),
		EnableMiddleware: envParse(EnvKafkaEnableMiddleware, true, strconv.ParseBool),

		Producer: ProducerConfig{
			MaxAttempts:  envParse(EnvKafkaProducerMaxAttempts, p.MaxAttempts, strconv.Atoi),
			BatchTimeout: envParse(EnvKafkaProducerBatchTimeout, p.BatchTimeout, time.ParseDuration),
			RequiredAcks: envParse(EnvKafkaProducerRequireAcks, p.RequiredAcks, strconv.Atoi),
			Compression:  envStr(EnvKafkaProducerCompression, p.Compression),
			Async:        envParse(EnvKafkaProducerAsync, p.Async, strconv.ParseBool),
		},
		Consumer: ConsumerConfig{
			StartOffset:       envParse(EnvKafkaConsumerStartOffset, c.StartOffset, parseInt64),
			MinBytes:          envParse(EnvKafkaConsumerMinBytes, c.MinBytes, strconv.Atoi),
			MaxBytes:          envParse(EnvKafkaConsumerMaxBytes, c.MaxBytes, strconv.Atoi),
			MaxWait:           envParse(EnvKafkaConsumerMaxWait, c.MaxWait, time.ParseDuration),
			CommitInterval:    envParse(EnvKafkaConsumerCommitInterval, c.CommitInterval, time.ParseDuration),
			HeartbeatInterval: envParse(EnvKafkaConsumerHeartbeatInterval, c.HeartbeatInterval, time.ParseDuration),
			SessionTimeout:    envParse(EnvKafkaConsumerSessionTimeout, c.SessionTimeout, time.ParseDuration),
			RebalanceTimeout:  envParse(EnvKafkaConsumerRebalanceTimeout, c.RebalanceTimeout, time.ParseDuration),
			MaxRetries:        envParse(EnvKafkaConsumerMaxRetries, c.MaxRetries, strconv.Atoi),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once as a numbered list.
func (cfg *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(len(cfg.Brokers) > 0, "At least one Kafka broker is required")
	for i, broker := range cfg.Brokers {
		check(broker != "", "Broker %d cannot be empty", i)
	}
	check(cfg.BookingTopic != "", "BookingTopic cannot be empty")
	check(cfg.DLQTopic != cfg.BookingTopic, "DLQTopic must differ from BookingTopic, got: %s", cfg.DLQTopic)
	check(cfg.ConsumerGroup != "", "ConsumerGroup cannot be empty")

	p := cfg.Producer
	check(p.MaxAttempts > 0, "Producer.MaxAttempts must be positive, got: %d", p.MaxAttempts)
	check(p.BatchTimeout > 0, "Producer.BatchTimeout must be positive, got: %s", p.BatchTimeout)
	check(slices.Contains(compressions, p.Compression), "Producer.Compression must be one of %v, got: %s", compressions, p.Compression)
	check(p.RequiredAcks >= -1 && p.RequiredAcks <= 1, "Producer.RequiredAcks must be -1, 0 or 1, got: %d", p.RequiredAcks)

	c := cfg.Consumer
	check(c.StartOffset >= -2, "Consumer.StartOffset must be -1 (newest), -2 (oldest) or >= 0, got: %d", c.StartOffset)
	check(c.MinBytes > 0, "Consumer.MinBytes must be positive, got: %d", c.MinBytes)
	check(c.MaxBytes >= c.MinBytes, "Consumer.MaxBytes must be at least MinBytes, got: %d", c.MaxBytes)
	for name, d := range map[string]time.Duration{
		"MaxWait":           c.MaxWait,
		"CommitInterval":    c.CommitInterval,
		"HeartbeatInterval": c.HeartbeatInterval,
		"SessionTimeout":    c.SessionTimeout,
		"RebalanceTimeout":  c.RebalanceTimeout,
	} {
		check(d > 0, "Consumer.%s must be positive, got: %s", name, d)
	}
	check(c.MaxRetries >= 0, "Consumer.MaxRetries cannot be negative, got: %d", c.MaxRetries)

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)

	var b strings.Builder
	b.WriteString("Configuration validation failed:\n")
	for i, problem := range problems {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, problem)
	}
	return fmt.Errorf("%s", b.String())
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	if log == nil {
		return
	}

	log.Info("Kafka configuration loaded successfully",
		"brokers", cfg.Brokers,
		"booking_topic", cfg.BookingTopic,
		"dlq_topic", cfg.DLQTopic,
		"consumer_group", cfg.ConsumerGroup,
		"client_source", cfg.ClientSource,
		"enable_middleware", cfg.EnableMiddleware,
		"producer", fmt.Sprintf("%+v", cfg.Producer),
		"consumer", fmt.Sprintf("%+v", cfg.Consumer),
	)
}

func envStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envParse returns fallback when the variable is unset or does not parse.
func envParse[T any](key string, fallback T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := parse(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
