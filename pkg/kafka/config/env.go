package kafka_config

import "time"

const (
	EnvKafkaBrokers          = "KAFKA_BROKERS"
	EnvKafkaBookingTopic     = "KAFKA_BOOKING_TOPIC"
	EnvKafkaDLQTopic         = "KAFKA_DLQ_TOPIC"
	EnvKafkaConsumerGroup    = "KAFKA_CONSUMER_GROUP"
	EnvKafkaClientSource     = "KAFKA_CLIENT_SOURCE"
	EnvKafkaEnableMiddleware = "KAFKA_ENABLE_MIDDLEWARE"

	EnvKafkaProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"
	EnvKafkaProducerAsync        = "KAFKA_PRODUCER_ASYNC"

	EnvKafkaConsumerStartOffset       = "KAFKA_CONSUMER_START_OFFSET"
	EnvKafkaConsumerMinBytes          = "KAFKA_CONSUMER_MIN_BYTES"
	EnvKafkaConsumerMaxBytes          = "KAFKA_CONSUMER_MAX_BYTES"
	EnvKafkaConsumerMaxWait           = "KAFKA_CONSUMER_MAX_WAIT"
	EnvKafkaConsumerCommitInterval    = "KAFKA_CONSUMER_COMMIT_INTERVAL"
	EnvKafkaConsumerHeartbeatInterval = "KAFKA_CONSUMER_HEARTBEAT_INTERVAL"
	EnvKafkaConsumerSessionTimeout    = "KAFKA_CONSUMER_SESSION_TIMEOUT"
	EnvKafkaConsumerRebalanceTimeout  = "KAFKA_CONSUMER_REBALANCE_TIMEOUT"
	EnvKafkaConsumerMaxRetries        = "KAFKA_CONSUMER_MAX_RETRIES"
)

const (
	DefaultKafkaBrokers  = "localhost:9092"
	DefaultBookingTopic  = "booking-events"
	DefaultDLQTopic      = "booking-events-dlq"
	DefaultConsumerGroup = "booking-events-recorder"
	DefaultClientSource  = "studio"
)

// Compression codecs accepted by KAFKA_PRODUCER_COMPRESSION.
var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

func defaultProducer() ProducerConfig {
	return ProducerConfig{
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,
		Compression:  "snappy",
	}
}

func defaultConsumer() ConsumerConfig {
	return ConsumerConfig{
		StartOffset:       -1,
		MinBytes:          1,
		MaxBytes:          10 << 20,
		MaxWait:           500 * time.Millisecond,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    10 * time.Second,
		RebalanceTimeout:  time.Minute,
		MaxRetries:        3,
	}
}
