package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultBookingTopic, cfg.BookingTopic)
	assert.Equal(t, DefaultDLQTopic, cfg.DLQTopic)
	assert.Equal(t, DefaultConsumerGroup, cfg.ConsumerGroup)
	assert.True(t, cfg.EnableMiddleware)
	assert.Equal(t, defaultProducer(), cfg.Producer)
	assert.Equal(t, defaultConsumer(), cfg.Consumer)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "k1:9092, k2:9092")
	t.Setenv(EnvKafkaBookingTopic, "studio-bookings")
	t.Setenv(EnvKafkaConsumerMaxWait, "2s")
	t.Setenv(EnvKafkaConsumerStartOffset, "-2")
	t.Setenv(EnvKafkaProducerAsync, "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
	assert.Equal(t, "studio-bookings", cfg.BookingTopic)
	assert.Equal(t, 2*time.Second, cfg.Consumer.MaxWait)
	assert.Equal(t, int64(-2), cfg.Consumer.StartOffset)
	assert.True(t, cfg.Producer.Async)
}

func TestLoad_UnparsableValuesFallBack(t *testing.T) {
	t.Setenv(EnvKafkaProducerMaxAttempts, "lots")
	t.Setenv(EnvKafkaConsumerSessionTimeout, "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultProducer().MaxAttempts, cfg.Producer.MaxAttempts)
	assert.Equal(t, defaultConsumer().SessionTimeout, cfg.Consumer.SessionTimeout)
}

func TestLoad_InvalidConfiguration(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaDLQTopic, DefaultBookingTopic)
	t.Setenv(EnvKafkaConsumerHeartbeatInterval, "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Producer.Compression")
	assert.Contains(t, err.Error(), "DLQTopic must differ")
	assert.Contains(t, err.Error(), "Consumer.HeartbeatInterval")
}
