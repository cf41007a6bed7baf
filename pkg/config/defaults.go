package config

import "time"

const (
	DefaultEnvFile = ".env"

	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "studio"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultAdminRoles = "admin"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTxMaxAttempts = 5
	DefaultTxBackoffBase = 20 * time.Millisecond
	DefaultTxBackoffMax  = 500 * time.Millisecond

	DefaultRedisDB              = 0
	DefaultSlotCacheTTL         = 5 * time.Minute
	DefaultUserBookingsCacheTTL = 2 * time.Minute

	DefaultKafkaEnabled = true

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100
)
