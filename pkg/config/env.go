package config

const (
	EnvEnvFile = "ENV_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvSessionKey   = "SESSION_KEY"
	EnvAdminRoles   = "ADMIN_ROLES"
	EnvAdminUserIDs = "ADMIN_USER_IDS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvTxMaxAttempts = "TX_MAX_ATTEMPTS"
	EnvTxBackoffBase = "TX_BACKOFF_BASE"
	EnvTxBackoffMax  = "TX_BACKOFF_MAX"

	EnvRedisAddr            = "REDIS_ADDR"
	EnvRedisPassword        = "REDIS_PASSWORD"
	EnvRedisDB              = "REDIS_DB"
	EnvSlotCacheTTL         = "SLOT_CACHE_TTL"
	EnvUserBookingsCacheTTL = "USER_BOOKINGS_CACHE_TTL"

	EnvKafkaEnabled = "KAFKA_ENABLED"
)
