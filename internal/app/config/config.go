package config

import (
	"leadbook-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "leadbook"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "America/Sao_Paulo"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
			APIKey:                     utils.GetEnvString("APP_API_KEY", ""),
			APIKeyRateLimit:            utils.GetEnvInt("APP_API_KEY_RATE_LIMIT", 120),
		},
		Booking: AppBooking{
			BufferMinutes:             utils.GetEnvInt("BOOKING_BUFFER_MINUTES", 60),
			HorizonDays:               utils.GetEnvInt("BOOKING_HORIZON_DAYS", 60),
			FallbackSlotCount:         utils.GetEnvInt("BOOKING_FALLBACK_SLOT_COUNT", 2),
			LockTTLInSeconds:          utils.GetEnvInt("BOOKING_LOCK_TTL_IN_SECONDS", 10),
			ResourceCacheTTLInSeconds: utils.GetEnvInt("BOOKING_RESOURCE_CACHE_TTL_IN_SECONDS", 300),
		},
		Outreach: AppOutreach{
			MaxAttempts:              utils.GetEnvInt("OUTREACH_MAX_ATTEMPTS", 3),
			VoicemailMinDelayMinutes: utils.GetEnvInt("OUTREACH_VOICEMAIL_MIN_DELAY_MINUTES", 15),
			VoicemailMaxDelayMinutes: utils.GetEnvInt("OUTREACH_VOICEMAIL_MAX_DELAY_MINUTES", 25),
			BusinessDayStartHour:     utils.GetEnvInt("OUTREACH_BUSINESS_DAY_START_HOUR", 8),
			BusinessDayEndHour:       utils.GetEnvInt("OUTREACH_BUSINESS_DAY_END_HOUR", 20),
			RetryBaseDelayInMinutes:  utils.GetEnvInt("OUTREACH_RETRY_BASE_DELAY_IN_MINUTES", 120),
			AppointmentBufferInHours: utils.GetEnvInt("OUTREACH_APPOINTMENT_BUFFER_IN_HOURS", 2),
			WorkerCronSpec:           utils.GetEnvString("OUTREACH_WORKER_CRON_SPEC", "@every 1m"),
			LeaderLockTTLInSeconds:   utils.GetEnvInt("OUTREACH_LEADER_LOCK_TTL_IN_SECONDS", 120),
			DispatchBatchSize:        utils.GetEnvInt("OUTREACH_DISPATCH_BATCH_SIZE", 20),
			DispatchRatePerSecond:    utils.GetEnvInt("OUTREACH_DISPATCH_RATE_PER_SECOND", 2),
			ConsumeBatchSize:         utils.GetEnvInt("OUTREACH_CONSUME_BATCH_SIZE", 10),
		},
		VoiceAgent: AppVoiceAgent{
			DialURL:                 utils.GetEnvString("VOICE_AGENT_DIAL_URL", "http://localhost:9500/calls"),
			APIKey:                  utils.GetEnvString("VOICE_AGENT_API_KEY", ""),
			RequestTimeoutInSeconds: utils.GetEnvInt("VOICE_AGENT_REQUEST_TIMEOUT_IN_SECONDS", 15),
		},
		Minio: AppMinio{
			RecordingBucketName:                 utils.GetEnvString("MINIO_RECORDING_BUCKET_NAME", "call-recordings"),
			PreSignedUrlObjectExpiryTimeInHours: utils.GetEnvInt("MINIO_PRE_SIGNED_URL_OBJECT_EXPIRY_TIME_IN_HOURS", 24),
			RecordingDownloadTimeoutInSeconds:   utils.GetEnvInt("MINIO_RECORDING_DOWNLOAD_TIMEOUT_IN_SECONDS", 30),
			RecordingMaxSizeInMB:                utils.GetEnvInt64("MINIO_RECORDING_MAX_SIZE_IN_MB", 64),
		},
		RabbitMQ: AppRabbitMQ{
			WhatsAppQueue:    utils.GetEnvString("RABBITMQ_WHATSAPP_QUEUE", "whatsapp_message_queue"),
			OutreachPrefetch: utils.GetEnvInt("RABBITMQ_OUTREACH_PREFETCH", 10),
		},
	}
}
