package config

type InternalConfig struct {
	App        App
	Booking    AppBooking
	Outreach   AppOutreach
	VoiceAgent AppVoiceAgent
	Minio      AppMinio
	RabbitMQ   AppRabbitMQ
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
	// APIKey authenticates the voice-agent platform webhook and internal
	// tooling.
	APIKey          string
	APIKeyRateLimit int
}

// AppBooking holds the knobs of availability resolution and booking commit.
type AppBooking struct {
	// BufferMinutes keeps same-day slots at least this far from now.
	BufferMinutes int
	// HorizonDays bounds the forward search for fallback slots.
	HorizonDays int
	// FallbackSlotCount is how many nearby slots to offer when the requested
	// date is full or closed.
	FallbackSlotCount int
	// LockTTLInSeconds is the redis lock TTL held around booking commit.
	LockTTLInSeconds int
	// ResourceCacheTTLInSeconds controls the redis cache of resource configs.
	ResourceCacheTTLInSeconds int
}

// AppOutreach holds retry policy and dispatcher configuration.
type AppOutreach struct {
	MaxAttempts              int
	VoicemailMinDelayMinutes int
	VoicemailMaxDelayMinutes int
	BusinessDayStartHour     int
	BusinessDayEndHour       int
	RetryBaseDelayInMinutes  int
	AppointmentBufferInHours int
	// WorkerCronSpec defines the cron expression for the dispatch worker
	// schedule (e.g., "@every 1m").
	WorkerCronSpec string
	// LeaderLockTTLInSeconds is the TTL of the dispatch leader lock.
	LeaderLockTTLInSeconds int
	// DispatchBatchSize is how many due leads the worker processes per tick.
	DispatchBatchSize int
	// DispatchRatePerSecond throttles calls handed to the voice platform.
	DispatchRatePerSecond int
	// ConsumeBatchSize is how many queued call tasks the worker drains per
	// tick.
	ConsumeBatchSize int
}

// AppVoiceAgent points at the voice-agent platform's dial endpoint.
type AppVoiceAgent struct {
	DialURL                 string
	APIKey                  string
	RequestTimeoutInSeconds int
}

type AppMinio struct {
	RecordingBucketName                 string
	PreSignedUrlObjectExpiryTimeInHours int
	RecordingDownloadTimeoutInSeconds   int
	RecordingMaxSizeInMB                int64
}

type AppRabbitMQ struct {
	WhatsAppQueue    string
	OutreachPrefetch int
}
