package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingResourceIDKey         = "resource_id"
	LoggingLeadIDKey             = "lead_id"
	LoggingBookingIDKey          = "booking_id"
	LoggingCallIDKey             = "call_id"
	LoggingTenantIDKey           = "tenant_id"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingQueueKey              = "queue"
	LoggingAttemptNumberKey      = "attempt_number"
	LoggingOutcomeKey            = "outcome"
	LoggingNextRetryAtKey        = "next_retry_at"
)
