package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_API_KEY_AUTH_KEY         ContextKey = "api_key_auth"
	CONTEXT_TENANT_ID_KEY            ContextKey = "tenant_id"
)

const (
	REQUEST_ID_PREFIX = "LDBK_SVC_"
)

const (
	LeadbookRoleSuperadmin = "Superadmin"
	LeadbookRoleTenant     = "Tenant"
)

// Lead contact lifecycle statuses.
const (
	LeadStatusNew         = "new"
	LeadStatusContacting  = "contacting"
	LeadStatusRetryQueued = "retry_queued"
	LeadStatusQualified   = "qualified"
	LeadStatusBooked      = "booked"
	LeadStatusSwitched    = "switched_channel"
	LeadStatusUnreachable = "unreachable"
)

// Outcome classes reported by the voice-agent platform webhook.
const (
	OutcomeVoicemail         = "voicemail"
	OutcomeNoHumanContact    = "no-human-contact"
	OutcomeHumanRequestRetry = "human-contact-requesting-retry"
	OutcomeOther             = "other"
)

const (
	MongoCollectionResources = "resources"
	MongoCollectionBookings  = "bookings"
	MongoCollectionLeads     = "leads"
	MongoCollectionCallLogs  = "call_logs"
)

const (
	RedisKeyResourceConfigPrefix = "resource_config:"
	RedisKeyBookingLockPrefix    = "booking_lock:"
	RedisKeyOutreachLeader       = "outreach:leader"
)
