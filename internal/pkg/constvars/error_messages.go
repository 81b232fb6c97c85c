package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":     "is required",
	"min":          "must be at least %s characters long",
	"max":          "maximum at %s characters long",
	"numeric":      "must be a number",
	"len":          "must be %s characters long",
	"oneof":        "must be one of [%s]",
	"gt":           "must be greater than %s",
	"gte":          "must be greater than or equal to %s",
	"lt":           "must be less than %s",
	"lte":          "must be less than or equal to %s",
	"url":          "must be a valid URL",
	"uuid":         "must be a valid UUID",
	"phone_number": "must be a valid phone number in E.164 format",
	"datetime":     "must be a valid date in %s format",
	"timezone":     "must be a valid IANA timezone name",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":      true,
	"max":      true,
	"len":      true,
	"gt":       true,
	"gte":      true,
	"lt":       true,
	"lte":      true,
	"oneof":    true,
	"datetime": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientInvalidDateFormat             = "the given date is not in a recognized format"
	ErrClientUnknownTimezone               = "the configured timezone is not recognized"
	ErrClientResourceNotFound              = "bookable resource not found"
	ErrClientLeadNotFound                  = "lead not found"
	ErrClientBookingNotFound               = "booking not found"
	ErrClientSlotAlreadyBooked             = "the requested slot is no longer available"
	ErrClientSlotOutsideAvailability       = "the requested slot is outside the resource availability"
	ErrClientTooManyRequests               = "too many requests, slow down"
	ErrClientTenantRequired                = "tenant identifier is missing"
)

// Error messages for developers
const (
	ErrDevInvalidRequestPayload = "invalid request payload"
	ErrDevValidationFailed      = "validation failed"
	ErrDevCannotParseJSON       = "cannot parse JSON"
	ErrDevCannotMarshalJSON     = "cannot marshal JSON"
	ErrDevCannotParseDate       = "cannot parse date input"
	ErrDevUnknownTimezone       = "cannot resolve IANA timezone"
	ErrDevInvalidAPIKey         = "invalid API key"
	ErrDevAPIKeyRequired        = "API key is required"
	ErrDevTenantHeaderMissing   = "tenant header is missing on a tenant-scoped route"

	ErrDevURLParamIDValidationFailed = "failed validating URL param: %s"

	ErrDevServerDeadlineExceeded = "server deadline exceeded"

	// Mongo messages
	ErrDevDBFailedToFindDocument     = "failed to find document"
	ErrDevDBFailedToInsertDocument   = "failed to insert document"
	ErrDevDBFailedToUpdateDocument   = "failed to update document"
	ErrDevDBFailedToDeleteDocument   = "failed to delete document"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents"
	ErrDevDBNotObjectID              = "provided id is not a valid object id"

	// Redis messages
	ErrDevRedisSet       = "failed setting value to redis"
	ErrDevRedisGet       = "failed getting value from redis, key: %s"
	ErrDevRedisDelete    = "failed deleting value from redis"
	ErrDevRedisIncrement = "failed incrementing value in redis"
	ErrDevRedisSetNX     = "failed acquiring redis lock"
	ErrDevRedisUnlock    = "failed releasing redis lock"

	// Messaging messages
	ErrDevQueuePublish   = "failed publishing message to queue"
	ErrDevQueueConsume   = "failed consuming message from queue"
	ErrDevVoiceAgentDial = "voice-agent dial request failed"

	// Storage messages
	ErrDevStorageUpload   = "failed uploading object to storage"
	ErrDevStorageDownload = "failed downloading object from storage"

	// Domain messages
	ErrDevResourceNotFound      = "resource document not found"
	ErrDevLeadNotFound          = "lead document not found"
	ErrDevBookingNotFound       = "booking document not found"
	ErrDevBookingConflict       = "an overlapping booking already exists"
	ErrDevSlotOutsideAvail      = "requested slot is not within resource availability"
	ErrDevBookingLockNotHeld    = "could not acquire booking lock"
	ErrDevSessionDurationNotSet = "resource has no valid session duration"
	ErrDevResourceMisconfigured = "resource configuration cannot produce availability"
)
