package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Resource-related messages
	ResourceCreatedSuccess = "resource created successfully"
	ResourceUpdatedSuccess = "resource updated successfully"
	ResourceDeletedSuccess = "resource deleted successfully"
	ResourceGetSuccess     = "get resource successfully"

	// Availability and booking messages
	AvailabilityGetSuccess = "availability computed successfully"
	BookingCreatedSuccess  = "booking created successfully"
	BookingsGetSuccess     = "get bookings successfully"
	BookingCancelSuccess   = "booking cancelled successfully"

	// Lead messages
	LeadCreatedSuccess     = "lead created successfully"
	LeadUpdatedSuccess     = "lead updated successfully"
	LeadsGetSuccess        = "get leads successfully"
	CallLogsGetSuccess     = "get call logs successfully"
	CallResultIngestedOK   = "call result processed successfully"
	RetryScheduledSuccess  = "next contact attempt scheduled"
	ChannelSwitchedSuccess = "lead switched to messaging channel"
)
