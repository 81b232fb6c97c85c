package requests

type CreateBooking struct {
	ResourceID string `json:"resourceId" validate:"required"`
	LeadID     string `json:"leadId"`
	// StartAt is the offset-carrying civil instant announced by the agent,
	// e.g. 2024-07-01T09:00:00-03:00.
	StartAt string `json:"startAt" validate:"required"`
	Notes   string `json:"notes" validate:"omitempty,max=500"`
}

type CancelBooking struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}
