package requests

// CallCompleted is the normalized payload the voice-agent platform posts when
// a call finishes. Signature verification happens upstream at the gateway;
// this service only sees authenticated traffic.
type CallCompleted struct {
	CallID           string `json:"callId" validate:"required"`
	LeadID           string `json:"leadId" validate:"required"`
	TenantID         string `json:"tenantId" validate:"required"`
	DisconnectReason string `json:"disconnectReason"`
	AnsweredBy       string `json:"answeredBy"`
	UserRequested    string `json:"userRequested"`
	DurationSeconds  int    `json:"durationSeconds" validate:"gte=0"`
	RecordingURL     string `json:"recordingUrl" validate:"omitempty,url"`
	CompletedAt      string `json:"completedAt" validate:"required"`
}
