package requests

// PlaceCall asks the voice-agent platform to dial a lead. TaskID makes the
// request idempotent on the platform side.
type PlaceCall struct {
	TaskID        string `json:"taskId"`
	TenantID      string `json:"tenantId"`
	LeadID        string `json:"leadId"`
	PhoneNumber   string `json:"phoneNumber"`
	AttemptNumber int    `json:"attemptNumber"`
}
