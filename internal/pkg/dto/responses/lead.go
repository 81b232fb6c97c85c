package responses

type Lead struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenantId"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Status         string `json:"status"`
	AttemptCount   int    `json:"attemptCount"`
	NextRetryLocal string `json:"nextRetryLocal,omitempty"`
	LastOutcome    string `json:"lastOutcome,omitempty"`
}

// CallLog is one contact attempt on the lead timeline. RecordingURL is a
// short-lived presigned link, present only when a recording was archived.
type CallLog struct {
	ID              string `json:"id"`
	CallID          string `json:"callId"`
	AttemptNumber   int    `json:"attemptNumber"`
	Outcome         string `json:"outcome"`
	DurationSeconds int    `json:"durationSeconds"`
	CompletedAt     string `json:"completedAt"`
	RecordingURL    string `json:"recordingUrl,omitempty"`
}

// RetryDecision reports what the scheduler decided after a failed attempt.
type RetryDecision struct {
	Terminal    bool   `json:"terminal"`
	NextRetryAt string `json:"nextRetryAt,omitempty"`
}
