package models

import "time"

// Lead is a prospect being qualified through voice calls and, when calls are
// exhausted, through the messaging channel.
type Lead struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	TenantID     string     `json:"tenantId" bson:"tenantId"`
	Name         string     `json:"name" bson:"name"`
	Phone        string     `json:"phone" bson:"phone"`
	Source       string     `json:"source,omitempty" bson:"source,omitempty"`
	Status       string     `json:"status" bson:"status"`
	AttemptCount int        `json:"attemptCount" bson:"attemptCount"`
	NextRetryAt  *time.Time `json:"nextRetryAt,omitempty" bson:"nextRetryAt,omitempty"`
	// NextRetryLocal mirrors NextRetryAt rendered with the tenant's civil
	// offset, which is what gets spoken back to operators.
	NextRetryLocal string `json:"nextRetryLocal,omitempty" bson:"nextRetryLocal,omitempty"`
	LastOutcome    string `json:"lastOutcome,omitempty" bson:"lastOutcome,omitempty"`
	Notes          string `json:"notes,omitempty" bson:"notes,omitempty"`
	TimeModel      `bson:",inline"`
}

// CallLog is one completed contact attempt as reported by the voice-agent
// platform webhook.
type CallLog struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	TenantID        string    `json:"tenantId" bson:"tenantId"`
	LeadID          string    `json:"leadId" bson:"leadId"`
	CallID          string    `json:"callId" bson:"callId"`
	AttemptNumber   int       `json:"attemptNumber" bson:"attemptNumber"`
	Outcome         string    `json:"outcome" bson:"outcome"`
	DurationSeconds int       `json:"durationSeconds" bson:"durationSeconds"`
	RecordingObject string    `json:"recordingObject,omitempty" bson:"recordingObject,omitempty"`
	CompletedAt     time.Time `json:"completedAt" bson:"completedAt"`
	TimeModel       `bson:",inline"`
}
