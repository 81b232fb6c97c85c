package models

import "time"

// Booking statuses.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a committed reservation against a Resource. The interval is
// half-open: [StartAt, EndAt).
type Booking struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	TenantID   string    `json:"tenantId" bson:"tenantId"`
	ResourceID string    `json:"resourceId" bson:"resourceId"`
	LeadID     string    `json:"leadId,omitempty" bson:"leadId,omitempty"`
	StartAt    time.Time `json:"startAt" bson:"startAt"`
	EndAt      time.Time `json:"endAt" bson:"endAt"`
	// StartLocal is the offset-carrying civil rendering handed to the agent
	// and the messaging channel, e.g. 2024-07-01T09:00:00-03:00.
	StartLocal string `json:"startLocal" bson:"startLocal"`
	Status     string `json:"status" bson:"status"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
	TimeModel  `bson:",inline"`
}
