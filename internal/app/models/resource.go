package models

// Day names are stored lowercase, matching the keys the dashboard writes.
const (
	DayMonday    = "monday"
	DayTuesday   = "tuesday"
	DayWednesday = "wednesday"
	DayThursday  = "thursday"
	DayFriday    = "friday"
	DaySaturday  = "saturday"
	DaySunday    = "sunday"
)

// Override types. An available override replaces the weekday schedule for
// that date even when the weekday itself is disabled.
const (
	OverrideTypeUnavailable   = "unavailable"
	OverrideTypeAvailable     = "available"
	OverrideTypeModifiedHours = "modified_hours"
)

type TimeSlot struct {
	ID    string `json:"id" bson:"id"`
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

type DaySchedule struct {
	Enabled   bool       `json:"enabled" bson:"enabled"`
	TimeSlots []TimeSlot `json:"timeSlots" bson:"timeSlots"`
}

// WeeklySchedule maps a lowercase day name to its recurring availability.
type WeeklySchedule map[string]DaySchedule

type DateOverride struct {
	Date      string     `json:"date" bson:"date"`
	Type      string     `json:"type" bson:"type"`
	TimeSlots []TimeSlot `json:"timeSlots,omitempty" bson:"timeSlots,omitempty"`
	Reason    string     `json:"reason,omitempty" bson:"reason,omitempty"`
}

// Resource is a bookable entity: a person or a service-level calendar.
type Resource struct {
	ID                     string         `json:"id" bson:"_id,omitempty"`
	TenantID               string         `json:"tenantId" bson:"tenantId"`
	Name                   string         `json:"name" bson:"name"`
	Timezone               string         `json:"timezone" bson:"timezone"`
	SessionDurationMinutes int            `json:"sessionDurationMinutes" bson:"sessionDurationMinutes"`
	WeeklySchedule         WeeklySchedule `json:"weeklySchedule" bson:"weeklySchedule"`
	Overrides              []DateOverride `json:"overrides,omitempty" bson:"overrides,omitempty"`
	Active                 bool           `json:"active" bson:"active"`
	TimeModel              `bson:",inline"`
}
