package requests

type ResourceTimeSlot struct {
	ID    string `json:"id"`
	Start string `json:"start" validate:"required,len=5"`
	End   string `json:"end" validate:"required,len=5"`
}

type ResourceDaySchedule struct {
	Enabled   bool               `json:"enabled"`
	TimeSlots []ResourceTimeSlot `json:"timeSlots" validate:"dive"`
}

type ResourceDateOverride struct {
	Date      string             `json:"date" validate:"required"`
	Type      string             `json:"type" validate:"required,oneof=unavailable available modified_hours"`
	TimeSlots []ResourceTimeSlot `json:"timeSlots" validate:"dive"`
	Reason    string             `json:"reason"`
}

type CreateResource struct {
	TenantID               string                         `json:"tenantId" validate:"required"`
	Name                   string                         `json:"name" validate:"required,max=120"`
	Timezone               string                         `json:"timezone" validate:"required,timezone"`
	SessionDurationMinutes int                            `json:"sessionDurationMinutes" validate:"required,gt=0"`
	WeeklySchedule         map[string]ResourceDaySchedule `json:"weeklySchedule" validate:"required"`
	Overrides              []ResourceDateOverride         `json:"overrides" validate:"dive"`
}

type UpdateResource struct {
	Name                   string                         `json:"name" validate:"omitempty,max=120"`
	Timezone               string                         `json:"timezone" validate:"omitempty,timezone"`
	SessionDurationMinutes int                            `json:"sessionDurationMinutes" validate:"omitempty,gt=0"`
	WeeklySchedule         map[string]ResourceDaySchedule `json:"weeklySchedule"`
	Overrides              []ResourceDateOverride         `json:"overrides" validate:"dive"`
	Active                 *bool                          `json:"active"`
}
