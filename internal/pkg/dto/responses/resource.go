package responses

import "leadbook-service/internal/app/models"

type Resource struct {
	ID                     string                `json:"id"`
	TenantID               string                `json:"tenantId"`
	Name                   string                `json:"name"`
	Timezone               string                `json:"timezone"`
	SessionDurationMinutes int                   `json:"sessionDurationMinutes"`
	WeeklySchedule         models.WeeklySchedule `json:"weeklySchedule"`
	Overrides              []models.DateOverride `json:"overrides,omitempty"`
	Active                 bool                  `json:"active"`
}
