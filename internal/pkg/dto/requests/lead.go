package requests

type CreateLead struct {
	TenantID string `json:"tenantId" validate:"required"`
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required,phone_number"`
	Source   string `json:"source" validate:"omitempty,max=60"`
	Notes    string `json:"notes" validate:"omitempty,max=500"`
}

type UpdateLeadStatus struct {
	Status string `json:"status" validate:"required,oneof=new contacting retry_queued qualified booked switched_channel unreachable"`
	Notes  string `json:"notes" validate:"omitempty,max=500"`
}
