package responses

type Booking struct {
	ID         string `json:"id"`
	ResourceID string `json:"resourceId"`
	LeadID     string `json:"leadId,omitempty"`
	StartLocal string `json:"startLocal"`
	EndLocal   string `json:"endLocal"`
	Status     string `json:"status"`
}
