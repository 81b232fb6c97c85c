package responses

// Availability is what the conversational agent announces to a lead. Slots
// carry the resource's civil offset, never bare UTC instants.
type Availability struct {
	ResourceID            string   `json:"resourceId"`
	Date                  string   `json:"date"`
	Slots                 []string `json:"slots"`
	RequestedDateHasSlots bool     `json:"requestedDateHasSlots"`
	Reason                string   `json:"reason,omitempty"`
}
