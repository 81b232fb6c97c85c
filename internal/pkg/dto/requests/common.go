package requests

type QueryParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Status   string `json:"status"`
	From     string `json:"from"`
	To       string `json:"to"`
}
