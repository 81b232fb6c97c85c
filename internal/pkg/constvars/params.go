package constvars

const (
	URLParamResourceID = "resource_id"
	URLParamBookingID  = "booking_id"
	URLParamLeadID     = "lead_id"
)

const (
	URLQueryParamDate     = "date"
	URLQueryParamFrom     = "from"
	URLQueryParamTo       = "to"
	URLQueryParamStatus   = "status"
	URLQueryParamPage     = "page"
	URLQueryParamPageSize = "page_size"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)
