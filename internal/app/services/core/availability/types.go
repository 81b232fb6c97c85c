package availability

import (
	"time"

	"leadbook-service/internal/app/models"
)

// Reasons reported when the requested date yields no slots.
const (
	ReasonWeekend = "weekend"
	ReasonNone    = "none"
)

// Config gathers the slot-generation policy knobs that used to be scattered
// per call site.
type Config struct {
	// BufferMinutes is the minimum lead time between "now" and a bookable
	// slot start.
	BufferMinutes int
	// HorizonDays bounds the forward fallback search.
	HorizonDays int
	// FallbackSlotCount is how many candidates the fallback search collects.
	FallbackSlotCount int
}

// DefaultConfig mirrors the production policy: one hour of lead time, a
// sixty-day search horizon, two fallback candidates.
func DefaultConfig() Config {
	return Config{
		BufferMinutes:     60,
		HorizonDays:       60,
		FallbackSlotCount: 2,
	}
}

// ResolveInput is one availability question. Bookings must cover the whole
// search horizon window; the resolver never fetches anything itself.
type ResolveInput struct {
	Resource      models.Resource
	RequestedDate string
	Bookings      []models.Booking
	Now           time.Time
}

// ResolveOutput lists the bookable start instants for the target date, or the
// fallback candidates when the target date has none. Slots carry the
// resource's civil offset. RequestedDateHasSlots reflects the originally
// requested date only, never the fallback.
type ResolveOutput struct {
	// Date is the civil date the slots were resolved for, after the
	// same-day advance.
	Date                  string
	Slots                 []string
	RequestedDateHasSlots bool
	Reason                string
}

// clock is a time of day on a 24h dial.
type clock struct {
	H int
	M int
}

// candidate is a computed slot interval before rendering.
type candidate struct {
	start time.Time
	end   time.Time
}
