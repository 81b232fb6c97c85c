// Package availability computes the bookable time windows for a resource.
// The resolver is a pure computation over caller-supplied data: it holds no
// state, performs no I/O, and is safe for concurrent use. Exclusive slot
// reservation is not its job; the booking commit path re-checks conflicts
// under a lock.
package availability

import (
	"fmt"
	"time"

	"leadbook-service/internal/app/models"
	"leadbook-service/internal/pkg/civiltime"
)

type Resolver struct {
	cfg Config
}

func NewResolver(cfg Config) *Resolver {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = DefaultConfig().HorizonDays
	}
	if cfg.FallbackSlotCount <= 0 {
		cfg.FallbackSlotCount = DefaultConfig().FallbackSlotCount
	}
	return &Resolver{cfg: cfg}
}

// Resolve computes the ordered bookable start instants for the target date.
// The target is the requested date when given, otherwise today in the
// resource's zone; in either case a same-day target advances to tomorrow,
// because same-day booking is never offered. When the target date yields
// nothing, a bounded forward scan collects the next fallback candidates.
func (r *Resolver) Resolve(input ResolveInput) (*ResolveOutput, error) {
	if input.Resource.SessionDurationMinutes <= 0 {
		return nil, fmt.Errorf("resource %s: invalid session duration %d", input.Resource.ID, input.Resource.SessionDurationMinutes)
	}

	loc, err := civiltime.Location(input.Resource.Timezone)
	if err != nil {
		return nil, err
	}

	targetDay, targetDate, err := targetDayIn(input.RequestedDate, input.Now, loc)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(input.Resource.SessionDurationMinutes) * time.Minute
	cutoff := input.Now.Add(time.Duration(r.cfg.BufferMinutes) * time.Minute)

	daySlots := effectiveSlots(input.Resource, targetDate, targetDay.Weekday())
	candidates := r.collectDay(input.Resource, targetDay, daySlots, duration, cutoff, input.Bookings, loc, 0)

	output := &ResolveOutput{
		Date:                  targetDate,
		Slots:                 renderSlots(candidates, loc),
		RequestedDateHasSlots: len(candidates) > 0,
	}
	if len(candidates) > 0 {
		return output, nil
	}

	if isWeekend(targetDay.Weekday()) && len(daySlots) == 0 {
		output.Reason = ReasonWeekend
	} else {
		output.Reason = ReasonNone
	}

	output.Slots = r.searchForward(input.Resource, targetDay, duration, cutoff, input.Bookings, loc)
	return output, nil
}

// BookingWindow returns the instant range whose bookings can affect a
// resolution for the requested date: the target day's midnight through the
// end of the fallback horizon. Callers batch-fetch bookings for this range
// before calling Resolve, so the window and the scan must stay anchored on
// the same day.
func (r *Resolver) BookingWindow(resource models.Resource, requestedDate string, now time.Time) (time.Time, time.Time, error) {
	loc, err := civiltime.Location(resource.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	targetDay, _, err := targetDayIn(requestedDate, now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return targetDay, targetDay.AddDate(0, 0, r.cfg.HorizonDays+2), nil
}

// targetDayIn resolves the civil day the scan starts on: the requested date
// when given, otherwise today in the resource's zone, with a same-day target
// advanced to tomorrow.
func targetDayIn(requestedDate string, now time.Time, loc *time.Location) (time.Time, string, error) {
	today := civiltime.CivilDateIn(now, loc)
	targetDate := today
	if requestedDate != "" {
		var err error
		targetDate, err = civiltime.NormalizeDate(requestedDate)
		if err != nil {
			return time.Time{}, "", err
		}
	}

	targetDay, err := civiltime.DateAt(targetDate, loc)
	if err != nil {
		return time.Time{}, "", err
	}
	if targetDate == today {
		targetDay = targetDay.AddDate(0, 0, 1)
		targetDate = civiltime.CivilDateIn(targetDay, loc)
	}
	return targetDay, targetDate, nil
}

// SlotStartsOnSchedule reports whether startAt coincides with a scheduled
// slot boundary for its civil date in the resource's zone. Booking overlap is
// not checked here; the commit path re-checks it under the booking lock.
func (r *Resolver) SlotStartsOnSchedule(resource models.Resource, startAt time.Time) (bool, error) {
	loc, err := civiltime.Location(resource.Timezone)
	if err != nil {
		return false, err
	}
	local := startAt.In(loc)
	civilDate := civiltime.CivilDateIn(local, loc)
	for _, slot := range effectiveSlots(resource, civilDate, local.Weekday()) {
		start, ok := parseClockFlex(slot.Start)
		if !ok {
			continue
		}
		if start.H == local.Hour() && start.M == local.Minute() && local.Second() == 0 {
			return true, nil
		}
	}
	return false, nil
}

// collectDay generates the surviving candidates for one civil day, in the
// schedule's stored slot order. A limit of zero means unbounded.
func (r *Resolver) collectDay(resource models.Resource, day time.Time, slots []models.TimeSlot, duration time.Duration, cutoff time.Time, bookings []models.Booking, loc *time.Location, limit int) []candidate {
	var out []candidate
	year, month, date := day.In(loc).Date()
	for _, slot := range slots {
		start, ok := parseClockFlex(slot.Start)
		if !ok {
			continue
		}
		c := candidate{start: time.Date(year, month, date, start.H, start.M, 0, 0, loc)}
		c.end = c.start.Add(duration)

		// The slot's nominal end is deliberately not enforced against the
		// computed end; only lead time and booking overlap gate a candidate.
		if !c.start.After(cutoff) {
			continue
		}
		if overlapsAny(c, bookings) {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// searchForward scans day by day after the target date, skipping unavailable
// dates, until enough fallback candidates are found or the horizon is
// exhausted. Bookings for the whole window were fetched in one batch by the
// caller, so the scan costs no extra I/O.
func (r *Resolver) searchForward(resource models.Resource, targetDay time.Time, duration time.Duration, cutoff time.Time, bookings []models.Booking, loc *time.Location) []string {
	var found []candidate
	for offset := 1; offset <= r.cfg.HorizonDays && len(found) < r.cfg.FallbackSlotCount; offset++ {
		day := targetDay.AddDate(0, 0, offset)
		civilDate := civiltime.CivilDateIn(day, loc)
		slots := effectiveSlots(resource, civilDate, day.Weekday())
		if len(slots) == 0 {
			continue
		}
		remaining := r.cfg.FallbackSlotCount - len(found)
		found = append(found, r.collectDay(resource, day, slots, duration, cutoff, bookings, loc, remaining)...)
	}
	return renderSlots(found, loc)
}

func renderSlots(candidates []candidate, loc *time.Location) []string {
	slots := make([]string, 0, len(candidates))
	for _, c := range candidates {
		slots = append(slots, civiltime.FormatInstant(c.start, loc))
	}
	return slots
}

func isWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}
