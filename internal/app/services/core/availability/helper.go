package availability

import (
	"strconv"
	"strings"
	"time"

	"leadbook-service/internal/app/models"
)

// dayName maps a weekday to the lowercase key stored in WeeklySchedule.
func dayName(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return models.DayMonday
	case time.Tuesday:
		return models.DayTuesday
	case time.Wednesday:
		return models.DayWednesday
	case time.Thursday:
		return models.DayThursday
	case time.Friday:
		return models.DayFriday
	case time.Saturday:
		return models.DaySaturday
	}
	return models.DaySunday
}

// parseClockFlex parses "HH:MM", tolerating "." as separator and stray
// whitespace, the way schedules arrive from older dashboard exports.
func parseClockFlex(s string) (clock, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", ":")
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return clock{}, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return clock{}, false
	}
	return clock{H: h, M: m}, true
}

// overrideFor returns the first override stored for the given date. At most
// one override per date is authoritative; when duplicates exist the first
// match in stored order wins.
func overrideFor(overrides []models.DateOverride, civilDate string) *models.DateOverride {
	for i := range overrides {
		if overrides[i].Date == civilDate {
			return &overrides[i]
		}
	}
	return nil
}

// effectiveSlots resolves the schedule that governs one civil date. An
// available or modified_hours override replaces the weekday's slots entirely,
// even on a disabled weekday; an unavailable override empties the day; with
// no override the weekday entry applies when enabled.
func effectiveSlots(resource models.Resource, civilDate string, weekday time.Weekday) []models.TimeSlot {
	if override := overrideFor(resource.Overrides, civilDate); override != nil {
		switch override.Type {
		case models.OverrideTypeUnavailable:
			return nil
		case models.OverrideTypeAvailable, models.OverrideTypeModifiedHours:
			return override.TimeSlots
		}
		return nil
	}

	day, ok := resource.WeeklySchedule[dayName(weekday)]
	if !ok || !day.Enabled {
		return nil
	}
	return day.TimeSlots
}

// overlapsAny reports whether the half-open candidate interval intersects any
// committed booking interval.
func overlapsAny(c candidate, bookings []models.Booking) bool {
	for _, b := range bookings {
		if c.start.Before(b.EndAt) && c.end.After(b.StartAt) {
			return true
		}
	}
	return false
}
