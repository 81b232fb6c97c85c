// Package civiltime holds the date/time primitives every scheduling
// computation in this service goes through. All reasoning happens in the
// resource's civil time, resolved through the IANA timezone database, never
// through the process-local zone or a static offset table.
package civiltime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrInvalidDateFormat is returned when a date input is not one of the
	// accepted encodings.
	ErrInvalidDateFormat = errors.New("invalid date format")
	// ErrUnknownTimezone is returned when an IANA zone name cannot be
	// resolved. This is a tenant configuration problem, not a client error.
	ErrUnknownTimezone = errors.New("unknown timezone")
)

const (
	// DateLayout is the canonical civil date encoding at the core boundary.
	DateLayout = "2006-01-02"
	// OffsetLayout renders an instant with the civil offset attached. This is
	// the only representation this service hands to collaborators.
	OffsetLayout = "2006-01-02T15:04:05-07:00"

	slashDateLayout = "02/01/2006"
)

var slashDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Location resolves an IANA zone name.
func Location(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return loc, nil
}

// NormalizeDate canonicalizes a date input to YYYY-MM-DD. It accepts the
// canonical form itself, DD/MM/YYYY, and ISO instants, which truncate to
// their encoded date part. Slash dates are always day-first: locale-specific
// month-first parsing belongs at the edge, not here.
func NormalizeDate(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidDateFormat)
	}

	if isoDatePattern.MatchString(trimmed) {
		parsed, err := time.Parse(DateLayout, trimmed)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, input)
		}
		return parsed.Format(DateLayout), nil
	}

	if slashDatePattern.MatchString(trimmed) {
		parsed, err := time.Parse(slashDateLayout, trimmed)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, input)
		}
		return parsed.Format(DateLayout), nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(DateLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, input)
}

// CivilDateIn reports the calendar date observed in loc at the given instant,
// regardless of the offset the instant was encoded with.
func CivilDateIn(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format(DateLayout)
}

// DayOfWeekIn reports the weekday observed in loc at the given instant.
func DayOfWeekIn(instant time.Time, loc *time.Location) time.Weekday {
	return instant.In(loc).Weekday()
}

// ToOffsetISOString renders the given civil moment as
// YYYY-MM-DDTHH:MM:SS±HH:MM, where the offset is the zone's UTC offset for
// that specific moment. Daylight-saving transitions are handled by the zone
// database.
func ToOffsetISOString(year int, month time.Month, day, hour, minute, second int, loc *time.Location) string {
	return time.Date(year, month, day, hour, minute, second, 0, loc).Format(OffsetLayout)
}

// FormatInstant renders an instant in loc's civil time with the offset
// attached.
func FormatInstant(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format(OffsetLayout)
}

// CivilMoment converts an instant into its civil components as observed in
// loc.
func CivilMoment(instant time.Time, loc *time.Location) (year int, month time.Month, day, hour, minute, second int) {
	local := instant.In(loc)
	year, month, day = local.Date()
	hour, minute, second = local.Clock()
	return
}

// DateAt builds the instant for midnight of a canonical YYYY-MM-DD date in
// loc.
func DateAt(civilDate string, loc *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, civilDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, civilDate)
	}
	return parsed, nil
}
