// Package outreach decides when a lead gets contacted again after a failed
// attempt, and drives the background dispatch of those attempts. The
// scheduler itself is a pure computation: the clock, the attempt data and the
// timezone all come in through the input.
package outreach

import (
	"math/rand"
	"time"

	"leadbook-service/internal/pkg/civiltime"
)

// Policy gathers the retry knobs that used to live as literals spread over
// the call sites.
type Policy struct {
	// MaxAttempts is the contact-attempt ceiling before switching channel.
	MaxAttempts int
	// Voicemail retries are fast and opportunistic: a uniform delay in
	// [VoicemailMinDelayMinutes, VoicemailMaxDelayMinutes], no clamping.
	VoicemailMinDelayMinutes int
	VoicemailMaxDelayMinutes int
	// Business window for every other retry, [start, end) hours, Mon-Sat.
	BusinessDayStartHour int
	BusinessDayEndHour   int
	// RetryBaseDelay is how far from "now" the clamped candidate starts.
	RetryBaseDelay time.Duration
	// AppointmentBuffer is the minimum separation kept between a retry call
	// and the lead's own upcoming appointment.
	AppointmentBuffer time.Duration
}

// DefaultPolicy mirrors the production values: 3 attempts, 15-25 minute
// voicemail redial, 08:00-20:00 Monday through Saturday, two-hour base delay
// and appointment separation.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:              3,
		VoicemailMinDelayMinutes: 15,
		VoicemailMaxDelayMinutes: 25,
		BusinessDayStartHour:     8,
		BusinessDayEndHour:       20,
		RetryBaseDelay:           2 * time.Hour,
		AppointmentBuffer:        2 * time.Hour,
	}
}

type NextAttemptInput struct {
	// AttemptNumber is the ordinal of the attempt being scheduled, starting
	// at 1 for the first retry.
	AttemptNumber int
	Outcome       string
	// NearestAppointment is the lead's closest future appointment, when one
	// exists.
	NearestAppointment *time.Time
	Now                time.Time
	Location           *time.Location
}

type NextAttemptResult struct {
	// Terminal signals the ceiling is exhausted and the caller should switch
	// outreach channel. NextRetryAt is zero in that case.
	Terminal    bool
	NextRetryAt time.Time
	// NextRetryLocal is NextRetryAt rendered with the civil offset attached.
	NextRetryLocal string
}

const outcomeVoicemail = "voicemail"

type RetryScheduler struct {
	policy  Policy
	randInt func(n int) int
}

func NewRetryScheduler(policy Policy) *RetryScheduler {
	if policy.MaxAttempts <= 0 {
		policy = DefaultPolicy()
	}
	return &RetryScheduler{policy: policy, randInt: rand.Intn}
}

// NextAttempt computes when the next contact attempt should happen, or
// reports Terminal when the ceiling is exceeded. Terminal wins over every
// outcome class.
func (s *RetryScheduler) NextAttempt(input NextAttemptInput) NextAttemptResult {
	if input.AttemptNumber > s.policy.MaxAttempts {
		return NextAttemptResult{Terminal: true}
	}

	loc := input.Location
	if loc == nil {
		loc = time.UTC
	}

	if input.Outcome == outcomeVoicemail {
		spread := s.policy.VoicemailMaxDelayMinutes - s.policy.VoicemailMinDelayMinutes
		delay := s.policy.VoicemailMinDelayMinutes
		if spread > 0 {
			delay += s.randInt(spread + 1)
		}
		next := input.Now.Add(time.Duration(delay) * time.Minute)
		return s.render(next, loc)
	}

	next := s.clampToBusinessHours(input.Now.Add(s.policy.RetryBaseDelay), loc)

	if input.NearestAppointment != nil {
		gap := input.NearestAppointment.Sub(next)
		if gap < 0 {
			gap = -gap
		}
		if gap < s.policy.AppointmentBuffer {
			// Keep the clamped target time, just move it past the lead's own
			// appointment day.
			next = s.nextBusinessDaySameClock(next, loc)
		}
	}

	return s.render(next, loc)
}

// NextSameTimeNextBusinessDay answers a lead asking for "the same time
// tomorrow": one calendar day forward, Sundays skipped, the current
// hour/minute preserved and clamped into the business window.
func (s *RetryScheduler) NextSameTimeNextBusinessDay(now time.Time, loc *time.Location) NextAttemptResult {
	if loc == nil {
		loc = time.UTC
	}
	next := s.nextBusinessDaySameClock(now, loc)
	return s.render(s.clampToBusinessHours(next, loc), loc)
}

// clampToBusinessHours moves an instant into [start, end) on a Monday-Saturday
// civil day. Sundays jump to Monday at opening; late evenings jump to the next
// business day at opening; early mornings clamp up to opening the same day.
func (s *RetryScheduler) clampToBusinessHours(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)

	if local.Weekday() == time.Sunday {
		return s.atOpening(local.AddDate(0, 0, 1), loc)
	}
	if local.Hour() >= s.policy.BusinessDayEndHour {
		next := local.AddDate(0, 0, 1)
		if next.Weekday() == time.Sunday {
			next = next.AddDate(0, 0, 1)
		}
		return s.atOpening(next, loc)
	}
	if local.Hour() < s.policy.BusinessDayStartHour {
		year, month, day := local.Date()
		return time.Date(year, month, day, s.policy.BusinessDayStartHour, 0, 0, 0, loc)
	}
	return local
}

// nextBusinessDaySameClock advances exactly one calendar day, skipping
// Sunday, keeping the time of day.
func (s *RetryScheduler) nextBusinessDaySameClock(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc).AddDate(0, 0, 1)
	if local.Weekday() == time.Sunday {
		local = local.AddDate(0, 0, 1)
	}
	return local
}

func (s *RetryScheduler) atOpening(day time.Time, loc *time.Location) time.Time {
	year, month, date := day.In(loc).Date()
	return time.Date(year, month, date, s.policy.BusinessDayStartHour, 0, 0, 0, loc)
}

func (s *RetryScheduler) render(next time.Time, loc *time.Location) NextAttemptResult {
	return NextAttemptResult{
		NextRetryAt:    next,
		NextRetryLocal: civiltime.FormatInstant(next, loc),
	}
}
