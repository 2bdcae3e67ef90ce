// Package booking implements the three-step move booking wizard: route,
// schedule, and review.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/pricing"
	"github.com/erazemk/hamanasi/internal/routing"
	"github.com/shopspring/decimal"
)

// Wizard steps.
const (
	StepRoute    = 1
	StepSchedule = 2
	StepReview   = 3
)

// MoveAtLayout is the datetime-local form value layout.
const MoveAtLayout = "2006-01-02T15:04"

// Business hours for a move start, inclusive.
const (
	OpeningHour = 9
	ClosingHour = 17
)

// Validation errors. Message turns them into the wording shown on the form.
var (
	ErrMoveTimeMissing  = errors.New("move time not set")
	ErrMoveTimeInvalid  = errors.New("move time not understood")
	ErrMoveTimeInPast   = errors.New("move time is not in the future")
	ErrOutsideHours     = errors.New("move time outside business hours")
	ErrHouseTypeMissing = errors.New("house type not selected")
	ErrAddressesMissing = errors.New("both addresses are required")
	ErrDistanceMissing  = errors.New("route distance not calculated")
)

// GenericMessage is shown for failures without a more specific text.
const GenericMessage = "Something went wrong. Please try again."

// Message returns the user-facing text for a wizard validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMoveTimeInPast):
		return "Please select a future date and time."
	case errors.Is(err, ErrOutsideHours):
		return "Time must be between 9:00 and 17:00."
	case errors.Is(err, ErrMoveTimeMissing), errors.Is(err, ErrMoveTimeInvalid):
		return "Please choose a move date and time."
	case errors.Is(err, ErrHouseTypeMissing):
		return "Please select a house type."
	case errors.Is(err, ErrAddressesMissing):
		return "Please enter both the pickup and destination addresses."
	case errors.Is(err, ErrDistanceMissing):
		return "Calculate the route before continuing."
	case errors.Is(err, ErrStaleDraft):
		return "Your booking changed in another window. Please review it and try again."
	case errors.Is(err, ErrStepMismatch):
		return "This form was out of date and has been refreshed."
	case errors.Is(err, routing.ErrUnavailable):
		return "Route calculation is unavailable right now."
	case errors.Is(err, routing.ErrNoRoute):
		return "No driving route was found between these addresses."
	}
	return GenericMessage
}

// ValidateMoveTime accepts start times strictly after now whose wall clock
// falls between 09:00 and 17:00 inclusive. Seconds are ignored.
func ValidateMoveTime(t, now time.Time) error {
	if !t.After(now) {
		return ErrMoveTimeInPast
	}
	hour, minute := t.Hour(), t.Minute()
	if hour < OpeningHour || hour > ClosingHour || (hour == ClosingHour && minute > 0) {
		return ErrOutsideHours
	}
	return nil
}

// ParseMoveAt reads a datetime-local value as wall time in loc.
func ParseMoveAt(value string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, ErrMoveTimeMissing
	}
	t, err := time.ParseInLocation(MoveAtLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMoveTimeInvalid, value)
	}
	return t, nil
}

// RouteError reports why step 1 cannot be left, or nil.
func RouteError(d *model.BookingDraft) error {
	if strings.TrimSpace(d.FromAddress) == "" || strings.TrimSpace(d.ToAddress) == "" {
		return ErrAddressesMissing
	}
	if d.DistanceKm == nil {
		return ErrDistanceMissing
	}
	return nil
}

// ScheduleError reports why step 2 cannot be left, or nil.
func ScheduleError(d *model.BookingDraft, loc *time.Location, now time.Time) error {
	t, err := ParseMoveAt(d.MoveAt, loc)
	if err != nil {
		return err
	}
	if err := ValidateMoveTime(t, now); err != nil {
		return err
	}
	if _, ok := pricing.Lookup(d.HouseType); !ok {
		return ErrHouseTypeMissing
	}
	return nil
}

// StepError reports why the draft's current step cannot be continued.
func StepError(d *model.BookingDraft, loc *time.Location, now time.Time) error {
	switch d.Step {
	case StepRoute:
		return RouteError(d)
	case StepSchedule:
		return ScheduleError(d, loc, now)
	case StepReview:
		if err := RouteError(d); err != nil {
			return err
		}
		return ScheduleError(d, loc, now)
	}
	return fmt.Errorf("unknown step %d", d.Step)
}

// CanContinue reports whether the draft's current step is complete.
func CanContinue(d *model.BookingDraft, loc *time.Location, now time.Time) bool {
	return StepError(d, loc, now) == nil
}

// SetAddresses updates the route endpoints. Any change invalidates the
// computed distance and starts a new generation; it reports whether the
// addresses changed.
func SetAddresses(d *model.BookingDraft, from, to string) bool {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == d.FromAddress && to == d.ToAddress {
		return false
	}
	d.FromAddress = from
	d.ToAddress = to
	d.DistanceKm = nil
	d.Generation++
	return true
}

// Price derives the estimate from the draft's distance and house type. It
// reports false while either is missing.
func Price(d *model.BookingDraft) (decimal.Decimal, bool) {
	if d.DistanceKm == nil {
		return decimal.Zero, false
	}
	price, err := pricing.Estimate(d.HouseType, *d.DistanceKm)
	if err != nil {
		return decimal.Zero, false
	}
	return price, true
}
