package pricing

import (
	"fmt"
	"math"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// PlatformFeeRate is the surcharge applied to additional cost generated
	// by a booking change. Distinct from the original booking's platform fee.
	PlatformFeeRate = 0.025
)

// ClockMinutes parses an "HH:MM" wall-clock string into minutes since midnight.
func ClockMinutes(clock string) (int, error) {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DurationHours computes the billable duration in hours for a booking on the
// given date with the given start and end wall-clock times. An end time at or
// before the start time is treated as crossing midnight and gains 24 hours.
func DurationHours(date, start, end string) (float64, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	startMin, err := ClockMinutes(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ClockMinutes(end)
	if err != nil {
		return 0, err
	}

	startAt := day.Add(time.Duration(startMin) * time.Minute)
	endAt := day.Add(time.Duration(endMin) * time.Minute)
	if !endAt.After(startAt) {
		// Overnight booking: the literal end time precedes the start time,
		// so the booking spans into the next day.
		endAt = endAt.Add(24 * time.Hour)
	}

	minutes := endAt.Sub(startAt).Minutes()
	if minutes <= 0 {
		return 0, nil
	}
	return minutes / 60, nil
}

// ChangeQuote is the outcome of pricing a booking change request.
type ChangeQuote struct {
	HoursDifference float64 `json:"hours_difference"`
	AdditionalPrice float64 `json:"additional_price"`
	PlatformFee     float64 `json:"platform_fee"`
	AdditionalCost  float64 `json:"additional_cost"`
}

// RequiresPayment reports whether the quoted change adds billable cost.
func (q ChangeQuote) RequiresPayment() bool {
	return q.AdditionalCost > 0
}

// QuoteChange prices a requested duration change against an hourly rate.
// A reduction in duration never produces a charge or a refund here; the
// quote is zero whenever the new duration does not exceed the original.
// Pure function: no rounding is applied, callers round at the payment
// boundary via ToMinorUnits.
func QuoteChange(originalHours, newHours, pricePerHour float64) ChangeQuote {
	diff := newHours - originalHours
	quote := ChangeQuote{HoursDifference: diff}
	if diff <= 0 {
		return quote
	}

	quote.AdditionalPrice = diff * pricePerHour
	quote.PlatformFee = quote.AdditionalPrice * PlatformFeeRate
	quote.AdditionalCost = quote.AdditionalPrice + quote.PlatformFee
	return quote
}

// ToMinorUnits converts a decimal amount to the smallest currency unit
// (cents) using standard rounding. This is the single canonical rounding
// point before an amount is handed to the payment flow.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
