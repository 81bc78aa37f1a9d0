package models

import (
	"time"

	"github.com/google/uuid"
)

type VenueStatus string

const (
	StatusPending  VenueStatus = "pending"
	StatusActive   VenueStatus = "active"
	StatusInactive VenueStatus = "inactive"
)

type DateRange struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD; optional, if empty = same as Start
}

type TimeRange struct {
	Start string `json:"start"` // HH:MM (24h)
	End   string `json:"end"`   // HH:MM (24h)
}

type Availability struct {
	// Host-defined blocks (days the venue is NOT available)
	UnavailableDates      []string    `json:"unavailable_dates,omitempty"`
	UnavailableDateRanges []DateRange `json:"unavailable_date_ranges,omitempty"`

	// Recurring open hours per weekday ("Mon".."Sun")
	WeeklyHours map[string][]TimeRange `json:"weekly_hours,omitempty"`

	Timezone string `json:"timezone,omitempty"` // e.g., "Asia/Dubai"
}

// IsDateUnavailable returns true if a given date is blocked by the host.
func (a Availability) IsDateUnavailable(d time.Time) bool {
	ds := d.Format("2006-01-02")
	for _, s := range a.UnavailableDates {
		if s == ds {
			return true
		}
	}

	for _, r := range a.UnavailableDateRanges {
		if r.Start == "" {
			continue
		}
		end := r.End
		if end == "" {
			end = r.Start
		}
		startT, err1 := time.Parse("2006-01-02", r.Start)
		endT, err2 := time.Parse("2006-01-02", end)
		if err1 != nil || err2 != nil {
			continue
		}
		// Inclusive range
		if !d.Before(startT) && !d.After(endT) {
			return true
		}
	}
	return false
}

type Venue struct {
	Id     uuid.UUID `db:"id" json:"id,omitempty"`
	HostId uuid.UUID `db:"host_id" json:"host_id,omitempty"`

	Name        string   `db:"name" json:"name,omitempty" validate:"required"`
	Description string   `db:"description" json:"description,omitempty"`
	VenueType   []string `db:"venue_type" json:"venue_type,omitempty"`
	Slug        string   `db:"slug" json:"slug,omitempty"`
	Region      string   `db:"region" json:"region,omitempty" validate:"required"`
	Location    string   `db:"location" json:"location,omitempty"`
	Capacity    int      `db:"capacity" json:"capacity,omitempty"`

	// PRICING & BOOKING
	PriceModel              string  `db:"price_model" json:"price_model,omitempty" validate:"required,oneof=HOURLY FIXED QUOTE_ONLY"`
	PricePerHour            float64 `db:"price_per_hour" json:"price_per_hour,omitempty"`
	MinBookingDurationHours int64   `db:"min_booking_duration_hours" json:"min_booking_duration_hours,omitempty"`
	FixedPricePackagePrice  float64 `db:"fixed_price_package_price" json:"fixed_price_package_price,omitempty"`
	PackageDurationHours    int64   `db:"package_duration_hours" json:"package_duration_hours,omitempty"`
	Currency                string  `db:"currency" json:"currency,omitempty" validate:"required,iso4217"`

	CancellationPolicy string       `db:"cancellation_policy" json:"cancellation_policy,omitempty"`
	Availability       Availability `db:"availability" json:"availability,omitempty"`
	Status             VenueStatus  `db:"status" json:"status,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}
