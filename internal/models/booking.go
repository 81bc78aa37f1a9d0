package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending               BookingStatus = "pending"
	BookingConfirmed             BookingStatus = "confirmed"
	BookingCancellationRequested BookingStatus = "cancellation_requested"
	BookingCancelled             BookingStatus = "cancelled"
	BookingCompleted             BookingStatus = "completed"
)

type ChangeRequestStatus string

const (
	ChangeRequestNone           ChangeRequestStatus = "none"
	ChangeRequestPending        ChangeRequestStatus = "pending"
	ChangeRequestPaymentPending ChangeRequestStatus = "payment_pending"
)

type ChangePaymentStatus string

const (
	ChangePaymentNotRequired ChangePaymentStatus = "not_required"
	ChangePaymentPending     ChangePaymentStatus = "pending"
	ChangePaymentPaid        ChangePaymentStatus = "paid"
)

type Booking struct {
	ID      uuid.UUID `db:"id" json:"id"`
	VenueId uuid.UUID `db:"venue_id" json:"venue_id"`
	UserId  uuid.UUID `db:"user_id" json:"user_id"`

	// Confirmed slot. Dates are YYYY-MM-DD, times are HH:MM (24h wall clock);
	// an end time at or before the start time means the booking runs overnight.
	EventDate string `db:"event_date" json:"event_date"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`

	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	Currency    string  `db:"currency" json:"currency"`

	Status BookingStatus `db:"status" json:"status"`

	// Change-request sub-state, populated only while a request is outstanding.
	ChangeRequestStatus        ChangeRequestStatus `db:"change_request_status" json:"change_request_status,omitempty"`
	RequestedEventDate         string              `db:"requested_event_date" json:"requested_event_date,omitempty"`
	RequestedStartTime         string              `db:"requested_start_time" json:"requested_start_time,omitempty"`
	RequestedEndTime           string              `db:"requested_end_time" json:"requested_end_time,omitempty"`
	ChangeRequestReason        string              `db:"change_request_reason" json:"change_request_reason,omitempty"`
	AdditionalCost             float64             `db:"additional_cost" json:"additional_cost,omitempty"`
	ChangeRequestPaymentStatus ChangePaymentStatus `db:"change_request_payment_status" json:"change_request_payment_status,omitempty"`

	CancellationReason string `db:"cancellation_reason" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasOutstandingChangeRequest reports whether a change request is already in
// flight. Only one may exist at a time.
func (b *Booking) HasOutstandingChangeRequest() bool {
	return b.ChangeRequestStatus == ChangeRequestPending ||
		b.ChangeRequestStatus == ChangeRequestPaymentPending
}

// CanRequestChange is the precondition guard for opening the change flow:
// the booking must be confirmed and no change request may be outstanding.
func (b *Booking) CanRequestChange() bool {
	return b.Status == BookingConfirmed && !b.HasOutstandingChangeRequest()
}

// CanRequestCancellation guards the guest-initiated cancellation flow.
func (b *Booking) CanRequestCancellation() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// RouteChangeRequest returns the lifecycle pair for a freshly priced change
// request: payment_pending when the change adds billable cost, otherwise
// pending with no payment required.
func RouteChangeRequest(additionalCost float64) (ChangeRequestStatus, ChangePaymentStatus) {
	if additionalCost > 0 {
		return ChangeRequestPaymentPending, ChangePaymentPending
	}
	return ChangeRequestPending, ChangePaymentNotRequired
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:               {BookingConfirmed, BookingCancelled},
	BookingConfirmed:             {BookingCancellationRequested, BookingCancelled, BookingCompleted},
	BookingCancellationRequested: {BookingCancelled, BookingConfirmed},
}

// CanTransition reports whether the primary booking status may move from one
// state to another. Cancelled and completed are terminal.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
