package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteChangeRequest(t *testing.T) {
	status, payment := RouteChangeRequest(205)
	assert.Equal(t, ChangeRequestPaymentPending, status)
	assert.Equal(t, ChangePaymentPending, payment)

	status, payment = RouteChangeRequest(0)
	assert.Equal(t, ChangeRequestPending, status)
	assert.Equal(t, ChangePaymentNotRequired, payment)
}

func TestCanRequestChange(t *testing.T) {
	b := &Booking{Status: BookingConfirmed}
	assert.True(t, b.CanRequestChange())

	b.ChangeRequestStatus = ChangeRequestPending
	assert.False(t, b.CanRequestChange())

	b.ChangeRequestStatus = ChangeRequestPaymentPending
	assert.False(t, b.CanRequestChange())

	b = &Booking{Status: BookingPending}
	assert.False(t, b.CanRequestChange())
}

func TestHasOutstandingChangeRequestTreatsEmptyAsNone(t *testing.T) {
	// Rows created before the change flow existed have a null status.
	b := &Booking{Status: BookingConfirmed}
	assert.False(t, b.HasOutstandingChangeRequest())

	b.ChangeRequestStatus = ChangeRequestNone
	assert.False(t, b.HasOutstandingChangeRequest())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(BookingPending, BookingConfirmed))
	assert.True(t, CanTransition(BookingConfirmed, BookingCancellationRequested))
	assert.True(t, CanTransition(BookingCancellationRequested, BookingConfirmed))
	assert.True(t, CanTransition(BookingCancellationRequested, BookingCancelled))

	// Terminal states go nowhere.
	assert.False(t, CanTransition(BookingCancelled, BookingConfirmed))
	assert.False(t, CanTransition(BookingCompleted, BookingConfirmed))

	assert.False(t, CanTransition(BookingPending, BookingCompleted))
}
