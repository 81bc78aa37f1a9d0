package services

import (
	"testing"
	"time"

	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAggregateBookingStats(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	bookings := []*models.Booking{
		{EventDate: "2024-03-20", Status: models.BookingConfirmed, TotalAmount: 400},
		{EventDate: "2024-03-02", Status: models.BookingCompleted, TotalAmount: 250},
		{EventDate: "2024-03-10", Status: models.BookingCancelled, TotalAmount: 300},
		{EventDate: "2024-04-01", Status: models.BookingConfirmed, TotalAmount: 500,
			ChangeRequestPaymentStatus: models.ChangePaymentPending, AdditionalCost: 205},
		{EventDate: "2024-02-28", Status: models.BookingPending, TotalAmount: 150},
	}

	stats := AggregateBookingStats(bookings, now)

	assert.Equal(t, 5, stats.TotalBookings)
	assert.Equal(t, 2, stats.BookingsByStatus[models.BookingConfirmed])
	assert.Equal(t, 1, stats.BookingsByStatus[models.BookingCancelled])

	// Confirmed + completed only.
	assert.InDelta(t, 1150.0, stats.Revenue, 1e-9)
	assert.InDelta(t, 205.0, stats.PendingChangeFees, 1e-9)

	// Confirmed bookings on or after March 15.
	assert.Equal(t, 2, stats.UpcomingBookings)

	// March bookings regardless of status; March revenue from billable ones.
	assert.Equal(t, 3, stats.MonthBookings)
	assert.InDelta(t, 650.0, stats.MonthRevenue, 1e-9)
}

func TestAggregateBookingStatsEmpty(t *testing.T) {
	stats := AggregateBookingStats(nil, time.Now())
	assert.Zero(t, stats.TotalBookings)
	assert.Zero(t, stats.Revenue)
	assert.Empty(t, stats.BookingsByStatus)
}
