package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/Ahmad9bh/party2book-api/internal/pricing"
	"github.com/google/uuid"
)

const hostStatsVenueLimit = 200

type HostStats struct {
	HostID            string                       `json:"host_id"`
	TotalVenues       int                          `json:"total_venues"`
	TotalBookings     int                          `json:"total_bookings"`
	BookingsByStatus  map[models.BookingStatus]int `json:"bookings_by_status"`
	Revenue           float64                      `json:"revenue"`
	PendingChangeFees float64                      `json:"pending_change_fees"`
	UpcomingBookings  int                          `json:"upcoming_bookings"`
	MonthBookings     int                          `json:"month_bookings"`
	MonthRevenue      float64                      `json:"month_revenue"`
}

type StatsService struct {
	venuesRepo   models.VenuesRepo
	bookingsRepo models.BookingsRepo
}

func NewStatsService(venuesRepo models.VenuesRepo, bookingsRepo models.BookingsRepo) *StatsService {
	return &StatsService{
		venuesRepo:   venuesRepo,
		bookingsRepo: bookingsRepo,
	}
}

// GetHostStats aggregates a host's bookings into dashboard metrics. The
// current time is threaded in explicitly so the aggregation stays
// deterministic under test.
func (ss *StatsService) GetHostStats(ctx context.Context, hostId uuid.UUID, now time.Time, accessToken string) (*HostStats, error) {
	if hostId == uuid.Nil {
		return nil, fmt.Errorf("invalid host ID")
	}

	venues, _, err := ss.venuesRepo.ListVenuesByHost(ctx, hostId, 0, hostStatsVenueLimit, accessToken)
	if err != nil {
		return nil, err
	}

	venueIds := make([]string, 0, len(venues))
	for _, v := range venues {
		venueIds = append(venueIds, v.Id.String())
	}

	bookings, err := ss.bookingsRepo.ListBookingsByVenues(ctx, venueIds, accessToken)
	if err != nil {
		return nil, err
	}

	stats := AggregateBookingStats(bookings, now)
	stats.HostID = hostId.String()
	stats.TotalVenues = len(venues)
	return stats, nil
}

// AggregateBookingStats groups and sums booking records into the metrics the
// host dashboard renders. Revenue counts confirmed and completed bookings;
// pending change fees are additional costs still awaiting payment.
func AggregateBookingStats(bookings []*models.Booking, now time.Time) *HostStats {
	stats := &HostStats{
		BookingsByStatus: make(map[models.BookingStatus]int),
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	today := now.Format(pricing.DateLayout)

	for _, b := range bookings {
		stats.TotalBookings++
		stats.BookingsByStatus[b.Status]++

		billable := b.Status == models.BookingConfirmed || b.Status == models.BookingCompleted
		if billable {
			stats.Revenue += b.TotalAmount
		}
		if b.ChangeRequestPaymentStatus == models.ChangePaymentPending {
			stats.PendingChangeFees += b.AdditionalCost
		}

		day, err := time.Parse(pricing.DateLayout, b.EventDate)
		if err != nil {
			continue
		}
		if b.Status == models.BookingConfirmed && b.EventDate >= today {
			stats.UpcomingBookings++
		}
		if !day.Before(monthStart) && day.Before(monthEnd) {
			stats.MonthBookings++
			if billable {
				stats.MonthRevenue += b.TotalAmount
			}
		}
	}

	return stats
}
