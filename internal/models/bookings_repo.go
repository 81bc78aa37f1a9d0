package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type BookingsRepo interface {
	CreateBooking(ctx context.Context, booking *Booking, accessToken string) (*Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID, accessToken string) (*Booking, error)
	ListBookingsByUser(ctx context.Context, userId uuid.UUID, offset, limit int, accessToken string) ([]*Booking, int, error)
	ListBookingsByVenues(ctx context.Context, venueIds []string, accessToken string) ([]*Booking, error)
	SubmitChangeRequest(ctx context.Context, bookingId uuid.UUID, fields map[string]interface{}, accessToken string) (*Booking, error)
	UpdateBookingFields(ctx context.Context, bookingId uuid.UUID, fields map[string]interface{}, accessToken string) (*Booking, error)
}

func (su *SupabaseRepo) CreateBooking(ctx context.Context, booking *Booking, accessToken string) (*Booking, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}

	bookingData := map[string]interface{}{
		"id":                            booking.ID,
		"venue_id":                      booking.VenueId,
		"user_id":                       booking.UserId,
		"event_date":                    booking.EventDate,
		"start_time":                    booking.StartTime,
		"end_time":                      booking.EndTime,
		"total_amount":                  booking.TotalAmount,
		"currency":                      booking.Currency,
		"status":                        booking.Status,
		"change_request_status":         ChangeRequestNone,
		"change_request_payment_status": ChangePaymentNotRequired,
		"created_at":                    booking.CreatedAt,
		"updated_at":                    booking.UpdatedAt,
	}

	raw, count, err := client.From(BookingsTable).
		Insert(bookingData, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %v", err)
	}

	created, err := decodeBookingRows(raw)
	if err != nil {
		return nil, err
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no booking data returned after insert")
	}
	return created[0], nil
}

func (su *SupabaseRepo) GetBookingByID(ctx context.Context, id uuid.UUID, accessToken string) (*Booking, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid booking ID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(BookingsTable).
		Select("*", "exact", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %v", err)
	}

	bookings, err := decodeBookingRows(raw)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}
	return bookings[0], nil
}

func (su *SupabaseRepo) ListBookingsByUser(ctx context.Context, userId uuid.UUID, offset, limit int, accessToken string) ([]*Booking, int, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, 0, err
	}

	raw, count, err := client.From(BookingsTable).
		Select("*", "exact", false).
		Eq("user_id", userId.String()).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %v", err)
	}

	bookings, err := decodeBookingRows(raw)
	if err != nil {
		return nil, 0, err
	}
	return bookings, int(count), nil
}

func (su *SupabaseRepo) ListBookingsByVenues(ctx context.Context, venueIds []string, accessToken string) ([]*Booking, error) {
	if len(venueIds) == 0 {
		return []*Booking{}, nil
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(BookingsTable).
		Select("*", "exact", false).
		In("venue_id", venueIds).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list venue bookings: %v", err)
	}

	return decodeBookingRows(raw)
}

// SubmitChangeRequest writes the change-request fields as a conditional
// update: the row is matched on id AND confirmed status AND no outstanding
// change request, so two racing submissions cannot both land. Zero matched
// rows surfaces as ErrChangeConflict.
func (su *SupabaseRepo) SubmitChangeRequest(ctx context.Context, bookingId uuid.UUID, fields map[string]interface{}, accessToken string) (*Booking, error) {
	if bookingId == uuid.Nil {
		return nil, fmt.Errorf("invalid booking ID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}

	raw, count, err := client.From(BookingsTable).
		Update(fields, "", "exact").
		Eq("id", bookingId.String()).
		Eq("status", string(BookingConfirmed)).
		Or(fmt.Sprintf("change_request_status.is.null,change_request_status.eq.%s", ChangeRequestNone), "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to submit change request: %v", err)
	}

	if count == 0 {
		return nil, ErrChangeConflict
	}

	updated, err := decodeBookingRows(raw)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, ErrChangeConflict
	}
	return updated[0], nil
}

func (su *SupabaseRepo) UpdateBookingFields(ctx context.Context, bookingId uuid.UUID, fields map[string]interface{}, accessToken string) (*Booking, error) {
	if bookingId == uuid.Nil {
		return nil, fmt.Errorf("invalid booking ID")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}

	raw, count, err := client.From(BookingsTable).
		Update(fields, "", "exact").
		Eq("id", bookingId.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %v", err)
	}
	if count == 0 {
		return nil, ErrBookingNotFound
	}

	updated, err := decodeBookingRows(raw)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, ErrBookingNotFound
	}
	return updated[0], nil
}

func decodeBookingRows(raw []byte) ([]*Booking, error) {
	// Supabase returns an array even for single results
	var bookings []*Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking rows: %v", err)
	}
	return bookings, nil
}
