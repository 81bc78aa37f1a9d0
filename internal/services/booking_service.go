package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/Ahmad9bh/party2book-api/internal/pricing"
	"github.com/google/uuid"
)

type BookingService struct {
	bookingsRepo models.BookingsRepo
	venuesRepo   models.VenuesRepo
	activityRepo models.ActivityRepo
}

func NewBookingService(bookingsRepo models.BookingsRepo, venuesRepo models.VenuesRepo, activityRepo models.ActivityRepo) *BookingService {
	return &BookingService{
		bookingsRepo: bookingsRepo,
		venuesRepo:   venuesRepo,
		activityRepo: activityRepo,
	}
}

type CreateBookingInput struct {
	VenueId   uuid.UUID `json:"venue_id" validate:"required"`
	EventDate string    `json:"event_date" validate:"required"`
	StartTime string    `json:"start_time" validate:"required"`
	EndTime   string    `json:"end_time" validate:"required"`
}

func (bs *BookingService) CreateBooking(ctx context.Context, input *CreateBookingInput, userId uuid.UUID, accessToken string) (*models.Booking, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid booking data provided: %v", err)
	}

	venue, err := bs.venuesRepo.GetVenueByID(ctx, input.VenueId)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, fmt.Errorf("venue not found")
	}
	if venue.Status != models.StatusActive {
		return nil, fmt.Errorf("venue is not open for bookings")
	}
	if venue.PriceModel != "HOURLY" {
		return nil, fmt.Errorf("only hourly-priced venues support online booking")
	}

	day, err := time.Parse(pricing.DateLayout, input.EventDate)
	if err != nil {
		return nil, fmt.Errorf("invalid event date: %v", err)
	}
	if venue.Availability.IsDateUnavailable(day) {
		return nil, fmt.Errorf("venue is not available on %s", input.EventDate)
	}

	hours, err := pricing.DurationHours(input.EventDate, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	if venue.MinBookingDurationHours > 0 && hours < float64(venue.MinBookingDurationHours) {
		return nil, fmt.Errorf("booking must be at least %d hours", venue.MinBookingDurationHours)
	}

	now := time.Now()
	booking := &models.Booking{
		ID:          uuid.New(),
		VenueId:     venue.Id,
		UserId:      userId,
		EventDate:   input.EventDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		TotalAmount: hours * venue.PricePerHour,
		Currency:    venue.Currency,
		Status:      models.BookingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := bs.bookingsRepo.CreateBooking(ctx, booking, accessToken)
	if err != nil {
		return nil, err
	}

	bs.record(ctx, &models.BookingActivity{
		BookingID: created.ID.String(),
		VenueID:   created.VenueId.String(),
		ActorID:   userId.String(),
		Action:    models.ActionBookingCreated,
		ToStatus:  string(created.Status),
		Amount:    created.TotalAmount,
		Currency:  created.Currency,
	})

	return created, nil
}

func (bs *BookingService) GetBooking(ctx context.Context, id uuid.UUID, accessToken string) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid booking ID")
	}
	return bs.bookingsRepo.GetBookingByID(ctx, id, accessToken)
}

func (bs *BookingService) ListUserBookings(ctx context.Context, userId uuid.UUID, offset, limit int, accessToken string) ([]*models.Booking, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	if userId == uuid.Nil {
		return nil, 0, fmt.Errorf("invalid user ID")
	}
	return bs.bookingsRepo.ListBookingsByUser(ctx, userId, offset, limit, accessToken)
}

// ListVenueBookings returns every booking against one venue, restricted to
// the venue's host unless the caller is an admin.
func (bs *BookingService) ListVenueBookings(ctx context.Context, venueId, callerId uuid.UUID, isAdmin bool, accessToken string) ([]*models.Booking, error) {
	if venueId == uuid.Nil {
		return nil, fmt.Errorf("invalid venue ID")
	}

	venue, err := bs.venuesRepo.GetVenueByID(ctx, venueId)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, fmt.Errorf("venue not found")
	}
	if venue.HostId != callerId && !isAdmin {
		return nil, fmt.Errorf("access denied: not the venue host")
	}

	return bs.bookingsRepo.ListBookingsByVenues(ctx, []string{venueId.String()}, accessToken)
}

func (bs *BookingService) GetBookingHistory(ctx context.Context, bookingId uuid.UUID, limit int) ([]*models.BookingActivity, error) {
	if bookingId == uuid.Nil {
		return nil, fmt.Errorf("invalid booking ID")
	}
	if limit <= 0 {
		limit = 50
	}
	return bs.activityRepo.GetBookingHistory(ctx, bookingId.String(), limit)
}

// ChangeRequestInput is a guest's proposal to move a confirmed booking to a
// new date or time slot.
type ChangeRequestInput struct {
	RequestedEventDate string `json:"requested_event_date"`
	RequestedStartTime string `json:"requested_start_time"`
	RequestedEndTime   string `json:"requested_end_time"`
	Reason             string `json:"reason"`
}

// PaymentHandoff is the payload passed to the payment-collection flow when a
// change adds billable cost. The amount is in minor currency units.
type PaymentHandoff struct {
	BookingID   uuid.UUID `json:"booking_id"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
}

// ChangeOutcome is returned after a change request is accepted for review.
type ChangeOutcome struct {
	Booking    *models.Booking     `json:"booking"`
	Quote      pricing.ChangeQuote `json:"quote"`
	PaymentDue *PaymentHandoff     `json:"payment_due,omitempty"`
}

// PrepareChangeRequest enforces the precondition guard before the change form
// is shown: the booking must be confirmed and have no outstanding request.
func (bs *BookingService) PrepareChangeRequest(ctx context.Context, bookingId uuid.UUID, accessToken string) (*models.Booking, *models.Venue, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingId, accessToken)
	if err != nil {
		return nil, nil, err
	}
	if booking.HasOutstandingChangeRequest() {
		return nil, nil, models.ErrChangeRequestOutstanding
	}
	if booking.Status != models.BookingConfirmed {
		return nil, nil, models.ErrBookingNotConfirmed
	}

	venue, err := bs.venuesRepo.GetVenueByID(ctx, booking.VenueId)
	if err != nil {
		return nil, nil, err
	}
	if venue == nil {
		return nil, nil, fmt.Errorf("venue not found for booking")
	}
	return booking, venue, nil
}

// SubmitChangeRequest runs the full change flow: precondition guard, field
// validation, duration and price recalculation, lifecycle routing, then a
// single conditional update against the store. Validation failures return a
// *models.ValidationError before any write happens.
func (bs *BookingService) SubmitChangeRequest(ctx context.Context, bookingId uuid.UUID, input *ChangeRequestInput, actorId uuid.UUID, accessToken string) (*ChangeOutcome, error) {
	booking, venue, err := bs.PrepareChangeRequest(ctx, bookingId, accessToken)
	if err != nil {
		return nil, err
	}

	fieldErrors := validatePresence(input)
	if len(fieldErrors) > 0 {
		return nil, &models.ValidationError{Fields: fieldErrors}
	}

	originalHours, err := pricing.DurationHours(booking.EventDate, booking.StartTime, booking.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to compute current booking duration: %v", err)
	}
	newHours, err := pricing.DurationHours(input.RequestedEventDate, input.RequestedStartTime, input.RequestedEndTime)
	if err != nil {
		fieldErrors["requested_end_time"] = "invalid date or time"
		return nil, &models.ValidationError{Fields: fieldErrors}
	}

	quote := pricing.QuoteChange(originalHours, newHours, venue.PricePerHour)

	fieldErrors = ValidateChangeRequest(input, quote.HoursDifference)
	if day, parseErr := time.Parse(pricing.DateLayout, input.RequestedEventDate); parseErr == nil {
		if venue.Availability.IsDateUnavailable(day) {
			fieldErrors["requested_event_date"] = "venue is not available on the requested date"
		}
	}
	if len(fieldErrors) > 0 {
		return nil, &models.ValidationError{Fields: fieldErrors}
	}

	requestStatus, paymentStatus := models.RouteChangeRequest(quote.AdditionalCost)

	fields := map[string]interface{}{
		"change_request_status":         requestStatus,
		"requested_event_date":          input.RequestedEventDate,
		"requested_start_time":          input.RequestedStartTime,
		"requested_end_time":            input.RequestedEndTime,
		"change_request_reason":         strings.TrimSpace(input.Reason),
		"additional_cost":               quote.AdditionalCost,
		"change_request_payment_status": paymentStatus,
		"updated_at":                    time.Now(),
	}

	updated, err := bs.bookingsRepo.SubmitChangeRequest(ctx, bookingId, fields, accessToken)
	if err != nil {
		return nil, err
	}

	bs.record(ctx, &models.BookingActivity{
		BookingID:  updated.ID.String(),
		VenueID:    updated.VenueId.String(),
		ActorID:    actorId.String(),
		Action:     models.ActionChangeRequested,
		FromStatus: string(models.ChangeRequestNone),
		ToStatus:   string(requestStatus),
		Amount:     quote.AdditionalCost,
		Currency:   updated.Currency,
		Note:       strings.TrimSpace(input.Reason),
	})

	outcome := &ChangeOutcome{Booking: updated, Quote: quote}
	if quote.RequiresPayment() {
		outcome.PaymentDue = &PaymentHandoff{
			BookingID:   updated.ID,
			AmountMinor: pricing.ToMinorUnits(quote.AdditionalCost),
			Currency:    updated.Currency,
		}
	}
	return outcome, nil
}

// ApproveChangeRequest is the venue owner accepting an outstanding change:
// the requested slot becomes the confirmed slot, any additional cost rolls
// into the booking total, and the change sub-state resets.
func (bs *BookingService) ApproveChangeRequest(ctx context.Context, bookingId, actorId uuid.UUID, accessToken string) (*models.Booking, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingId, accessToken)
	if err != nil {
		return nil, err
	}
	if !booking.HasOutstandingChangeRequest() {
		return nil, models.ErrNoChangeRequestOutstanding
	}
	if booking.ChangeRequestStatus == models.ChangeRequestPaymentPending &&
		booking.ChangeRequestPaymentStatus != models.ChangePaymentPaid {
		return nil, fmt.Errorf("change request payment has not completed")
	}

	fields := map[string]interface{}{
		"event_date":                    booking.RequestedEventDate,
		"start_time":                    booking.RequestedStartTime,
		"end_time":                      booking.RequestedEndTime,
		"total_amount":                  booking.TotalAmount + booking.AdditionalCost,
		"change_request_status":         models.ChangeRequestNone,
		"requested_event_date":          nil,
		"requested_start_time":          nil,
		"requested_end_time":            nil,
		"change_request_reason":         nil,
		"additional_cost":               0,
		"change_request_payment_status": models.ChangePaymentNotRequired,
		"updated_at":                    time.Now(),
	}

	updated, err := bs.bookingsRepo.UpdateBookingFields(ctx, bookingId, fields, accessToken)
	if err != nil {
		return nil, err
	}

	bs.record(ctx, &models.BookingActivity{
		BookingID:  updated.ID.String(),
		VenueID:    updated.VenueId.String(),
		ActorID:    actorId.String(),
		Action:     models.ActionChangeApproved,
		FromStatus: string(booking.ChangeRequestStatus),
		ToStatus:   string(models.ChangeRequestNone),
		Amount:     booking.AdditionalCost,
		Currency:   booking.Currency,
	})

	return updated, nil
}

// RejectChangeRequest clears the change sub-state without touching the
// confirmed slot. Refunding an already captured additional payment is owned
// by the payment flow, not here.
func (bs *BookingService) RejectChangeRequest(ctx context.Context, bookingId, actorId uuid.UUID, reason, accessToken string) (*models.Booking, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingId, accessToken)
	if err != nil {
		return nil, err
	}
	if !booking.HasOutstandingChangeRequest() {
		return nil, models.ErrNoChangeRequestOutstanding
	}

	fields := map[string]interface{}{
		"change_request_status":         models.ChangeRequestNone,
		"requested_event_date":          nil,
		"requested_start_time":          nil,
		"requested_end_time":            nil,
		"change_request_reason":         nil,
		"additional_cost":               0,
		"change_request_payment_status": models.ChangePaymentNotRequired,
		"updated_at":                    time.Now(),
	}

	updated, err := bs.bookingsRepo.UpdateBookingFields(ctx, bookingId, fields, accessToken)
	if err != nil {
		return nil, err
	}

	bs.record(ctx, &models.BookingActivity{
		BookingID:  updated.ID.String(),
		VenueID:    updated.VenueId.String(),
		ActorID:    actorId.String(),
		Action:     models.ActionChangeRejected,
		FromStatus: string(booking.ChangeRequestStatus),
		ToStatus:   string(models.ChangeRequestNone),
		Note:       reason,
	})

	return updated, nil
}

// ConfirmChangePayment marks the additional payment captured. The request
// stays outstanding until the owner approves it.
func (bs *BookingService) ConfirmChangePayment(ctx context.Context, bookingId, actorId uuid.UUID, accessToken string) (*models.Booking, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingId, accessToken)
	if err != nil {
		return nil, err
	}
	if booking.ChangeRequestStatus != models.ChangeRequestPaymentPending {
		return nil, fmt.Errorf("booking has no change request awaiting payment")
	}
	if booking.ChangeRequestPaymentStatus == models.ChangePaymentPaid {
		return booking, nil
	}

	fields := map[string]interface{}{
		"change_request_payment_status": models.ChangePaymentPaid,
		"updated_at":                    time.Now(),
	}

	updated, err := bs.bookingsRepo.UpdateBookingFields(ctx, bookingId, fields, accessToken)
	if err != nil {
		return nil, err
	}

	bs.record(ctx, &models.BookingActivity{
		BookingID: updated.ID.String(),
		VenueID:   updated.VenueId.String(),
		ActorID:   actorId.String(),
		Action:    models.ActionChangePaymentComplete,
		Amount:    booking.AdditionalCost,
		Currency:  booking.Currency,
	})

	return updated, nil
}

// RequestCancellation moves a booking into cancellation_requested, pending
// owner review.
func (bs *BookingService) RequestCancellation(ctx context.Context, bookingId, actorId uuid.UUID, reason, accessToken string) (*models.Booking, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, &models.ValidationError{Fields: map[string]string{"reason": "cancellation reason is required"}}
	}

	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingId, accessToken)
	if err != nil {
		return nil, err
	}
	if booking.HasOutstandingChangeRequest() {
		return nil, models.ErrChangeRequestOutstanding
	}
	if !booking.CanRequestCancellation() {
		return nil, fmt.Errorf("booking in status %q cannot be cancelled", booking.Status)
	}

	// Pending bookings cancel immediately; confirmed ones go through owner review.
	target := models.BookingCancellationRequested
	action := models.ActionCancellationRequested
	if booking.Status == models.BookingPending {
		target = models.BookingCancelled
		action = models.ActionBookingCancelled
	}
	if !models.CanTransition(booking.Status, target) {
		return nil, fmt.Errorf("booking in status %q cannot move to %q", booking.Status, target)
	}

	fields := map[string]interface{}{
		"status":              target,
		"cancellation_reason": strings.TrimSpace(reason),
		"updated_at":          time.Now(),
	}

	updated, err := bs.bookingsRepo.UpdateBookingFields(ctx, bookingId, fields, accessToken)
	if err != nil {
		return nil, err
	}

	bs.record(ctx, &models.BookingActivity{
		BookingID:  updated.ID.String(),
		VenueID:    updated.VenueId.String(),
		ActorID:    actorId.String(),
		Action:     action,
		FromStatus: string(booking.Status),
		ToStatus:   string(target),
		Note:       strings.TrimSpace(reason),
	})

	return updated, nil
}

// ResolveCancellation is the owner accepting or declining a cancellation
// request. Declining returns the booking to confirmed.
func (bs *BookingService) ResolveCancellation(ctx context.Context, bookingId, actorId uuid.UUID, accept bool, accessToken string) (*models.Booking, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingId, accessToken)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingCancellationRequested {
		return nil, fmt.Errorf("booking has no pending cancellation request")
	}

	target := models.BookingConfirmed
	if accept {
		target = models.BookingCancelled
	}

	fields := map[string]interface{}{
		"status":     target,
		"updated_at": time.Now(),
	}
	if !accept {
		fields["cancellation_reason"] = nil
	}

	updated, err := bs.bookingsRepo.UpdateBookingFields(ctx, bookingId, fields, accessToken)
	if err != nil {
		return nil, err
	}

	action := models.ActionBookingCancelled
	if !accept {
		action = models.ActionCancellationDeclined
	}
	bs.record(ctx, &models.BookingActivity{
		BookingID:  updated.ID.String(),
		VenueID:    updated.VenueId.String(),
		ActorID:    actorId.String(),
		Action:     action,
		FromStatus: string(models.BookingCancellationRequested),
		ToStatus:   string(target),
	})

	return updated, nil
}

// record writes an audit entry. Audit failures never fail the transition
// that already committed.
func (bs *BookingService) record(ctx context.Context, activity *models.BookingActivity) {
	if bs.activityRepo == nil {
		return
	}
	_ = bs.activityRepo.RecordActivity(ctx, activity)
}
