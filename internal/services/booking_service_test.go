package services

import (
	"context"
	"testing"
	"time"

	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements the repo interfaces in memory, mirroring the
// conditional-update semantics of the real store.
type fakeStore struct {
	bookings    map[uuid.UUID]*models.Booking
	venues      map[uuid.UUID]*models.Venue
	activities  []*models.BookingActivity
	submitCalls int

	// staleRead, when set, is served by GetBookingByID instead of the
	// stored record, to model a read racing a concurrent write.
	staleRead *models.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[uuid.UUID]*models.Booking),
		venues:   make(map[uuid.UUID]*models.Venue),
	}
}

func (f *fakeStore) CreateBooking(ctx context.Context, booking *models.Booking, accessToken string) (*models.Booking, error) {
	copied := *booking
	f.bookings[booking.ID] = &copied
	return &copied, nil
}

func (f *fakeStore) GetBookingByID(ctx context.Context, id uuid.UUID, accessToken string) (*models.Booking, error) {
	if f.staleRead != nil && f.staleRead.ID == id {
		copied := *f.staleRead
		return &copied, nil
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) ListBookingsByUser(ctx context.Context, userId uuid.UUID, offset, limit int, accessToken string) ([]*models.Booking, int, error) {
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.UserId == userId {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) ListBookingsByVenues(ctx context.Context, venueIds []string, accessToken string) ([]*models.Booking, error) {
	ids := make(map[string]bool, len(venueIds))
	for _, id := range venueIds {
		ids[id] = true
	}
	var out []*models.Booking
	for _, b := range f.bookings {
		if ids[b.VenueId.String()] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) SubmitChangeRequest(ctx context.Context, bookingId uuid.UUID, fields map[string]interface{}, accessToken string) (*models.Booking, error) {
	f.submitCalls++
	b, ok := f.bookings[bookingId]
	if !ok || b.Status != models.BookingConfirmed || b.HasOutstandingChangeRequest() {
		return nil, models.ErrChangeConflict
	}
	applyBookingFields(b, fields)
	copied := *b
	return &copied, nil
}

func (f *fakeStore) UpdateBookingFields(ctx context.Context, bookingId uuid.UUID, fields map[string]interface{}, accessToken string) (*models.Booking, error) {
	b, ok := f.bookings[bookingId]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	applyBookingFields(b, fields)
	copied := *b
	return &copied, nil
}

func (f *fakeStore) CreateVenue(ctx context.Context, venue *models.Venue, hostId uuid.UUID, accessToken string) (*models.Venue, error) {
	copied := *venue
	f.venues[venue.Id] = &copied
	return &copied, nil
}

func (f *fakeStore) GetVenueByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, nil
	}
	copied := *v
	return &copied, nil
}

func (f *fakeStore) ListVenues(ctx context.Context, offset, limit int) ([]*models.Venue, int, error) {
	var out []*models.Venue
	for _, v := range f.venues {
		out = append(out, v)
	}
	return out, len(out), nil
}

func (f *fakeStore) ListVenuesByHost(ctx context.Context, hostId uuid.UUID, offset, limit int, accessToken string) ([]*models.Venue, int, error) {
	var out []*models.Venue
	for _, v := range f.venues {
		if v.HostId == hostId {
			out = append(out, v)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) DeleteVenue(ctx context.Context, hostId, venueId uuid.UUID, accessToken string) error {
	delete(f.venues, venueId)
	return nil
}

func (f *fakeStore) RecordActivity(ctx context.Context, activity *models.BookingActivity) error {
	f.activities = append(f.activities, activity)
	return nil
}

func (f *fakeStore) GetBookingHistory(ctx context.Context, bookingId string, limit int) ([]*models.BookingActivity, error) {
	var out []*models.BookingActivity
	for _, a := range f.activities {
		if a.BookingID == bookingId {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) EnsureActivityIndexes(ctx context.Context) error { return nil }

func applyBookingFields(b *models.Booking, fields map[string]interface{}) {
	str := func(v interface{}) string {
		if v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}
	num := func(v interface{}) float64 {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
		return 0
	}

	for key, value := range fields {
		switch key {
		case "status":
			b.Status = value.(models.BookingStatus)
		case "event_date":
			b.EventDate = str(value)
		case "start_time":
			b.StartTime = str(value)
		case "end_time":
			b.EndTime = str(value)
		case "total_amount":
			b.TotalAmount = num(value)
		case "change_request_status":
			b.ChangeRequestStatus = value.(models.ChangeRequestStatus)
		case "requested_event_date":
			b.RequestedEventDate = str(value)
		case "requested_start_time":
			b.RequestedStartTime = str(value)
		case "requested_end_time":
			b.RequestedEndTime = str(value)
		case "change_request_reason":
			b.ChangeRequestReason = str(value)
		case "additional_cost":
			b.AdditionalCost = num(value)
		case "change_request_payment_status":
			b.ChangeRequestPaymentStatus = value.(models.ChangePaymentStatus)
		case "cancellation_reason":
			b.CancellationReason = str(value)
		case "updated_at":
			b.UpdatedAt = value.(time.Time)
		}
	}
}

func seedConfirmedBooking(store *fakeStore) (*models.Booking, *models.Venue) {
	venue := &models.Venue{
		Id:                      uuid.New(),
		HostId:                  uuid.New(),
		Name:                    "Marina Loft",
		PriceModel:              "HOURLY",
		PricePerHour:            100,
		MinBookingDurationHours: 2,
		Currency:                "USD",
		Status:                  models.StatusActive,
	}
	store.venues[venue.Id] = venue

	booking := &models.Booking{
		ID:          uuid.New(),
		VenueId:     venue.Id,
		UserId:      uuid.New(),
		EventDate:   "2024-01-01",
		StartTime:   "14:00",
		EndTime:     "18:00",
		TotalAmount: 400,
		Currency:    "USD",
		Status:      models.BookingConfirmed,
	}
	store.bookings[booking.ID] = booking
	return booking, venue
}

func TestSubmitChangeRequestExtensionRoutesToPayment(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	svc := NewBookingService(store, store, store)

	outcome, err := svc.SubmitChangeRequest(context.Background(), booking.ID, &ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "14:00",
		RequestedEndTime:   "20:00",
		Reason:             "more guests than planned",
	}, booking.UserId, "")
	require.NoError(t, err)

	assert.InDelta(t, 2.0, outcome.Quote.HoursDifference, 1e-9)
	assert.InDelta(t, 205.0, outcome.Quote.AdditionalCost, 1e-9)

	updated := outcome.Booking
	assert.Equal(t, models.ChangeRequestPaymentPending, updated.ChangeRequestStatus)
	assert.Equal(t, models.ChangePaymentPending, updated.ChangeRequestPaymentStatus)
	assert.InDelta(t, 205.0, updated.AdditionalCost, 1e-9)
	assert.Equal(t, "2024-01-05", updated.RequestedEventDate)

	require.NotNil(t, outcome.PaymentDue)
	assert.Equal(t, int64(20500), outcome.PaymentDue.AmountMinor)
	assert.Equal(t, "USD", outcome.PaymentDue.Currency)

	require.Len(t, store.activities, 1)
	assert.Equal(t, models.ActionChangeRequested, store.activities[0].Action)
}

func TestSubmitChangeRequestReductionNeedsNoPayment(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	svc := NewBookingService(store, store, store)

	outcome, err := svc.SubmitChangeRequest(context.Background(), booking.ID, &ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "14:00",
		RequestedEndTime:   "16:00",
		Reason:             "shorter event",
	}, booking.UserId, "")
	require.NoError(t, err)

	assert.Zero(t, outcome.Quote.AdditionalCost)
	assert.Nil(t, outcome.PaymentDue)
	assert.Equal(t, models.ChangeRequestPending, outcome.Booking.ChangeRequestStatus)
	assert.Equal(t, models.ChangePaymentNotRequired, outcome.Booking.ChangeRequestPaymentStatus)
}

func TestSubmitChangeRequestBlocksOnValidation(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	svc := NewBookingService(store, store, store)

	_, err := svc.SubmitChangeRequest(context.Background(), booking.ID, &ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "14:00",
		RequestedEndTime:   "16:00",
		Reason:             "   ",
	}, booking.UserId, "")

	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "reason")

	// Nothing was written and no audit entry recorded.
	assert.Zero(t, store.submitCalls)
	assert.Empty(t, store.activities)
}

func TestSubmitChangeRequestGuardRejectsResubmission(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	booking.ChangeRequestStatus = models.ChangeRequestPending
	svc := NewBookingService(store, store, store)

	_, err := svc.SubmitChangeRequest(context.Background(), booking.ID, &ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "14:00",
		RequestedEndTime:   "20:00",
		Reason:             "second attempt",
	}, booking.UserId, "")

	assert.ErrorIs(t, err, models.ErrChangeRequestOutstanding)
	assert.Zero(t, store.submitCalls)
}

func TestSubmitChangeRequestGuardRequiresConfirmed(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	booking.Status = models.BookingPending
	svc := NewBookingService(store, store, store)

	_, err := svc.SubmitChangeRequest(context.Background(), booking.ID, &ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "14:00",
		RequestedEndTime:   "20:00",
		Reason:             "move the party",
	}, booking.UserId, "")

	assert.ErrorIs(t, err, models.ErrBookingNotConfirmed)
	assert.Zero(t, store.submitCalls)
}

func TestSubmitChangeRequestFlagsSameDayTimeMistake(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	// A full-day booking: equal start and end resolve to 24 hours.
	booking.StartTime = "10:00"
	booking.EndTime = "10:00"
	svc := NewBookingService(store, store, store)

	// 23 hours requested with end before start: not an overnight extension,
	// so the inverted time range is treated as an entry mistake.
	_, err := svc.SubmitChangeRequest(context.Background(), booking.ID, &ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "15:00",
		RequestedEndTime:   "14:00",
		Reason:             "typo check",
	}, booking.UserId, "")

	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "requested_end_time")
}

func TestSubmitChangeRequestConflictSurfaces(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	svc := NewBookingService(store, store, store)

	// Simulate a racing submission landing between the guard read and the
	// conditional update: the read sees a clean booking while the store
	// already has an outstanding request.
	stale := *booking
	store.staleRead = &stale
	store.bookings[booking.ID].ChangeRequestStatus = models.ChangeRequestPending

	_, err := svc.SubmitChangeRequest(context.Background(), booking.ID, &ChangeRequestInput{
		RequestedEventDate: "2024-01-05",
		RequestedStartTime: "14:00",
		RequestedEndTime:   "20:00",
		Reason:             "race",
	}, booking.UserId, "")
	assert.ErrorIs(t, err, models.ErrChangeConflict)
	assert.Equal(t, 1, store.submitCalls)
}

func TestApproveChangeRequestAppliesRequestedSlot(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	booking.ChangeRequestStatus = models.ChangeRequestPaymentPending
	booking.ChangeRequestPaymentStatus = models.ChangePaymentPaid
	booking.RequestedEventDate = "2024-01-05"
	booking.RequestedStartTime = "14:00"
	booking.RequestedEndTime = "20:00"
	booking.AdditionalCost = 205
	svc := NewBookingService(store, store, store)

	updated, err := svc.ApproveChangeRequest(context.Background(), booking.ID, uuid.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-05", updated.EventDate)
	assert.Equal(t, "20:00", updated.EndTime)
	assert.InDelta(t, 605.0, updated.TotalAmount, 1e-9)
	assert.Equal(t, models.ChangeRequestNone, updated.ChangeRequestStatus)
	assert.Equal(t, models.ChangePaymentNotRequired, updated.ChangeRequestPaymentStatus)
	assert.Zero(t, updated.AdditionalCost)
	assert.Empty(t, updated.RequestedEventDate)
}

func TestApproveChangeRequestBlocksUnpaid(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	booking.ChangeRequestStatus = models.ChangeRequestPaymentPending
	booking.ChangeRequestPaymentStatus = models.ChangePaymentPending
	svc := NewBookingService(store, store, store)

	_, err := svc.ApproveChangeRequest(context.Background(), booking.ID, uuid.New(), "")
	assert.Error(t, err)
}

func TestRejectChangeRequestClearsSubState(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	booking.ChangeRequestStatus = models.ChangeRequestPending
	booking.RequestedEventDate = "2024-01-05"
	svc := NewBookingService(store, store, store)

	updated, err := svc.RejectChangeRequest(context.Background(), booking.ID, uuid.New(), "slot not free", "")
	require.NoError(t, err)

	assert.Equal(t, models.ChangeRequestNone, updated.ChangeRequestStatus)
	assert.Empty(t, updated.RequestedEventDate)
	assert.Equal(t, "2024-01-01", updated.EventDate) // confirmed slot untouched
}

func TestConfirmChangePayment(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	booking.ChangeRequestStatus = models.ChangeRequestPaymentPending
	booking.ChangeRequestPaymentStatus = models.ChangePaymentPending
	booking.AdditionalCost = 205
	svc := NewBookingService(store, store, store)

	updated, err := svc.ConfirmChangePayment(context.Background(), booking.ID, booking.UserId, "")
	require.NoError(t, err)
	assert.Equal(t, models.ChangePaymentPaid, updated.ChangeRequestPaymentStatus)
	// Still awaiting owner approval.
	assert.Equal(t, models.ChangeRequestPaymentPending, updated.ChangeRequestStatus)
}

func TestRequestCancellation(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	svc := NewBookingService(store, store, store)

	updated, err := svc.RequestCancellation(context.Background(), booking.ID, booking.UserId, "event called off", "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancellationRequested, updated.Status)

	// Owner declines: back to confirmed.
	updated, err = svc.ResolveCancellation(context.Background(), booking.ID, uuid.New(), false, "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)
}

func TestRequestCancellationPendingCancelsImmediately(t *testing.T) {
	store := newFakeStore()
	booking, _ := seedConfirmedBooking(store)
	booking.Status = models.BookingPending
	svc := NewBookingService(store, store, store)

	updated, err := svc.RequestCancellation(context.Background(), booking.ID, booking.UserId, "changed plans", "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, updated.Status)
}

func TestListVenueBookingsRestrictedToHost(t *testing.T) {
	store := newFakeStore()
	booking, venue := seedConfirmedBooking(store)
	svc := NewBookingService(store, store, store)

	bookings, err := svc.ListVenueBookings(context.Background(), venue.Id, venue.HostId, false, "")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, booking.ID, bookings[0].ID)

	_, err = svc.ListVenueBookings(context.Background(), venue.Id, uuid.New(), false, "")
	assert.Error(t, err)
}

func TestCreateBookingPricesFromVenueRate(t *testing.T) {
	store := newFakeStore()
	_, venue := seedConfirmedBooking(store)
	svc := NewBookingService(store, store, store)

	created, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		VenueId:   venue.Id,
		EventDate: "2024-02-10",
		StartTime: "18:00",
		EndTime:   "23:00",
	}, uuid.New(), "")
	require.NoError(t, err)

	assert.InDelta(t, 500.0, created.TotalAmount, 1e-9)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, models.BookingPending, created.Status)
}

func TestCreateBookingRespectsVenueAvailability(t *testing.T) {
	store := newFakeStore()
	_, venue := seedConfirmedBooking(store)
	store.venues[venue.Id].Availability = models.Availability{
		UnavailableDates: []string{"2024-02-10"},
	}
	svc := NewBookingService(store, store, store)

	_, err := svc.CreateBooking(context.Background(), &CreateBookingInput{
		VenueId:   venue.Id,
		EventDate: "2024-02-10",
		StartTime: "18:00",
		EndTime:   "23:00",
	}, uuid.New(), "")
	assert.Error(t, err)
}
