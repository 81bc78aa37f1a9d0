package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ahmad9bh/party2book-api/internal/helpers"
	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/google/uuid"
)

type VenuesService struct {
	venuesRepo models.VenuesRepo
}

func NewVenuesService(venuesRepo models.VenuesRepo) *VenuesService {
	return &VenuesService{
		venuesRepo: venuesRepo,
	}
}

func ValidateAndNormalizeVenuePricing(v *models.Venue) error {
	if v == nil {
		return fmt.Errorf("venue is nil")
	}

	pm := strings.ToUpper(strings.TrimSpace(v.PriceModel))
	v.PriceModel = pm // normalize casing for DB constraints

	switch pm {
	case "HOURLY":
		if v.PricePerHour <= 0 {
			return fmt.Errorf("price_per_hour must be > 0 for HOURLY")
		}
		if v.MinBookingDurationHours <= 0 {
			return fmt.Errorf("min_booking_duration_hours must be > 0 for HOURLY")
		}
		// Not used by HOURLY
		v.FixedPricePackagePrice = 0
		v.PackageDurationHours = 0

	case "FIXED":
		if v.FixedPricePackagePrice <= 0 {
			return fmt.Errorf("fixed_price_package_price must be > 0 for FIXED")
		}
		if v.PackageDurationHours <= 0 {
			return fmt.Errorf("package_duration_hours must be > 0 for FIXED")
		}
		// Not used by FIXED
		v.PricePerHour = 0
		v.MinBookingDurationHours = 0

	case "QUOTE_ONLY":
		// No fixed or hourly prices; min booking not used
		v.PricePerHour = 0
		v.MinBookingDurationHours = 0
		v.FixedPricePackagePrice = 0
		v.PackageDurationHours = 0

	default:
		return fmt.Errorf("unsupported price_model: %s (expected HOURLY, FIXED, QUOTE_ONLY)", v.PriceModel)
	}

	return nil
}

func (vs *VenuesService) CreateVenue(ctx context.Context, venue *models.Venue, hostId uuid.UUID, accessToken string) (*models.Venue, error) {
	if err := models.Validate.Struct(venue); err != nil {
		return nil, fmt.Errorf("invalid venue data provided: %v", err)
	}

	if err := ValidateAndNormalizeVenuePricing(venue); err != nil {
		return nil, err
	}

	venue.Slug = helpers.GenerateSlug(venue.Name, venue.Location)
	now := time.Now()
	if venue.Id == uuid.Nil {
		venue.Id = uuid.New()
	}

	venue.HostId = hostId
	venue.CreatedAt = now
	venue.UpdatedAt = now
	venue.Status = models.StatusPending

	return vs.venuesRepo.CreateVenue(ctx, venue, hostId, accessToken)
}

func (vs *VenuesService) ListVenues(ctx context.Context, offset, limit int) ([]*models.Venue, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}

	return vs.venuesRepo.ListVenues(ctx, offset, limit)
}

func (vs *VenuesService) GetVenueByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid venue ID")
	}

	return vs.venuesRepo.GetVenueByID(ctx, id)
}

func (vs *VenuesService) DeleteVenue(ctx context.Context, hostId uuid.UUID, venueId uuid.UUID, accessToken string) error {
	if hostId == uuid.Nil || venueId == uuid.Nil {
		return fmt.Errorf("invalid host ID or venue ID")
	}

	return vs.venuesRepo.DeleteVenue(ctx, hostId, venueId, accessToken)
}

func (vs *VenuesService) ListVenuesByHost(ctx context.Context, hostId uuid.UUID, offset, limit int, accessToken string) ([]*models.Venue, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}

	if hostId == uuid.Nil {
		return nil, 0, fmt.Errorf("invalid host ID")
	}

	return vs.venuesRepo.ListVenuesByHost(ctx, hostId, offset, limit, accessToken)
}
