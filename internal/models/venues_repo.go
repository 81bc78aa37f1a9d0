package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type VenuesRepo interface {
	CreateVenue(ctx context.Context, venue *Venue, hostId uuid.UUID, accessToken string) (*Venue, error)
	GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	ListVenues(ctx context.Context, offset, limit int) ([]*Venue, int, error)
	ListVenuesByHost(ctx context.Context, hostId uuid.UUID, offset, limit int, accessToken string) ([]*Venue, int, error)
	DeleteVenue(ctx context.Context, hostId, venueId uuid.UUID, accessToken string) error
}

func (su *SupabaseRepo) CreateVenue(ctx context.Context, venue *Venue, hostId uuid.UUID, accessToken string) (*Venue, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}

	venueData := map[string]interface{}{
		"id":                         venue.Id,
		"host_id":                    hostId,
		"name":                       venue.Name,
		"description":                venue.Description,
		"venue_type":                 venue.VenueType,
		"slug":                       venue.Slug,
		"region":                     venue.Region,
		"location":                   venue.Location,
		"capacity":                   venue.Capacity,
		"price_model":                venue.PriceModel,
		"price_per_hour":             venue.PricePerHour,
		"min_booking_duration_hours": venue.MinBookingDurationHours,
		"fixed_price_package_price":  venue.FixedPricePackagePrice,
		"package_duration_hours":     venue.PackageDurationHours,
		"currency":                   venue.Currency,
		"cancellation_policy":        venue.CancellationPolicy,
		"availability":               venue.Availability,
		"status":                     venue.Status,
		"created_at":                 venue.CreatedAt,
		"updated_at":                 venue.UpdatedAt,
	}

	raw, count, err := client.From(VenuesTable).
		Insert(venueData, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create venue: %v", err)
	}

	created, err := decodeVenueRows(raw)
	if err != nil {
		return nil, err
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no venue data returned after insert")
	}
	return created[0], nil
}

func (su *SupabaseRepo) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid venue ID")
	}

	raw, _, err := su.supabaseClient.From(VenuesTable).
		Select("*", "exact", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %v", err)
	}

	venues, err := decodeVenueRows(raw)
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, nil
	}
	return venues[0], nil
}

func (su *SupabaseRepo) ListVenues(ctx context.Context, offset, limit int) ([]*Venue, int, error) {
	raw, count, err := su.supabaseClient.From(VenuesTable).
		Select("*", "exact", false).
		Eq("status", string(StatusActive)).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get venues: %v", err)
	}

	venues, err := decodeVenueRows(raw)
	if err != nil {
		return nil, 0, err
	}
	return venues, int(count), nil
}

func (su *SupabaseRepo) ListVenuesByHost(ctx context.Context, hostId uuid.UUID, offset, limit int, accessToken string) ([]*Venue, int, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, 0, err
	}

	raw, count, err := client.From(VenuesTable).
		Select("*", "exact", false).
		Eq("host_id", hostId.String()).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get host venues: %v", err)
	}

	venues, err := decodeVenueRows(raw)
	if err != nil {
		return nil, 0, err
	}
	return venues, int(count), nil
}

func (su *SupabaseRepo) DeleteVenue(ctx context.Context, hostId, venueId uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return err
	}

	_, count, err := client.From(VenuesTable).
		Delete("", "exact").
		Eq("id", venueId.String()).
		Eq("host_id", hostId.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete venue: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("no venue found to delete")
	}
	return nil
}

func decodeVenueRows(raw []byte) ([]*Venue, error) {
	var venues []*Venue
	if err := json.Unmarshal(raw, &venues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue rows: %v", err)
	}
	return venues, nil
}
