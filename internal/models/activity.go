package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ActivityDbName  = "party2book"
	ActivityColName = "booking_activity"

	// Audit records are kept for a year before the TTL index reaps them.
	activityRetention = 365 * 24 * time.Hour
)

// Activity actions recorded against a booking.
const (
	ActionBookingCreated        = "booking_created"
	ActionChangeRequested       = "change_requested"
	ActionChangeApproved        = "change_approved"
	ActionChangeRejected        = "change_rejected"
	ActionChangePaymentComplete = "change_payment_complete"
	ActionCancellationRequested = "cancellation_requested"
	ActionCancellationDeclined  = "cancellation_declined"
	ActionBookingCancelled      = "booking_cancelled"
)

// BookingActivity is one audit record of a booking lifecycle transition.
type BookingActivity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID  string             `bson:"booking_id" json:"booking_id" validate:"required"`
	VenueID    string             `bson:"venue_id" json:"venue_id"`
	ActorID    string             `bson:"actor_id" json:"actor_id"`
	Action     string             `bson:"action" json:"action" validate:"required"`
	FromStatus string             `bson:"from_status,omitempty" json:"from_status,omitempty"`
	ToStatus   string             `bson:"to_status,omitempty" json:"to_status,omitempty"`
	Amount     float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency   string             `bson:"currency,omitempty" json:"currency,omitempty"`
	Note       string             `bson:"note,omitempty" json:"note,omitempty"`
	RecordedAt time.Time          `bson:"recorded_at" json:"recorded_at"`
	ExpiresAt  time.Time          `bson:"expires_at" json:"-"` // TTL index field
}

type ActivityRepo interface {
	RecordActivity(ctx context.Context, activity *BookingActivity) error
	GetBookingHistory(ctx context.Context, bookingId string, limit int) ([]*BookingActivity, error)
	EnsureActivityIndexes(ctx context.Context) error
}

// EnsureActivityIndexes creates the TTL and query indexes.
func (mdb *MongodbRepo) EnsureActivityIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, ActivityDbName, ActivityColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0). // Expire at the time specified in expires_at
				SetName("expires_at_ttl"),
		},
		{
			Keys: bson.D{
				{Key: "booking_id", Value: 1},
				{Key: "recorded_at", Value: -1},
			},
			Options: options.Index().SetName("booking_recorded_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "venue_id", Value: 1}},
			Options: options.Index().SetName("venue_id_idx"),
		},
	}

	_, err = col.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) RecordActivity(ctx context.Context, activity *BookingActivity) error {
	col, err := mdb.GetCollection(ctx, ActivityDbName, ActivityColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	if activity.RecordedAt.IsZero() {
		activity.RecordedAt = time.Now()
	}
	activity.ExpiresAt = activity.RecordedAt.Add(activityRetention)

	if _, err := col.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("error recording booking activity: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetBookingHistory(ctx context.Context, bookingId string, limit int) ([]*BookingActivity, error) {
	col, err := mdb.GetCollection(ctx, ActivityDbName, ActivityColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{"booking_id": bookingId}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding booking activity: %v", err)
	}
	defer cursor.Close(ctx)

	var history []*BookingActivity
	for cursor.Next(ctx) {
		var record BookingActivity
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("error decoding booking activity: %v", err)
		}
		history = append(history, &record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return history, nil
}
