package repository

import (
	"context"
	"fmt"

	"studio/pkg/config"
	"studio/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventRepository interface {
	// Record stores an event once; redelivered events are ignored.
	Record(ctx context.Context, event *model.BookingEvent) (bool, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error)
}

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventRepository{
		cfg:        cfg,
		collection: db.Collection(BookingEventsCollection),
	}
}

func (r *mongoEventRepository) Record(ctx context.Context, event *model.BookingEvent) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$setOnInsert": bson.M{
			"type":         event.Type,
			"booking_id":   event.BookingID,
			"slot_id":      event.SlotID,
			"user_id":      event.UserID,
			"actor_id":     event.ActorID,
			"booked_count": event.BookedCount,
			"occurred_at":  event.OccurredAt,
			"recorded_at":  event.RecordedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": event.EventID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to record booking event: %w", err)
	}
	return result.UpsertedCount > 0, nil
}

func (r *mongoEventRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*model.BookingEvent, 0)
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode booking events: %w", err)
	}
	return events, nil
}
