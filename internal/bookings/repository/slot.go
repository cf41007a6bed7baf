package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "studio/internal/bookings/errors"
	"studio/pkg/config"
	mongotx "studio/pkg/db/mongo"
	"studio/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	FindByID(ctx context.Context, id string) (*model.Slot, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Slot, error)
	FindOpenFrom(ctx context.Context, from time.Time) ([]*model.Slot, error)
	// Update writes the editable fields of slot. It matches only while the
	// stored booked_count equals slot.BookedCount.
	Update(ctx context.Context, slot *model.Slot) error
	// SetBookedCount moves the counter from observed to next. A counter that
	// no longer equals observed yields mongotx.ErrWriteConflict.
	SetBookedCount(ctx context.Context, id string, observed, next int) error
	Delete(ctx context.Context, id string) error
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(SlotsCollection),
	}
}

func (r *mongoSlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, slot)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		slot.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSlotRepository) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var slot model.Slot
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	return &slot, nil
}

func (r *mongoSlotRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Slot, error) {
	result := make(map[string]*model.Slot, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}

	for _, slot := range slots {
		result[slot.ID] = slot
	}
	return result, nil
}

func (r *mongoSlotRepository) FindOpenFrom(ctx context.Context, from time.Time) ([]*model.Slot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":   model.SlotOpen,
		"start_at": bson.M{"$gte": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find open slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := make([]*model.Slot, 0)
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}

	return slots, nil
}

func (r *mongoSlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(slot.ID)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "booked_count": slot.BookedCount}
	update := bson.M{
		"$set": bson.M{
			"title":      slot.Title,
			"start_at":   slot.StartAt,
			"end_at":     slot.EndAt,
			"capacity":   slot.Capacity,
			"status":     slot.Status,
			"location":   slot.Location,
			"updated_at": slot.UpdatedAt,
			"updated_by": slot.UpdatedBy,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongotx.ErrWriteConflict
	}
	return nil
}

func (r *mongoSlotRepository) SetBookedCount(ctx context.Context, id string, observed, next int) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "booked_count": observed}
	update := bson.M{"$set": bson.M{"booked_count": next}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booked count: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongotx.ErrWriteConflict
	}
	return nil
}

func (r *mongoSlotRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrSlotNotFound
	}

	return nil
}
