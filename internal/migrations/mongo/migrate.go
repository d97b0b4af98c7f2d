package mongo

import (
	"context"
	"fmt"
	"villa/internal/bookings/repository"
	"villa/internal/migrations/mongo/validators"
	"villa/pkg/logger"
	"villa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	BookingsIndexes = []mongo.IndexModel{
		// availability scans: confirmed records overlapping a range
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "check_in", Value: 1},
			{Key: "check_out", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "record_kind", Value: 1},
			{Key: "check_in", Value: 1},
		}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	RoomsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "room_type_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "name", Value: 1},
		}},
	}

	MealPlansIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "price", Value: 1}}},
	}
)

func collections() map[string]collectionDef {
	return map[string]collectionDef{
		repository.CollectionName: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		repository.LockCollectionName: {
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
		repository.RoomTypeCollectionName: {
			Validator: validators.RoomTypeValidator,
		},
		repository.RoomCollectionName: {
			Indexes:   RoomsIndexes,
			Validator: validators.RoomValidator,
		},
		repository.MealPlanCollectionName: {
			Indexes:   MealPlansIndexes,
			Validator: validators.MealPlanValidator,
		},
	}
}

// RunMigration brings collections, validators and indexes up to date. Legacy
// booking documents are backfilled before the stricter validator is applied.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	blocks, bookings, err := BackfillRecordKind(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to backfill record_kind: %w", err)
	}
	if blocks+bookings > 0 {
		log.Info("Backfilled record_kind on legacy bookings", "blocks", blocks, "bookings", bookings)
	}

	for name, def := range collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if len(def.Indexes) == 0 {
			continue
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
		log.Info("Ensured indexes", "collection", name, "count", len(def.Indexes))
	}

	log.Info("All migrations applied successfully")
	return nil
}

// BackfillRecordKind tags documents written before record_kind existed. The
// old convention marked admin blocks as zero guests at zero price.
func BackfillRecordKind(ctx context.Context, db *mongo.Database) (int64, int64, error) {
	coll := db.Collection(repository.CollectionName)
	missing := bson.M{"$exists": false}

	blocks, err := coll.UpdateMany(ctx,
		bson.M{"record_kind": missing, "guests": 0, "total_price": 0},
		bson.M{"$set": bson.M{"record_kind": model.RecordKindBlock}},
	)
	if err != nil {
		return 0, 0, err
	}

	bookings, err := coll.UpdateMany(ctx,
		bson.M{"record_kind": missing},
		bson.M{"$set": bson.M{"record_kind": model.RecordKindBooking}},
	)
	if err != nil {
		return blocks.ModifiedCount, 0, err
	}

	return blocks.ModifiedCount, bookings.ModifiedCount, nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	_, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	return err
}
