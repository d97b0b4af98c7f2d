package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"
	"villa/internal/bookings/repository"
	"villa/pkg/logger"
	"villa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMealPlans is the catalog a fresh deployment starts with.
var DefaultMealPlans = []model.MealPlan{
	{Name: model.DefaultMealPlanName, Price: 0, Description: "Accommodation only", IsActive: true, IsDefault: true},
	{Name: "Bed & Breakfast", Price: 15, Description: "Daily breakfast", IsActive: true},
	{Name: "Half Board", Price: 30, Description: "Breakfast and dinner", IsActive: true},
}

var DefaultRoomNames = []string{"Room A", "Room B"}

func DefaultRoomType() model.RoomType {
	return model.RoomType{
		Title:         "Garden Villa",
		Description:   "Private villa with garden access",
		PricePerNight: 120,
		MaxGuests:     4,
		Images:        []string{},
		Amenities:     []string{"wifi", "air conditioning", "parking"},
	}
}

// Seed creates the room type, its rooms and the meal plans when they are
// missing. Running it twice changes nothing. It returns the room type id.
func Seed(ctx context.Context, db *mongo.Database, log *logger.Logger) (string, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	roomTypeID, err := seedRoomType(ctx, db, now)
	if err != nil {
		return "", fmt.Errorf("failed to seed room type: %w", err)
	}

	rooms := db.Collection(repository.RoomCollectionName)
	for _, name := range DefaultRoomNames {
		room := model.Room{Name: name, RoomTypeID: roomTypeID, Status: model.RoomStatusActive, CreatedAt: now}
		if _, err := rooms.UpdateOne(ctx,
			bson.M{"room_type_id": roomTypeID, "name": name},
			bson.M{"$setOnInsert": room},
			options.Update().SetUpsert(true),
		); err != nil {
			return "", fmt.Errorf("failed to seed room %s: %w", name, err)
		}
	}

	plans := db.Collection(repository.MealPlanCollectionName)
	for _, plan := range DefaultMealPlans {
		plan.CreatedAt = now
		if _, err := plans.UpdateOne(ctx,
			bson.M{"name": plan.Name},
			bson.M{"$setOnInsert": plan},
			options.Update().SetUpsert(true),
		); err != nil {
			return "", fmt.Errorf("failed to seed meal plan %s: %w", plan.Name, err)
		}
	}

	log.Info("Seed data ensured",
		"room_type_id", roomTypeID,
		"rooms", len(DefaultRoomNames),
		"meal_plans", len(DefaultMealPlans),
	)
	return roomTypeID, nil
}

func seedRoomType(ctx context.Context, db *mongo.Database, now time.Time) (string, error) {
	coll := db.Collection(repository.RoomTypeCollectionName)

	var existing struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := coll.FindOne(ctx, bson.M{}).Decode(&existing)
	if err == nil {
		return existing.ID.Hex(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", err
	}

	roomType := DefaultRoomType()
	roomType.CreatedAt = now
	roomType.UpdatedAt = now
	result, err := coll.InsertOne(ctx, roomType)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}
