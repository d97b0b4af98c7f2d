package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "villa/internal/bookings/errors"
	"villa/pkg/config"
	mongotx "villa/pkg/db/mongo"
	"villa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomTypeCollectionName = "Room_types"
	RoomCollectionName     = "Rooms"
	MealPlanCollectionName = "Meal_plans"
)

// CatalogRepository reads the reference data a booking is priced and placed
// against. Catalog writes belong to the back office.
type CatalogRepository interface {
	FindRoomType(ctx context.Context, id string) (*model.RoomType, error)
	FindOnlyRoomType(ctx context.Context) (*model.RoomType, error)
	FindFirstActiveRoom(ctx context.Context, roomTypeID string) (*model.Room, error)
	FindMealPlans(ctx context.Context, activeOnly bool) ([]*model.MealPlan, error)
	FindMealPlanByName(ctx context.Context, name string) (*model.MealPlan, error)
	FindDefaultMealPlan(ctx context.Context) (*model.MealPlan, error)
}

type mongoCatalogRepository struct {
	cfg       *config.Config
	roomTypes *mongo.Collection
	rooms     *mongo.Collection
	mealPlans *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:       cfg,
		roomTypes: db.Collection(RoomTypeCollectionName),
		rooms:     db.Collection(RoomCollectionName),
		mealPlans: db.Collection(MealPlanCollectionName),
	}
}

func (r *mongoCatalogRepository) FindRoomType(ctx context.Context, id string) (*model.RoomType, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var roomType model.RoomType
	if err := r.roomTypes.FindOne(ctx, bson.M{"_id": objectID}).Decode(&roomType); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to find room type: %w", err)
	}
	return &roomType, nil
}

// FindOnlyRoomType resolves the room type when no id is configured. More than
// one document is a deployment error: the service sells a single room type.
func (r *mongoCatalogRepository) FindOnlyRoomType(ctx context.Context) (*model.RoomType, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.roomTypes.Find(ctx, bson.M{}, options.Find().SetLimit(2))
	if err != nil {
		return nil, fmt.Errorf("failed to find room types: %w", err)
	}
	defer cursor.Close(ctx)

	var roomTypes []*model.RoomType
	if err := cursor.All(ctx, &roomTypes); err != nil {
		return nil, fmt.Errorf("failed to decode room types: %w", err)
	}

	switch len(roomTypes) {
	case 0:
		return nil, bookingserrors.ErrRoomTypeNotFound
	case 1:
		return roomTypes[0], nil
	default:
		return nil, fmt.Errorf("found several room types, set %s", config.EnvRoomTypeID)
	}
}

func (r *mongoCatalogRepository) FindFirstActiveRoom(ctx context.Context, roomTypeID string) (*model.Room, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"room_type_id": roomTypeID, "status": model.RoomStatusActive}
	opts := options.FindOne().SetSort(bson.D{{Key: "name", Value: 1}})

	var room model.Room
	if err := r.rooms.FindOne(ctx, filter, opts).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNoActiveRoom
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoCatalogRepository) FindMealPlans(ctx context.Context, activeOnly bool) ([]*model.MealPlan, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.mealPlans.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find meal plans: %w", err)
	}
	defer cursor.Close(ctx)

	plans := make([]*model.MealPlan, 0)
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode meal plans: %w", err)
	}
	return plans, nil
}

func (r *mongoCatalogRepository) FindMealPlanByName(ctx context.Context, name string) (*model.MealPlan, error) {
	return r.findMealPlan(ctx, bson.M{"name": name, "is_active": true})
}

func (r *mongoCatalogRepository) FindDefaultMealPlan(ctx context.Context) (*model.MealPlan, error) {
	return r.findMealPlan(ctx, bson.M{"is_default": true, "is_active": true})
}

func (r *mongoCatalogRepository) findMealPlan(ctx context.Context, filter bson.M) (*model.MealPlan, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var plan model.MealPlan
	if err := r.mealPlans.FindOne(ctx, filter).Decode(&plan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrMealPlanNotFound
		}
		return nil, fmt.Errorf("failed to find meal plan: %w", err)
	}
	return &plan, nil
}
