package repository

import (
	"context"
	"fmt"
	"time"
	bookingserrors "villa/internal/bookings/errors"
	"villa/pkg/config"
	mongotx "villa/pkg/db/mongo"
	"villa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository provides operations for advisory locks
type BookingLockRepository interface {
	Acquire(ctx context.Context, lock *model.BookingLock) (bool, error)
	Extend(ctx context.Context, lockID, owner string, expiresAt time.Time) error
	Release(ctx context.Context, lockID, owner string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. If the key is taken by a lock that has
// already expired, the expired holder is replaced; a live holder makes
// Acquire return false.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock.CreatedAt = now

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, fmt.Errorf("failed to create booking lock: %w", err)
	}

	filter := bson.M{"_id": lock.ID, "expires_at": bson.M{"$lte": now}}
	update := bson.M{"$set": bson.M{
		"owner":      lock.Owner,
		"expires_at": lock.ExpiresAt,
		"created_at": now,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to take over expired booking lock: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// Extend moves the expiry of a lock still held by owner. It returns
// ErrLockHeld when the lock now belongs to someone else or is gone.
func (r *mongoBookingLockRepository) Extend(ctx context.Context, lockID, owner string, expiresAt time.Time) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": lockID, "owner": owner}
	update := bson.M{"$set": bson.M{"expires_at": expiresAt}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to extend booking lock: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrLockHeld
	}
	return nil
}

// Release deletes the lock only while it is still held by owner.
func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID, owner string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}

func (r *mongoBookingLockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired booking locks: %w", err)
	}
	return result.DeletedCount, nil
}
