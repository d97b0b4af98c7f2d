package service

import (
	"context"
	"errors"
	"time"
	bookingserrors "villa/internal/bookings/errors"
	"villa/internal/bookings/repository"
	"villa/pkg/config"
	mongotx "villa/pkg/db/mongo"
	apperrors "villa/pkg/errors"
	"villa/pkg/logger"
	"villa/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const lockKeyPrefix = "booking_lock_"

// Locker serialises availability check-then-write sequences per room type
// through an advisory lock document, so two instances cannot both see the
// same dates as free.
type Locker struct {
	repo    repository.BookingLockRepository
	ttl     time.Duration
	retries int
	delay   time.Duration
	log     *logger.Logger
	now     func() time.Time
}

func NewLocker(repo repository.BookingLockRepository, cfg *config.Config) *Locker {
	return &Locker{
		repo:    repo,
		ttl:     cfg.BookingLockTTL,
		retries: cfg.BookingLockRetries,
		delay:   cfg.BookingLockRetryDelay,
		log:     cfg.Log,
		now:     time.Now,
	}
}

func LockKey(roomTypeID string) string {
	return lockKeyPrefix + roomTypeID
}

// Lease is a held room type lock. It is only valid until its expiry, which
// Fence pushes out from inside the caller's transaction.
type Lease struct {
	key    string
	owner  string
	locker *Locker
}

// Fence re-asserts ownership of the lock as part of the caller's transaction
// and extends its expiry. A request whose lock expired and was taken over
// gets a CONFLICT here, so its transaction aborts instead of committing
// next to the new holder's writes. The lock document write also makes the
// transaction collide with a concurrent takeover.
func (l *Lease) Fence(ctx context.Context) error {
	expiresAt := l.locker.now().UTC().Add(l.locker.ttl)
	err := l.locker.repo.Extend(ctx, l.key, l.owner, expiresAt)
	if errors.Is(err, bookingserrors.ErrLockHeld) {
		l.locker.log.Warn("Booking lock was taken over before commit", "lock_id", l.key, "owner", l.owner)
		return apperrors.Wrap(err, apperrors.CodeConflict, "Dates are being booked by another request, please try again")
	}
	return err
}

// WithLock runs fn while holding the room type lock. When the lock stays busy
// after all retries the caller gets a CONFLICT and fn never runs.
func (l *Locker) WithLock(ctx context.Context, roomTypeID string, fn func(lease *Lease) error) error {
	lease := &Lease{key: LockKey(roomTypeID), owner: uuid.NewString(), locker: l}

	if err := l.acquire(ctx, lease.key, lease.owner); err != nil {
		return err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.ttl)
		defer cancel()
		if err := l.repo.Release(releaseCtx, lease.key, lease.owner); err != nil {
			l.log.Warn("Failed to release booking lock", "lock_id", lease.key, "error", err)
		}
	}()

	return fn(lease)
}

// Transactor runs a function inside a Mongo transaction.
type Transactor interface {
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// Transact runs fn in a transaction under the room type lock. The lease is
// fenced as the first write of every attempt.
func (l *Locker) Transact(ctx context.Context, roomTypeID string, tx Transactor, fn mongotx.TransactionFunc) error {
	return l.WithLock(ctx, roomTypeID, func(lease *Lease) error {
		return tx.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := lease.Fence(sessCtx); err != nil {
				return err
			}
			return fn(sessCtx)
		})
	})
}

func (l *Locker) acquire(ctx context.Context, key, owner string) error {
	for attempt := 0; ; attempt++ {
		lock := &model.BookingLock{
			ID:        key,
			Owner:     owner,
			ExpiresAt: l.now().UTC().Add(l.ttl),
		}
		acquired, err := l.repo.Acquire(ctx, lock)
		if err != nil {
			return apperrors.Internal("Failed to acquire booking lock", err)
		}
		if acquired {
			if attempt > 0 {
				l.log.Debug("Booking lock acquired after retry", "lock_id", key, "attempts", attempt+1)
			}
			return nil
		}
		if attempt >= l.retries {
			break
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return apperrors.Timeout("Timed out waiting for booking lock")
			}
			return ctx.Err()
		case <-time.After(l.delay):
		}
	}

	l.log.Warn("Booking lock busy", "lock_id", key, "attempts", l.retries+1)
	return apperrors.Conflict("Dates are being booked by another request, please try again")
}
