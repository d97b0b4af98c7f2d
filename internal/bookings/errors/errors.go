package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged is returned by a compare-and-set status write when the
	// stored status no longer matches the one the caller read.
	ErrStatusChanged = errors.New("booking status changed concurrently")

	// ErrLockHeld is returned when a lock the caller acquired now belongs to
	// another request.
	ErrLockHeld = errors.New("booking lock is held by another request")

	ErrRoomTypeNotFound = errors.New("room type not found")

	ErrMealPlanNotFound = errors.New("meal plan not found")

	ErrUserNotFound = errors.New("user not found")

	ErrNoActiveRoom = errors.New("no active room available")
)
