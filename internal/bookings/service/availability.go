package service

import (
	"context"
	"villa/internal/bookings/repository"
	apperrors "villa/pkg/errors"
	"villa/pkg/model"
)

// AvailabilityService is the single source of truth for "are these dates
// free". Every check-then-write path goes through IsAvailable.
type AvailabilityService interface {
	IsAvailable(ctx context.Context, stay model.DateRange, excludeID string) (bool, error)
	UnavailableDates(ctx context.Context) ([]model.DateInterval, error)
}

type availabilityOracle struct {
	repo repository.BookingRepository
}

func NewAvailabilityService(repo repository.BookingRepository) AvailabilityService {
	return &availabilityOracle{repo: repo}
}

func (o *availabilityOracle) IsAvailable(ctx context.Context, stay model.DateRange, excludeID string) (bool, error) {
	if err := stay.Validate(); err != nil {
		return false, apperrors.Validation(err.Error(), nil)
	}

	candidates, err := o.repo.FindConfirmedOverlapping(ctx, stay, excludeID)
	if err != nil {
		return false, translate(err, "Booking", excludeID, "check availability")
	}
	return FindConflict(stay, candidates, excludeID) == nil, nil
}

func (o *availabilityOracle) UnavailableDates(ctx context.Context) ([]model.DateInterval, error) {
	bookings, err := o.repo.FindConfirmed(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load unavailable dates", err)
	}

	intervals := make([]model.DateInterval, 0, len(bookings))
	for _, b := range bookings {
		if r, ok := b.Range(); ok {
			intervals = append(intervals, model.DateInterval{Start: r.Start, End: r.End})
		}
	}
	return intervals, nil
}

// FindConflict returns the first occupying record that overlaps stay, or nil.
func FindConflict(stay model.DateRange, existing []*model.Booking, excludeID string) *model.Booking {
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !b.Status.IsOccupying() {
			continue
		}
		r, ok := b.Range()
		if !ok {
			continue
		}
		if stay.Overlaps(r) {
			return b
		}
	}
	return nil
}
