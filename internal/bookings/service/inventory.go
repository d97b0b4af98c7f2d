package service

import (
	"context"
	"errors"
	bookingserrors "villa/internal/bookings/errors"
	"villa/internal/bookings/repository"
	apperrors "villa/pkg/errors"
	"villa/pkg/logger"
	"villa/pkg/model"
)

// InventoryAssigner gives a confirmed booking one of the interchangeable
// physical rooms. Rooms are cosmetic: the oracle already keeps confirmed
// stays apart, so there is no double-assignment check.
type InventoryAssigner struct {
	repo    repository.BookingRepository
	catalog repository.CatalogRepository
	log     *logger.Logger
}

func NewInventoryAssigner(repo repository.BookingRepository, catalog repository.CatalogRepository, log *logger.Logger) *InventoryAssigner {
	return &InventoryAssigner{repo: repo, catalog: catalog, log: log}
}

// Assign sets booking.RoomID when it is empty. Having no active room is not an
// error: the booking stays confirmed without a room.
func (a *InventoryAssigner) Assign(ctx context.Context, booking *model.Booking) error {
	if booking.RoomID != "" {
		return nil
	}

	room, err := a.catalog.FindFirstActiveRoom(ctx, booking.RoomTypeID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNoActiveRoom) {
			a.log.Warn("No active room to assign", "booking_id", booking.ID, "room_type_id", booking.RoomTypeID)
			return nil
		}
		return apperrors.Internal("Failed to find a room", err)
	}

	if err := a.repo.AssignRoom(ctx, booking.ID, room.ID); err != nil {
		return translate(err, "Booking", booking.ID, "assign room")
	}
	booking.RoomID = room.ID
	a.log.Info("Room assigned", "booking_id", booking.ID, "room_id", room.ID, "room", room.Name)
	return nil
}
