package service

import (
	"context"
	"errors"
	"sync"
	"time"
	bookingserrors "villa/internal/bookings/errors"
	"villa/internal/bookings/repository"
	"villa/internal/bookings/validator"
	"villa/internal/notifications"
	"villa/pkg/auth"
	"villa/pkg/config"
	apperrors "villa/pkg/errors"
	"villa/pkg/middleware"
	"villa/pkg/model"
	"villa/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	maxMessageLength  = 2000
	completeBatchSize = 100
)

type BookingService interface {
	Create(ctx context.Context, caller *auth.Identity, req *model.BookingRequest) (*model.Booking, error)
	Quote(ctx context.Context, checkIn, checkOut, mealPlan string, guests int) (*model.Quote, error)
	CheckAvailability(ctx context.Context, checkIn, checkOut string) (bool, error)
	UnavailableDates(ctx context.Context) ([]model.DateInterval, error)
	GetByID(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error)
	ListMine(ctx context.Context, caller *auth.Identity) ([]*model.Booking, error)
	ListAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, caller *auth.Identity, id string, req *model.StatusUpdateRequest) (*model.Booking, error)
	Cancel(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error)
	CompleteFinishedStays(ctx context.Context) (int, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	users     repository.UserRepository
	catalog   CatalogService
	oracle    AvailabilityService
	locker    *Locker
	assigner  *InventoryAssigner
	validator *validator.BookingValidator
	notifier  notifications.Emitter
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	users repository.UserRepository,
	catalog CatalogService,
	oracle AvailabilityService,
	locker *Locker,
	assigner *InventoryAssigner,
	validator *validator.BookingValidator,
	notifier notifications.Emitter,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		users:     users,
		catalog:   catalog,
		oracle:    oracle,
		locker:    locker,
		assigner:  assigner,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, caller *auth.Identity, req *model.BookingRequest) (*model.Booking, error) {
	if caller == nil {
		return nil, apperrors.Unauthorized("Not authorized, no identity")
	}

	s.sanitize(req)
	if err := s.validator.ValidateBookingRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "user_id", caller.UserID, "error", err)
		return nil, validationFailure("Booking validation failed", err)
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrUserNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.Unauthorized("User not found")
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	roomType, err := s.resolveRoomType(ctx, req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if req.Guests > roomType.GuestLimit() {
		return nil, apperrors.Validation("Too many guests for this room", map[string]any{
			"guests":     req.Guests,
			"max_guests": roomType.GuestLimit(),
		})
	}

	if req.Type == model.BookingTypeLongStayInquiry {
		return s.createInquiry(ctx, req, user, roomType)
	}
	return s.createStandard(ctx, req, user, roomType)
}

func (s *bookingService) createStandard(ctx context.Context, req *model.BookingRequest, user *model.User, roomType *model.RoomType) (*model.Booking, error) {
	stay, err := model.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, apperrors.Validation("Invalid stay dates", map[string]any{"error": err.Error()})
	}
	if stay.Start.Before(model.StartOfDay(s.now().UTC())) {
		return nil, apperrors.Validation("Check-in date cannot be in the past", map[string]any{"check_in": stay.Start.Format(model.DateLayout)})
	}

	plan, err := s.catalog.MealPlan(ctx, req.MealPlan)
	if err != nil {
		return nil, err
	}

	nights := stay.Nights()
	total := StayTotal(nights, roomType.PricePerNight, plan.Price)
	if req.TotalPrice != nil && pricesDiffer(*req.TotalPrice, total) {
		s.cfg.Log.Warn("Client total differs from server price",
			"user_id", user.ID,
			"client_total", *req.TotalPrice,
			"server_total", total,
		)
	}

	checkIn, checkOut := stay.Start, stay.End
	booking := &model.Booking{
		UserID:        user.ID,
		RoomTypeID:    roomType.ID,
		CheckIn:       &checkIn,
		CheckOut:      &checkOut,
		Nights:        nights,
		Guests:        req.Guests,
		PricePerNight: roomType.PricePerNight,
		MealPlan:      plan.Name,
		MealPlanPrice: plan.Price,
		TotalPrice:    total,
		Type:          model.BookingTypeStandard,
		RecordKind:    model.RecordKindBooking,
		Message:       req.Message,
		Status:        model.StatusPending,
	}

	err = s.locker.Transact(ctx, roomType.ID, s.repo, func(sessCtx mongo.SessionContext) error {
		available, err := s.oracle.IsAvailable(sessCtx, stay, "")
		if err != nil {
			return err
		}
		if !available {
			return apperrors.Conflict("Selected dates are not available")
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to create booking", "user_id", user.ID, "stay", stay.String(), "error", err)
		return nil, translate(err, "Booking", "", "create booking")
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"check_in", stay.Start.Format(model.DateLayout),
		"check_out", stay.End.Format(model.DateLayout),
		"total_price", booking.TotalPrice,
	)
	s.emit(ctx, notifications.NewEvent(notifications.EventBookingReceived, booking).WithRecipient(user.Email, user.Name))
	return booking, nil
}

func (s *bookingService) createInquiry(ctx context.Context, req *model.BookingRequest, user *model.User, roomType *model.RoomType) (*model.Booking, error) {
	booking := &model.Booking{
		UserID:       user.ID,
		RoomTypeID:   roomType.ID,
		Guests:       req.Guests,
		Type:         model.BookingTypeLongStayInquiry,
		RecordKind:   model.RecordKindBooking,
		Duration:     req.Duration,
		ContactEmail: req.ContactEmail,
		Message:      req.Message,
		Status:       model.StatusInquiry,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create inquiry", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to create inquiry", err)
	}

	s.cfg.Log.Info("Long stay inquiry created", "id", booking.ID, "user_id", booking.UserID, "duration", booking.Duration)
	s.emit(ctx, notifications.NewEvent(notifications.EventInquiryReceived, booking).WithRecipient(booking.ContactEmail, user.Name))
	return booking, nil
}

func (s *bookingService) Quote(ctx context.Context, checkIn, checkOut, mealPlan string, guests int) (*model.Quote, error) {
	stay, err := model.ParseDateRange(checkIn, checkOut)
	if err != nil {
		return nil, apperrors.Validation("Invalid stay dates", map[string]any{"error": err.Error()})
	}
	if guests <= 0 {
		guests = 1
	}

	roomType, err := s.catalog.RoomType(ctx)
	if err != nil {
		return nil, err
	}
	if guests > roomType.GuestLimit() {
		return nil, apperrors.Validation("Too many guests for this room", map[string]any{
			"guests":     guests,
			"max_guests": roomType.GuestLimit(),
		})
	}

	plan, err := s.catalog.MealPlan(ctx, sanitizer.SanitizeLabel(mealPlan))
	if err != nil {
		return nil, err
	}

	available, err := s.oracle.IsAvailable(ctx, stay, "")
	if err != nil {
		return nil, err
	}

	nights := stay.Nights()
	return &model.Quote{
		CheckIn:       stay.Start,
		CheckOut:      stay.End,
		Nights:        nights,
		Guests:        guests,
		PricePerNight: roomType.PricePerNight,
		MealPlan:      plan.Name,
		MealPlanPrice: plan.Price,
		TotalPrice:    StayTotal(nights, roomType.PricePerNight, plan.Price),
		Available:     available,
	}, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, checkIn, checkOut string) (bool, error) {
	stay, err := model.ParseDateRange(checkIn, checkOut)
	if err != nil {
		return false, apperrors.Validation("Invalid stay dates", map[string]any{"error": err.Error()})
	}
	return s.oracle.IsAvailable(ctx, stay, "")
}

func (s *bookingService) UnavailableDates(ctx context.Context) ([]model.DateInterval, error) {
	return s.oracle.UnavailableDates(ctx)
}

func (s *bookingService) GetByID(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !booking.IsOwnedBy(caller.UserID) {
		return nil, apperrors.Forbidden("Not authorized to view this booking")
	}
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, caller *auth.Identity) ([]*model.Booking, error) {
	bookings, err := s.repo.FindByUser(ctx, caller.UserID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// UpdateStatus drives the admin side of the state machine. Confirmation
// re-runs the availability check, excluding the booking itself, inside the
// room type critical section and then assigns a room.
func (s *bookingService) UpdateStatus(ctx context.Context, caller *auth.Identity, id string, req *model.StatusUpdateRequest) (*model.Booking, error) {
	if err := s.validator.ValidateStatusUpdate(req); err != nil {
		return nil, validationFailure("Invalid status", err)
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	from, to := booking.Status, req.Status
	if booking.IsBlock() {
		return nil, blockTransitionError(from, to)
	}
	if !from.CanTransitionTo(to) {
		return nil, apperrors.IllegalTransition(string(from), string(to))
	}

	if to == model.StatusConfirmed {
		err = s.confirm(ctx, booking)
	} else {
		err = s.repo.UpdateStatus(ctx, booking.ID, from, to)
	}
	if err != nil {
		s.cfg.Log.Warn("Failed to update booking status", "id", id, "from", from, "to", to, "error", err)
		return nil, translate(err, "Booking", id, "update booking status")
	}

	booking.Status = to
	booking.UpdatedAt = s.now().UTC()
	s.cfg.Log.Info("Booking status updated", "id", id, "from", from, "to", to, "by", caller.UserID)
	s.notifyOwner(ctx, notifications.EventStatusChanged, booking, from)
	return booking, nil
}

func (s *bookingService) confirm(ctx context.Context, booking *model.Booking) error {
	stay, ok := booking.Range()
	if !ok {
		return apperrors.IllegalTransition(string(booking.Status), string(model.StatusConfirmed))
	}

	return s.locker.Transact(ctx, booking.RoomTypeID, s.repo, func(sessCtx mongo.SessionContext) error {
		available, err := s.oracle.IsAvailable(sessCtx, stay, booking.ID)
		if err != nil {
			return err
		}
		if !available {
			return apperrors.Conflict("Dates are no longer available, booking cannot be confirmed")
		}
		if err := s.repo.UpdateStatus(sessCtx, booking.ID, model.StatusPending, model.StatusConfirmed); err != nil {
			return translate(err, "Booking", booking.ID, "confirm booking")
		}
		return s.assigner.Assign(sessCtx, booking)
	})
}

// Cancel is open to the owner and to admins. Cancelling frees the dates
// because only confirmed records occupy them.
func (s *bookingService) Cancel(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if booking.IsBlock() {
		return nil, blockTransitionError(from, model.StatusCancelled)
	}
	byOwner := booking.IsOwnedBy(caller.UserID)
	if !byOwner && !caller.IsAdmin() {
		s.cfg.Log.Warn("Cancel attempt by non-owner", "id", id, "user_id", caller.UserID)
		return nil, apperrors.Forbidden("Not authorized to cancel this booking")
	}
	if !from.CanTransitionTo(model.StatusCancelled) {
		return nil, apperrors.IllegalTransition(string(from), string(model.StatusCancelled))
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, from, model.StatusCancelled); err != nil {
		return nil, translate(err, "Booking", id, "cancel booking")
	}

	booking.Status = model.StatusCancelled
	booking.UpdatedAt = s.now().UTC()
	s.cfg.Log.Info("Booking cancelled", "id", id, "from", from, "by", caller.UserID, "by_owner", byOwner)

	eventType := notifications.EventStatusChanged
	if byOwner {
		eventType = notifications.EventCancelledByUser
	}
	s.notifyOwner(ctx, eventType, booking, from)
	return booking, nil
}

// CompleteFinishedStays moves confirmed guest stays whose check-out has
// passed to completed through the same compare-and-set write as the admin path.
func (s *bookingService) CompleteFinishedStays(ctx context.Context) (int, error) {
	today := model.StartOfDay(s.now().UTC())
	stays, err := s.repo.FindCompletable(ctx, today, completeBatchSize)
	if err != nil {
		return 0, apperrors.Internal("Failed to find finished stays", err)
	}

	completed := 0
	for _, b := range stays {
		if err := s.repo.UpdateStatus(ctx, b.ID, model.StatusConfirmed, model.StatusCompleted); err != nil {
			if !errors.Is(err, bookingserrors.ErrStatusChanged) {
				s.cfg.Log.Error("Failed to complete stay", "id", b.ID, "error", err)
			}
			continue
		}
		b.Status = model.StatusCompleted
		completed++
		s.notifyOwner(ctx, notifications.EventStatusChanged, b, model.StatusConfirmed)
	}
	return completed, nil
}

// --- Helpers ---

func (s *bookingService) find(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Booking", id, "retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) resolveRoomType(ctx context.Context, requested string) (*model.RoomType, error) {
	roomType, err := s.catalog.RoomType(ctx)
	if err != nil {
		return nil, err
	}
	if requested != "" && requested != roomType.ID {
		return nil, apperrors.Validation("Unknown room type", map[string]any{"room_type_id": requested})
	}
	return roomType, nil
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	if req.Type == "" {
		req.Type = model.BookingTypeStandard
	}
	req.MealPlan = sanitizer.SanitizeLabel(req.MealPlan)
	req.Duration = sanitizer.SanitizeLabel(req.Duration)
	req.ContactEmail = sanitizer.SanitizeEmail(req.ContactEmail)
	req.Message = sanitizer.SanitizeFreeText(req.Message, maxMessageLength)
}

// notifyOwner emits an event addressed to the booking owner. A failed owner
// lookup only costs the guest email.
func (s *bookingService) notifyOwner(ctx context.Context, eventType notifications.EventType, booking *model.Booking, previous model.BookingStatus) {
	event := notifications.NewEvent(eventType, booking).WithPreviousStatus(previous)
	if booking.UserID != "" {
		user, err := s.users.FindByID(ctx, booking.UserID)
		if err != nil {
			s.cfg.Log.Warn("Could not resolve booking owner for notification", "id", booking.ID, "user_id", booking.UserID, "error", err)
		} else {
			event = event.WithRecipient(user.Email, user.Name)
		}
	}
	s.emit(ctx, event)
}

func (s *bookingService) emit(ctx context.Context, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Emit(event.WithRequestID(middleware.RequestIDFromContext(ctx)))
}

func blockTransitionError(from, to model.BookingStatus) error {
	return apperrors.IllegalTransition(string(from), string(to)).
		WithDetail("reason", "admin blocks are managed through the block endpoints")
}
