package service

import (
	"context"
	"time"
	"villa/internal/bookings/repository"
	"villa/internal/bookings/validator"
	"villa/pkg/auth"
	"villa/pkg/config"
	apperrors "villa/pkg/errors"
	"villa/pkg/model"
	"villa/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

const maxReasonLength = 200

// BlockService manages admin date blocks: confirmed, guestless, zero priced
// records that only exist to take dates off sale.
type BlockService interface {
	ListBlocks(ctx context.Context) ([]*model.Block, error)
	CreateBlock(ctx context.Context, caller *auth.Identity, req *model.BlockRequest) (*model.Block, error)
	UpdateBlock(ctx context.Context, id string, req *model.BlockRequest) (*model.Block, error)
	DeleteBlock(ctx context.Context, id string) error
}

type blockService struct {
	repo      repository.BookingRepository
	catalog   CatalogService
	oracle    AvailabilityService
	locker    *Locker
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBlockService(
	repo repository.BookingRepository,
	catalog CatalogService,
	oracle AvailabilityService,
	locker *Locker,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BlockService {
	return &blockService{
		repo:      repo,
		catalog:   catalog,
		oracle:    oracle,
		locker:    locker,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *blockService) ListBlocks(ctx context.Context) ([]*model.Block, error) {
	records, err := s.repo.FindBlocks(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list blocks", "error", err)
		return nil, apperrors.Internal("Failed to retrieve blocks", err)
	}

	blocks := make([]*model.Block, 0, len(records))
	for _, r := range records {
		blocks = append(blocks, model.BlockFromBooking(r))
	}
	return blocks, nil
}

func (s *blockService) CreateBlock(ctx context.Context, caller *auth.Identity, req *model.BlockRequest) (*model.Block, error) {
	stay, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	roomType, err := s.catalog.RoomType(ctx)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut := stay.Start, stay.End
	record := &model.Booking{
		UserID:     caller.UserID,
		RoomTypeID: roomType.ID,
		CheckIn:    &checkIn,
		CheckOut:   &checkOut,
		Nights:     stay.Nights(),
		Guests:     0,
		TotalPrice: 0,
		Type:       model.BookingTypeStandard,
		RecordKind: model.RecordKindBlock,
		Message:    model.FormatBlockMessage(req.Reason),
		Status:     model.StatusConfirmed,
	}

	err = s.locker.Transact(ctx, roomType.ID, s.repo, func(sessCtx mongo.SessionContext) error {
		available, err := s.oracle.IsAvailable(sessCtx, stay, "")
		if err != nil {
			return err
		}
		if !available {
			return apperrors.Conflict("Selected dates are not available")
		}
		if err := s.repo.Create(sessCtx, record); err != nil {
			return apperrors.Internal("Failed to create block", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to create block", "stay", stay.String(), "error", err)
		return nil, translate(err, "Block", "", "create block")
	}

	s.cfg.Log.Info("Block created", "id", record.ID, "stay", stay.String(), "by", caller.UserID)
	return model.BlockFromBooking(record), nil
}

// UpdateBlock moves a block to new dates. The availability check excludes the
// block itself, so re-saving the same dates always succeeds.
func (s *blockService) UpdateBlock(ctx context.Context, id string, req *model.BlockRequest) (*model.Block, error) {
	stay, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	record, err := s.findBlock(ctx, id)
	if err != nil {
		return nil, err
	}

	message := model.FormatBlockMessage(req.Reason)
	err = s.locker.Transact(ctx, record.RoomTypeID, s.repo, func(sessCtx mongo.SessionContext) error {
		available, err := s.oracle.IsAvailable(sessCtx, stay, record.ID)
		if err != nil {
			return err
		}
		if !available {
			return apperrors.Conflict("Selected dates are not available")
		}
		return translate(s.repo.UpdateBlock(sessCtx, record.ID, stay, message), "Block", id, "update block")
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to update block", "id", id, "stay", stay.String(), "error", err)
		return nil, translate(err, "Block", id, "update block")
	}

	checkIn, checkOut := stay.Start, stay.End
	record.CheckIn = &checkIn
	record.CheckOut = &checkOut
	record.Nights = stay.Nights()
	record.Message = message
	record.UpdatedAt = s.now().UTC()

	s.cfg.Log.Info("Block updated", "id", id, "stay", stay.String())
	return model.BlockFromBooking(record), nil
}

// DeleteBlock removes the record outright. Only blocks can be deleted; guest
// bookings keep their history and are cancelled instead.
func (s *blockService) DeleteBlock(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Block ID cannot be empty")
	}
	if err := s.repo.DeleteBlock(ctx, id); err != nil {
		return translate(err, "Block", id, "delete block")
	}

	s.cfg.Log.Info("Block deleted", "id", id)
	return nil
}

func (s *blockService) validate(req *model.BlockRequest) (model.DateRange, error) {
	req.Reason = sanitizer.SanitizeFreeText(req.Reason, maxReasonLength)
	if err := s.validator.ValidateBlockRequest(req); err != nil {
		s.cfg.Log.Warn("Block validation failed", "error", err)
		return model.DateRange{}, validationFailure("Block validation failed", err)
	}

	stay, err := model.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return model.DateRange{}, apperrors.Validation("Invalid block dates", map[string]any{"error": err.Error()})
	}
	return stay, nil
}

func (s *blockService) findBlock(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Block ID cannot be empty")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Block", id, "retrieve block")
	}
	if !record.IsBlock() {
		return nil, apperrors.NotFoundWithID("Block", id)
	}
	return record, nil
}
