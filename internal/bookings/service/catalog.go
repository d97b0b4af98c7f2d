package service

import (
	"context"
	"errors"
	"sync"
	bookingserrors "villa/internal/bookings/errors"
	"villa/internal/bookings/repository"
	"villa/pkg/config"
	apperrors "villa/pkg/errors"
	"villa/pkg/model"
)

type CatalogService interface {
	RoomType(ctx context.Context) (*model.RoomType, error)
	MealPlans(ctx context.Context) ([]*model.MealPlan, error)
	// MealPlan resolves a plan by name; an empty name selects the default plan.
	MealPlan(ctx context.Context, name string) (*model.MealPlan, error)
}

type catalogService struct {
	repo       repository.CatalogRepository
	roomTypeID string
	cfg        *config.Config

	mu       sync.Mutex
	resolved string
}

func NewCatalogService(repo repository.CatalogRepository, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:       repo,
		roomTypeID: cfg.RoomTypeID,
		cfg:        cfg,
	}
}

// RoomType returns the single sellable room type. Without a configured id the
// only room type document is used and its id remembered for later calls.
func (s *catalogService) RoomType(ctx context.Context) (*model.RoomType, error) {
	id := s.roomTypeID
	if id == "" {
		s.mu.Lock()
		id = s.resolved
		s.mu.Unlock()
	}

	var roomType *model.RoomType
	var err error
	if id != "" {
		roomType, err = s.repo.FindRoomType(ctx, id)
	} else {
		roomType, err = s.repo.FindOnlyRoomType(ctx)
	}
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRoomTypeNotFound) {
			return nil, apperrors.NotFound("Room type")
		}
		return nil, apperrors.Internal("Failed to load room type", err)
	}

	if s.roomTypeID == "" {
		s.mu.Lock()
		if s.resolved == "" {
			s.resolved = roomType.ID
			s.cfg.Log.Info("Resolved room type", "room_type_id", roomType.ID, "title", roomType.Title)
		}
		s.mu.Unlock()
	}
	return roomType, nil
}

func (s *catalogService) MealPlans(ctx context.Context) ([]*model.MealPlan, error) {
	plans, err := s.repo.FindMealPlans(ctx, true)
	if err != nil {
		return nil, apperrors.Internal("Failed to load meal plans", err)
	}
	return plans, nil
}

func (s *catalogService) MealPlan(ctx context.Context, name string) (*model.MealPlan, error) {
	var plan *model.MealPlan
	var err error
	if name == "" {
		plan, err = s.repo.FindDefaultMealPlan(ctx)
	} else {
		plan, err = s.repo.FindMealPlanByName(ctx, name)
	}
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, bookingserrors.ErrMealPlanNotFound) {
		return nil, apperrors.Internal("Failed to load meal plan", err)
	}

	// "Room Only" needs no catalog entry
	if name == "" || name == model.DefaultMealPlanName {
		return &model.MealPlan{Name: model.DefaultMealPlanName, IsActive: true, IsDefault: true}, nil
	}
	return nil, apperrors.Validation("Meal plan is not available", map[string]any{"meal_plan": name})
}
