package service

import (
	"errors"
	"time"

	"github.com/yoonsu/baedalgo-backend/internal/app/lifecycle"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound     = errors.New("restaurant not found")
	ErrRestaurantAccessDenied = errors.New("not allowed to manage this restaurant")
	ErrInvalidStatus          = errors.New("invalid status")
)

// CreateRestaurantInput carries the operator-supplied listing fields
type CreateRestaurantInput struct {
	Name         string
	Description  string
	OwnerName    string
	Email        string
	PhoneNumber  string
	Address      string
	City         string
	District     string
	CuisineTypes []string
	PriceRange   string
	OpenTime     string
	CloseTime    string
	ImageURL     string
}

// UpdateRestaurantInput updates only the fields that are set
type UpdateRestaurantInput struct {
	Name         *string
	Description  *string
	OwnerName    *string
	Email        *string
	PhoneNumber  *string
	Address      *string
	City         *string
	District     *string
	CuisineTypes *[]string
	PriceRange   *string
	OpenTime     *string
	CloseTime    *string
	ImageURL     *string
}

type RestaurantService interface {
	ListRestaurants(filter repository.RestaurantFilter) (*repository.RestaurantListResult, error)
	GetRestaurantByID(id uint) (*model.Restaurant, error)
	GetRestaurantsByOwner(ownerID uint) ([]model.Restaurant, error)
	CreateRestaurant(ownerID uint, input CreateRestaurantInput) (*model.Restaurant, error)
	UpdateRestaurant(actorID uint, actorRole model.UserRole, id uint, input UpdateRestaurantInput) (*model.Restaurant, error)
	DeleteRestaurant(actorID uint, actorRole model.UserRole, id uint) error
	ChangeStatus(actorID uint, actorRole model.UserRole, id uint, status model.RestaurantStatus) (*model.Restaurant, error)
}

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
}

func NewRestaurantService(restaurantRepo repository.RestaurantRepository) RestaurantService {
	return &restaurantService{restaurantRepo: restaurantRepo}
}

func (s *restaurantService) ListRestaurants(filter repository.RestaurantFilter) (*repository.RestaurantListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	logger.Debug("Listing restaurants", map[string]interface{}{
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})

	result, err := s.restaurantRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to list restaurants", err, nil)
		return nil, err
	}

	return result, nil
}

func (s *restaurantService) GetRestaurantByID(id uint) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		logger.Error("Failed to fetch restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return nil, err
	}

	return restaurant, nil
}

func (s *restaurantService) GetRestaurantsByOwner(ownerID uint) ([]model.Restaurant, error) {
	restaurants, err := s.restaurantRepo.FindByOwnerID(ownerID)
	if err != nil {
		logger.Error("Failed to fetch restaurants by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}

	return restaurants, nil
}

func (s *restaurantService) CreateRestaurant(ownerID uint, input CreateRestaurantInput) (*model.Restaurant, error) {
	logger.Info("Creating restaurant", map[string]interface{}{
		"owner_id": ownerID,
		"name":     input.Name,
		"city":     input.City,
	})

	restaurant := &model.Restaurant{
		OwnerID:            &ownerID,
		Name:               input.Name,
		Description:        input.Description,
		OwnerName:          input.OwnerName,
		Email:              input.Email,
		PhoneNumber:        input.PhoneNumber,
		Address:            input.Address,
		City:               input.City,
		District:           input.District,
		CuisineTypes:       model.StringArray(input.CuisineTypes),
		PriceRange:         input.PriceRange,
		OpenTime:           input.OpenTime,
		CloseTime:          input.CloseTime,
		ImageURL:           input.ImageURL,
		Status:             model.RestaurantStatusInactive,
		VerificationStatus: model.VerificationStatusPending,
	}

	if err := s.restaurantRepo.Create(restaurant); err != nil {
		logger.Error("Failed to create restaurant", err, map[string]interface{}{
			"owner_id": ownerID,
			"name":     input.Name,
		})
		return nil, err
	}

	logger.Info("Restaurant created", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"slug":          restaurant.Slug,
	})

	return restaurant, nil
}

func (s *restaurantService) UpdateRestaurant(actorID uint, actorRole model.UserRole, id uint, input UpdateRestaurantInput) (*model.Restaurant, error) {
	restaurant, err := s.GetRestaurantByID(id)
	if err != nil {
		return nil, err
	}

	if !canManage(actorID, actorRole, restaurant) {
		logger.Warn("Restaurant update denied", map[string]interface{}{
			"restaurant_id": id,
			"actor_id":      actorID,
			"actor_role":    actorRole,
		})
		return nil, ErrRestaurantAccessDenied
	}

	if input.Name != nil {
		restaurant.Name = *input.Name
	}
	if input.Description != nil {
		restaurant.Description = *input.Description
	}
	if input.OwnerName != nil {
		restaurant.OwnerName = *input.OwnerName
	}
	if input.Email != nil {
		restaurant.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		restaurant.PhoneNumber = *input.PhoneNumber
	}
	if input.Address != nil {
		restaurant.Address = *input.Address
	}
	if input.City != nil {
		restaurant.City = *input.City
	}
	if input.District != nil {
		restaurant.District = *input.District
	}
	if input.CuisineTypes != nil {
		restaurant.CuisineTypes = model.StringArray(*input.CuisineTypes)
	}
	if input.PriceRange != nil {
		restaurant.PriceRange = *input.PriceRange
	}
	if input.OpenTime != nil {
		restaurant.OpenTime = *input.OpenTime
	}
	if input.CloseTime != nil {
		restaurant.CloseTime = *input.CloseTime
	}
	if input.ImageURL != nil {
		restaurant.ImageURL = *input.ImageURL
	}

	if err := s.restaurantRepo.Update(restaurant); err != nil {
		logger.Error("Failed to update restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return nil, err
	}

	logger.Info("Restaurant updated", map[string]interface{}{
		"restaurant_id": id,
		"actor_id":      actorID,
	})

	return restaurant, nil
}

func (s *restaurantService) DeleteRestaurant(actorID uint, actorRole model.UserRole, id uint) error {
	restaurant, err := s.GetRestaurantByID(id)
	if err != nil {
		return err
	}

	if !canManage(actorID, actorRole, restaurant) {
		logger.Warn("Restaurant delete denied", map[string]interface{}{
			"restaurant_id": id,
			"actor_id":      actorID,
			"actor_role":    actorRole,
		})
		return ErrRestaurantAccessDenied
	}

	if err := s.restaurantRepo.Delete(id); err != nil {
		logger.Error("Failed to delete restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return err
	}

	logger.Info("Restaurant deleted", map[string]interface{}{
		"restaurant_id": id,
		"actor_id":      actorID,
	})

	return nil
}

// ChangeStatus moves the restaurant to any operational status. No transition
// table is enforced; suspended restaurants can go straight back to active.
func (s *restaurantService) ChangeStatus(actorID uint, actorRole model.UserRole, id uint, status model.RestaurantStatus) (*model.Restaurant, error) {
	if !model.ValidRestaurantStatus(status) {
		return nil, ErrInvalidStatus
	}

	restaurant, err := s.GetRestaurantByID(id)
	if err != nil {
		return nil, err
	}

	if !canManage(actorID, actorRole, restaurant) {
		logger.Warn("Status change denied", map[string]interface{}{
			"restaurant_id": id,
			"actor_id":      actorID,
			"actor_role":    actorRole,
		})
		return nil, ErrRestaurantAccessDenied
	}

	updated := lifecycle.ChangeStatus(*restaurant, status, time.Now())
	if err := s.restaurantRepo.Update(&updated); err != nil {
		logger.Error("Failed to change restaurant status", err, map[string]interface{}{
			"restaurant_id": id,
			"status":        status,
		})
		return nil, err
	}

	logger.Info("Restaurant status changed", map[string]interface{}{
		"restaurant_id": id,
		"status":        status,
		"actor_id":      actorID,
	})

	return &updated, nil
}

// canManage allows admins and the owning operator
func canManage(actorID uint, actorRole model.UserRole, restaurant *model.Restaurant) bool {
	if actorRole == model.RoleAdmin {
		return true
	}
	return restaurant.OwnerID != nil && *restaurant.OwnerID == actorID
}
