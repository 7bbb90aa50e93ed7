package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoonsu/baedalgo-backend/internal/app/lifecycle"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/internal/db"
	"gorm.io/gorm"
)

func setupRestaurantServiceTest(t *testing.T) (RestaurantService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	restaurantRepo := repository.NewRestaurantRepository(testDB)
	return NewRestaurantService(restaurantRepo), testDB
}

func createTestOperator(t *testing.T, testDB *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hashed",
		Name:         "Operator",
		Role:         model.RoleOperator,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestRestaurantService_CreateRestaurant(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	owner := createTestOperator(t, testDB, "owner@example.com")

	restaurant, err := svc.CreateRestaurant(owner.ID, CreateRestaurantInput{
		Name:         "Seoul Kitchen",
		Description:  "Korean home cooking",
		OwnerName:    "Kim Minji",
		Email:        "contact@seoulkitchen.example.com",
		City:         "Seoul",
		District:     "Mapo-gu",
		CuisineTypes: []string{"korean"},
		PriceRange:   "$$",
		OpenTime:     "09:00",
		CloseTime:    "22:00",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RestaurantStatusInactive, restaurant.Status)
	assert.Equal(t, model.VerificationStatusPending, restaurant.VerificationStatus)
	assert.Nil(t, restaurant.VerifiedAt)
	assert.NotEmpty(t, restaurant.Slug)
	require.NotNil(t, restaurant.OwnerID)
	assert.Equal(t, owner.ID, *restaurant.OwnerID)
}

func TestRestaurantService_UpdateRestaurant(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	owner := createTestOperator(t, testDB, "owner@example.com")
	other := createTestOperator(t, testDB, "other@example.com")

	restaurant, err := svc.CreateRestaurant(owner.ID, CreateRestaurantInput{
		Name: "Seoul Kitchen",
		City: "Seoul",
	})
	require.NoError(t, err)

	t.Run("Owner can update", func(t *testing.T) {
		newName := "Seoul Kitchen & Bar"
		updated, err := svc.UpdateRestaurant(owner.ID, model.RoleOperator, restaurant.ID, UpdateRestaurantInput{
			Name: &newName,
		})
		require.NoError(t, err)
		assert.Equal(t, "Seoul Kitchen & Bar", updated.Name)
		assert.Equal(t, "Seoul", updated.City)
	})

	t.Run("Other operator is denied", func(t *testing.T) {
		newName := "Hijacked"
		_, err := svc.UpdateRestaurant(other.ID, model.RoleOperator, restaurant.ID, UpdateRestaurantInput{
			Name: &newName,
		})
		assert.ErrorIs(t, err, ErrRestaurantAccessDenied)
	})

	t.Run("Admin can update any restaurant", func(t *testing.T) {
		newCity := "Busan"
		updated, err := svc.UpdateRestaurant(other.ID, model.RoleAdmin, restaurant.ID, UpdateRestaurantInput{
			City: &newCity,
		})
		require.NoError(t, err)
		assert.Equal(t, "Busan", updated.City)
	})

	t.Run("Unknown restaurant", func(t *testing.T) {
		_, err := svc.UpdateRestaurant(owner.ID, model.RoleOperator, 9999, UpdateRestaurantInput{})
		assert.ErrorIs(t, err, ErrRestaurantNotFound)
	})
}

func TestRestaurantService_ChangeStatus(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	owner := createTestOperator(t, testDB, "owner@example.com")

	restaurant, err := svc.CreateRestaurant(owner.ID, CreateRestaurantInput{
		Name: "Seoul Kitchen",
		City: "Seoul",
	})
	require.NoError(t, err)

	t.Run("Any status can follow any other", func(t *testing.T) {
		statuses := []model.RestaurantStatus{
			model.RestaurantStatusActive,
			model.RestaurantStatusSuspended,
			model.RestaurantStatusActive,
			model.RestaurantStatusTemporarilyClosed,
			model.RestaurantStatusInactive,
		}
		for _, status := range statuses {
			updated, err := svc.ChangeStatus(owner.ID, model.RoleOperator, restaurant.ID, status)
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
		}
	})

	t.Run("Status change does not touch verification", func(t *testing.T) {
		updated, err := svc.ChangeStatus(owner.ID, model.RoleOperator, restaurant.ID, model.RestaurantStatusActive)
		require.NoError(t, err)
		assert.Equal(t, model.VerificationStatusPending, updated.VerificationStatus)
	})

	t.Run("Invalid status rejected", func(t *testing.T) {
		_, err := svc.ChangeStatus(owner.ID, model.RoleOperator, restaurant.ID, "hibernating")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("Foreign operator denied", func(t *testing.T) {
		stranger := createTestOperator(t, testDB, "stranger@example.com")
		_, err := svc.ChangeStatus(stranger.ID, model.RoleOperator, restaurant.ID, model.RestaurantStatusActive)
		assert.ErrorIs(t, err, ErrRestaurantAccessDenied)
	})
}

func TestRestaurantService_ListRestaurants(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	owner := createTestOperator(t, testDB, "owner@example.com")

	cities := []string{"Seoul", "Seoul", "Busan"}
	for i, city := range cities {
		_, err := svc.CreateRestaurant(owner.ID, CreateRestaurantInput{
			Name:         "Restaurant " + string(rune('A'+i)),
			City:         city,
			CuisineTypes: []string{"korean"},
		})
		require.NoError(t, err)
	}

	t.Run("City filter is case-insensitive", func(t *testing.T) {
		result, err := svc.ListRestaurants(repository.RestaurantFilter{
			Criteria: lifecycle.FilterCriteria{City: "seoul"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.TotalCount)
		assert.Len(t, result.Restaurants, 2)
	})

	t.Run("Defaults applied to pagination", func(t *testing.T) {
		result, err := svc.ListRestaurants(repository.RestaurantFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 20, result.PageSize)
		assert.Equal(t, int64(3), result.TotalCount)
	})
}

func TestRestaurantService_DeleteRestaurant(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	owner := createTestOperator(t, testDB, "owner@example.com")

	restaurant, err := svc.CreateRestaurant(owner.ID, CreateRestaurantInput{
		Name: "Short Lived",
		City: "Seoul",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRestaurant(owner.ID, model.RoleOperator, restaurant.ID))

	_, err = svc.GetRestaurantByID(restaurant.ID)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}
