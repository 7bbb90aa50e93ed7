package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/internal/db"
	"github.com/yoonsu/baedalgo-backend/pkg/util"
	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (UserService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	return NewUserService(userRepo), testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email, password string) *model.User {
	t.Helper()
	hashed, err := util.HashPassword(password)
	require.NoError(t, err)

	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         "Test User",
		Role:         model.RoleOperator,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestUserService_GetUserByID(t *testing.T) {
	svc, testDB := setupUserServiceTest(t)
	user := createTestUser(t, testDB, "user@example.com", "password123")

	t.Run("Existing user", func(t *testing.T) {
		found, err := svc.GetUserByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, found.Email)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := svc.GetUserByID(9999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_GetUserProfile(t *testing.T) {
	svc, testDB := setupUserServiceTest(t)
	user := createTestUser(t, testDB, "operator@example.com", "password123")

	restaurant := &model.Restaurant{
		OwnerID: &user.ID,
		Name:    "Seoul Kitchen",
		City:    "Seoul",
	}
	require.NoError(t, testDB.Create(restaurant).Error)

	profile, err := svc.GetUserProfile(user.ID)
	require.NoError(t, err)
	require.Len(t, profile.Restaurants, 1)
	assert.Equal(t, "Seoul Kitchen", profile.Restaurants[0].Name)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, testDB := setupUserServiceTest(t)
	user := createTestUser(t, testDB, "user@example.com", "password123")

	updated, err := svc.UpdateProfile(user.ID, "New Name", "02-9999-0000", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "02-9999-0000", updated.Phone)
	assert.Equal(t, user.Email, updated.Email)
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, testDB := setupUserServiceTest(t)
	user := createTestUser(t, testDB, "user@example.com", "oldpassword")

	t.Run("Wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(user.ID, "nottheone", "newpassword")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("Valid change", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(user.ID, "oldpassword", "newpassword"))

		var reloaded model.User
		require.NoError(t, testDB.First(&reloaded, user.ID).Error)
		assert.True(t, util.VerifyPassword(reloaded.PasswordHash, "newpassword"))
		assert.False(t, util.VerifyPassword(reloaded.PasswordHash, "oldpassword"))
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	svc, testDB := setupUserServiceTest(t)
	user := createTestUser(t, testDB, "user@example.com", "password123")

	require.NoError(t, svc.DeleteAccount(user.ID))

	_, err := svc.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = svc.DeleteAccount(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
