package service

import (
	"errors"

	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/pkg/logger"
	"github.com/yoonsu/baedalgo-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrPasswordMismatch = errors.New("current password does not match")

type UserService interface {
	GetUserByID(id uint) (*model.User, error)
	GetUserProfile(id uint) (*model.User, error)
	UpdateProfile(userID uint, name, phone, profileImage string) (*model.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
	DeleteAccount(userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserByID(id uint) (*model.User, error) {
	logger.Debug("Fetching user by ID", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return user, nil
}

// GetUserProfile loads a user together with the restaurants they operate
func (s *userService) GetUserProfile(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithRestaurants(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user profile", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return user, nil
}

func (s *userService) UpdateProfile(userID uint, name, phone, profileImage string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	if profileImage != "" {
		user.ProfileImage = profileImage
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})

	return user, nil
}

func (s *userService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change failed: current password mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return ErrPasswordMismatch
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	user.PasswordHash = hashed
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to persist new password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})

	return nil
}

func (s *userService) DeleteAccount(userID uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("User account deleted", map[string]interface{}{
		"user_id": userID,
	})

	return nil
}
