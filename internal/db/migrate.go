package db

import (
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/pkg/logger"
	"github.com/yoonsu/baedalgo-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Restaurant{},
		&model.RestaurantImage{},
		&model.Document{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed creates the initial admin account when none exists
func Seed() error {
	logger.Info("Seeding initial data...")

	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Admin account already exists, skipping seed")
		return nil
	}

	hash, err := util.HashPassword("changeme123!")
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        "admin@baedalgo.local",
		PasswordHash: hash,
		Name:         "Platform Admin",
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(admin).Error; err != nil {
		logger.Error("Failed to seed admin account", err)
		return err
	}

	logger.Info("Initial data seeded successfully", map[string]interface{}{
		"admin_id": admin.ID,
	})
	return nil
}
