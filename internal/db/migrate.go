package db

import (
	"errors"
	"strings"

	"github.com/ikkim/catalog-backend/config"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/ikkim/catalog-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.CartItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed creates the bootstrap admin account when configured.
func Seed(cfg *config.AdminConfig) error {
	return SeedAdmin(DB, cfg)
}

// SeedAdmin creates an admin user for cfg.Email unless one already exists.
// An existing non-admin user with that email is promoted.
func SeedAdmin(database *gorm.DB, cfg *config.AdminConfig) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Debug("Admin bootstrap skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	var existing model.User
	err := database.Where("LOWER(email) = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role == model.RoleAdmin {
			logger.Info("Admin user already seeded, skipping...", map[string]interface{}{
				"user_id": existing.ID,
			})
			return nil
		}
		if err := database.Model(&existing).Update("role", model.RoleAdmin).Error; err != nil {
			logger.Error("Failed to promote user to admin", err, map[string]interface{}{
				"user_id": existing.ID,
			})
			return err
		}
		logger.Info("Existing user promoted to admin", map[string]interface{}{
			"user_id": existing.ID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up admin user", err)
		return err
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		logger.Error("Failed to hash admin password", err)
		return err
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := database.Create(admin).Error; err != nil {
		logger.Error("Failed to create admin user", err)
		return err
	}

	logger.Info("Admin user seeded successfully", map[string]interface{}{
		"user_id": admin.ID,
		"email":   admin.Email,
	})
	return nil
}
