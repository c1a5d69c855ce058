package repository

import (
	"errors"
	"strings"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserRepository backs registration, login and the bearer lookup in /auth/me.
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create stores user with its email lowercased. A taken email surfaces as a
// unique violation.
func (r *userRepository) Create(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		r.logLookupError(err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively. Soft-deleted users are not found.
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	if err := r.db.Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		r.logLookupError(err, "email", email)
		return nil, err
	}
	return &user, nil
}

// logLookupError keeps misses at debug level; registration expects them.
func (r *userRepository) logLookupError(err error, key string, value interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug("User not found", map[string]interface{}{key: value})
		return
	}
	logger.Error("Failed to look up user", err, map[string]interface{}{key: value})
}
