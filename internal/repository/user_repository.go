package repository

import (
	"context"
	"errors"

	"github.com/userdesk/api/internal/models"
	appErr "github.com/userdesk/api/pkg/errors"
	"gorm.io/gorm"
)

// DefaultListLimit bounds List when the caller passes limit <= 0.
const DefaultListLimit = 100

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	List(ctx context.Context, skip, limit int) ([]models.User, error)
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by email failed")
	}
	return nil
}

// List returns up to limit users after skipping skip, ordered by id ascending
// so offset pagination stays deterministic.
func (r *userRepository) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var out []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(skip).Limit(limit).Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list users failed")
	}
	return out, nil
}
