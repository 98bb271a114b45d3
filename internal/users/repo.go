package users

import (
	"context"
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDAndType loads a user only when it carries the given user type.
func (r *Repository) FindByIDAndType(ctx context.Context, id int64, userType enums.UserType) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_type = ?", id, userType).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByType returns users of a single type ordered by id.
func (r *Repository) ListByType(ctx context.Context, userType enums.UserType) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).
		Where("user_type = ?", userType).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields applies a partial update to the user of the given type.
func (r *Repository) UpdateFields(ctx context.Context, id int64, userType enums.UserType, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND user_type = ?", id, userType).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// DeleteByType removes the user when it carries the given type.
func (r *Repository) DeleteByType(ctx context.Context, id int64, userType enums.UserType) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_type = ?", id, userType).
		Delete(&models.User{})
	return res.RowsAffected, res.Error
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
