package vehicles

import (
	"context"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes vehicle persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a vehicles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(vehicle).Error
}

// List returns all vehicles with their owners, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("id DESC").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).Preload("Owner").First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// Update overwrites model, plate and owner for the given id.
func (r *Repository) Update(ctx context.Context, vehicle *models.Vehicle) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", vehicle.ID).
		Updates(map[string]any{
			"model":         vehicle.Model,
			"license_plate": vehicle.LicensePlate,
			"owner_id":      vehicle.OwnerID,
		})
	return res.RowsAffected, res.Error
}

func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Vehicle{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
