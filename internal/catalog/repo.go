package catalog

import (
	"context"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists catalog work items.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a work item repository to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the work item and populates its generated id.
func (r *Repository) Create(ctx context.Context, item *models.WorkItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// List returns every active work item ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.WorkItem, error) {
	var items []models.WorkItem
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID loads an active work item.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update replaces name and cost, returning the number of rows touched.
func (r *Repository) Update(ctx context.Context, item *models.WorkItem) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.WorkItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name": item.Name,
			"cost": item.Cost,
		})
	return res.RowsAffected, res.Error
}

// Delete soft deletes the work item so historical service items still resolve it.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.WorkItem{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
