package servicerecords

import (
	"context"
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	"github.com/angelmondragon/servicebay-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists service records and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a service record repository to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listQuery struct {
	status    *enums.ServiceStatus
	advisorID int64
	limit     int
	cursor    *pagination.Cursor
}

func (r *Repository) Create(ctx context.Context, record *models.ServiceRecord) error {
	return r.db.WithContext(ctx).Omit("Vehicle", "ServiceAdvisor").Create(record).Error
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.ServiceRecord, error) {
	var record models.ServiceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindDetail loads the record with its vehicle and advisor.
func (r *Repository) FindDetail(ctx context.Context, id int64) (*models.ServiceRecord, error) {
	var record models.ServiceRecord
	if err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("ServiceAdvisor").
		First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListItems returns the record's items in insertion order. Retired work items are
// still resolved so historical lines keep their name and cost.
func (r *Repository) ListItems(ctx context.Context, recordID int64) ([]models.ServiceItem, error) {
	var items []models.ServiceItem
	if err := r.db.WithContext(ctx).
		Preload("WorkItem", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Where("service_record_id = ?", recordID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *models.ServiceItem) error {
	return r.db.WithContext(ctx).Omit("WorkItem").Create(item).Error
}

// Transition moves the record to status when its current status is one of from.
// It returns the number of rows updated.
func (r *Repository) Transition(ctx context.Context, id int64, from []enums.ServiceStatus, to enums.ServiceStatus, at time.Time) (int64, error) {
	fields := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case enums.ServiceStatusUnderService:
		fields["started_at"] = at
	case enums.ServiceStatusCompleted:
		fields["completed_at"] = at
	}
	res := r.db.WithContext(ctx).
		Model(&models.ServiceRecord{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// List returns records newest scheduled first, with one extra row to detect a next page.
func (r *Repository) List(ctx context.Context, q listQuery) ([]models.ServiceRecord, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.ServiceRecord{}).
		Preload("Vehicle").
		Preload("ServiceAdvisor")

	if q.status != nil {
		tx = tx.Where("status = ?", *q.status)
	}
	if q.advisorID > 0 {
		tx = tx.Where("service_advisor_id = ?", q.advisorID)
	}
	if q.cursor != nil {
		tx = tx.Where("(scheduled_date < ?) OR (scheduled_date = ? AND id < ?)", q.cursor.At, q.cursor.At, q.cursor.ID)
	}

	var records []models.ServiceRecord
	if err := tx.
		Order("scheduled_date DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(q.limit)).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
