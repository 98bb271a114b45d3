package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WorkItem is a billable catalog entry. Rows are soft deleted so historical
// service items keep resolving to their original name and cost.
type WorkItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;not null"`
	Cost      decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

// Retired reports whether the item was removed from the catalog.
func (w WorkItem) Retired() bool {
	return w.DeletedAt.Valid
}
