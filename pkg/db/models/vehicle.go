package models

import "time"

// Vehicle is a customer-owned car brought in for service.
type Vehicle struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Model        string    `gorm:"column:model;not null"`
	LicensePlate string    `gorm:"column:license_plate;not null;uniqueIndex"`
	OwnerID      *int64    `gorm:"column:owner_id"`
	Owner        *User     `gorm:"foreignKey:OwnerID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
