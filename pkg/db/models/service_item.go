package models

import "time"

// ServiceItem is one billing line on a service record.
type ServiceItem struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ServiceRecordID int64     `gorm:"column:service_record_id;not null;index"`
	WorkItemID      int64     `gorm:"column:work_item_id;not null;index"`
	WorkItem        *WorkItem `gorm:"foreignKey:WorkItemID"`
	Quantity        int       `gorm:"column:quantity;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
