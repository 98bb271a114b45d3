package models

import (
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/enums"
)

// ServiceRecord is one service visit linking a vehicle to its advisor.
type ServiceRecord struct {
	ID               int64               `gorm:"column:id;primaryKey;autoIncrement"`
	VehicleID        int64               `gorm:"column:vehicle_id;not null;index"`
	Vehicle          *Vehicle            `gorm:"foreignKey:VehicleID"`
	ServiceAdvisorID int64               `gorm:"column:service_advisor_id;not null;index"`
	ServiceAdvisor   *User               `gorm:"foreignKey:ServiceAdvisorID"`
	ScheduledDate    time.Time           `gorm:"column:scheduled_date;not null"`
	Status           enums.ServiceStatus `gorm:"column:status;type:text;not null;default:'DUE'"`
	StartedAt        *time.Time          `gorm:"column:started_at"`
	CompletedAt      *time.Time          `gorm:"column:completed_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
