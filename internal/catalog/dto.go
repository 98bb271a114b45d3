package catalog

import (
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// WorkItemInput carries the fields accepted on create and update.
type WorkItemInput struct {
	ID   int64           `json:"id"`
	Name string          `json:"name" validate:"required,max=200"`
	Cost decimal.Decimal `json:"cost"`
}

// WorkItemDTO is the public representation of a catalog entry.
type WorkItemDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Cost      string    `json:"cost"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromModel maps a work item into its DTO. Costs render with two decimals.
func FromModel(m models.WorkItem) WorkItemDTO {
	return WorkItemDTO{
		ID:        m.ID,
		Name:      m.Name,
		Cost:      m.Cost.StringFixed(2),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a slice of work items.
func FromModels(items []models.WorkItem) []WorkItemDTO {
	out := make([]WorkItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, FromModel(item))
	}
	return out
}
