package vehicles

import (
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
)

// VehicleInput is accepted on create and update.
type VehicleInput struct {
	ID           int64  `json:"id"`
	Model        string `json:"model" validate:"required,max=120"`
	LicensePlate string `json:"licensePlate" validate:"required,max=20"`
	OwnerID      *int64 `json:"ownerId,omitempty" validate:"omitempty,gt=0"`
}

// OwnerDTO summarizes the vehicle's owner.
type OwnerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VehicleDTO is the public shape of a vehicle.
type VehicleDTO struct {
	ID           int64     `json:"id"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"licensePlate"`
	OwnerID      *int64    `json:"ownerId,omitempty"`
	Owner        *OwnerDTO `json:"owner,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func FromModel(m models.Vehicle) VehicleDTO {
	dto := VehicleDTO{
		ID:           m.ID,
		Model:        m.Model,
		LicensePlate: m.LicensePlate,
		OwnerID:      m.OwnerID,
		CreatedAt:    m.CreatedAt,
	}
	if m.Owner != nil {
		dto.Owner = &OwnerDTO{ID: m.Owner.ID, Name: m.Owner.FullName(), Email: m.Owner.Email}
	}
	return dto
}

func FromModels(items []models.Vehicle) []VehicleDTO {
	out := make([]VehicleDTO, 0, len(items))
	for _, item := range items {
		out = append(out, FromModel(item))
	}
	return out
}
