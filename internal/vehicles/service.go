package vehicles

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/servicebay-backend/pkg/db"
	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
)

const entityVehicle = "vehicle"

type vehiclesRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	List(ctx context.Context) ([]models.Vehicle, error)
	FindByID(ctx context.Context, id int64) (*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Service manages vehicles brought in by customers.
type Service interface {
	List(ctx context.Context) ([]models.Vehicle, error)
	Get(ctx context.Context, id int64) (*models.Vehicle, error)
	Create(ctx context.Context, input VehicleInput) (*models.Vehicle, error)
	Update(ctx context.Context, id int64, input VehicleInput) (*models.Vehicle, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo vehiclesRepository
}

func NewService(repo vehiclesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Storage(err, "list vehicles")
	}
	return vehicles, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id must be positive")
	}
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound(entityVehicle, id)
		}
		return nil, pkgerrors.Storage(err, "load vehicle")
	}
	return vehicle, nil
}

func (s *service) Create(ctx context.Context, input VehicleInput) (*models.Vehicle, error) {
	vehicle, err := normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, mapWriteError(err, vehicle, "create vehicle")
	}
	return vehicle, nil
}

func (s *service) Update(ctx context.Context, id int64, input VehicleInput) (*models.Vehicle, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id must be positive")
	}
	if input.ID != 0 && input.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id mismatch").
			WithDetails(map[string]any{"pathId": id, "bodyId": input.ID})
	}
	vehicle, err := normalize(input)
	if err != nil {
		return nil, err
	}
	vehicle.ID = id

	rows, err := s.repo.Update(ctx, vehicle)
	if err != nil {
		return nil, mapWriteError(err, vehicle, "update vehicle")
	}
	if rows == 0 {
		return nil, pkgerrors.NotFound(entityVehicle, id)
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle id must be positive")
	}
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "vehicle has service records").
				WithDetails(map[string]any{"vehicleId": id})
		}
		return pkgerrors.Storage(err, "delete vehicle")
	}
	if rows == 0 {
		return pkgerrors.NotFound(entityVehicle, id)
	}
	return nil
}

func normalize(input VehicleInput) (*models.Vehicle, error) {
	model := strings.TrimSpace(input.Model)
	plate := strings.ToUpper(strings.TrimSpace(input.LicensePlate))
	details := map[string]string{}
	if model == "" {
		details["model"] = "is required"
	}
	if plate == "" {
		details["licensePlate"] = "is required"
	}
	if input.OwnerID != nil && *input.OwnerID <= 0 {
		details["ownerId"] = "must be positive"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle").WithDetails(details)
	}
	return &models.Vehicle{Model: model, LicensePlate: plate, OwnerID: input.OwnerID}, nil
}

func mapWriteError(err error, vehicle *models.Vehicle, op string) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "license plate already registered").
			WithDetails(map[string]any{"licensePlate": vehicle.LicensePlate})
	case db.IsForeignKeyViolation(err) && vehicle.OwnerID != nil:
		return pkgerrors.NotFound("user", *vehicle.OwnerID)
	}
	return pkgerrors.Storage(err, op)
}
