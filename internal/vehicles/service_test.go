package vehicles

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubVehiclesRepo struct {
	vehicles  map[int64]models.Vehicle
	created   *models.Vehicle
	createErr error
	updateErr error
	deleteErr error
}

func (s *stubVehiclesRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if s.createErr != nil {
		return s.createErr
	}
	vehicle.ID = int64(len(s.vehicles) + 1)
	s.vehicles[vehicle.ID] = *vehicle
	s.created = vehicle
	return nil
}

func (s *stubVehiclesRepo) List(ctx context.Context) ([]models.Vehicle, error) {
	out := make([]models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (s *stubVehiclesRepo) FindByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	v, ok := s.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (s *stubVehiclesRepo) Update(ctx context.Context, vehicle *models.Vehicle) (int64, error) {
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	if _, ok := s.vehicles[vehicle.ID]; !ok {
		return 0, nil
	}
	s.vehicles[vehicle.ID] = *vehicle
	return 1, nil
}

func (s *stubVehiclesRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	if _, ok := s.vehicles[id]; !ok {
		return 0, nil
	}
	delete(s.vehicles, id)
	return 1, nil
}

func newStub() *stubVehiclesRepo {
	return &stubVehiclesRepo{vehicles: map[int64]models.Vehicle{}}
}

func TestCreateVehicleNormalizesPlate(t *testing.T) {
	repo := newStub()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	owner := int64(4)
	vehicle, err := svc.Create(context.Background(), VehicleInput{Model: " Corolla ", LicensePlate: " ab-123 ", OwnerID: &owner})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if vehicle.LicensePlate != "AB-123" || vehicle.Model != "Corolla" {
		t.Fatalf("unexpected vehicle %+v", vehicle)
	}
	if vehicle.OwnerID == nil || *vehicle.OwnerID != 4 {
		t.Fatalf("owner not carried through")
	}
}

func TestCreateVehicleValidation(t *testing.T) {
	svc, _ := NewService(newStub())
	bad := int64(-2)
	cases := []VehicleInput{
		{Model: "", LicensePlate: "X1"},
		{Model: "Civic", LicensePlate: "  "},
		{Model: "Civic", LicensePlate: "X1", OwnerID: &bad},
	}
	for _, input := range cases {
		if _, err := svc.Create(context.Background(), input); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestCreateVehicleMapsStoreErrors(t *testing.T) {
	repo := newStub()
	svc, _ := NewService(repo)
	owner := int64(99)

	repo.createErr = errors.New("UNIQUE constraint failed: vehicles.license_plate")
	if _, err := svc.Create(context.Background(), VehicleInput{Model: "Golf", LicensePlate: "DUP"}); !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	repo.createErr = errors.New("FOREIGN KEY constraint failed")
	if _, err := svc.Create(context.Background(), VehicleInput{Model: "Golf", LicensePlate: "NEW", OwnerID: &owner}); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected owner not found, got %v", err)
	}

	repo.createErr = errors.New("connection refused")
	if _, err := svc.Create(context.Background(), VehicleInput{Model: "Golf", LicensePlate: "NEW"}); !pkgerrors.Is(err, pkgerrors.CodeStorage) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

func TestUpdateAndDeleteVehicle(t *testing.T) {
	repo := newStub()
	repo.vehicles[1] = models.Vehicle{ID: 1, Model: "Polo", LicensePlate: "P1"}
	svc, _ := NewService(repo)
	ctx := context.Background()

	updated, err := svc.Update(ctx, 1, VehicleInput{ID: 1, Model: "Polo GTI", LicensePlate: "p1"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Model != "Polo GTI" || updated.LicensePlate != "P1" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if _, err := svc.Update(ctx, 1, VehicleInput{ID: 2, Model: "Polo", LicensePlate: "P1"}); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected id mismatch validation error, got %v", err)
	}
	if _, err := svc.Update(ctx, 5, VehicleInput{Model: "Polo", LicensePlate: "P1"}); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, 1); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found on repeat delete, got %v", err)
	}
}

func TestDeleteVehicleWithRecords(t *testing.T) {
	repo := newStub()
	repo.deleteErr = errors.New(`update or delete on table "vehicles" violates foreign key constraint`)
	svc, _ := NewService(repo)

	if err := svc.Delete(context.Background(), 3); !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
