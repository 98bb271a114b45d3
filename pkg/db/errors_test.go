package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_vehicles_license_plate"}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", pgxErr), "") {
		t.Fatalf("expected pgx unique violation")
	}
	if !IsUniqueViolation(pgxErr, "idx_vehicles_license_plate") {
		t.Fatalf("expected constraint match")
	}
	if IsUniqueViolation(pgxErr, "idx_users_email") {
		t.Fatalf("did not expect match for another constraint")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: vehicles.license_plate"), "") {
		t.Fatalf("expected sqlite unique violation")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatalf("nil is not a violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pq.Error{Code: pq.ErrorCode(pgerrcode.ForeignKeyViolation)}) {
		t.Fatalf("expected pq foreign key violation")
	}
	if !IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")) {
		t.Fatalf("expected sqlite foreign key violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}) {
		t.Fatalf("unique violation is not a foreign key violation")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)) {
		t.Fatalf("expected wrapped not found to match")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatalf("unexpected match")
	}
}

func TestViolatedConstraint(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "fk_service_records_advisor"}
	if got := ViolatedConstraint(fmt.Errorf("insert: %w", pgxErr)); got != "fk_service_records_advisor" {
		t.Fatalf("unexpected constraint %q", got)
	}
	if got := ViolatedConstraint(errors.New("FOREIGN KEY constraint failed")); got != "FOREIGN KEY constraint failed" {
		t.Fatalf("expected raw message fallback, got %q", got)
	}
	if ViolatedConstraint(nil) != "" {
		t.Fatalf("nil error has no constraint")
	}
}
