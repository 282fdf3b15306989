package db

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pg := errors.New(`duplicate key value violates unique constraint "ux_invoices_house_period"`)
	if !IsUniqueViolation(pg, "") {
		t.Fatal("postgres duplicate key message should match")
	}
	if !IsUniqueViolation(pg, "ux_invoices_house_period") {
		t.Fatal("constraint name should match")
	}
	if IsUniqueViolation(pg, "ux_house_responsibilities_open") {
		t.Fatal("different constraint name should not match")
	}

	lite := errors.New("UNIQUE constraint failed: invoices.house_id, invoices.year, invoices.month")
	if !IsUniqueViolation(lite, "") {
		t.Fatal("sqlite unique message should match")
	}

	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("wrapped record-not-found should match")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("unrelated errors should not match")
	}
}
