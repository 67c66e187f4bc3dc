package testutil

import (
	"errors"
	"testing"

	apperrors "haushaltsbuch/internal/errors"
	"haushaltsbuch/internal/models"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertLineTotal checks a line's base amount and the total it is worth.
// Subitems replace the base amount in the total but never overwrite it.
func AssertLineTotal(t *testing.T, line *models.Line, wantBase, wantTotal float64) {
	t.Helper()

	if line == nil {
		t.Fatal("expected a line, got nil")
	}
	if line.BaseAmount != wantBase {
		t.Errorf("expected base amount %v, got %v", wantBase, line.BaseAmount)
	}
	if got := line.Total(); got != wantTotal {
		t.Errorf("expected total %v, got %v (%d subitems)", wantTotal, got, len(line.Subitems))
	}
}
