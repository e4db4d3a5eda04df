package testutil

import (
	"errors"
	"testing"

	apperrors "ratrace/internal/errors"
)

// appError unwraps err into an *AppError or stops the test.
func appError(t *testing.T, err error, want string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}

// AssertAppError checks that err is an *AppError with the expected code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	appErr := appError(t, err, expectedCode)
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertKind checks the error's place in the taxonomy: validation,
// not_found, state and so on.
func AssertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	appErr := appError(t, err, string(kind))
	if appErr.Kind != kind {
		t.Errorf("expected a %s error, got %s %q (message: %s)", kind, appErr.Kind, appErr.Code, appErr.Message)
	}
}

// AssertGameError checks both the code and the kind of a game command error.
func AssertGameError(t *testing.T, err error, kind apperrors.Kind, code string) {
	t.Helper()
	AssertKind(t, err, kind)
	AssertAppError(t, err, code)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
