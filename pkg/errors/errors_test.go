package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_StatusCode(t *testing.T) {
	err := New(CodeNotFound, "not found", http.StatusNotFound)
	if err.StatusCode() != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), http.StatusNotFound)
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)
	details := map[string]any{
		"field": "email",
		"error": "invalid format",
	}

	err = err.WithDetails(details)

	if err.Details["field"] != "email" {
		t.Errorf("expected field 'email', got %v", err.Details["field"])
	}
	if err.Details["error"] != "invalid format" {
		t.Errorf("expected error 'invalid format', got %v", err.Details["error"])
	}
}

func TestConstructors_CodeAndStatus(t *testing.T) {
	cause := errors.New("database error")
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Slot"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Booking", "b1"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad slot", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad json"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("sign in"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("busy"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", cause), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"canceled", Canceled("gone"), CodeCanceled, StatusClientClosedRequest},
		{"unavailable", Unavailable("Redis"), CodeUnavailable, http.StatusServiceUnavailable},
		{"slot unavailable", SlotUnavailable("s1"), CodeSlotUnavailable, http.StatusConflict},
		{"slot full", SlotFull("s1"), CodeSlotFull, http.StatusConflict},
		{"duplicate booking", DuplicateBooking("s1"), CodeDuplicateBooking, http.StatusConflict},
		{"invalid state", InvalidState("booking already canceled"), CodeInvalidState, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.HTTPStatus)
			}
		})
	}
}

func TestConstructors_Details(t *testing.T) {
	if got := NotFound("Slot").Message; got != "Slot not found" {
		t.Errorf("unexpected message %q", got)
	}

	withID := NotFoundWithID("Booking", "b1")
	if withID.Details["id"] != "b1" || withID.Details["resource"] != "Booking" {
		t.Errorf("unexpected details %v", withID.Details)
	}

	if SlotFull("abc").Details["slot_id"] != "abc" {
		t.Errorf("expected slot_id detail to be set")
	}

	if got := Unavailable("Redis").Message; got != "Redis is temporarily unavailable" {
		t.Errorf("unexpected message %q", got)
	}

	cause := errors.New("database error")
	if Internal("boom", cause).Err != cause {
		t.Errorf("expected Internal to keep its cause")
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NotFound("User")
	regularErr := errors.New("regular error")

	if !IsAppError(appErr) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(regularErr) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("User")
	regularErr := errors.New("regular error")

	result := AsAppError(appErr)
	if result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	result = AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("reserve: %w", SlotFull("s1"))

	if !HasCode(wrapped, CodeSlotFull) {
		t.Errorf("HasCode() should find code through wrapping")
	}
	if HasCode(wrapped, CodeConflict) {
		t.Errorf("HasCode() should not match a different code")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Errorf("HasCode() should return false for non-AppError")
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	inner := Forbidden("not yours")
	wrapped := fmt.Errorf("cancel: %w", inner)

	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see through wrapping")
	}
	if AsAppError(wrapped) != inner {
		t.Errorf("AsAppError() should return the wrapped AppError")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	body := string(NotFoundWithID("Slot", "s1").ToJSON())

	for _, want := range []string{`"code":"NOT_FOUND"`, `"message":"Slot not found"`, `"id":"s1"`} {
		if !strings.Contains(body, want) {
			t.Errorf("ToJSON() = %s, missing %s", body, want)
		}
	}
}
