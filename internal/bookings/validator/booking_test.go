package validator

import (
	"errors"
	"testing"
	"time"

	bookingserrors "rently/internal/bookings/errors"
	"rently/pkg/logger"
	"rently/pkg/model"
)

func testValidator() *BookingValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	v := NewBookingValidator(log)
	// Pin the clock so past-start checks are stable.
	v.now = func() time.Time {
		return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	}
	return v
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		UserID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		ItemID:    "550e8400-e29b-41d4-a716-446655440000",
		StartDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateRequest_Valid(t *testing.T) {
	v := testValidator()
	if err := v.ValidateRequest(validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequest_MissingFields(t *testing.T) {
	v := testValidator()

	req := validRequest()
	req.UserID = ""
	req.ItemID = ""

	err := v.ValidateRequest(req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(verrs), verrs)
	}
}

func TestValidateRequest_MalformedIDs(t *testing.T) {
	v := testValidator()

	req := validRequest()
	req.UserID = "user-123"

	if err := v.ValidateRequest(req); err == nil {
		t.Fatal("expected validation error for malformed UUID")
	}
}

func TestValidateRequest_NotesTooLong(t *testing.T) {
	v := testValidator()

	req := validRequest()
	notes := make([]byte, 2001)
	for i := range notes {
		notes[i] = 'a'
	}
	req.Notes = string(notes)

	if err := v.ValidateRequest(req); err == nil {
		t.Fatal("expected validation error for oversized notes")
	}
}

func TestValidateInterval(t *testing.T) {
	v := testValidator()

	// Pinned clock: 2026-03-10 15:00 UTC.
	at := func(day, hour int) time.Time {
		return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"future interval", at(12, 0), at(14, 0), nil},
		{"later the same day", at(10, 16), at(10, 18), nil},
		{"zero extent", at(12, 0), at(12, 0), bookingserrors.ErrInvalidInterval},
		{"end before start", at(14, 0), at(12, 0), bookingserrors.ErrInvalidInterval},
		{"start in past", at(8, 0), at(12, 0), bookingserrors.ErrPastStart},
		{"earlier the same day", at(10, 14), at(12, 0), bookingserrors.ErrPastStart},
		{"reversed and in past", at(8, 0), at(6, 0), bookingserrors.ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInterval(tt.start, tt.end)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
