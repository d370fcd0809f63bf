package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		BorrowerID string `validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{BorrowerID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		bad := P{BorrowerID: s}
		err := cv.Validate(bad)
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "BorrowerID", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestPhoneValidation(t *testing.T) {
	type P struct {
		Phone string `validate:"phone"`
	}
	cv := NewValidator()

	for _, s := range []string{
		"5551234567",
		"+1 (555) 123-4567",
		"555-123-4567",
		"+44 20 7946 0958",
	} {
		if err := cv.Validate(P{Phone: s}); err != nil {
			t.Fatalf("expected phone OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{
		"",
		"12345",          // too short
		"call me maybe",  // letters
		"555#123#4567",   // bad separator
	} {
		err := cv.Validate(P{Phone: s})
		if err == nil {
			t.Fatalf("expected phone error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "Phone", "valid phone number") {
			t.Fatalf("expected phone message for %q, got %+v", s, fe)
		}
	}
}

func TestLoanTypeValidation(t *testing.T) {
	type P struct {
		LoanType string `validate:"loan_type"`
	}
	cv := NewValidator()

	for _, s := range []string{"working_capital", "equipment", "real_estate", "expansion", "refinance", "bridge_loan", "line_of_credit"} {
		if err := cv.Validate(P{LoanType: s}); err != nil {
			t.Fatalf("expected loan_type OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"", "payday", "WORKING_CAPITAL"} {
		err := cv.Validate(P{LoanType: s})
		if err == nil {
			t.Fatalf("expected loan_type error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "LoanType", "unknown loan type") {
			t.Fatalf("expected loan_type message for %q, got %+v", s, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name   string  `validate:"required"`
		Min    int     `validate:"gte=10"`
		Max    int     `validate:"lte=5"`
		Amount float64 `validate:"gte=1000,lte=50000000"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{
		Name:   "",  // required
		Min:    9,   // gte=10
		Max:    6,   // lte=5
		Amount: 500, // gte=1000
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
	if !containsFieldMsg(fe, "Amount", "greater than or equal to 1000") {
		t.Fatalf("missing gte message for Amount: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
