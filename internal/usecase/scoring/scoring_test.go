package scoring

import (
	"reflect"
	"testing"

	"lendingportal-backend/internal/domain/application"
)

func validInput() Input {
	return Input{
		FirstName:       "Maria",
		LastName:        "Santos",
		BusinessName:    "Santos Trucking LLC",
		Phone:           "+1 (555) 123-4567",
		LoanType:        application.LoanTypeEquipment,
		AmountRequested: 250_000,
		YearsInBusiness: 3,
	}
}

func TestEvaluate_EstablishedRefinance(t *testing.T) {
	in := validInput()
	in.LoanType = application.LoanTypeRefinance
	in.AmountRequested = 50_000
	in.YearsInBusiness = 6

	res := Evaluate(DefaultConfig(), in)
	if !res.IsValid {
		t.Fatalf("expected valid, got errors: %+v", res.Errors)
	}
	// 50 - 15 (established) - 5 (small amount) - 10 (refinance) = 20
	if res.RiskScore != 20 {
		t.Fatalf("risk score = %d, want 20", res.RiskScore)
	}
	if !res.AutoApprovalEligible {
		t.Fatalf("score 20 must be auto-approval eligible")
	}
}

func TestEvaluate_NewBusinessLargeBridge(t *testing.T) {
	in := validInput()
	in.LoanType = application.LoanTypeBridgeLoan
	in.AmountRequested = 6_000_000
	in.YearsInBusiness = 0.5

	res := Evaluate(DefaultConfig(), in)
	if !res.IsValid {
		t.Fatalf("expected valid, got errors: %+v", res.Errors)
	}
	// 50 + 20 (new) + 15 (large) + 10 (bridge) = 95
	if res.RiskScore != 95 {
		t.Fatalf("risk score = %d, want 95", res.RiskScore)
	}
	if res.AutoApprovalEligible {
		t.Fatalf("score 95 must not be auto-approval eligible")
	}
}

func TestEvaluate_SeasonedTier(t *testing.T) {
	in := validInput()
	in.YearsInBusiness = 3 // seasoned, not established

	res := Evaluate(DefaultConfig(), in)
	// 50 - 8 (seasoned) = 42, equipment and mid amount add nothing
	if res.RiskScore != 42 {
		t.Fatalf("risk score = %d, want 42", res.RiskScore)
	}
}

func TestEvaluate_ClampsToRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseScore = 95

	in := validInput()
	in.LoanType = application.LoanTypeBridgeLoan
	in.AmountRequested = 10_000_000
	in.YearsInBusiness = 0

	res := Evaluate(cfg, in)
	if res.RiskScore != 100 {
		t.Fatalf("score must clamp at 100, got %d", res.RiskScore)
	}

	cfg.BaseScore = 5
	in = validInput()
	in.LoanType = application.LoanTypeRefinance
	in.AmountRequested = 50_000
	in.YearsInBusiness = 10

	res = Evaluate(cfg, in)
	if res.RiskScore != 0 {
		t.Fatalf("score must clamp at 0, got %d", res.RiskScore)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	in := validInput()
	first := Evaluate(DefaultConfig(), in)
	for i := 0; i < 10; i++ {
		if got := Evaluate(DefaultConfig(), in); !reflect.DeepEqual(got, first) {
			t.Fatalf("evaluation must be deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestEvaluate_FieldErrors(t *testing.T) {
	in := Input{
		FirstName:       "M",
		LastName:        " ",
		BusinessName:    "",
		Phone:           "123",
		LoanType:        "payday",
		AmountRequested: 500,
	}
	res := Evaluate(DefaultConfig(), in)
	if res.IsValid {
		t.Fatalf("expected invalid")
	}
	if res.AutoApprovalEligible {
		t.Fatalf("invalid input can never be auto-approval eligible")
	}

	wantFields := []string{"first_name", "last_name", "business_name", "amount_requested", "phone", "loan_type"}
	if len(res.Errors) != len(wantFields) {
		t.Fatalf("errors = %+v, want %d entries", res.Errors, len(wantFields))
	}
	seen := map[string]bool{}
	for _, e := range res.Errors {
		seen[e.Field] = true
	}
	for _, f := range wantFields {
		if !seen[f] {
			t.Fatalf("missing field error for %s: %+v", f, res.Errors)
		}
	}
}

func TestEvaluate_ScoresComputedEvenWhenInvalid(t *testing.T) {
	in := validInput()
	in.BusinessName = "" // invalid, but scoring inputs still present

	res := Evaluate(DefaultConfig(), in)
	if res.IsValid {
		t.Fatalf("expected invalid")
	}
	if res.RiskScore == 0 {
		t.Fatalf("score should still be computed for feedback, got 0")
	}
}

func TestEvaluate_PhonePermissiveFormats(t *testing.T) {
	cfg := DefaultConfig()
	for _, p := range []string{"5551234567", "555-123-4567", "+62 812 3456 789", "(555) 123 4567"} {
		in := validInput()
		in.Phone = p
		if res := Evaluate(cfg, in); !res.IsValid {
			t.Fatalf("phone %q should validate: %+v", p, res.Errors)
		}
	}
	for _, p := range []string{"", "12345", "1234567890123456"} {
		in := validInput()
		in.Phone = p
		if res := Evaluate(cfg, in); res.IsValid {
			t.Fatalf("phone %q should fail", p)
		}
	}
}
