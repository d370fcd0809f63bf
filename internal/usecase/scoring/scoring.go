package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"lendingportal-backend/internal/domain/application"
)

// Config carries the product-tuned scoring constants. They are configuration,
// not literals at call sites; DefaultConfig matches current policy.
type Config struct {
	BaseScore int

	EstablishedYears      float64 // years_in_business threshold for the big discount
	EstablishedDelta      int
	SeasonedYears         float64
	SeasonedDelta         int
	NewBusinessYears      float64 // below this counts as a new business
	NewBusinessDelta      int

	LargeAmountThreshold float64
	LargeAmountDelta     int
	SmallAmountThreshold float64
	SmallAmountDelta     int

	RefinanceDelta      int
	BridgeLoanDelta     int
	WorkingCapitalDelta int

	AutoApproveBelow  int // risk score strictly below this is auto-approval eligible
	ManualReviewAbove int // risk score strictly above this forces manual review

	MinAmount float64
	MaxAmount float64
}

func DefaultConfig() Config {
	return Config{
		BaseScore:            50,
		EstablishedYears:     5,
		EstablishedDelta:     -15,
		SeasonedYears:        2,
		SeasonedDelta:        -8,
		NewBusinessYears:     1,
		NewBusinessDelta:     20,
		LargeAmountThreshold: 5_000_000,
		LargeAmountDelta:     15,
		SmallAmountThreshold: 100_000,
		SmallAmountDelta:     -5,
		RefinanceDelta:       -10,
		BridgeLoanDelta:      10,
		WorkingCapitalDelta:  5,
		AutoApproveBelow:     30,
		ManualReviewAbove:    70,
		MinAmount:            1_000,
		MaxAmount:            50_000_000,
	}
}

type Input struct {
	FirstName       string               `json:"first_name"`
	LastName        string               `json:"last_name"`
	BusinessName    string               `json:"business_name"`
	Phone           string               `json:"phone"`
	LoanType        application.LoanType `json:"loan_type"`
	AmountRequested float64              `json:"amount_requested"`
	YearsInBusiness float64              `json:"years_in_business"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	IsValid              bool         `json:"is_valid"`
	Errors               []FieldError `json:"errors,omitempty"`
	RiskScore            int          `json:"risk_score"`
	AutoApprovalEligible bool         `json:"auto_approval_eligible"`
}

var reNonDigit = regexp.MustCompile(`[^0-9]`)

// Evaluate validates the raw fields and computes the risk score. It has no
// side effects and is deterministic for identical inputs.
func Evaluate(cfg Config, in Input) Result {
	var errs []FieldError

	if len(strings.TrimSpace(in.FirstName)) < 2 {
		errs = append(errs, FieldError{Field: "first_name", Message: "must be at least 2 characters"})
	}
	if len(strings.TrimSpace(in.LastName)) < 2 {
		errs = append(errs, FieldError{Field: "last_name", Message: "must be at least 2 characters"})
	}
	if strings.TrimSpace(in.BusinessName) == "" {
		errs = append(errs, FieldError{Field: "business_name", Message: "is required"})
	}
	if in.AmountRequested < cfg.MinAmount || in.AmountRequested > cfg.MaxAmount {
		errs = append(errs, FieldError{
			Field:   "amount_requested",
			Message: fmt.Sprintf("must be between %.0f and %.0f", cfg.MinAmount, cfg.MaxAmount),
		})
	}
	if !validPhone(in.Phone) {
		errs = append(errs, FieldError{Field: "phone", Message: "must be a valid phone number"})
	}
	if !application.ValidLoanType(in.LoanType) {
		errs = append(errs, FieldError{Field: "loan_type", Message: "unknown loan type"})
	}

	score := cfg.BaseScore
	switch {
	case in.YearsInBusiness >= cfg.EstablishedYears:
		score += cfg.EstablishedDelta
	case in.YearsInBusiness >= cfg.SeasonedYears:
		score += cfg.SeasonedDelta
	case in.YearsInBusiness < cfg.NewBusinessYears:
		score += cfg.NewBusinessDelta
	}
	if in.AmountRequested > cfg.LargeAmountThreshold {
		score += cfg.LargeAmountDelta
	} else if in.AmountRequested < cfg.SmallAmountThreshold {
		score += cfg.SmallAmountDelta
	}
	switch in.LoanType {
	case application.LoanTypeRefinance:
		score += cfg.RefinanceDelta
	case application.LoanTypeBridgeLoan:
		score += cfg.BridgeLoanDelta
	case application.LoanTypeWorkingCapital:
		score += cfg.WorkingCapitalDelta
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	valid := len(errs) == 0
	return Result{
		IsValid:              valid,
		Errors:               errs,
		RiskScore:            score,
		AutoApprovalEligible: valid && score < cfg.AutoApproveBelow,
	}
}

// validPhone is deliberately permissive: strip everything but digits, then
// require an international-plausible length.
func validPhone(raw string) bool {
	digits := reNonDigit.ReplaceAllString(raw, "")
	return len(digits) >= 7 && len(digits) <= 15
}
