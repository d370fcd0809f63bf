package application

import (
	"time"

	"lendingportal-backend/internal/usecase/scoring"

	domain "lendingportal-backend/internal/domain/application"
)

type ProcessInput struct {
	BorrowerID      string
	FirstName       string
	LastName        string
	BusinessName    string
	Phone           string
	Email           string
	LoanType        domain.LoanType
	AmountRequested float64
	YearsInBusiness float64
}

type UpdateStatusInput struct {
	AdminID       string
	ApplicationID string
	NewStatus     string // a valid status, or "resume" to return from paused
	Notes         string
	AnnualRate    float64 // declared annual rate for funding; 0 means default
	TermMonths    int     // declared term for funding; 0 means default
	BatchSize     int     // > 0 when part of a batch update
}

type BatchUpdateInput struct {
	AdminID        string
	ApplicationIDs []string
	NewStatus      string
	Notes          string
}

type BatchResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"`
}

type AssignInput struct {
	AdminID       string
	ApplicationID string
	AssigneeID    string
	Notes         string
}

type ApplicationDTO struct {
	ApplicationID     string         `json:"application_id"`
	ApplicationNumber string         `json:"application_number"`
	BorrowerID        string         `json:"borrower_id"`
	LoanType          string         `json:"loan_type"`
	AmountRequested   float64        `json:"amount_requested"`
	BusinessName      string         `json:"business_name"`
	Status            string         `json:"status"`
	Details           map[string]any `json:"details"`
	SubmittedAt       *time.Time     `json:"application_submitted_date,omitempty"`
	FundedDate        *time.Time     `json:"funded_date,omitempty"`
}

func toDTO(a *domain.Application) *ApplicationDTO {
	return &ApplicationDTO{
		ApplicationID:     a.ApplicationID,
		ApplicationNumber: a.ApplicationNumber,
		BorrowerID:        a.BorrowerID,
		LoanType:          string(a.LoanType),
		AmountRequested:   a.AmountRequested,
		BusinessName:      a.BusinessName,
		Status:            string(a.Status),
		Details:           a.Details,
		SubmittedAt:       a.SubmittedAt,
		FundedDate:        a.FundedDate,
	}
}

// ValidationError carries the structured field errors reported back to the
// caller as a 400. These are never logged as security events.
type ValidationError struct {
	Errors []scoring.FieldError
}

func (e *ValidationError) Error() string { return "validation failed" }

// Fields exposes the structured errors in the shape handlers use for 400
// payloads.
func (e *ValidationError) Fields() []scoring.FieldError { return e.Errors }
