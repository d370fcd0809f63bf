package application

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusDraft          Status = "draft"
	StatusSubmitted      Status = "submitted"
	StatusUnderReview    Status = "under_review"
	StatusRequiresReview Status = "requires_review"
	StatusApproved       Status = "approved"
	StatusRejected       Status = "rejected"
	StatusFunded         Status = "funded"
	StatusPaused         Status = "paused"
)

var validStatuses = map[Status]bool{
	StatusDraft:          true,
	StatusSubmitted:      true,
	StatusUnderReview:    true,
	StatusRequiresReview: true,
	StatusApproved:       true,
	StatusRejected:       true,
	StatusFunded:         true,
	StatusPaused:         true,
}

func ValidStatus(s Status) bool { return validStatuses[s] }

type LoanType string

const (
	LoanTypeWorkingCapital LoanType = "working_capital"
	LoanTypeEquipment      LoanType = "equipment"
	LoanTypeRealEstate     LoanType = "real_estate"
	LoanTypeExpansion      LoanType = "expansion"
	LoanTypeRefinance      LoanType = "refinance"
	LoanTypeBridgeLoan     LoanType = "bridge_loan"
	LoanTypeLineOfCredit   LoanType = "line_of_credit"
)

var validLoanTypes = map[LoanType]bool{
	LoanTypeWorkingCapital: true,
	LoanTypeEquipment:      true,
	LoanTypeRealEstate:     true,
	LoanTypeExpansion:      true,
	LoanTypeRefinance:      true,
	LoanTypeBridgeLoan:     true,
	LoanTypeLineOfCredit:   true,
}

func ValidLoanType(t LoanType) bool { return validLoanTypes[t] }

// Details holds derived fields (risk_score, auto_approval_eligible,
// status_notes) alongside the fixed columns.
type Details map[string]any

type Application struct {
	ID                uint64     `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID     string     `gorm:"size:32;uniqueIndex:ux_applications_app_id" json:"application_id"`
	ApplicationNumber string     `gorm:"size:24;uniqueIndex:ux_applications_number" json:"application_number"`
	BorrowerID        string     `gorm:"size:32;index:idx_applications_borrower" json:"borrower_id"`
	LoanType          LoanType   `gorm:"size:32" json:"loan_type"`
	AmountRequested   float64    `gorm:"type:decimal(18,2)" json:"amount_requested"`
	FirstName         string     `gorm:"size:100" json:"first_name"`
	LastName          string     `gorm:"size:100" json:"last_name"`
	BusinessName      string     `gorm:"size:200" json:"business_name"`
	Phone             string     `gorm:"size:32" json:"phone"`
	Email             string     `gorm:"size:200" json:"email"`
	YearsInBusiness   float64    `gorm:"type:decimal(5,2)" json:"years_in_business"`
	Details           Details    `gorm:"serializer:json;type:json" json:"details"`
	Status            Status     `gorm:"size:20;index:idx_applications_status;default:'draft'" json:"status"`
	PriorStatus       Status     `gorm:"size:20" json:"-"`
	StartedAt         time.Time  `gorm:"autoCreateTime" json:"started_at"`
	SubmittedAt       *time.Time `json:"application_submitted_date,omitempty"`
	FundedDate        *time.Time `json:"funded_date,omitempty"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Application) TableName() string { return "loan_applications" }

// StatusHistoryEntry is an append record; rows are never updated or deleted.
type StatusHistoryEntry struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID uint64    `gorm:"index:idx_status_history_app;not null" json:"application_id"`
	Status        Status    `gorm:"size:20;not null" json:"status"`
	ChangedBy     string    `gorm:"size:32;not null" json:"changed_by"`
	Notes         string    `gorm:"type:text" json:"notes"`
	ChangedAt     time.Time `gorm:"autoCreateTime" json:"changed_at"`
}

func (StatusHistoryEntry) TableName() string { return "application_status_history" }

// ExistingLoan is synthesized once, the first time an application reaches
// funded. Leaving funded deactivates it rather than deleting the row.
type ExistingLoan struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID         string    `gorm:"size:32;uniqueIndex:ux_existing_loans_loan_id" json:"loan_id"`
	ApplicationID  uint64    `gorm:"index:idx_existing_loans_app;not null" json:"application_id"`
	BorrowerID     string    `gorm:"size:32;index:idx_existing_loans_borrower" json:"borrower_id"`
	Principal      float64   `gorm:"type:decimal(18,2)" json:"principal"`
	AnnualRate     float64   `gorm:"type:decimal(6,4)" json:"annual_rate"`
	TermMonths     int       `json:"term_months"`
	MonthlyPayment float64   `gorm:"type:decimal(18,2)" json:"monthly_payment"`
	Active         bool      `json:"active"`
	OriginatedAt   time.Time `gorm:"autoCreateTime" json:"originated_at"`
}

func (ExistingLoan) TableName() string { return "existing_loans" }

type AdminAssignment struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID uint64    `gorm:"index:idx_admin_assignments_app;not null" json:"application_id"`
	AdminID       string    `gorm:"size:32;not null" json:"admin_id"`
	AssignedBy    string    `gorm:"size:32;not null" json:"assigned_by"`
	Notes         string    `gorm:"type:text" json:"notes"`
	AssignedAt    time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}

func (AdminAssignment) TableName() string { return "admin_assignments" }

// Number builds the human-readable application number from the submission
// time: PREFIX-<year>-<day of year, 3 digits>-<seconds since midnight, 5 digits>.
func Number(prefix string, t time.Time) string {
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return fmt.Sprintf("%s-%d-%03d-%05d", prefix, t.Year(), t.YearDay(), secs)
}
