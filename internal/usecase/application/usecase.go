package application

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	domain "lendingportal-backend/internal/domain/application"
	"lendingportal-backend/internal/domain/audit"
	"lendingportal-backend/internal/domain/notification"
	"lendingportal-backend/internal/usecase/auditlog"
	"lendingportal-backend/internal/usecase/authz"
	"lendingportal-backend/internal/usecase/notify"
	"lendingportal-backend/internal/usecase/scoring"
	"lendingportal-backend/pkg/id"
	"lendingportal-backend/pkg/loanmath"
	"lendingportal-backend/pkg/sanitize"

	"gorm.io/gorm"
)

const (
	defaultAnnualRate = 0.075
	defaultTermMonths = 60
	numberPrefix      = "CL"
)

// Notifier is the best-effort fan-out collaborator; its failures never
// propagate to the caller.
type Notifier interface {
	Dispatch(ctx context.Context, event notification.EventType, recipientID string, data notify.TemplateData) []notification.DeliveryAttempt
}

type Usecase struct {
	repo     domain.Repository
	auditor  *auditlog.Recorder
	gate     *authz.Gate
	notifier Notifier
	scoring  scoring.Config
	log      *slog.Logger

	now   func() time.Time
	spawn func(func()) // runs best-effort side effects; asynchronous in production
}

func NewUsecase(repo domain.Repository, auditor *auditlog.Recorder, gate *authz.Gate, notifier Notifier, cfg scoring.Config, log *slog.Logger) *Usecase {
	return &Usecase{
		repo:     repo,
		auditor:  auditor,
		gate:     gate,
		notifier: notifier,
		scoring:  cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		spawn:    func(f func()) { go f() },
	}
}

// Evaluate runs the pure validator/risk scorer without persisting anything.
func (u *Usecase) Evaluate(in scoring.Input) scoring.Result {
	return scoring.Evaluate(u.scoring, in)
}

// Process handles first submission: validate, choose the initial status,
// generate the application number and persist with the score embedded in
// the details map. Invalid input creates no record.
func (u *Usecase) Process(ctx context.Context, meta auditlog.RequestMeta, in ProcessInput) (*ApplicationDTO, error) {
	res := scoring.Evaluate(u.scoring, scoring.Input{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		BusinessName:    in.BusinessName,
		Phone:           in.Phone,
		LoanType:        in.LoanType,
		AmountRequested: in.AmountRequested,
		YearsInBusiness: in.YearsInBusiness,
	})
	if !res.IsValid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	status := domain.StatusSubmitted
	switch {
	case res.AutoApprovalEligible:
		status = domain.StatusUnderReview
	case res.RiskScore > u.scoring.ManualReviewAbove:
		status = domain.StatusRequiresReview
	}

	now := u.now()
	app := &domain.Application{
		ApplicationID:     id.NewID32(),
		ApplicationNumber: domain.Number(numberPrefix, now),
		BorrowerID:        in.BorrowerID,
		LoanType:          in.LoanType,
		AmountRequested:   in.AmountRequested,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		BusinessName:      in.BusinessName,
		Phone:             in.Phone,
		Email:             in.Email,
		YearsInBusiness:   in.YearsInBusiness,
		Status:            status,
		SubmittedAt:       &now,
		Details: domain.Details{
			"risk_score":             res.RiskScore,
			"auto_approval_eligible": res.AutoApprovalEligible,
		},
	}
	if err := u.repo.Create(ctx, app); err != nil {
		return nil, err
	}
	if err := u.repo.AppendHistory(ctx, &domain.StatusHistoryEntry{
		ApplicationID: app.ID,
		Status:        status,
		ChangedBy:     in.BorrowerID,
	}); err != nil {
		return nil, err
	}
	if err := u.auditor.Record(ctx, meta, audit.ActionApplicationSubmitted, "loan_application", app.ApplicationID, map[string]any{
		"application_number": app.ApplicationNumber,
		"initial_status":     string(status),
		"risk_score":         res.RiskScore,
	}); err != nil {
		return nil, err
	}

	u.fireNotification(notification.EventApplicationSubmitted, app, nil)
	return toDTO(app), nil
}

// UpdateStatus is the admin-only transition path. Side effects run after
// the primary write, each guarded by the previous-status check so replays
// are no-ops.
func (u *Usecase) UpdateStatus(ctx context.Context, meta auditlog.RequestMeta, in UpdateStatusInput) (*ApplicationDTO, error) {
	action := authz.ActionStatusUpdate
	if in.BatchSize > 0 {
		action = authz.ActionBatchStatusUpdate
	}
	if err := u.gate.RequireAdmin(ctx, in.AdminID, action); err != nil {
		return nil, err
	}

	app, err := u.repo.GetByApplicationID(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	newStatus := domain.Status(in.NewStatus)
	if in.NewStatus == "resume" {
		if app.Status != domain.StatusPaused || app.PriorStatus == "" {
			return nil, &ValidationError{Errors: []scoring.FieldError{{Field: "status", Message: "application is not paused"}}}
		}
		newStatus = app.PriorStatus
	}
	if !domain.ValidStatus(newStatus) {
		return nil, &ValidationError{Errors: []scoring.FieldError{{Field: "status", Message: "unknown status"}}}
	}

	old := app.Status
	now := u.now()

	notes := sanitize.Notes(in.Notes)
	if app.Details == nil {
		app.Details = domain.Details{}
	}
	if notes != "" {
		app.Details["status_notes"] = notes
	}

	if newStatus == domain.StatusPaused && old != domain.StatusPaused {
		app.PriorStatus = old
	}

	wasFunded := old == domain.StatusFunded
	isFunded := newStatus == domain.StatusFunded
	app.Status = newStatus
	if isFunded && !wasFunded {
		app.FundedDate = &now
	}
	if wasFunded && !isFunded {
		app.FundedDate = nil
	}

	if err := u.repo.Save(ctx, app); err != nil {
		return nil, err
	}

	var funded *domain.ExistingLoan
	if isFunded && !wasFunded {
		funded, err = u.ensureExistingLoan(ctx, app, in.AnnualRate, in.TermMonths)
		if err != nil {
			return nil, err
		}
	}
	if wasFunded && !isFunded {
		if err := u.repo.DeactivateLoanByApplication(ctx, app.ID); err != nil {
			return nil, err
		}
	}

	if old != newStatus {
		if err := u.repo.AppendHistory(ctx, &domain.StatusHistoryEntry{
			ApplicationID: app.ID,
			Status:        newStatus,
			ChangedBy:     in.AdminID,
			Notes:         notes,
		}); err != nil {
			return nil, err
		}
	}

	details := map[string]any{
		"old_status": string(old),
		"new_status": string(newStatus),
	}
	if in.BatchSize > 0 {
		details["batch"] = true
		details["batch_size"] = in.BatchSize
	}
	if err := u.auditor.Record(ctx, meta, audit.ActionStatusUpdated, "loan_application", app.ApplicationID, details); err != nil {
		return nil, err
	}

	if old != newStatus {
		u.fireNotification(statusEvent(newStatus), app, funded)
	}
	return toDTO(app), nil
}

// UpdateStatusBatch applies the same per-item transition logic to every id,
// producing one audit entry per application tagged with the batch size.
func (u *Usecase) UpdateStatusBatch(ctx context.Context, meta auditlog.RequestMeta, in BatchUpdateInput) (*BatchResult, error) {
	if err := u.gate.RequireAdmin(ctx, in.AdminID, authz.ActionBatchStatusUpdate); err != nil {
		return nil, err
	}
	res := &BatchResult{Failed: map[string]string{}}
	for _, appID := range in.ApplicationIDs {
		_, err := u.UpdateStatus(ctx, meta, UpdateStatusInput{
			AdminID:       in.AdminID,
			ApplicationID: appID,
			NewStatus:     in.NewStatus,
			Notes:         in.Notes,
			BatchSize:     len(in.ApplicationIDs),
		})
		if err != nil {
			res.Failed[appID] = publicError(err)
			continue
		}
		res.Updated = append(res.Updated, appID)
	}
	if len(res.Failed) == 0 {
		res.Failed = nil
	}
	return res, nil
}

// Assign records reviewer ownership of an application.
func (u *Usecase) Assign(ctx context.Context, meta auditlog.RequestMeta, in AssignInput) error {
	if err := u.gate.RequireAdmin(ctx, in.AdminID, authz.ActionAssignReviewer); err != nil {
		return err
	}
	app, err := u.repo.GetByApplicationID(ctx, in.ApplicationID)
	if err != nil {
		return err
	}
	a := &domain.AdminAssignment{
		ApplicationID: app.ID,
		AdminID:       in.AssigneeID,
		AssignedBy:    in.AdminID,
		Notes:         sanitize.Notes(in.Notes),
	}
	if err := u.repo.SaveAssignment(ctx, a); err != nil {
		return err
	}
	return u.auditor.Record(ctx, meta, audit.ActionAssignmentChanged, "loan_application", app.ApplicationID, map[string]any{
		"admin_id": in.AssigneeID,
	})
}

// Get returns an application scoped to the caller; ordinary paths never
// expose another user's resource. The detail view is a privileged read and
// is audited.
func (u *Usecase) Get(ctx context.Context, meta auditlog.RequestMeta, callerID, applicationID string) (*ApplicationDTO, error) {
	app, err := u.repo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.BorrowerID != callerID {
		return nil, gorm.ErrRecordNotFound
	}
	if err := u.auditor.Record(ctx, meta, audit.ActionApplicationViewed, "loan_application", app.ApplicationID, nil); err != nil {
		return nil, err
	}
	return toDTO(app), nil
}

// List returns the caller's applications, optionally filtered by a
// sanitized search term.
func (u *Usecase) List(ctx context.Context, callerID, search string) ([]ApplicationDTO, error) {
	apps, err := u.repo.ListByBorrower(ctx, callerID, sanitize.Search(search))
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, *toDTO(&apps[i]))
	}
	return out, nil
}

// ExportCSV streams the caller's applications as CSV. Every user-supplied
// field passes through formula-injection neutralization.
func (u *Usecase) ExportCSV(ctx context.Context, meta auditlog.RequestMeta, callerID string, w io.Writer) error {
	apps, err := u.repo.ListByBorrower(ctx, callerID, "")
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"application_number", "business_name", "loan_type", "amount_requested", "status", "submitted_at"}); err != nil {
		return err
	}
	for i := range apps {
		a := &apps[i]
		submitted := ""
		if a.SubmittedAt != nil {
			submitted = a.SubmittedAt.Format(time.RFC3339)
		}
		row := []string{
			sanitize.CSVCell(a.ApplicationNumber),
			sanitize.CSVCell(a.BusinessName),
			sanitize.CSVCell(string(a.LoanType)),
			strconv.FormatFloat(a.AmountRequested, 'f', 2, 64),
			sanitize.CSVCell(string(a.Status)),
			submitted,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return u.auditor.Record(ctx, meta, audit.ActionExportGenerated, "loan_application", "", map[string]any{
		"row_count": len(apps),
	})
}

// ensureExistingLoan synthesizes the derived loan record the first time an
// application reaches funded; a second run finds the active row and does
// nothing.
func (u *Usecase) ensureExistingLoan(ctx context.Context, app *domain.Application, annualRate float64, termMonths int) (*domain.ExistingLoan, error) {
	existing, err := u.repo.GetActiveLoanByApplication(ctx, app.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if annualRate <= 0 {
		annualRate = defaultAnnualRate
	}
	if termMonths <= 0 {
		termMonths = defaultTermMonths
	}
	l := &domain.ExistingLoan{
		LoanID:         id.NewID32(),
		ApplicationID:  app.ID,
		BorrowerID:     app.BorrowerID,
		Principal:      app.AmountRequested,
		AnnualRate:     annualRate,
		TermMonths:     termMonths,
		MonthlyPayment: loanmath.MonthlyPayment(app.AmountRequested, annualRate, termMonths),
		Active:         true,
	}
	if err := u.repo.CreateExistingLoan(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// fireNotification dispatches best-effort; delivery failure must never roll
// back or fail the primary operation.
func (u *Usecase) fireNotification(event notification.EventType, app *domain.Application, funded *domain.ExistingLoan) {
	data := notify.TemplateData{
		"application_id":     app.ApplicationID,
		"application_number": app.ApplicationNumber,
		"loan_type":          string(app.LoanType),
		"amount_requested":   app.AmountRequested,
		"status":             string(app.Status),
	}
	if funded != nil {
		data["monthly_payment"] = funded.MonthlyPayment
		data["annual_rate_percent"] = funded.AnnualRate * 100
		data["term_months"] = funded.TermMonths
	}
	recipient := app.BorrowerID
	u.spawn(func() {
		u.notifier.Dispatch(context.Background(), event, recipient, data)
	})
}

func statusEvent(s domain.Status) notification.EventType {
	switch s {
	case domain.StatusApproved:
		return notification.EventApplicationApproved
	case domain.StatusRejected:
		return notification.EventApplicationRejected
	case domain.StatusFunded:
		return notification.EventLoanFunded
	default:
		return notification.EventStatusChanged
	}
}

func publicError(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return "validation failed"
	case errors.Is(err, authz.ErrForbidden):
		return "forbidden"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "not found"
	default:
		return "update failed"
	}
}
