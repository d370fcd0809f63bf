package appmock

import (
	"context"

	"gorm.io/gorm"

	domain "lendingportal-backend/internal/domain/application"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.Application) error
	GetByApplicationIDFn          func(ctx context.Context, applicationID string) (*domain.Application, error)
	ListByBorrowerFn              func(ctx context.Context, borrowerID, search string) ([]domain.Application, error)
	SaveFn                        func(ctx context.Context, a *domain.Application) error
	AppendHistoryFn               func(ctx context.Context, e *domain.StatusHistoryEntry) error
	ListHistoryFn                 func(ctx context.Context, applicationID uint64) ([]domain.StatusHistoryEntry, error)
	CreateExistingLoanFn          func(ctx context.Context, l *domain.ExistingLoan) error
	GetActiveLoanByApplicationFn  func(ctx context.Context, applicationID uint64) (*domain.ExistingLoan, error)
	DeactivateLoanByApplicationFn func(ctx context.Context, applicationID uint64) error
	SaveAssignmentFn              func(ctx context.Context, a *domain.AdminAssignment) error
	GetAssignmentFn               func(ctx context.Context, applicationID uint64) (*domain.AdminAssignment, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByBorrower(ctx context.Context, borrowerID, search string) ([]domain.Application, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrowerID, search)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Application) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) AppendHistory(ctx context.Context, e *domain.StatusHistoryEntry) error {
	if m.AppendHistoryFn != nil {
		return m.AppendHistoryFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListHistory(ctx context.Context, applicationID uint64) ([]domain.StatusHistoryEntry, error) {
	if m.ListHistoryFn != nil {
		return m.ListHistoryFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) CreateExistingLoan(ctx context.Context, l *domain.ExistingLoan) error {
	if m.CreateExistingLoanFn != nil {
		return m.CreateExistingLoanFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetActiveLoanByApplication(ctx context.Context, applicationID uint64) (*domain.ExistingLoan, error) {
	if m.GetActiveLoanByApplicationFn != nil {
		return m.GetActiveLoanByApplicationFn(ctx, applicationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) DeactivateLoanByApplication(ctx context.Context, applicationID uint64) error {
	if m.DeactivateLoanByApplicationFn != nil {
		return m.DeactivateLoanByApplicationFn(ctx, applicationID)
	}
	return nil
}

func (m *Repo) SaveAssignment(ctx context.Context, a *domain.AdminAssignment) error {
	if m.SaveAssignmentFn != nil {
		return m.SaveAssignmentFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetAssignment(ctx context.Context, applicationID uint64) (*domain.AdminAssignment, error) {
	if m.GetAssignmentFn != nil {
		return m.GetAssignmentFn(ctx, applicationID)
	}
	return nil, gorm.ErrRecordNotFound
}
