package application

import "context"

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByApplicationID(ctx context.Context, applicationID string) (*Application, error)
	ListByBorrower(ctx context.Context, borrowerID string, search string) ([]Application, error)
	Save(ctx context.Context, a *Application) error

	AppendHistory(ctx context.Context, e *StatusHistoryEntry) error
	ListHistory(ctx context.Context, applicationID uint64) ([]StatusHistoryEntry, error)

	CreateExistingLoan(ctx context.Context, l *ExistingLoan) error
	GetActiveLoanByApplication(ctx context.Context, applicationID uint64) (*ExistingLoan, error)
	DeactivateLoanByApplication(ctx context.Context, applicationID uint64) error

	SaveAssignment(ctx context.Context, a *AdminAssignment) error
	GetAssignment(ctx context.Context, applicationID uint64) (*AdminAssignment, error)
}
