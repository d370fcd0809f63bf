package mysql

import (
	"context"

	appDomain "lendingportal-backend/internal/domain/application"

	"gorm.io/gorm"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) Save(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

// ListByBorrower always scopes by the caller's own id; search terms arrive
// pre-sanitized and are bound as parameters, never interpolated.
func (r *ApplicationRepository) ListByBorrower(ctx context.Context, borrowerID string, search string) ([]appDomain.Application, error) {
	q := r.db.WithContext(ctx).Where("borrower_id = ?", borrowerID)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("business_name LIKE ? OR application_number LIKE ?", pattern, pattern)
	}
	var out []appDomain.Application
	res := q.Order("started_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) AppendHistory(ctx context.Context, e *appDomain.StatusHistoryEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ApplicationRepository) ListHistory(ctx context.Context, applicationID uint64) ([]appDomain.StatusHistoryEntry, error) {
	var out []appDomain.StatusHistoryEntry
	res := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("changed_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) CreateExistingLoan(ctx context.Context, l *appDomain.ExistingLoan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ApplicationRepository) GetActiveLoanByApplication(ctx context.Context, applicationID uint64) (*appDomain.ExistingLoan, error) {
	var out appDomain.ExistingLoan
	res := r.db.WithContext(ctx).
		Where("application_id = ? AND active = ?", applicationID, true).
		First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *ApplicationRepository) DeactivateLoanByApplication(ctx context.Context, applicationID uint64) error {
	return r.db.WithContext(ctx).
		Model(&appDomain.ExistingLoan{}).
		Where("application_id = ? AND active = ?", applicationID, true).
		Update("active", false).Error
}

func (r *ApplicationRepository) SaveAssignment(ctx context.Context, a *appDomain.AdminAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) GetAssignment(ctx context.Context, applicationID uint64) (*appDomain.AdminAssignment, error) {
	var out appDomain.AdminAssignment
	res := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("assigned_at DESC, id DESC").
		First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}
