package mysql

import (
	"context"

	auditDomain "lendingportal-backend/internal/domain/audit"

	"gorm.io/gorm"
)

// AuditRepository only exposes Append and reads. The entity's gorm hooks
// reject UPDATE and DELETE unconditionally, so immutability does not
// depend on this type staying well-behaved.
type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Append(ctx context.Context, e *auditDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]auditDomain.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []auditDomain.Entry
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}
