package mysql

import (
	"context"

	notifDomain "lendingportal-backend/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) GetPreference(ctx context.Context, userID string, event notifDomain.EventType) (*notifDomain.Preference, error) {
	var out notifDomain.Preference
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND event_type = ?", userID, event).
		First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *NotificationRepository) SavePreference(ctx context.Context, p *notifDomain.Preference) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *NotificationRepository) CreateInApp(ctx context.Context, n *notifDomain.InAppNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListInAppByUser(ctx context.Context, userID string, limit int) ([]notifDomain.InAppNotification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []notifDomain.InAppNotification
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

// ListActiveWebhooks filters by active in SQL and by subscribed event in
// memory; event_types is a serialized JSON column.
func (r *NotificationRepository) ListActiveWebhooks(ctx context.Context, event notifDomain.EventType) ([]notifDomain.WebhookRegistration, error) {
	var rows []notifDomain.WebhookRegistration
	res := r.db.WithContext(ctx).Where("active = ?", true).Find(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	out := rows[:0]
	for _, w := range rows {
		if w.Matches(event) {
			out = append(out, w)
		}
	}
	return out, nil
}
