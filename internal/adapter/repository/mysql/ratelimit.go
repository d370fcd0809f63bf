package mysql

import (
	"context"
	"strings"
	"time"

	rlDomain "lendingportal-backend/internal/domain/ratelimit"

	"gorm.io/gorm"
)

type RateLimitRepository struct{ db *gorm.DB }

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// IncrementCurrent is the single atomic increment-and-compare operation:
// one conditional UPDATE guarded by window_end, then a read of the row.
// Two concurrent requests can never both observe a pre-increment count.
func (r *RateLimitRepository) IncrementCurrent(ctx context.Context, identifier, endpoint string, now time.Time) (*rlDomain.Window, error) {
	res := r.db.WithContext(ctx).
		Model(&rlDomain.Window{}).
		Where("identifier = ? AND endpoint = ? AND window_end > ?", identifier, endpoint, now).
		UpdateColumn("request_count", gorm.Expr("request_count + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, rlDomain.ErrNoActiveWindow
	}
	var out rlDomain.Window
	if err := r.db.WithContext(ctx).
		Where("identifier = ? AND endpoint = ?", identifier, endpoint).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// StartWindow resets an expired row or inserts a fresh one with a count of
// 1. Losing the insert race to a concurrent request surfaces as
// ErrNoActiveWindow so the caller retries the increment.
func (r *RateLimitRepository) StartWindow(ctx context.Context, identifier, endpoint string, start, end time.Time) (*rlDomain.Window, error) {
	res := r.db.WithContext(ctx).
		Model(&rlDomain.Window{}).
		Where("identifier = ? AND endpoint = ? AND window_end <= ?", identifier, endpoint, start).
		Updates(map[string]any{
			"window_start":  start,
			"window_end":    end,
			"request_count": 1,
			"blocked_until": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		var out rlDomain.Window
		if err := r.db.WithContext(ctx).
			Where("identifier = ? AND endpoint = ?", identifier, endpoint).
			First(&out).Error; err != nil {
			return nil, err
		}
		return &out, nil
	}

	w := &rlDomain.Window{
		Identifier:   identifier,
		Endpoint:     endpoint,
		WindowStart:  start,
		WindowEnd:    end,
		RequestCount: 1,
	}
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, rlDomain.ErrNoActiveWindow
		}
		return nil, err
	}
	return w, nil
}

func (r *RateLimitRepository) Block(ctx context.Context, id uint64, until time.Time) error {
	return r.db.WithContext(ctx).
		Model(&rlDomain.Window{}).
		Where("id = ?", id).
		Update("blocked_until", until).Error
}

func isDuplicateKey(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
