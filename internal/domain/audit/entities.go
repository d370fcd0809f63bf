package audit

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrImmutable is returned for any attempt to update or delete an entry.
var ErrImmutable = errors.New("audit log entries are append-only")

type Action string

const (
	ActionApplicationSubmitted  Action = "APPLICATION_SUBMITTED"
	ActionApplicationViewed     Action = "APPLICATION_VIEWED"
	ActionStatusUpdated         Action = "STATUS_UPDATED"
	ActionAssignmentChanged     Action = "ASSIGNMENT_CHANGED"
	ActionRoleChanged           Action = "ROLE_CHANGED"
	ActionBankAccountsViewed    Action = "BANK_ACCOUNTS_VIEWED"
	ActionExportGenerated       Action = "EXPORT_GENERATED"
	ActionNotificationSent      Action = "NOTIFICATION_SENT"
	ActionBulkNotificationSent  Action = "BULK_NOTIFICATION_SENT"
	ActionWebhookDispatched     Action = "WEBHOOK_DISPATCHED"
	ActionRateLimitExceeded     Action = "RATE_LIMIT_EXCEEDED"
)

var validActions = map[Action]bool{
	ActionApplicationSubmitted: true,
	ActionApplicationViewed:    true,
	ActionStatusUpdated:        true,
	ActionAssignmentChanged:    true,
	ActionRoleChanged:          true,
	ActionBankAccountsViewed:   true,
	ActionExportGenerated:      true,
	ActionNotificationSent:     true,
	ActionBulkNotificationSent: true,
	ActionWebhookDispatched:    true,
	ActionRateLimitExceeded:    true,
}

func ValidAction(a Action) bool { return validActions[a] }

type Entry struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID       string         `gorm:"size:64;index:idx_audit_user" json:"user_id"`
	Action       Action         `gorm:"size:40;index:idx_audit_action;not null" json:"action"`
	ResourceType string         `gorm:"size:40" json:"resource_type"`
	ResourceID   *string        `gorm:"size:64" json:"resource_id,omitempty"`
	IP           string         `gorm:"size:64" json:"ip"`
	UserAgent    string         `gorm:"size:256" json:"user_agent"`
	Details      map[string]any `gorm:"serializer:json;type:json" json:"details"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "audit_log" }

// BeforeUpdate makes immutability hold at the storage layer for every
// caller, superusers included.
func (e *Entry) BeforeUpdate(tx *gorm.DB) error { return ErrImmutable }

func (e *Entry) BeforeDelete(tx *gorm.DB) error { return ErrImmutable }
