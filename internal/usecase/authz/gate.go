package authz

import (
	"context"
	"errors"
	"log/slog"

	"lendingportal-backend/internal/domain/user"
)

var ErrForbidden = errors.New("forbidden")

// Privileged actions gated to admins. Everything else is available to any
// authenticated caller for their own resources.
const (
	ActionStatusUpdate         = "status_update"
	ActionBatchStatusUpdate    = "batch_status_update"
	ActionAssignReviewer       = "assign_reviewer"
	ActionRoleChange           = "role_change"
	ActionFundingNotification  = "funding_notification"
	ActionBulkNotification     = "bulk_notification"
	ActionWebhookDispatch      = "webhook_dispatch"
	ActionUnmaskedBankAccounts = "unmasked_bank_accounts"
)

var adminOnly = map[string]bool{
	ActionStatusUpdate:         true,
	ActionBatchStatusUpdate:    true,
	ActionAssignReviewer:       true,
	ActionRoleChange:           true,
	ActionFundingNotification:  true,
	ActionBulkNotification:     true,
	ActionWebhookDispatch:      true,
	ActionUnmaskedBankAccounts: true,
}

func AdminOnly(action string) bool { return adminOnly[action] }

type Gate struct {
	users user.Repository
	log   *slog.Logger
}

func NewGate(users user.Repository, log *slog.Logger) *Gate {
	return &Gate{users: users, log: log}
}

// HasAny reports whether the user holds any of the given roles.
func (g *Gate) HasAny(ctx context.Context, userID string, roles ...string) (bool, error) {
	held, err := g.users.GetRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, h := range held {
		for _, want := range roles {
			if h == want {
				return true, nil
			}
		}
	}
	return false, nil
}

// RequireAdmin enforces the admin-only allowlist for the named action.
// Denials are logged as security-relevant warnings, distinct from audit
// entries, to support anomaly detection; the log write is never fatal.
func (g *Gate) RequireAdmin(ctx context.Context, userID, action string) error {
	ok, err := g.HasAny(ctx, userID, user.RoleAdmin, user.RoleSuperAdmin)
	if err != nil {
		g.log.Warn("authorization check failed", "user_id", userID, "action", action, "error", err)
		return ErrForbidden
	}
	if !ok {
		g.log.Warn("unauthorized admin action attempt", "user_id", userID, "action", action)
		return ErrForbidden
	}
	return nil
}
