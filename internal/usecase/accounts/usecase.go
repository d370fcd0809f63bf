package accounts

import (
	"context"
	"log/slog"

	"lendingportal-backend/internal/domain/audit"
	"lendingportal-backend/internal/domain/user"
	"lendingportal-backend/internal/usecase/auditlog"
	"lendingportal-backend/internal/usecase/authz"
	"lendingportal-backend/internal/usecase/scoring"
	"lendingportal-backend/pkg/sanitize"
)

type AccountDTO struct {
	AccountID     string `json:"account_id"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number"`
}

type Usecase struct {
	users   user.Repository
	gate    *authz.Gate
	auditor *auditlog.Recorder
	log     *slog.Logger
}

func NewUsecase(users user.Repository, gate *authz.Gate, auditor *auditlog.Recorder, log *slog.Logger) *Usecase {
	return &Usecase{users: users, gate: gate, auditor: auditor, log: log}
}

// ListBankAccounts returns the caller's own accounts. Unmasked listing is
// an admin-scoped privileged read; masked listing is the default. Both are
// audited, and the audit details never carry raw account numbers.
func (u *Usecase) ListBankAccounts(ctx context.Context, meta auditlog.RequestMeta, callerID string, masked bool) ([]AccountDTO, error) {
	if !masked {
		if err := u.gate.RequireAdmin(ctx, callerID, authz.ActionUnmaskedBankAccounts); err != nil {
			return nil, err
		}
	}
	rows, err := u.users.ListBankAccounts(ctx, callerID)
	if err != nil {
		return nil, err
	}
	out := make([]AccountDTO, 0, len(rows))
	for _, r := range rows {
		dto := AccountDTO{AccountID: r.AccountID, BankName: r.BankName, AccountNumber: r.AccountNumber, RoutingNumber: r.RoutingNumber}
		if masked {
			dto.AccountNumber = sanitize.MaskAccountNumber(r.AccountNumber)
			dto.RoutingNumber = sanitize.MaskAccountNumber(r.RoutingNumber)
		}
		out = append(out, dto)
	}
	if err := u.auditor.Record(ctx, meta, audit.ActionBankAccountsViewed, "bank_account", "", map[string]any{
		"masked": masked,
		"count":  len(out),
	}); err != nil {
		return nil, err
	}
	return out, nil
}

var knownRoles = map[string]bool{
	user.RoleAdmin:           true,
	user.RoleSuperAdmin:      true,
	user.RoleModerator:       true,
	user.RoleUnderwriter:     true,
	user.RoleCustomerService: true,
	user.RoleUser:            true,
}

// UpdateRoles replaces a user's flat role set. Admin-only, audited.
func (u *Usecase) UpdateRoles(ctx context.Context, meta auditlog.RequestMeta, adminID, targetUserID string, roles []string) error {
	if err := u.gate.RequireAdmin(ctx, adminID, authz.ActionRoleChange); err != nil {
		return err
	}
	for _, r := range roles {
		if !knownRoles[r] {
			return &validationError{field: "roles", msg: "unknown role " + r}
		}
	}
	if err := u.users.SaveRoles(ctx, targetUserID, roles); err != nil {
		return err
	}
	return u.auditor.Record(ctx, meta, audit.ActionRoleChanged, "user", targetUserID, map[string]any{
		"roles": roles,
	})
}

type validationError struct {
	field string
	msg   string
}

func (e *validationError) Error() string { return e.field + " " + e.msg }

// Fields exposes the error in the shape handlers use for 400 payloads.
func (e *validationError) Fields() []scoring.FieldError {
	return []scoring.FieldError{{Field: e.field, Message: e.msg}}
}
