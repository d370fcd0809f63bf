package usermock

import (
	"context"

	"gorm.io/gorm"

	"lendingportal-backend/internal/domain/user"
)

// Repo is a function-backed mock that satisfies user.Repository. The Roles
// field is a convenience for tests that only need role answers.
type Repo struct {
	GetByUserIDFn      func(ctx context.Context, userID string) (*user.User, error)
	GetRolesFn         func(ctx context.Context, userID string) ([]string, error)
	SaveRolesFn        func(ctx context.Context, userID string, roles []string) error
	ListBankAccountsFn func(ctx context.Context, userID string) ([]user.BankAccount, error)

	Roles map[string][]string
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetRoles(ctx context.Context, userID string) ([]string, error) {
	if m.GetRolesFn != nil {
		return m.GetRolesFn(ctx, userID)
	}
	return m.Roles[userID], nil
}

func (m *Repo) SaveRoles(ctx context.Context, userID string, roles []string) error {
	if m.SaveRolesFn != nil {
		return m.SaveRolesFn(ctx, userID, roles)
	}
	if m.Roles == nil {
		m.Roles = map[string][]string{}
	}
	m.Roles[userID] = roles
	return nil
}

func (m *Repo) ListBankAccounts(ctx context.Context, userID string) ([]user.BankAccount, error) {
	if m.ListBankAccountsFn != nil {
		return m.ListBankAccountsFn(ctx, userID)
	}
	return nil, nil
}
