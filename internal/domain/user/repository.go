package user

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetRoles(ctx context.Context, userID string) ([]string, error)
	SaveRoles(ctx context.Context, userID string, roles []string) error
	ListBankAccounts(ctx context.Context, userID string) ([]BankAccount, error)
}
