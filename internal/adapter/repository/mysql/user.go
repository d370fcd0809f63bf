package mysql

import (
	"context"

	userDomain "lendingportal-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *UserRepository) GetRoles(ctx context.Context, userID string) ([]string, error) {
	u, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Roles, nil
}

// SaveRoles goes through Save so the JSON serializer on the roles column
// applies.
func (r *UserRepository) SaveRoles(ctx context.Context, userID string, roles []string) error {
	u, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	u.Roles = roles
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) ListBankAccounts(ctx context.Context, userID string) ([]userDomain.BankAccount, error) {
	var out []userDomain.BankAccount
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
