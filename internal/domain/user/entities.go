package user

import "time"

const (
	RoleAdmin           = "admin"
	RoleSuperAdmin      = "super_admin"
	RoleModerator       = "moderator"
	RoleUnderwriter     = "underwriter"
	RoleCustomerService = "customer_service"
	RoleUser            = "user"
)

// Roles form a flat set; a user may hold several.
type User struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID    string    `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Email     string    `gorm:"size:200" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone"`
	FullName  string    `gorm:"size:200" json:"full_name"`
	Roles     []string  `gorm:"serializer:json;type:json" json:"roles"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// BankAccount rows are listed masked by default; unmasked listing is an
// admin-scoped privileged read.
type BankAccount struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	AccountID     string    `gorm:"size:32;uniqueIndex:ux_bank_accounts_account_id" json:"account_id"`
	UserID        string    `gorm:"size:32;index:idx_bank_accounts_user" json:"user_id"`
	BankName      string    `gorm:"size:200" json:"bank_name"`
	AccountNumber string    `gorm:"size:64" json:"account_number"`
	RoutingNumber string    `gorm:"size:64" json:"routing_number"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BankAccount) TableName() string { return "bank_accounts" }
