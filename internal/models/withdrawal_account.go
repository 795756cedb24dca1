package models

import (
	"time"
)

// WithdrawalAccount is a saved payout destination for a member.
type WithdrawalAccount struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientId      int       `gorm:"column:client_id;not null" json:"client_id"`
	UserId        int       `gorm:"column:user_id;not null;index" json:"user_id"`
	BankCode      string    `gorm:"column:bank_code;size:20;not null" json:"bank_code"`
	AccountNumber string    `gorm:"column:account_number;size:150;not null" json:"account_number"`
	AccountName   string    `gorm:"column:account_name;size:250" json:"account_name"`
	Status        int       `gorm:"column:status;default:1" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WithdrawalAccount) TableName() string {
	return "withdrawal_accounts"
}
