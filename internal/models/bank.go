package models

import (
	"time"
)

// Bank is a destination bank or e-wallet accepted by the payout
// processor. Withdrawal destinations are validated against this table.
type Bank struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:150;not null" json:"name"`
	Code      string    `gorm:"column:code;size:20;not null;uniqueIndex" json:"code"`
	Type      string    `gorm:"column:type;size:20;default:bank" json:"type"` // bank or ewallet
	Status    int       `gorm:"column:status;default:1" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Bank) TableName() string {
	return "banks"
}
