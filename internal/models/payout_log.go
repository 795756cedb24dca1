package models

import (
	"time"
)

// PayoutLog records every payout processor attempt and webhook event for
// audit. Status: 0 pending/unknown, 1 success, 2 failed.
type PayoutLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientId     int       `gorm:"column:client_id;not null" json:"client_id"`
	WithdrawalId int       `gorm:"column:withdrawal_id;index" json:"withdrawal_id"`
	Reference    string    `gorm:"column:reference;size:40;index" json:"reference"`
	Source       string    `gorm:"column:source;size:50" json:"source"` // disbursement, reconcile, webhook
	Request      string    `gorm:"column:request;type:longtext" json:"request"`
	Response     string    `gorm:"column:response;type:longtext" json:"response"`
	Status       int       `gorm:"column:status;default:0" json:"status"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PayoutLog) TableName() string {
	return "payout_logs"
}
