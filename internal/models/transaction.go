package models

import (
	"time"
)

// Transaction statuses written by the payment-processor webhook.
// Only PAID and SETTLED transactions contribute to revenue.
const (
	TransactionPaid    = "PAID"
	TransactionSettled = "SETTLED"
	TransactionPending = "PENDING"
	TransactionFailed  = "FAILED"
	TransactionExpired = "EXPIRED"
)

// Transaction is an immutable record of a completed sale on a booth.
// Rows are created by the payment webhook outside this service and are
// never mutated here.
type Transaction struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientId      int       `gorm:"column:client_id;not null;index:idx_trx_client_status" json:"client_id"`
	BoothId       int       `gorm:"column:booth_id;not null;index" json:"booth_id"`
	TransactionNo string    `gorm:"column:transaction_no;size:100;not null;index" json:"transaction_no"`
	Amount        int64     `gorm:"column:amount;not null" json:"amount"`
	Status        string    `gorm:"column:status;size:20;not null;index:idx_trx_client_status" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
