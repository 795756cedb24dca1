package models

import (
	"time"
)

// Approval statuses. A withdrawal counts against the requester's balance
// for every status except REJECTED and CANCELLED.
const (
	ApprovalPending   = "PENDING_APPROVAL"
	ApprovalApproved  = "APPROVED"
	ApprovalRejected  = "REJECTED"
	ApprovalCancelled = "CANCELLED"
)

// Payout statuses. Meaningful only once the withdrawal is APPROVED.
const (
	PayoutPending   = "PENDING"
	PayoutAccepted  = "ACCEPTED"
	PayoutSucceeded = "SUCCEEDED"
	PayoutFailed    = "FAILED"
)

// Withdrawal is a request to pay out part of a role's settled revenue.
// PayoutReference is assigned once at creation; the processor idempotency
// key is derived from it, so retried disbursement attempts cannot create
// a second payout.
type Withdrawal struct {
	ID                int        `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientId          int        `gorm:"column:client_id;not null;index:idx_withdrawal_client" json:"client_id"`
	RequesterId       int        `gorm:"column:requester_id;not null;index:idx_withdrawal_requester" json:"requester_id"`
	IsAdminWithdrawal bool       `gorm:"column:is_admin_withdrawal;default:false" json:"is_admin_withdrawal"`
	Amount            int64      `gorm:"column:amount;not null" json:"amount"`
	BankCode          string     `gorm:"column:bank_code;size:20;not null" json:"bank_code"`
	BankName          string     `gorm:"column:bank_name;size:150" json:"bank_name"`
	AccountNumber     string     `gorm:"column:account_number;size:150;not null" json:"account_number"`
	AccountName       string     `gorm:"column:account_name;size:250;not null" json:"account_name"`
	PayoutReference   string     `gorm:"column:payout_reference;size:40;uniqueIndex" json:"payout_reference"`
	ApprovalStatus    string     `gorm:"column:approval_status;size:30;not null;default:PENDING_APPROVAL;index" json:"approval_status"`
	PayoutStatus      string     `gorm:"column:payout_status;size:20;not null;default:PENDING" json:"payout_status"`
	RejectionReason   *string    `gorm:"column:rejection_reason;type:text" json:"rejection_reason"`
	ExternalPayoutId  *string    `gorm:"column:external_payout_id;size:150" json:"external_payout_id"`
	UpdatedBy         string     `gorm:"column:updated_by;size:150" json:"updated_by"`
	ProcessedAt       *time.Time `gorm:"column:processed_at" json:"processed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

// Outstanding reports whether the withdrawal amount still counts against
// the requester's available balance.
func (w Withdrawal) Outstanding() bool {
	return w.ApprovalStatus != ApprovalRejected && w.ApprovalStatus != ApprovalCancelled
}
