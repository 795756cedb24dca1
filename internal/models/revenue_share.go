package models

import (
	"time"
)

// DefaultPercentToMember applies when no revenue share row exists for a
// member.
const DefaultPercentToMember = 80

// RevenueShare holds the single active percentage split for a member.
// The organization's cut is 100 minus PercentToMember. There is no
// effective-dated history; changing the value changes derived revenue
// for past transactions as well.
type RevenueShare struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientId        int       `gorm:"column:client_id;not null;uniqueIndex:idx_share_client_user" json:"client_id"`
	UserId          int       `gorm:"column:user_id;not null;uniqueIndex:idx_share_client_user" json:"user_id"`
	PercentToMember int       `gorm:"column:percent_to_member;not null;default:80" json:"percent_to_member"`
	UpdatedBy       string    `gorm:"column:updated_by;size:150" json:"updated_by"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RevenueShare) TableName() string {
	return "revenue_shares"
}
