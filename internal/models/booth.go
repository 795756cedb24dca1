package models

import (
	"time"
)

// Booth is a photobooth unit. AssignedTo is the member operating the
// booth; their revenue share applies to transactions taken on it.
type Booth struct {
	ID         int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientId   int       `gorm:"column:client_id;not null;index" json:"client_id"`
	Name       string    `gorm:"column:name;size:150;not null" json:"name"`
	Price      int64     `gorm:"column:price;not null" json:"price"`
	AssignedTo *int      `gorm:"column:assigned_to;index" json:"assigned_to"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Booth) TableName() string {
	return "booths"
}
