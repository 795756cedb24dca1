package models

// SettlementLock is the row locked FOR UPDATE to serialize
// balance-affecting operations per (client, role). Row-level locking
// keeps the no-overdraft guarantee across service instances, which a
// process-local mutex would not.
type SettlementLock struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientId int    `gorm:"column:client_id;not null;uniqueIndex:idx_lock_client_role" json:"client_id"`
	RoleKey  string `gorm:"column:role_key;size:50;not null;uniqueIndex:idx_lock_client_role" json:"role_key"`
}

func (SettlementLock) TableName() string {
	return "settlement_locks"
}
