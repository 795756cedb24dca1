package services

import (
	"fmt"
	"strings"

	"settlement-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// acquireSettlementLock takes the exclusive row lock for the role's
// (client, role_key) pair inside the given transaction. The lock row is
// created on first use and held until the transaction commits or rolls
// back, which spans the recompute-balance-then-insert critical section.
func acquireSettlementLock(tx *gorm.DB, role models.Role) error {
	lock := models.SettlementLock{ClientId: role.ClientId, RoleKey: role.Key()}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock).Error; err != nil {
		return fmt.Errorf("create settlement lock row: %w", err)
	}

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("client_id = ? AND role_key = ?", role.ClientId, role.Key()).
		First(&models.SettlementLock{}).Error
	if err != nil {
		if isLockContention(err) {
			return ErrConcurrencyConflict
		}
		return fmt.Errorf("acquire settlement lock: %w", err)
	}

	return nil
}

// isLockContention matches MySQL lock wait timeout (1205) and deadlock
// (1213) errors, the two outcomes of losing the critical section race.
func isLockContention(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Error 1205") ||
		strings.Contains(msg, "Error 1213") ||
		strings.Contains(msg, "Lock wait timeout") ||
		strings.Contains(msg, "Deadlock found")
}
