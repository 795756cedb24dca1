package services

import (
	"settlement-service/internal/models"

	"gorm.io/gorm"
)

// BalanceService derives a role's withdrawable balance from the ledger
// and the withdrawal history. Balances are never stored; rejection and
// cancellation restore funds purely by exclusion from the withdrawn sum.
type BalanceService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewBalanceService(db *gorm.DB, ledger *LedgerService) *BalanceService {
	return &BalanceService{DB: db, Ledger: ledger}
}

type BalanceSummary struct {
	GrossRevenue     int64 `json:"gross_revenue"`
	NetRevenue       int64 `json:"net_revenue"`
	AlreadyWithdrawn int64 `json:"already_withdrawn"`
	Available        int64 `json:"available"`
}

// ComputeBalance recomputes the role's balance from scratch.
func (s *BalanceService) ComputeBalance(role models.Role) (BalanceSummary, error) {
	return s.computeBalance(s.DB, role)
}

// ComputeBalanceTx recomputes the balance inside an open transaction.
// Called under the settlement lock so the withdrawn sum is read fresh
// within the critical section.
func (s *BalanceService) ComputeBalanceTx(tx *gorm.DB, role models.Role) (BalanceSummary, error) {
	return s.computeBalance(tx, role)
}

func (s *BalanceService) computeBalance(db *gorm.DB, role models.Role) (BalanceSummary, error) {
	entries, err := s.Ledger.EntriesTx(db, role)
	if err != nil {
		return BalanceSummary{}, err
	}

	var summary BalanceSummary
	for _, entry := range entries {
		summary.GrossRevenue += entry.Amount
		summary.NetRevenue += ShareAmount(entry.Amount, entry.SharePercent)
	}

	withdrawn, err := alreadyWithdrawn(db, role)
	if err != nil {
		return BalanceSummary{}, err
	}
	summary.AlreadyWithdrawn = withdrawn

	summary.Available = summary.NetRevenue - summary.AlreadyWithdrawn
	if summary.Available < 0 {
		summary.Available = 0
	}

	return summary, nil
}

// alreadyWithdrawn sums withdrawal amounts still outstanding against the
// role: everything except REJECTED and CANCELLED. FAILED payouts stay
// counted while approval_status remains APPROVED.
func alreadyWithdrawn(db *gorm.DB, role models.Role) (int64, error) {
	query := db.Model(&models.Withdrawal{}).
		Where("client_id = ?", role.ClientId).
		Where("approval_status NOT IN (?)", []string{models.ApprovalRejected, models.ApprovalCancelled})

	if role.Admin {
		query = query.Where("is_admin_withdrawal = ?", true)
	} else {
		query = query.Where("is_admin_withdrawal = ? AND requester_id = ?", false, role.MemberId)
	}

	var total int64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
