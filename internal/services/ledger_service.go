package services

import (
	"settlement-service/internal/models"

	"gorm.io/gorm"
)

// LedgerService reads completed transactions and revenue-share
// configuration. It performs no writes.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// LedgerEntry is a revenue-bearing transaction together with the share
// percent applicable to the role it was read for.
type LedgerEntry struct {
	TransactionId int
	Amount        int64
	BoothId       int
	AssignedTo    *int
	SharePercent  int
}

// ShareAmount applies a percentage to a smallest-unit amount in integer
// math, rounding half up. The share is applied exactly once per
// transaction so repeated re-derivation cannot accumulate drift.
func ShareAmount(amount int64, percent int) int64 {
	return (amount*int64(percent) + 50) / 100
}

type ledgerRow struct {
	ID         int
	Amount     int64
	BoothId    int
	AssignedTo *int
}

// Entries returns the PAID/SETTLED transactions attributable to the
// role. For a member, transactions on booths assigned to them with their
// configured percent; for the admin role, all the organization's
// transactions with the complement of the assignee's percent (100 for
// unassigned booths).
func (s *LedgerService) Entries(role models.Role) ([]LedgerEntry, error) {
	return s.entries(s.DB, role)
}

// EntriesTx is Entries running on an existing transaction, used inside
// the withdrawal critical section.
func (s *LedgerService) EntriesTx(tx *gorm.DB, role models.Role) ([]LedgerEntry, error) {
	return s.entries(tx, role)
}

func (s *LedgerService) entries(db *gorm.DB, role models.Role) ([]LedgerEntry, error) {
	query := db.Table("transactions").
		Select("transactions.id, transactions.amount, transactions.booth_id, booths.assigned_to").
		Joins("JOIN booths ON booths.id = transactions.booth_id").
		Where("transactions.client_id = ?", role.ClientId).
		Where("transactions.status IN (?)", []string{models.TransactionPaid, models.TransactionSettled})

	if !role.Admin {
		query = query.Where("booths.assigned_to = ?", role.MemberId)
	}

	var rows []ledgerRow
	if err := query.Order("transactions.id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	percents, err := s.memberPercents(db, role.ClientId)
	if err != nil {
		return nil, err
	}

	entries := make([]LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entry := LedgerEntry{
			TransactionId: row.ID,
			Amount:        row.Amount,
			BoothId:       row.BoothId,
			AssignedTo:    row.AssignedTo,
		}
		entry.SharePercent = sharePercent(role, row.AssignedTo, percents)
		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *LedgerService) memberPercents(db *gorm.DB, clientId int) (map[int]int, error) {
	var shares []models.RevenueShare
	if err := db.Where("client_id = ?", clientId).Find(&shares).Error; err != nil {
		return nil, err
	}

	percents := make(map[int]int, len(shares))
	for _, share := range shares {
		percents[share.UserId] = share.PercentToMember
	}
	return percents, nil
}

// sharePercent resolves the percent of a transaction's amount owed to
// the role. A transaction on an unassigned booth is wholly the
// organization's.
func sharePercent(role models.Role, assignedTo *int, percents map[int]int) int {
	if assignedTo == nil {
		if role.Admin {
			return 100
		}
		return 0
	}

	memberPct, ok := percents[*assignedTo]
	if !ok {
		memberPct = models.DefaultPercentToMember
	}

	if role.Admin {
		return 100 - memberPct
	}
	return memberPct
}
