package services

import (
	"log"
	"os"
	"testing"

	"settlement-service/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Integration tests require a running MySQL instance via DATABASE_URL
// and are skipped otherwise. Pure arithmetic and validation tests below
// run everywhere.

var testDB *gorm.DB

func setup() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Skipping DB tests: DATABASE_URL not set")
		return
	}

	var err error
	testDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return
	}

	testDB.AutoMigrate(
		&models.Transaction{},
		&models.Booth{},
		&models.RevenueShare{},
		&models.Withdrawal{},
		&models.WithdrawalAccount{},
		&models.Bank{},
		&models.PayoutLog{},
		&models.SettlementLock{},
	)
}

func cleanup() {
	if testDB != nil {
		testDB.Exec("DELETE FROM payout_logs")
		testDB.Exec("DELETE FROM withdrawals")
		testDB.Exec("DELETE FROM withdrawal_accounts")
		testDB.Exec("DELETE FROM revenue_shares")
		testDB.Exec("DELETE FROM transactions")
		testDB.Exec("DELETE FROM booths")
		testDB.Exec("DELETE FROM banks")
		testDB.Exec("DELETE FROM settlement_locks")
	}
}

func newTestServices() (*LedgerService, *BalanceService, *WithdrawalService) {
	ledger := NewLedgerService(testDB)
	balance := NewBalanceService(testDB, ledger)
	withdrawals := NewWithdrawalService(testDB, balance)
	return ledger, balance, withdrawals
}

// seedMemberRevenue creates a bank, a booth assigned to the member, and
// PAID transactions of the given amounts.
func seedMemberRevenue(clientId, memberId int, percent int, amounts ...int64) {
	testDB.Create(&models.Bank{Name: "Test Bank", Code: "044", Status: 1})
	testDB.Create(&models.RevenueShare{ClientId: clientId, UserId: memberId, PercentToMember: percent})

	booth := models.Booth{ClientId: clientId, Name: "Booth A", Price: 10000, AssignedTo: &memberId}
	testDB.Create(&booth)

	for i, amount := range amounts {
		testDB.Create(&models.Transaction{
			ClientId:      clientId,
			BoothId:       booth.ID,
			TransactionNo: "TRX-" + string(rune('A'+i)),
			Amount:        amount,
			Status:        models.TransactionPaid,
		})
	}
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	os.Exit(code)
}
