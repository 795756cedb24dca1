package services

import (
	"testing"

	"settlement-service/internal/models"
)

// Walks the full settlement scenario: one member at 80%, two PAID
// transactions of 100,000 and 50,000 on the member's booth.
func TestBalanceScenario(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, balance, withdrawals := newTestServices()

	memberId := 20
	seedMemberRevenue(1, memberId, 80, 100000, 50000)
	member := models.MemberRole(1, memberId)

	summary, err := balance.ComputeBalance(member)
	if err != nil {
		t.Fatalf("ComputeBalance failed: %v", err)
	}
	if summary.GrossRevenue != 150000 {
		t.Errorf("GrossRevenue = %d, want 150000", summary.GrossRevenue)
	}
	if summary.NetRevenue != 120000 {
		t.Errorf("NetRevenue = %d, want 120000", summary.NetRevenue)
	}
	if summary.Available != 120000 {
		t.Errorf("Available = %d, want 120000", summary.Available)
	}

	dest := WithdrawRequestDTO{Amount: 50000, BankCode: "044", AccountNumber: "0123456789", AccountName: "Member Twenty"}

	// Withdraw 50,000: available drops to 70,000.
	w, err := withdrawals.RequestWithdrawal(member, dest)
	if err != nil {
		t.Fatalf("RequestWithdrawal failed: %v", err)
	}
	summary, _ = balance.ComputeBalance(member)
	if summary.Available != 70000 {
		t.Errorf("Available after request = %d, want 70000", summary.Available)
	}

	// Rejecting restores the balance without a compensating entry.
	if err := withdrawals.Reject(1, w.ID, "bad account", "admin:1"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	summary, _ = balance.ComputeBalance(member)
	if summary.Available != 120000 {
		t.Errorf("Available after rejection = %d, want 120000", summary.Available)
	}

	// The full net revenue can now be withdrawn.
	dest.Amount = 120000
	if _, err := withdrawals.RequestWithdrawal(member, dest); err != nil {
		t.Fatalf("Full withdrawal failed: %v", err)
	}
	summary, _ = balance.ComputeBalance(member)
	if summary.Available != 0 {
		t.Errorf("Available after full withdrawal = %d, want 0", summary.Available)
	}

	// Even one more unit is an overdraft.
	dest.Amount = 1
	if _, err := withdrawals.RequestWithdrawal(member, dest); err != ErrInsufficientBalance {
		t.Errorf("Expected ErrInsufficientBalance, got %v", err)
	}
}

func TestAdminBalanceComplement(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, balance, _ := newTestServices()

	memberId := 21
	seedMemberRevenue(1, memberId, 80, 100000, 50000)

	summary, err := balance.ComputeBalance(models.AdminRole(1, 99))
	if err != nil {
		t.Fatalf("ComputeBalance (admin) failed: %v", err)
	}
	if summary.GrossRevenue != 150000 {
		t.Errorf("Admin GrossRevenue = %d, want 150000", summary.GrossRevenue)
	}
	// Organization cut is 20% of each transaction.
	if summary.NetRevenue != 30000 {
		t.Errorf("Admin NetRevenue = %d, want 30000", summary.NetRevenue)
	}
}

func TestAdminAndMemberBalancesAreSeparate(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, balance, withdrawals := newTestServices()

	memberId := 22
	seedMemberRevenue(1, memberId, 80, 100000)
	member := models.MemberRole(1, memberId)
	admin := models.AdminRole(1, 99)

	dest := WithdrawRequestDTO{Amount: 10000, BankCode: "044", AccountNumber: "0123456789", AccountName: "Org Admin"}
	if _, err := withdrawals.RequestWithdrawal(admin, dest); err != nil {
		t.Fatalf("Admin RequestWithdrawal failed: %v", err)
	}

	// The admin withdrawal must not count against the member.
	summary, _ := balance.ComputeBalance(member)
	if summary.AlreadyWithdrawn != 0 {
		t.Errorf("Member AlreadyWithdrawn = %d, want 0", summary.AlreadyWithdrawn)
	}

	adminSummary, _ := balance.ComputeBalance(admin)
	if adminSummary.AlreadyWithdrawn != 10000 {
		t.Errorf("Admin AlreadyWithdrawn = %d, want 10000", adminSummary.AlreadyWithdrawn)
	}
	if adminSummary.Available != 10000 {
		t.Errorf("Admin Available = %d, want 10000", adminSummary.Available)
	}
}
