package services

import (
	"errors"
	"sync"
	"testing"

	"settlement-service/internal/models"
)

func TestValidateDestination(t *testing.T) {
	valid := WithdrawRequestDTO{Amount: 1000, BankCode: "044", AccountNumber: "0123456789", AccountName: "A Member"}
	if err := validateDestination(valid); err != nil {
		t.Errorf("Expected valid destination, got %v", err)
	}

	cases := []struct {
		name string
		dto  WithdrawRequestDTO
	}{
		{"zero amount", WithdrawRequestDTO{Amount: 0, BankCode: "044", AccountNumber: "0123456789", AccountName: "A"}},
		{"negative amount", WithdrawRequestDTO{Amount: -5, BankCode: "044", AccountNumber: "0123456789", AccountName: "A"}},
		{"missing bank code", WithdrawRequestDTO{Amount: 1000, AccountNumber: "0123456789", AccountName: "A"}},
		{"missing account number", WithdrawRequestDTO{Amount: 1000, BankCode: "044", AccountName: "A"}},
		{"missing account name", WithdrawRequestDTO{Amount: 1000, BankCode: "044", AccountNumber: "0123456789"}},
		{"blank account name", WithdrawRequestDTO{Amount: 1000, BankCode: "044", AccountNumber: "0123456789", AccountName: "  "}},
	}

	for _, c := range cases {
		err := validateDestination(c.dto)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("%s: expected ValidationError, got %v", c.name, err)
		}
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc := NewWithdrawalService(testDB, nil)

	err := svc.Reject(1, 123, "   ", "admin:1")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError for empty reason, got %v", err)
	}
}

func TestRequestWithdrawalUnknownBank(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, _, withdrawals := newTestServices()

	memberId := 30
	seedMemberRevenue(1, memberId, 80, 100000)

	_, err := withdrawals.RequestWithdrawal(models.MemberRole(1, memberId), WithdrawRequestDTO{
		Amount: 1000, BankCode: "999", AccountNumber: "0123456789", AccountName: "A Member",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError for unknown bank code, got %v", err)
	}
}

func TestApproveTransitions(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, _, withdrawals := newTestServices()

	memberId := 31
	seedMemberRevenue(1, memberId, 80, 100000)
	member := models.MemberRole(1, memberId)

	w, err := withdrawals.RequestWithdrawal(member, WithdrawRequestDTO{
		Amount: 1000, BankCode: "044", AccountNumber: "0123456789", AccountName: "A Member",
	})
	if err != nil {
		t.Fatalf("RequestWithdrawal failed: %v", err)
	}
	if w.ApprovalStatus != models.ApprovalPending || w.PayoutStatus != models.PayoutPending {
		t.Fatalf("New withdrawal in unexpected state: %s/%s", w.ApprovalStatus, w.PayoutStatus)
	}

	if err := withdrawals.Approve(1, w.ID, "admin:1"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	// Double approve loses the CAS.
	if err := withdrawals.Approve(1, w.ID, "admin:1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition on double approve, got %v", err)
	}

	// Reject after approve is also invalid.
	if err := withdrawals.Reject(1, w.ID, "too late", "admin:1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition on reject-after-approve, got %v", err)
	}

	// So is a requester cancel.
	if err := withdrawals.Cancel(member, w.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition on cancel-after-approve, got %v", err)
	}

	if err := withdrawals.Approve(1, 9999999, "admin:1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing withdrawal, got %v", err)
	}
}

func TestCancelRestoresBalance(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, balance, withdrawals := newTestServices()

	memberId := 32
	seedMemberRevenue(1, memberId, 80, 100000)
	member := models.MemberRole(1, memberId)

	w, err := withdrawals.RequestWithdrawal(member, WithdrawRequestDTO{
		Amount: 30000, BankCode: "044", AccountNumber: "0123456789", AccountName: "A Member",
	})
	if err != nil {
		t.Fatalf("RequestWithdrawal failed: %v", err)
	}

	if err := withdrawals.Cancel(member, w.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	summary, _ := balance.ComputeBalance(member)
	if summary.Available != 80000 {
		t.Errorf("Available after cancel = %d, want 80000", summary.Available)
	}
	if summary.AlreadyWithdrawn != 0 {
		t.Errorf("AlreadyWithdrawn after cancel = %d, want 0", summary.AlreadyWithdrawn)
	}
}

func TestCancelOnlyByRequester(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, _, withdrawals := newTestServices()

	memberId := 33
	seedMemberRevenue(1, memberId, 80, 100000)

	w, err := withdrawals.RequestWithdrawal(models.MemberRole(1, memberId), WithdrawRequestDTO{
		Amount: 1000, BankCode: "044", AccountNumber: "0123456789", AccountName: "A Member",
	})
	if err != nil {
		t.Fatalf("RequestWithdrawal failed: %v", err)
	}

	other := models.MemberRole(1, memberId+1)
	if err := withdrawals.Cancel(other, w.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition for foreign cancel, got %v", err)
	}
}

// Concurrent requests for the same role must never jointly overdraw.
func TestConcurrentWithdrawalsNoOverdraft(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, balance, withdrawals := newTestServices()

	memberId := 34
	seedMemberRevenue(1, memberId, 80, 100000) // net 80,000
	member := models.MemberRole(1, memberId)

	dto := WithdrawRequestDTO{Amount: 30000, BankCode: "044", AccountNumber: "0123456789", AccountName: "A Member"}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			withdrawals.RequestWithdrawal(member, dto)
		}()
	}
	wg.Wait()

	// At most two 30,000 requests fit into 80,000.
	summary, err := balance.ComputeBalance(member)
	if err != nil {
		t.Fatalf("ComputeBalance failed: %v", err)
	}
	if summary.AlreadyWithdrawn > summary.NetRevenue {
		t.Errorf("Overdraft: withdrawn %d exceeds net revenue %d", summary.AlreadyWithdrawn, summary.NetRevenue)
	}

	var count int64
	testDB.Model(&models.Withdrawal{}).
		Where("client_id = ? AND requester_id = ?", 1, memberId).
		Count(&count)
	if count > 2 {
		t.Errorf("Expected at most 2 accepted requests, got %d", count)
	}
}
