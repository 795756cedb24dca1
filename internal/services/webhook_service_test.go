package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"

	"settlement-service/internal/models"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := &WebhookService{SecretKey: "whsec_test"}
	body := []byte(`{"event":"transfer.success","data":{"reference":"WD-ABC"}}`)

	if !svc.VerifySignature(body, signBody("whsec_test", body)) {
		t.Error("Expected valid signature to verify")
	}
	if svc.VerifySignature(body, signBody("wrong_secret", body)) {
		t.Error("Expected signature from wrong secret to fail")
	}
	if svc.VerifySignature(body, "") {
		t.Error("Expected empty signature to fail")
	}
}

func TestHandleTransferEvent(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, _, withdrawals := newTestServices()
	svc := &WebhookService{DB: testDB, SecretKey: "whsec_test"}

	memberId := 50
	seedMemberRevenue(1, memberId, 80, 1000000)
	w := seedApprovedWithdrawal(t, withdrawals, memberId, 10000, "1111111111")

	// Move to ACCEPTED as a disbursement attempt would.
	testDB.Model(&models.Withdrawal{}).Where("id = ?", w.ID).
		Update("payout_status", models.PayoutAccepted)

	err := svc.HandleTransferEvent(WebhookDTO{
		Event:     "transfer.success",
		Reference: w.PayoutReference,
		Data:      map[string]interface{}{"reference": w.PayoutReference},
	})
	if err != nil {
		t.Fatalf("HandleTransferEvent failed: %v", err)
	}

	var reloaded models.Withdrawal
	testDB.First(&reloaded, w.ID)
	if reloaded.PayoutStatus != models.PayoutSucceeded {
		t.Errorf("Payout status = %s, want SUCCEEDED", reloaded.PayoutStatus)
	}

	// A replayed event leaves the terminal state alone.
	err = svc.HandleTransferEvent(WebhookDTO{
		Event:     "transfer.failed",
		Reference: w.PayoutReference,
		Data:      map[string]interface{}{"reference": w.PayoutReference},
	})
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	testDB.First(&reloaded, w.ID)
	if reloaded.PayoutStatus != models.PayoutSucceeded {
		t.Errorf("Replay moved terminal status to %s", reloaded.PayoutStatus)
	}
}

func TestHandleTransferFailedKeepsApproval(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, balance, withdrawals := newTestServices()
	svc := &WebhookService{DB: testDB, SecretKey: "whsec_test"}

	memberId := 51
	seedMemberRevenue(1, memberId, 80, 1000000)
	w := seedApprovedWithdrawal(t, withdrawals, memberId, 10000, "1111111111")

	err := svc.HandleTransferEvent(WebhookDTO{
		Event:     "transfer.failed",
		Reference: w.PayoutReference,
		Data:      map[string]interface{}{"reference": w.PayoutReference},
	})
	if err != nil {
		t.Fatalf("HandleTransferEvent failed: %v", err)
	}

	var reloaded models.Withdrawal
	testDB.First(&reloaded, w.ID)
	if reloaded.PayoutStatus != models.PayoutFailed {
		t.Errorf("Payout status = %s, want FAILED", reloaded.PayoutStatus)
	}
	if reloaded.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("Approval status = %s, want APPROVED", reloaded.ApprovalStatus)
	}

	// The failed payout still counts against the balance.
	summary, _ := balance.ComputeBalance(models.MemberRole(1, memberId))
	if summary.AlreadyWithdrawn != 10000 {
		t.Errorf("AlreadyWithdrawn = %d, want 10000", summary.AlreadyWithdrawn)
	}
}

func TestHandleTransferEventUnknownReference(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := &WebhookService{DB: testDB, SecretKey: "whsec_test"}
	err := svc.HandleTransferEvent(WebhookDTO{Event: "transfer.success", Reference: "WD-NOPE"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
