package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"settlement-service/internal/models"

	"gorm.io/gorm"
)

// WebhookService finalizes payout legs from processor transfer events.
// Events only ever move payout_status; a failed or reversed transfer
// does not restore the requester's balance, because the withdrawal
// remains APPROVED until an operator acts on it.
type WebhookService struct {
	DB        *gorm.DB
	SecretKey string
}

func NewWebhookServiceFromEnv(db *gorm.DB) *WebhookService {
	return &WebhookService{DB: db, SecretKey: os.Getenv("PAYOUT_WEBHOOK_SECRET")}
}

type WebhookDTO struct {
	Signature string
	Body      []byte
	Event     string
	Reference string
	Data      map[string]interface{}
}

// VerifySignature checks the HMAC-SHA512 signature the processor signs
// each event body with.
func (s *WebhookService) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(s.SecretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleTransferEvent applies a processor transfer event to the
// withdrawal identified by its payout reference.
func (s *WebhookService) HandleTransferEvent(dto WebhookDTO) error {
	var w models.Withdrawal
	if err := s.DB.Where("payout_reference = ?", dto.Reference).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	switch dto.Event {
	case "transfer.success":
		s.finalize(&w, models.PayoutSucceeded)
		s.logEvent(&w, dto, 1)
	case "transfer.failed", "transfer.reversed":
		s.finalize(&w, models.PayoutFailed)
		s.logEvent(&w, dto, 2)
	default:
		log.Printf("Unhandled payout webhook event %q for reference %s", dto.Event, dto.Reference)
	}

	return nil
}

// finalize moves an in-flight payout leg to its terminal state. Already
// terminal rows are left alone, so replayed events are no-ops.
func (s *WebhookService) finalize(w *models.Withdrawal, to string) {
	result := s.DB.Model(&models.Withdrawal{}).
		Where("id = ? AND payout_status IN (?)", w.ID, []string{models.PayoutPending, models.PayoutAccepted}).
		Updates(map[string]interface{}{
			"payout_status": to,
			"processed_at":  time.Now(),
		})
	if result.Error != nil {
		log.Printf("Failed to finalize payout for withdrawal %d: %v", w.ID, result.Error)
	}
}

func (s *WebhookService) logEvent(w *models.Withdrawal, dto WebhookDTO, status int) {
	respBytes, _ := json.Marshal(dto.Data)
	entry := models.PayoutLog{
		ClientId:     w.ClientId,
		WithdrawalId: w.ID,
		Reference:    dto.Reference,
		Source:       "webhook",
		Request:      dto.Event,
		Response:     string(respBytes),
		Status:       status,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to write webhook log for withdrawal %d: %v", w.ID, err)
	}
}
