package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"settlement-service/internal/models"
	"settlement-service/pkg/common"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DisbursementService drives approved withdrawals through the payout
// processor, one call per withdrawal per attempt. A batch never fails as
// a whole: each item carries its own outcome.
type DisbursementService struct {
	DB        *gorm.DB
	Processor PayoutProcessor
	Queue     *asynq.Client
}

func NewDisbursementService(db *gorm.DB, processor PayoutProcessor, queue *asynq.Client) *DisbursementService {
	return &DisbursementService{DB: db, Processor: processor, Queue: queue}
}

// Per-item batch outcomes.
const (
	OutcomeSucceeded = "SUCCEEDED"
	OutcomeAccepted  = "ACCEPTED"
	OutcomeFailed    = "FAILED"
	OutcomePending   = "PENDING"
	OutcomeSkipped   = "SKIPPED"
)

type ItemOutcome struct {
	WithdrawalId int    `json:"withdrawal_id"`
	Outcome      string `json:"outcome"`
	ExternalId   string `json:"external_id,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

type BatchResult struct {
	Outcomes  []ItemOutcome `json:"outcomes"`
	Succeeded int           `json:"succeeded"`
}

// Disburse pushes each APPROVED/PENDING withdrawal in ids through the
// processor. Items in any other state are skipped and reported
// individually. An indeterminate processor outcome leaves the payout
// PENDING for a retry with the same idempotency key; only an explicit
// decline marks it FAILED. approval_status is never touched here.
func (s *DisbursementService) Disburse(ctx context.Context, clientId int, ids []int) (BatchResult, error) {
	result := BatchResult{Outcomes: make([]ItemOutcome, 0, len(ids))}

	for _, id := range ids {
		outcome := s.disburseOne(ctx, clientId, id)
		if outcome.Outcome == OutcomeSucceeded || outcome.Outcome == OutcomeAccepted {
			result.Succeeded++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

func (s *DisbursementService) disburseOne(ctx context.Context, clientId, id int) ItemOutcome {
	var w models.Withdrawal
	if err := s.DB.Where("id = ? AND client_id = ?", id, clientId).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemOutcome{WithdrawalId: id, Outcome: OutcomeSkipped, Detail: "withdrawal not found"}
		}
		return ItemOutcome{WithdrawalId: id, Outcome: OutcomeSkipped, Detail: err.Error()}
	}

	if w.ApprovalStatus != models.ApprovalApproved || w.PayoutStatus != models.PayoutPending {
		return ItemOutcome{
			WithdrawalId: id,
			Outcome:      OutcomeSkipped,
			Detail:       "not in APPROVED/PENDING state: " + w.ApprovalStatus + "/" + w.PayoutStatus,
		}
	}

	req := PayoutRequest{
		IdempotencyKey: common.IdempotencyKey(w.PayoutReference),
		Amount:         w.Amount,
		BankCode:       w.BankCode,
		AccountNumber:  w.AccountNumber,
		AccountName:    w.AccountName,
		Narration:      "Settlement payout " + w.PayoutReference,
	}

	callCtx, cancel := context.WithTimeout(ctx, common.DefaultTimeout)
	defer cancel()

	payout, err := s.Processor.SubmitPayout(callCtx, req)
	if err != nil {
		var payoutErr *ExternalPayoutError
		if errors.As(err, &payoutErr) && !payoutErr.Indeterminate {
			// Explicit decline: terminal for the payout leg. The
			// approval stays APPROVED so the amount remains counted
			// until an operator retries or rejects.
			s.markPayout(&w, models.PayoutPending, models.PayoutFailed, nil)
			s.logAttempt(&w, req, err.Error(), 2)
			return ItemOutcome{WithdrawalId: id, Outcome: OutcomeFailed, Detail: payoutErr.Message}
		}
		// Timeout or transport failure: the transfer may have gone
		// through, so the payout stays PENDING for a keyed retry.
		s.logAttempt(&w, req, err.Error(), 0)
		return ItemOutcome{WithdrawalId: id, Outcome: OutcomePending, Detail: err.Error()}
	}

	s.logAttempt(&w, req, payout.State+" "+payout.ExternalId, 1)

	switch payout.State {
	case PayoutStateSucceeded:
		s.markPayout(&w, models.PayoutPending, models.PayoutSucceeded, &payout.ExternalId)
		return ItemOutcome{WithdrawalId: id, Outcome: OutcomeSucceeded, ExternalId: payout.ExternalId}
	case PayoutStateRejected:
		s.markPayout(&w, models.PayoutPending, models.PayoutFailed, &payout.ExternalId)
		return ItemOutcome{WithdrawalId: id, Outcome: OutcomeFailed, ExternalId: payout.ExternalId, Detail: payout.Message}
	default:
		s.markPayout(&w, models.PayoutPending, models.PayoutAccepted, &payout.ExternalId)
		return ItemOutcome{WithdrawalId: id, Outcome: OutcomeAccepted, ExternalId: payout.ExternalId}
	}
}

// markPayout advances payout_status with a compare-and-swap on the prior
// state. A lost race leaves the row to whichever writer won.
func (s *DisbursementService) markPayout(w *models.Withdrawal, from, to string, externalId *string) {
	updates := map[string]interface{}{"payout_status": to}
	if externalId != nil && *externalId != "" {
		updates["external_payout_id"] = *externalId
	}
	if to == models.PayoutSucceeded || to == models.PayoutFailed {
		updates["processed_at"] = time.Now()
	}

	result := s.DB.Model(&models.Withdrawal{}).
		Where("id = ? AND payout_status = ?", w.ID, from).
		Updates(updates)
	if result.Error != nil {
		log.Printf("Failed to update payout status for withdrawal %d: %v", w.ID, result.Error)
	}
}

func (s *DisbursementService) logAttempt(w *models.Withdrawal, req PayoutRequest, response string, status int) {
	reqBytes, _ := json.Marshal(req)
	entry := models.PayoutLog{
		ClientId:     w.ClientId,
		WithdrawalId: w.ID,
		Reference:    w.PayoutReference,
		Source:       "disbursement",
		Request:      string(reqBytes),
		Response:     response,
		Status:       status,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to write payout log for withdrawal %d: %v", w.ID, err)
	}
}

// Reconcile resolves withdrawals stuck ACCEPTED by asking the processor
// for their terminal state.
func (s *DisbursementService) Reconcile(ctx context.Context, clientId int) error {
	var accepted []models.Withdrawal
	err := s.DB.Where("client_id = ? AND approval_status = ? AND payout_status = ? AND external_payout_id IS NOT NULL",
		clientId, models.ApprovalApproved, models.PayoutAccepted).
		Find(&accepted).Error
	if err != nil {
		return err
	}

	for i := range accepted {
		w := &accepted[i]

		callCtx, cancel := context.WithTimeout(ctx, common.DefaultTimeout)
		payout, err := s.Processor.TransferStatus(callCtx, *w.ExternalPayoutId)
		cancel()
		if err != nil {
			log.Printf("Reconcile: status check failed for withdrawal %d: %v", w.ID, err)
			continue
		}

		switch payout.State {
		case PayoutStateSucceeded:
			s.markPayout(w, models.PayoutAccepted, models.PayoutSucceeded, nil)
			s.logReconcile(w, "succeeded", 1)
		case PayoutStateRejected:
			s.markPayout(w, models.PayoutAccepted, models.PayoutFailed, nil)
			s.logReconcile(w, "failed at processor", 2)
		}
	}

	return nil
}

func (s *DisbursementService) logReconcile(w *models.Withdrawal, response string, status int) {
	entry := models.PayoutLog{
		ClientId:     w.ClientId,
		WithdrawalId: w.ID,
		Reference:    w.PayoutReference,
		Source:       "reconcile",
		Response:     response,
		Status:       status,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to write reconcile log for withdrawal %d: %v", w.ID, err)
	}
}

// SweepStale enqueues a retry batch for withdrawals approved but still
// awaiting a payout attempt older than the threshold, and a reconcile
// task per organization with transfers stuck ACCEPTED.
func (s *DisbursementService) SweepStale(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)

	type staleRow struct {
		ClientId int
		ID       int
	}
	var stale []staleRow
	err := s.DB.Model(&models.Withdrawal{}).
		Select("client_id, id").
		Where("approval_status = ? AND payout_status = ? AND updated_at < ?",
			models.ApprovalApproved, models.PayoutPending, cutoff).
		Scan(&stale).Error
	if err != nil {
		return err
	}

	batches := make(map[int][]int)
	for _, row := range stale {
		batches[row.ClientId] = append(batches[row.ClientId], row.ID)
	}

	for clientId, ids := range batches {
		if err := s.EnqueueBatch(clientId, ids); err != nil {
			log.Printf("Failed to enqueue stale disbursement batch for client %d: %v", clientId, err)
		}
	}

	var reconcileClients []int
	err = s.DB.Model(&models.Withdrawal{}).
		Distinct("client_id").
		Where("approval_status = ? AND payout_status = ?", models.ApprovalApproved, models.PayoutAccepted).
		Pluck("client_id", &reconcileClients).Error
	if err != nil {
		return err
	}

	for _, clientId := range reconcileClients {
		if err := s.EnqueueReconcile(clientId); err != nil {
			log.Printf("Failed to enqueue reconcile for client %d: %v", clientId, err)
		}
	}

	return nil
}

// DisburseBatchPayload is the asynq payload for a queued batch.
type DisburseBatchPayload struct {
	ClientId int   `json:"clientId"`
	Ids      []int `json:"ids"`
}

type ReconcilePayload struct {
	ClientId int `json:"clientId"`
}

// Task type names shared with the worker mux.
const (
	TaskDisburseBatch   = "disbursement:batch"
	TaskPayoutReconcile = "payout:reconcile"
)

func (s *DisbursementService) EnqueueBatch(clientId int, ids []int) error {
	if s.Queue == nil {
		return errors.New("disbursement queue not configured")
	}
	data, err := json.Marshal(DisburseBatchPayload{ClientId: clientId, Ids: ids})
	if err != nil {
		return err
	}
	_, err = s.Queue.Enqueue(asynq.NewTask(TaskDisburseBatch, data), asynq.Queue("critical"))
	return err
}

func (s *DisbursementService) EnqueueReconcile(clientId int) error {
	if s.Queue == nil {
		return errors.New("disbursement queue not configured")
	}
	data, err := json.Marshal(ReconcilePayload{ClientId: clientId})
	if err != nil {
		return err
	}
	_, err = s.Queue.Enqueue(asynq.NewTask(TaskPayoutReconcile, data), asynq.Queue("default"))
	return err
}

// StartScheduler runs the periodic sweep. Stale APPROVED/PENDING items
// are re-driven with their original idempotency keys, so a sweep retry
// after an indeterminate outcome cannot double-pay.
func (s *DisbursementService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("*/10 * * * *", func() {
		log.Println("Running scheduled disbursement sweep...")
		if err := s.SweepStale(15 * time.Minute); err != nil {
			log.Printf("Error in disbursement sweep: %v", err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling disbursement sweep: %v", err)
		return
	}
	c.Start()
	log.Println("Disbursement scheduler started (every 10 minutes)")
}
