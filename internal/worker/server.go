package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"settlement-service/internal/services"

	"github.com/hibiken/asynq"
)

type Worker struct {
	Disbursements *services.DisbursementService
}

func NewWorker(disbursements *services.DisbursementService) *Worker {
	return &Worker{Disbursements: disbursements}
}

// HandleDisburseBatch runs a queued disbursement batch. Item outcomes
// are already persisted per withdrawal; the task itself only fails on
// infrastructure errors, and a retried task is safe because every
// attempt reuses the withdrawal's idempotency key.
func (w *Worker) HandleDisburseBatch(ctx context.Context, t *asynq.Task) error {
	var p services.DisburseBatchPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	result, err := w.Disbursements.Disburse(ctx, p.ClientId, p.Ids)
	if err != nil {
		return err
	}

	log.Printf("Disbursement batch for client %d: %d/%d succeeded", p.ClientId, result.Succeeded, len(p.Ids))
	return nil
}

func (w *Worker) HandlePayoutReconcile(ctx context.Context, t *asynq.Task) error {
	var p services.ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Disbursements.Reconcile(ctx, p.ClientId)
}

func StartWorker(redisOpt asynq.RedisClientOpt, disbursements *services.DisbursementService) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(disbursements)
	mux := asynq.NewServeMux()

	mux.HandleFunc(services.TaskDisburseBatch, worker.HandleDisburseBatch)
	mux.HandleFunc(services.TaskPayoutReconcile, worker.HandlePayoutReconcile)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run worker server: %v", err)
	}
}
