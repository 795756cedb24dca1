package common

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// payoutNamespace seeds idempotency key derivation. Changing it would
// re-key every in-flight payout, so it is fixed for the life of the service.
var payoutNamespace = uuid.MustParse("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")

// GenerateWithdrawalRef returns a reference for a new withdrawal request.
// It is generated once at creation and reused for every payout attempt.
func GenerateWithdrawalRef() string {
	const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	result := make([]byte, 10)
	for i := range result {
		result[i] = characters[r.Intn(len(characters))]
	}
	return fmt.Sprintf("WD-%s", result)
}

// IdempotencyKey derives the payout processor idempotency key from a
// withdrawal reference. The derivation is deterministic: a retried call
// for the same withdrawal always carries the same key.
func IdempotencyKey(withdrawalRef string) string {
	return uuid.NewSHA1(payoutNamespace, []byte(withdrawalRef)).String()
}
