package services

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"settlement-service/pkg/common"
)

// PayoutProcessor is the external money-movement collaborator. Submit
// must be idempotent on the key: retrying with the same key never
// creates a second payout.
type PayoutProcessor interface {
	SubmitPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
	TransferStatus(ctx context.Context, externalId string) (*PayoutResult, error)
}

type PayoutRequest struct {
	IdempotencyKey string `json:"reference"`
	Amount         int64  `json:"amount"`
	BankCode       string `json:"bank_code"`
	AccountNumber  string `json:"account_number"`
	AccountName    string `json:"account_name"`
	Narration      string `json:"narration"`
}

// Payout states reported by the processor.
const (
	PayoutStateAccepted  = "accepted"
	PayoutStateSucceeded = "succeeded"
	PayoutStateRejected  = "rejected"
)

type PayoutResult struct {
	State      string
	ExternalId string
	Message    string
}

// HTTPPayoutClient talks to the payout processor over its JSON API.
type HTTPPayoutClient struct {
	BaseUrl   string
	SecretKey string
}

func NewPayoutClientFromEnv() *HTTPPayoutClient {
	return &HTTPPayoutClient{
		BaseUrl:   os.Getenv("PAYOUT_BASE_URL"),
		SecretKey: os.Getenv("PAYOUT_SECRET_KEY"),
	}
}

func (c *HTTPPayoutClient) headers(idempotencyKey string) map[string]string {
	h := map[string]string{
		"Authorization": "Bearer " + c.SecretKey,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	}
	if idempotencyKey != "" {
		h["Idempotency-Key"] = idempotencyKey
	}
	return h
}

// SubmitPayout asks the processor to transfer funds. Outcome mapping:
// 2xx with a terminal state is SUCCEEDED, otherwise ACCEPTED; a 4xx is an
// explicit decline; transport errors, timeouts and 5xx responses are
// indeterminate because the transfer may still have gone through.
func (c *HTTPPayoutClient) SubmitPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error) {
	status, body, err := common.Post(ctx, fmt.Sprintf("%s/transfers", c.BaseUrl), req, c.headers(req.IdempotencyKey))
	if err != nil {
		return nil, &ExternalPayoutError{Message: err.Error(), Indeterminate: true}
	}

	switch {
	case status >= 200 && status < 300:
		return parseTransfer(body), nil
	case status >= 400 && status < 500:
		return nil, &ExternalPayoutError{
			Message:    fmt.Sprintf("processor declined transfer: %s", responseMessage(body)),
			StatusCode: status,
		}
	default:
		return nil, &ExternalPayoutError{
			Message:       fmt.Sprintf("processor returned %d", status),
			StatusCode:    status,
			Indeterminate: true,
		}
	}
}

// TransferStatus fetches the current state of an earlier transfer, used
// to resolve payouts left ACCEPTED or indeterminate.
func (c *HTTPPayoutClient) TransferStatus(ctx context.Context, externalId string) (*PayoutResult, error) {
	status, body, err := common.Get(ctx, fmt.Sprintf("%s/transfers/%s", c.BaseUrl, externalId), c.headers(""))
	if err != nil {
		return nil, &ExternalPayoutError{Message: err.Error(), Indeterminate: true}
	}

	if status == http.StatusNotFound {
		return nil, &ExternalPayoutError{Message: "transfer not found", StatusCode: status}
	}
	if status < 200 || status >= 300 {
		return nil, &ExternalPayoutError{
			Message:       fmt.Sprintf("processor returned %d", status),
			StatusCode:    status,
			Indeterminate: true,
		}
	}

	return parseTransfer(body), nil
}

// parseTransfer maps the processor's transfer payload onto a result.
// The payload shape is {"data": {"id": ..., "status": ...}, "message": ...}.
func parseTransfer(body interface{}) *PayoutResult {
	result := &PayoutResult{State: PayoutStateAccepted}

	respMap, ok := body.(map[string]interface{})
	if !ok {
		return result
	}
	if msg, ok := respMap["message"].(string); ok {
		result.Message = msg
	}

	dataMap, _ := respMap["data"].(map[string]interface{})
	if id, ok := dataMap["id"].(string); ok {
		result.ExternalId = id
	}

	switch state, _ := dataMap["status"].(string); state {
	case "success", "successful", "completed":
		result.State = PayoutStateSucceeded
	case "failed", "rejected":
		result.State = PayoutStateRejected
	}

	return result
}

func responseMessage(body interface{}) string {
	if respMap, ok := body.(map[string]interface{}); ok {
		if msg, ok := respMap["message"].(string); ok {
			return msg
		}
	}
	return "no message"
}
