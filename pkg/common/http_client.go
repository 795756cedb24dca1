package common

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every outbound call to the payout processor.
// The processor call is the only network I/O this service performs.
const DefaultTimeout = 15 * time.Second

var httpClient = &http.Client{Timeout: DefaultTimeout}

// Post sends a JSON POST request and decodes the response body.
// The returned status code is the HTTP status; body is the decoded JSON
// (or the raw string when the body is not JSON).
func Post(ctx context.Context, url string, payload interface{}, headers map[string]string) (int, interface{}, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return do(req)
}

// Get sends a GET request and decodes the response body like Post.
func Get(ctx context.Context, url string, headers map[string]string) (int, interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return do(req)
}

func do(req *http.Request) (int, interface{}, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	var result interface{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return resp.StatusCode, string(body), nil
		}
	}

	return resp.StatusCode, result, nil
}
