package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 4 << 10

// postJSON sends body and returns the 2xx response payload. Rate-limit and
// payment statuses map to their sentinels, any other non-2xx status to a
// BackendError.
func postJSON(ctx context.Context, hc *http.Client, provider, url string, headers map[string]string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s http error: %w", provider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %w", provider, ErrRateLimited)
	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, fmt.Errorf("%s: %w", provider, ErrPaymentRequired)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &BackendError{Provider: provider, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", provider, err)
	}
	return raw, nil
}
