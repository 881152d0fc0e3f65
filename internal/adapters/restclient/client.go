// Package restclient holds the JSON-over-HTTP adapters for the independent
// record-keeping services. Each adapter implements one of the collaborator
// ports from internal/core/ports/services; the engine never sees this
// package.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/altanet-mx/crm_backend/internal/apperrors"
)

// client is the shared HTTP plumbing of every service adapter.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string, timeout time.Duration) client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// doJSON performs one JSON request. Connection-level failures are wrapped in
// apperrors.ErrUpstreamUnavailable so handlers can answer with the distinct
// "retry later" message; HTTP error statuses map onto the shared sentinels.
func (c client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		return fmt.Errorf("%s %s: %v: %w", method, path, err, apperrors.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

func (c client) statusError(method, path string, resp *http.Response) error {
	detail := readErrorDetail(resp.Body)

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		sentinel = apperrors.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		sentinel = apperrors.ErrDuplicate
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		sentinel = apperrors.ErrValidation
	case resp.StatusCode >= http.StatusInternalServerError:
		sentinel = apperrors.ErrUpstreamUnavailable
	default:
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, detail)
	}
	return fmt.Errorf("%s %s: status %d: %s: %w", method, path, resp.StatusCode, detail, sentinel)
}

// readErrorDetail extracts the conventional {"error": "..."} message, falling
// back to the raw body.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no detail"
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(raw)
}
