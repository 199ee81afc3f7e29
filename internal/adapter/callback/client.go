// Package callback invokes case-type callback webhooks over HTTP.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/pkg/ctxutil"
)

const maxResponseBytes = 10 << 20

// StatusError is returned for a non-2xx callback response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("callback %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client posts callback requests as JSON.
type Client struct {
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client whose requests time out after timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "callback"),
	}
}

// AboutToSubmit calls the pre-commit callback at url. Callback-reported
// errors are returned in the response, not as an error.
func (c *Client) AboutToSubmit(ctx context.Context, url string, req domain.CallbackRequest) (*domain.AboutToSubmitResponse, error) {
	var resp aboutToSubmitResponse
	if err := c.post(ctx, url, req, &resp); err != nil {
		return nil, err
	}

	return &domain.AboutToSubmitResponse{
		Data:                   resp.Data,
		State:                  resp.State,
		SecurityClassification: domain.SecurityClassification(resp.SecurityClassification),
		Errors:                 resp.Errors,
		Warnings:               resp.Warnings,
	}, nil
}

// Submitted calls the post-commit callback at url once.
func (c *Client) Submitted(ctx context.Context, url string, req domain.CallbackRequest) (*domain.SubmittedResponse, error) {
	var resp submittedResponse
	if err := c.post(ctx, url, req, &resp); err != nil {
		return nil, err
	}

	return &domain.SubmittedResponse{
		ConfirmationHeader: resp.ConfirmationHeader,
		ConfirmationBody:   resp.ConfirmationBody,
	}, nil
}

func (c *Client) post(ctx context.Context, url string, req domain.CallbackRequest, out any) error {
	body, err := json.Marshal(toWire(req))
	if err != nil {
		return fmt.Errorf("callback: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("callback: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if id := ctxutil.RequestIDFromCtx(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.ErrorContext(ctx, "callback request failed",
			slog.String("url", url),
			slog.String("event_id", req.EventID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("callback %s: %w", url, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "callback response",
		slog.String("url", url),
		slog.String("event_id", req.EventID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("callback %s: read body: %w", url, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("callback %s: decode json: %w", url, err)
	}
	return nil
}
