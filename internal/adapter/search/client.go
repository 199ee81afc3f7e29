// Package search writes case documents to Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// ErrBulkFailure is wrapped by every error returned from Bulk.
var ErrBulkFailure = errors.New("search: bulk request failed")

// ItemError describes a single rejected bulk item.
type ItemError struct {
	Index  string
	ID     string
	Status int
	Type   string
	Reason string
}

// BulkError is returned when the bulk call succeeded but some items were rejected.
type BulkError struct {
	Items []ItemError
}

func (e *BulkError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("%s/%s: %d %s: %s", it.Index, it.ID, it.Status, it.Type, it.Reason))
	}
	return fmt.Sprintf("search: %d bulk items failed: %s", len(e.Items), strings.Join(parts, "; "))
}

func (e *BulkError) Unwrap() error { return ErrBulkFailure }

// Config holds connection settings.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	Transport http.RoundTripper
}

// Client is a thin wrapper over the official client.
type Client struct {
	es  *elasticsearch.Client
	log *slog.Logger
}

// NewClient creates a Client. No request is made until first use.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("search: create client: %w", err)
	}
	return &Client{es: es, log: logger.With("adapter", "search")}, nil
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: ping: status %d", res.StatusCode)
	}
	return nil
}

type bulkAction struct {
	Index bulkMeta `json:"index"`
}

type bulkMeta struct {
	Index       string `json:"_index"`
	ID          string `json:"_id"`
	Version     int64  `json:"version,omitempty"`
	VersionType string `json:"version_type,omitempty"`
}

const versionConflict = "version_conflict_engine_exception"

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Index  string `json:"_index"`
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// Bulk indexes docs in a single request. Versioned documents use external
// versioning; an item rejected because the index already holds a newer
// version is stale and skipped. Any transport error, non-2xx response, or
// other rejected item is reported as an error wrapping ErrBulkFailure.
func (c *Client) Bulk(ctx context.Context, docs []domain.SearchDocument) error {
	if len(docs) == 0 {
		return nil
	}

	body, err := encodeBulk(docs)
	if err != nil {
		return err
	}

	res, err := c.es.Bulk(bytes.NewReader(body), c.es.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBulkFailure, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrBulkFailure, res.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrBulkFailure, err)
	}

	if !parsed.Errors {
		c.log.DebugContext(ctx, "bulk indexed", slog.Int("documents", len(docs)))
		return nil
	}

	bulkErr := &BulkError{}
	stale := 0
	for _, item := range parsed.Items {
		for _, r := range item {
			if r.Error == nil {
				continue
			}
			if r.Status == http.StatusConflict && r.Error.Type == versionConflict {
				stale++
				c.log.InfoContext(ctx, "stale document skipped",
					slog.String("index", r.Index),
					slog.String("id", r.ID),
					slog.String("reason", r.Error.Reason),
				)
				continue
			}
			bulkErr.Items = append(bulkErr.Items, ItemError{
				Index:  r.Index,
				ID:     r.ID,
				Status: r.Status,
				Type:   r.Error.Type,
				Reason: r.Error.Reason,
			})
		}
	}
	if len(bulkErr.Items) == 0 {
		if stale > 0 {
			return nil
		}
		return fmt.Errorf("%w: response flagged errors without failed items", ErrBulkFailure)
	}
	return bulkErr
}

func encodeBulk(docs []domain.SearchDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		meta := bulkMeta{Index: d.Index, ID: d.ID}
		if d.Version > 0 {
			meta.Version = d.Version
			meta.VersionType = "external_gte"
		}
		if err := enc.Encode(bulkAction{Index: meta}); err != nil {
			return nil, fmt.Errorf("search: encode action %s/%s: %w", d.Index, d.ID, err)
		}
		if err := enc.Encode(d.Body); err != nil {
			return nil, fmt.Errorf("search: encode document %s/%s: %w", d.Index, d.ID, err)
		}
	}
	return buf.Bytes(), nil
}
