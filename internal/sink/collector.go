// Package sink provides the delivery targets the spool flushes and dumps to:
// a remote collector reached over HTTP, a postgres-backed store adapter, and
// a local writer for dumps.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/logspool/logspool/internal/config"
	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/platform/logger"
)

// defaultCollectorTimeout bounds a single shipment when no timeout is
// configured.
const defaultCollectorTimeout = 10 * time.Second

// collectorBatch is the JSON body posted to the collector.
type collectorBatch struct {
	Entries []domain.Entry `json:"entries"`
}

// Collector ships flushed batches to a remote collector endpoint as JSON
// over HTTP.
type Collector struct {
	url    string
	apiKey string
	client *http.Client
}

// NewCollector creates a collector sink from configuration.
func NewCollector(cfg config.CollectorConfig) (*Collector, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("collector URL is required")
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultCollectorTimeout
	}

	return &Collector{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Name implements spool.Sink.
func (c *Collector) Name() string { return "collector" }

// Ship posts the batch to the collector. Any non-2xx response is an error so
// the spool retains the batch for the next flush.
func (c *Collector) Ship(ctx context.Context, entries []domain.Entry) error {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(collectorBatch{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build collector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("collector request failed: %w", err)
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("collector rejected batch: status %d", resp.StatusCode)
	}

	log.Debug("batch shipped to collector",
		"entries", len(entries),
		"status", resp.StatusCode)
	return nil
}
