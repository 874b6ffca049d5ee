// Package printing dispatches label print jobs to the workshop print agent,
// a small HTTP daemon next to the label printer. Dispatch happens after the
// production transaction commits and a failure never affects the commit.
package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lcree/backend/internal/application/production"
	"github.com/lcree/backend/internal/infrastructure/config"
	"github.com/lcree/backend/internal/infrastructure/logger"
)

// maxResponseSize caps how much of an agent response is read (64KB)
const maxResponseSize = 64 * 1024

// AgentClient sends label jobs to the print agent over HTTP.
type AgentClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ production.Printer = (*AgentClient)(nil)

// NewAgentClient creates a print-agent client from configuration
func NewAgentClient(cfg config.PrintConfig) *AgentClient {
	return &AgentClient{
		baseURL: strings.TrimRight(cfg.AgentURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// printJob is the wire format the agent expects
type printJob struct {
	Labels []production.Label `json:"labels"`
}

// PrintLabels posts a batch of labels to the agent's print endpoint.
func (c *AgentClient) PrintLabels(ctx context.Context, labels []production.Label) error {
	if len(labels) == 0 {
		return nil
	}
	body, err := json.Marshal(printJob{Labels: labels})
	if err != nil {
		return fmt.Errorf("encode print job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/print-label", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build print request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("print agent unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("print agent returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// NoopPrinter is used when no print agent is configured. Jobs are logged
// and dropped so productions still commit in environments without a printer.
type NoopPrinter struct{}

var _ production.Printer = (*NoopPrinter)(nil)

// PrintLabels logs the job and discards it
func (NoopPrinter) PrintLabels(ctx context.Context, labels []production.Label) error {
	logger.L(ctx).Info("print agent not configured, dropping label job")
	return nil
}
