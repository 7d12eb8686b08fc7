// Package intakeapi is the outbound client for the clinic's intake save
// endpoint. Success is judged solely by the HTTP status class; response
// bodies are drained and discarded.
package intakeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/peakmotion/intake/internal/domain/intake"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

// Save POSTs the submission payload to the save endpoint. It implements
// intake.Saver. Each call issues exactly one request; retries are left to
// the visitor.
func (c *Client) Save(ctx context.Context, p intake.Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post intake: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("intake endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
