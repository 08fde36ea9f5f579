package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"NewsCollector/internal/config"
	"NewsCollector/internal/domain"
	"NewsCollector/internal/infrastructure/llm"
	"NewsCollector/internal/ports"
)

// Client talks to a structured inference service that classifies news batches.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Classifier = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(cfg config.MLConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.InferenceURL, "/"),
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
	}
}

var errDecode = errors.New("decode response")

// Classify posts the batch to /classify and returns the verdicts it answers with.
func (c *Client) Classify(ctx context.Context, batch []domain.ClassificationInput) ([]domain.Verdict, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("%w: inference url is not configured", domain.ErrClassificationCall)
	}

	payload := map[string]any{"items": batch}
	var resp struct {
		Verdicts []json.RawMessage `json:"verdicts"`
	}

	if err := c.post(ctx, "/classify", payload, &resp); err != nil {
		if errors.Is(err, errDecode) {
			return nil, fmt.Errorf("%w: %v", domain.ErrClassificationParse, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationCall, err)
	}

	// an unreadable entry fails only its own item
	verdicts := make([]domain.Verdict, 0, len(resp.Verdicts))
	for _, entry := range resp.Verdicts {
		if v, ok := llm.DecodeVerdict(entry); ok {
			verdicts = append(verdicts, v)
		}
	}
	return verdicts, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if v == nil {
		if err := resp.Body.Close(); err != nil {
			return fmt.Errorf("close response body: %w", err)
		}
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("%w: %v", errDecode, err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
