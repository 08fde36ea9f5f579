package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsCollector/internal/config"
	"NewsCollector/internal/domain"
	"NewsCollector/internal/ports"
)

// ChatClassifier implements ports.Classifier backed by OpenAI-compatible chat APIs.
type ChatClassifier struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.Classifier = (*ChatClassifier)(nil)

// NewChatClassifier builds a client from configuration.
func NewChatClassifier(cfg config.ChatGPTConfig) *ChatClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ChatClassifier{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: SystemPrompt(cfg.SystemPrompt),
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends one batch as a chat completion and parses the verdict array.
func (c *ChatClassifier) Classify(ctx context.Context, batch []domain.ClassificationInput) ([]domain.Verdict, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return nil, fmt.Errorf("%w: chat classifier misconfigured", domain.ErrClassificationCall)
	}
	prompt, err := BuildUserPrompt(batch)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "system", "content": c.systemPrompt},
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationCall, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: chat error %s: %s", domain.ErrClassificationCall, resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode chat response: %v", domain.ErrClassificationParse, err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%w: chat response has no choices", domain.ErrClassificationParse)
	}
	return ParseVerdicts(decoded.Choices[0].Message.Content)
}
