package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/config"
	"NewsCollector/internal/domain"
)

var testBatch = []domain.ClassificationInput{
	{ID: "a", Title: "New model", URL: "https://example.com/a", Source: "official-blogs", Category: domain.CategoryModelRelease},
	{ID: "b", Title: "SDK update", URL: "https://example.com/b", Source: "github", Category: domain.CategoryDeveloperPlatform},
}

func TestChatClassifierClassify(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Contains(t, req.Messages[1].Content, `"id": "a"`)
		}

		content := `[{"id":"a","agentCategory":"LAUNCH","agentScore":90,"whyItMatters":"big"},{"id":"b","agentCategory":"TOOL","agentScore":40,"whyItMatters":"small"}]`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": content}}},
		})
	}))
	defer srv.Close()

	c := NewChatClassifier(config.ChatGPTConfig{Endpoint: srv.URL, Model: "test-model", APIKey: "secret"})
	verdicts, err := c.Classify(context.Background(), testBatch)
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.Equal(t, domain.AgentLaunch, verdicts[0].AgentCategory)
	assert.Equal(t, 40, verdicts[1].AgentScore)
}

func TestChatClassifierErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/limited":
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		case "/empty":
			_, _ = w.Write([]byte(`{"choices":[]}`))
		default:
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"no idea"}}]}`))
		}
	}))
	defer srv.Close()

	cfg := config.ChatGPTConfig{Model: "m", APIKey: "k"}

	cfg.Endpoint = srv.URL + "/limited"
	_, err := NewChatClassifier(cfg).Classify(context.Background(), testBatch)
	require.ErrorIs(t, err, domain.ErrClassificationCall)
	assert.True(t, strings.Contains(err.Error(), "rate limited"))

	cfg.Endpoint = srv.URL + "/empty"
	_, err = NewChatClassifier(cfg).Classify(context.Background(), testBatch)
	assert.ErrorIs(t, err, domain.ErrClassificationParse)

	cfg.Endpoint = srv.URL + "/prose"
	_, err = NewChatClassifier(cfg).Classify(context.Background(), testBatch)
	assert.ErrorIs(t, err, domain.ErrClassificationParse)

	_, err = NewChatClassifier(config.ChatGPTConfig{}).Classify(context.Background(), testBatch)
	assert.ErrorIs(t, err, domain.ErrClassificationCall)
}
