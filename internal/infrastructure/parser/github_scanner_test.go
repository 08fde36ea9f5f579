package parser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/scanner"
)

func TestGitHubScannerScan(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		q := r.URL.Query().Get("q")
		assert.True(t, strings.HasSuffix(q, "created:>2026-05-07"), q)
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))

		_ = json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{
			{
				"id": 42, "full_name": "acme/agent-kit", "html_url": "https://github.com/acme/agent-kit",
				"description": "Agents toolkit", "stargazers_count": 812, "language": "Go",
				"created_at": "2026-05-08T10:00:00Z", "pushed_at": "2026-05-09T10:00:00Z",
			},
		}})
	}))
	defer srv.Close()

	got, err := NewGitHubScanner(srv.Client()).Scan(context.Background(), scanner.Request{
		Since:   since,
		Tier:    5,
		Targets: []scanner.Target{{Name: "llm", Query: "topic:llm stars:>50"}},
		Options: map[string]string{"base_url": srv.URL, "token": "tok"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "acme/agent-kit", got[0].Title)
	assert.Equal(t, "Agents toolkit [Go]", got[0].Summary)
	assert.Equal(t, 812, got[0].Engagement)
	assert.Equal(t, "42", got[0].ExternalID)
	assert.Equal(t, time.Date(2026, 5, 8, 10, 0, 0, 0, time.UTC), got[0].PublishedAt)
}

func TestGitHubScannerRateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"API rate limit exceeded"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewGitHubScanner(srv.Client()).Scan(context.Background(), scanner.Request{
		Targets: []scanner.Target{{Name: "llm", Query: "llm"}},
		Options: map[string]string{"base_url": srv.URL},
	})
	assert.ErrorContains(t, err, "403")
}
