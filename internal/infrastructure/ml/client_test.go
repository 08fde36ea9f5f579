package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/config"
	"NewsCollector/internal/domain"
)

func TestClientClassify(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var req struct {
			Items []domain.ClassificationInput `json:"items"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Items, 1)

		_, _ = w.Write([]byte(`{"verdicts":[{"id":"a","agentCategory":"BUILD","agentScore":55,"whyItMatters":"demo","action":"look"}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.MLConfig{InferenceURL: srv.URL + "/", APIKey: "k"})
	verdicts, err := c.Classify(context.Background(), []domain.ClassificationInput{{ID: "a", Title: "t"}})
	require.NoError(t, err)
	require.Equal(t, []domain.Verdict{{
		ID:            "a",
		AgentCategory: domain.AgentBuild,
		AgentScore:    55,
		WhyItMatters:  "demo",
		Action:        "look",
	}}, verdicts)
}

func TestClientClassifyErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"verdicts": "nope"`))
	}))
	defer srv.Close()

	batch := []domain.ClassificationInput{{ID: "a"}}

	_, err := NewClient(config.MLConfig{InferenceURL: srv.URL}).Classify(context.Background(), batch)
	assert.ErrorIs(t, err, domain.ErrClassificationCall)

	_, err = NewClient(config.MLConfig{InferenceURL: srv.URL, APIKey: "k"}).Classify(context.Background(), batch)
	assert.ErrorIs(t, err, domain.ErrClassificationParse)

	_, err = NewClient(config.MLConfig{}).Classify(context.Background(), batch)
	assert.ErrorIs(t, err, domain.ErrClassificationCall)
}

func TestClientClassifySkipsUnreadableVerdict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"verdicts":[
			{"id":"a","agentCategory":"BUILD","agentScore":55,"whyItMatters":"demo","action":"look"},
			{"id":"b","agentCategory":"WATCH","agentScore":"high"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(config.MLConfig{InferenceURL: srv.URL})
	verdicts, err := c.Classify(context.Background(), []domain.ClassificationInput{{ID: "a"}, {ID: "b"}})
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, "a", verdicts[0].ID)
	assert.Equal(t, 55, verdicts[0].AgentScore)
}
