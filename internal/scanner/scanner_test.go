package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/domain"
)

type namedScanner string

func (n namedScanner) Name() string { return string(n) }

func (n namedScanner) Scan(context.Context, Request) ([]domain.RawCandidate, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(namedScanner("rss"))
	reg.Register(namedScanner("reddit"))

	s, err := reg.Resolve("rss")
	require.NoError(t, err)
	assert.Equal(t, "rss", s.Name())

	_, err = reg.Resolve("missing")
	require.EqualError(t, err, "scanner missing is not registered")
	assert.Equal(t, []string{"reddit", "rss"}, reg.Names())
}

func TestRequestOptions(t *testing.T) {
	t.Parallel()

	req := Request{
		Tier: 3,
		Options: map[string]string{
			"limit":  " 25 ",
			"bad":    "x",
			"subs":   "LocalLLaMA, MachineLearning,,",
			"enable": "true",
		},
	}
	assert.Equal(t, 25, req.IntOption("limit", 10))
	assert.Equal(t, 10, req.IntOption("bad", 10))
	assert.Equal(t, 7, req.IntOption("absent", 7))
	assert.True(t, req.BoolOption("enable", false))
	assert.Equal(t, []string{"LocalLLaMA", "MachineLearning"}, req.ListOption("subs"))
	assert.Equal(t, 3, req.TierFor(Target{}))
	assert.Equal(t, 1, req.TierFor(Target{Tier: 1}))
}

func TestRequestFresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	req := Request{Since: now.Add(-72 * time.Hour)}
	assert.True(t, req.Fresh(now.Add(-time.Hour)))
	assert.True(t, req.Fresh(time.Time{}))
	assert.False(t, req.Fresh(now.Add(-73*time.Hour)))
}
