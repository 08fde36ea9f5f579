package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/domain"
)

func TestRecorderObserveIngest(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	r := NewRecorder()
	r.ObserveIngest(domain.RunSummary{
		StartedAt:  started,
		FinishedAt: started.Add(30 * time.Second),
		Sources: []domain.SourceReport{
			{Name: "rss", Fetched: 4},
			{Name: "reddit", Err: errors.New("down")},
		},
		Fetched:   4,
		Malformed: 1,
		Merged:    1,
		Inserted:  2,
	})

	assert.Equal(t, 4.0, testutil.ToFloat64(r.itemsTotal.WithLabelValues("fetched")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.itemsTotal.WithLabelValues("inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sourceUp.WithLabelValues("rss")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.sourceUp.WithLabelValues("reddit")))
	assert.Equal(t, float64(started.Add(30*time.Second).Unix()), testutil.ToFloat64(r.lastSuccess.WithLabelValues("ingest")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.runDuration))
}

func TestRecorderObserveClassification(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveClassification(domain.ClassificationSummary{
		Batches:      2,
		Classified:   9,
		Failed:       1,
		CallFailures: 1,
	})

	assert.Equal(t, 9.0, testutil.ToFloat64(r.verdictsTotal.WithLabelValues("classified")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.classifyBatches))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.callFailures))
	// zero timestamps are not observed
	assert.Equal(t, 0, testutil.CollectAndCount(r.runDuration))

	expected := `
# HELP newscollector_classification_batches_total Batches sent to the classifier
# TYPE newscollector_classification_batches_total counter
newscollector_classification_batches_total 2
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "newscollector_classification_batches_total"))
}

func TestRecorderPush(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/metrics/job/newscollector", r.URL.Path)
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder()
	r.ObserveClassification(domain.ClassificationSummary{Batches: 1})

	require.NoError(t, r.Push(context.Background(), srv.URL, "newscollector"))
	assert.Equal(t, int32(1), hits.Load())

	require.NoError(t, r.Push(context.Background(), "", "newscollector"))
	assert.Equal(t, int32(1), hits.Load())
}
