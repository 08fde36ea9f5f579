package usecase

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/infrastructure/storage"
	"NewsCollector/internal/logging"
	"NewsCollector/internal/ports"
	"NewsCollector/internal/scoring"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func newStore(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.Open(context.Background(), storage.DialectSQLite, filepath.Join(t.TempDir(), "news.db"))
	require.NoError(t, err)
	repo.SetClock(clock)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newScorer(t *testing.T) *scoring.Scorer {
	t.Helper()
	s, err := scoring.New(scoring.Settings{})
	require.NoError(t, err)
	return s
}

type fakeSource struct {
	batches []ports.SourceBatch
}

func (f *fakeSource) Collect(context.Context, time.Duration) []ports.SourceBatch {
	out := make([]ports.SourceBatch, len(f.batches))
	for i, b := range f.batches {
		out[i] = ports.SourceBatch{
			Source:     b.Source,
			Candidates: append([]domain.RawCandidate(nil), b.Candidates...),
			Err:        b.Err,
		}
	}
	return out
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, batch []domain.ClassificationInput) ([]domain.Verdict, error) {
	args := m.Called(ctx, batch)
	verdicts, _ := args.Get(0).([]domain.Verdict)
	return verdicts, args.Error(1)
}

func batchOf(n int) interface{} {
	return mock.MatchedBy(func(batch []domain.ClassificationInput) bool { return len(batch) == n })
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) PublishSummary(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

type recordingMetrics struct {
	ingest   []domain.RunSummary
	classify []domain.ClassificationSummary
}

func (r *recordingMetrics) ObserveIngest(s domain.RunSummary) { r.ingest = append(r.ingest, s) }

func (r *recordingMetrics) ObserveClassification(s domain.ClassificationSummary) {
	r.classify = append(r.classify, s)
}

type recordingSink struct {
	digests []ports.Digest
	err     error
}

func (r *recordingSink) Write(_ context.Context, d ports.Digest) error {
	r.digests = append(r.digests, d)
	return r.err
}

func quietLogger() *slog.Logger { return logging.Discard() }
