package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/infrastructure/storage"
	"NewsCollector/internal/logging"
)

func storedItem(id string, tier int) domain.NewsItem {
	return domain.NewsItem{
		ID:          id,
		Title:       "Story " + id,
		Summary:     "summary " + id,
		URL:         "https://example.com/" + id,
		Source:      "rss",
		SourceTier:  tier,
		Category:    domain.CategoryModelRelease,
		Engagement:  100,
		PublishedAt: testNow.Add(-3 * time.Hour),
		DetectedAt:  testNow.Add(-time.Hour),
	}
}

func seed(t *testing.T, store *storage.Repository, items ...domain.NewsItem) {
	t.Helper()
	_, err := store.UpsertItems(context.Background(), items)
	require.NoError(t, err)
}

func verdict(id string) domain.Verdict {
	return domain.Verdict{ID: id, AgentCategory: domain.AgentLaunch, AgentScore: 80, WhyItMatters: "matters " + id}
}

type stageFixture struct {
	store      *storage.Repository
	classifier *mockClassifier
	sink       *recordingSink
	metrics    *recordingMetrics
}

func newStage(t *testing.T, batchSize, maxItems int) (*ClassificationStage, stageFixture) {
	t.Helper()
	f := stageFixture{
		store:      newStore(t),
		classifier: &mockClassifier{},
		sink:       &recordingSink{},
		metrics:    &recordingMetrics{},
	}
	stage := NewClassificationStage(ClassificationDeps{
		Store:      f.store,
		Classifier: f.classifier,
		Scorer:     newScorer(t),
		Sink:       f.sink,
		Metrics:    f.metrics,
		Logger:     quietLogger(),
		Window:     72 * time.Hour,
		BatchSize:  batchSize,
		MaxItems:   maxItems,
		Now:        clock,
	})
	return stage, f
}

func TestClassificationMissingVerdictMarksOnlyThatItem(t *testing.T) {
	t.Parallel()

	stage, f := newStage(t, 20, 0)
	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		seed(t, f.store, storedItem(id, 1))
	}

	f.classifier.On("Classify", mock.Anything, batchOf(5)).Return([]domain.Verdict{
		verdict("a"), verdict("b"), verdict("d"), verdict("e"),
		verdict("not-in-batch"),
	}, nil).Once()

	summary, err := stage.Run(context.Background())
	require.NoError(t, err)
	f.classifier.AssertExpectations(t)

	assert.Equal(t, 5, summary.Considered)
	assert.Equal(t, 1, summary.Batches)
	assert.Equal(t, 4, summary.Classified)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 4, summary.Written)

	pending, err := f.store.GetUnclassified(context.Background(), 72*time.Hour)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c", pending[0].ID)

	require.Len(t, f.sink.digests, 1)
	assert.Equal(t, 5, f.sink.digests[0].RawCount)
	assert.Len(t, f.sink.digests[0].Items, 4)
	require.Len(t, f.metrics.classify, 1)
}

func TestClassificationFailedItemsAreRetried(t *testing.T) {
	t.Parallel()

	stage, f := newStage(t, 20, 0)
	seed(t, f.store, storedItem("a", 1), storedItem("b", 2))

	f.classifier.On("Classify", mock.Anything, batchOf(2)).
		Return(nil, fmt.Errorf("%w: no json array", domain.ErrClassificationParse)).Once()
	f.classifier.On("Classify", mock.Anything, batchOf(2)).
		Return([]domain.Verdict{verdict("a"), verdict("b")}, nil).Once()

	summary, err := stage.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failed)
	assert.Zero(t, summary.Classified)

	summary, err = stage.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Classified)
	f.classifier.AssertExpectations(t)

	classified, err := f.store.GetClassified(context.Background(), 72*time.Hour)
	require.NoError(t, err)
	require.Len(t, classified, 2)
	for _, item := range classified {
		assert.Equal(t, domain.StateClassified, item.State)
		assert.Equal(t, 2, item.Attempts)
	}
}

func TestClassificationCallFailureLeavesItemsUnclassified(t *testing.T) {
	t.Parallel()

	stage, f := newStage(t, 2, 0)
	seed(t, f.store, storedItem("a", 1), storedItem("b", 1), storedItem("c", 1))

	f.classifier.On("Classify", mock.Anything, batchOf(2)).
		Return(nil, fmt.Errorf("%w: connection refused", domain.ErrClassificationCall)).Once()
	f.classifier.On("Classify", mock.Anything, batchOf(1)).
		Return(nil, fmt.Errorf("%w: connection refused", domain.ErrClassificationCall)).Once()

	summary, err := stage.Run(context.Background())
	require.NoError(t, err)
	f.classifier.AssertExpectations(t)
	assert.Equal(t, 2, summary.Batches)
	assert.Equal(t, 2, summary.CallFailures)
	assert.Equal(t, 3, summary.Unclassified)
	assert.Zero(t, summary.Failed)

	classified, err := f.store.GetClassified(context.Background(), 72*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, classified)
}

func TestClassificationRanksCapsAndBatches(t *testing.T) {
	t.Parallel()

	stage, f := newStage(t, 2, 3)
	seed(t, f.store,
		storedItem("low", 5),
		storedItem("top", 1),
		storedItem("mid", 3),
		storedItem("second", 2),
		storedItem("fourth", 4),
	)

	var seen [][]string
	record := func(args mock.Arguments) {
		batch := args.Get(1).([]domain.ClassificationInput)
		ids := make([]string, len(batch))
		for i, in := range batch {
			ids[i] = in.ID
		}
		seen = append(seen, ids)
	}
	f.classifier.On("Classify", mock.Anything, batchOf(2)).Run(record).
		Return([]domain.Verdict{verdict("top"), verdict("second")}, nil).Once()
	f.classifier.On("Classify", mock.Anything, batchOf(1)).Run(record).
		Return([]domain.Verdict{verdict("mid")}, nil).Once()

	summary, err := stage.Run(context.Background())
	require.NoError(t, err)
	f.classifier.AssertExpectations(t)

	assert.Equal(t, [][]string{{"top", "second"}, {"mid"}}, seen)
	assert.Equal(t, 3, summary.Considered)
	assert.Equal(t, 3, summary.Classified)
}

func TestClassificationSinkFailureIsReported(t *testing.T) {
	t.Parallel()

	stage, f := newStage(t, 20, 0)
	f.sink.err = errors.New("disk full")
	seed(t, f.store, storedItem("a", 1))
	f.classifier.On("Classify", mock.Anything, batchOf(1)).Return([]domain.Verdict{verdict("a")}, nil).Once()

	summary, err := stage.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write results")
	assert.Equal(t, 1, summary.Classified)
	require.Len(t, f.metrics.classify, 1)
}

func TestMatchVerdicts(t *testing.T) {
	t.Parallel()

	batch := []domain.NewsItem{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	invalid := verdict("b")
	invalid.AgentScore = 0
	unknownCategory := verdict("c")
	unknownCategory.AgentCategory = "MEME"
	dup := verdict("a")
	dup.AgentScore = 10

	accepted, failed := matchVerdicts(batch, []domain.Verdict{
		verdict("a"), dup, invalid, unknownCategory, verdict("zzz"), verdict("d"),
	}, logging.Discard())

	require.Len(t, accepted, 2)
	assert.Equal(t, "a", accepted[0].ID)
	assert.Equal(t, 80, accepted[0].AgentScore)
	assert.Equal(t, "d", accepted[1].ID)
	assert.Equal(t, []string{"b", "c"}, failed)
}
