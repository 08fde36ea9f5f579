package ports

import (
	"context"
	"time"

	"NewsCollector/internal/domain"
)

// CandidateSource pulls raw candidates from every configured site.
type CandidateSource interface {
	Collect(ctx context.Context, window time.Duration) []SourceBatch
}

// SourceBatch is one site's contribution to a run, or the reason it has none.
type SourceBatch struct {
	Source     string
	Candidates []domain.RawCandidate
	Err        error
}

// UpsertResult reports how an upsert resolved.
type UpsertResult struct {
	Inserted  int
	Refreshed int
}

// ItemStore persists news items and their classification.
type ItemStore interface {
	UpsertItems(ctx context.Context, items []domain.NewsItem) (UpsertResult, error)
	GetRecentIdentities(ctx context.Context, window time.Duration) (domain.IdentitySet, error)
	GetRecentItemsFull(ctx context.Context, window time.Duration) ([]domain.NewsItem, error)
	GetUnclassified(ctx context.Context, window time.Duration) ([]domain.NewsItem, error)
	GetClassified(ctx context.Context, window time.Duration) ([]domain.ClassifiedItem, error)
	SaveClassifications(ctx context.Context, verdicts []domain.Verdict, failedIDs []string) error
}

// ContentStore writes generated content together with its source links.
type ContentStore interface {
	InsertContent(ctx context.Context, content domain.Content, sourceIDs []string) error
	LinkContentSources(ctx context.Context, contentID string, sourceIDs []string) error
}

// Classifier is the external categorization capability.
type Classifier interface {
	Classify(ctx context.Context, batch []domain.ClassificationInput) ([]domain.Verdict, error)
}

// ResultSink receives the enriched window for content-generation consumers.
type ResultSink interface {
	Write(ctx context.Context, digest Digest) error
}

// Digest is the enriched window written after classification.
type Digest struct {
	GeneratedAt time.Time
	RawCount    int
	Items       []domain.ClassifiedItem
}

// Notifier streams run summaries to Telegram or other channels.
type Notifier interface {
	PublishSummary(ctx context.Context, message string) error
}

// MetricsRecorder observes run outcomes.
type MetricsRecorder interface {
	ObserveIngest(summary domain.RunSummary)
	ObserveClassification(summary domain.ClassificationSummary)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
