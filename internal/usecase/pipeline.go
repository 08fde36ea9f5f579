package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"NewsCollector/internal/dedup"
	"NewsCollector/internal/domain"
	"NewsCollector/internal/normalize"
	"NewsCollector/internal/ports"
	"NewsCollector/internal/scoring"
)

// IngestDeps wires all driven adapters into the ingestion pipeline.
type IngestDeps struct {
	Source     ports.CandidateSource
	Store      ports.ItemStore
	Normalizer *normalize.Normalizer
	Scorer     *scoring.Scorer
	Metrics    ports.MetricsRecorder
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Window     time.Duration
	Now        func() time.Time
}

// IngestPipeline implements collect, normalize, dedup, score and persist.
type IngestPipeline struct {
	source     ports.CandidateSource
	store      ports.ItemStore
	normalizer *normalize.Normalizer
	scorer     *scoring.Scorer
	metrics    ports.MetricsRecorder
	notifier   ports.Notifier
	logger     *slog.Logger
	window     time.Duration
	now        func() time.Time
}

// NewIngestPipeline constructs the orchestration component.
func NewIngestPipeline(deps IngestDeps) *IngestPipeline {
	if deps.Normalizer == nil {
		deps.Normalizer = normalize.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &IngestPipeline{
		source:     deps.Source,
		store:      deps.Store,
		normalizer: deps.Normalizer,
		scorer:     deps.Scorer,
		metrics:    deps.Metrics,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		window:     deps.Window,
		now:        deps.Now,
	}
}

// Run executes one ingestion cycle. Source and record failures only degrade the
// summary; a store failure aborts the run with nothing committed.
func (p *IngestPipeline) Run(ctx context.Context) (domain.RunSummary, error) {
	if p.source == nil || p.store == nil || p.scorer == nil {
		return domain.RunSummary{}, errors.New("ingest pipeline is not fully wired")
	}

	now := p.now().UTC()
	summary := domain.RunSummary{StartedAt: now}

	batches := p.source.Collect(ctx, p.window)
	var items []domain.NewsItem
	for _, batch := range batches {
		report := domain.SourceReport{Name: batch.Source, Fetched: len(batch.Candidates), Err: batch.Err}
		if batch.Err != nil {
			summary.SourceFailure++
			p.logger.Warn("source unavailable", "source", batch.Source, "error", batch.Err)
		}

		for _, candidate := range batch.Candidates {
			item, err := p.normalizer.Normalize(candidate)
			if err != nil {
				report.Malformed++
				p.logger.Debug("skip candidate", "source", batch.Source, "error", err)
				continue
			}
			items = append(items, item)
		}

		summary.Fetched += report.Fetched
		summary.Malformed += report.Malformed
		summary.Sources = append(summary.Sources, report)
	}

	known, err := p.store.GetRecentIdentities(ctx, p.window)
	if err != nil {
		return summary, fmt.Errorf("load recent identities: %w", err)
	}

	result := dedup.Filter(items, known)
	summary.Merged = result.Merged
	summary.Known = result.Known

	for i := range result.Kept {
		result.Kept[i].DetectedAt = now
	}
	p.scorer.Apply(result.Kept, now)

	if len(result.Kept) > 0 {
		upserted, err := p.store.UpsertItems(ctx, result.Kept)
		if err != nil {
			return summary, fmt.Errorf("upsert items: %w", err)
		}
		summary.Inserted = upserted.Inserted
		summary.Refreshed = upserted.Refreshed
	}

	summary.FinishedAt = p.now().UTC()
	p.logger.Info("ingest finished",
		"fetched", summary.Fetched,
		"malformed", summary.Malformed,
		"duplicates", summary.Duplicates(),
		"inserted", summary.Inserted,
		"refreshed", summary.Refreshed,
		"failed_sources", summary.SourceFailure,
	)

	if p.metrics != nil {
		p.metrics.ObserveIngest(summary)
	}
	notify(ctx, p.notifier, p.logger, IngestMessage(summary))

	return summary, nil
}

func notify(ctx context.Context, n ports.Notifier, log *slog.Logger, message string) {
	if n == nil || message == "" {
		return
	}
	if err := n.PublishSummary(ctx, message); err != nil {
		log.Warn("publish summary", "error", err)
	}
}
