package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/ports"
	"NewsCollector/internal/scoring"
)

const defaultBatchSize = 20

// ClassificationDeps wires the verdict stage.
type ClassificationDeps struct {
	Store      ports.ItemStore
	Classifier ports.Classifier
	Scorer     *scoring.Scorer
	Sink       ports.ResultSink
	Metrics    ports.MetricsRecorder
	Notifier   ports.Notifier
	Logger     *slog.Logger

	Window      time.Duration
	BatchSize   int
	MaxItems    int
	MinInterval time.Duration
	Now         func() time.Time
}

// ClassificationStage enriches unclassified items through the external classifier.
type ClassificationStage struct {
	store      ports.ItemStore
	classifier ports.Classifier
	scorer     *scoring.Scorer
	sink       ports.ResultSink
	metrics    ports.MetricsRecorder
	notifier   ports.Notifier
	logger     *slog.Logger
	limiter    *rate.Limiter
	window     time.Duration
	batchSize  int
	maxItems   int
	now        func() time.Time
}

// NewClassificationStage constructs the stage. Calls are spaced by MinInterval.
func NewClassificationStage(deps ClassificationDeps) *ClassificationStage {
	if deps.BatchSize <= 0 {
		deps.BatchSize = defaultBatchSize
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	limit := rate.Inf
	if deps.MinInterval > 0 {
		limit = rate.Every(deps.MinInterval)
	}
	return &ClassificationStage{
		store:      deps.Store,
		classifier: deps.Classifier,
		scorer:     deps.Scorer,
		sink:       deps.Sink,
		metrics:    deps.Metrics,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		limiter:    rate.NewLimiter(limit, 1),
		window:     deps.Window,
		batchSize:  deps.BatchSize,
		maxItems:   deps.MaxItems,
		now:        deps.Now,
	}
}

// Run classifies the window's unclassified items batch by batch, persisting each
// batch before the next call, then writes the classified window to the sink.
func (s *ClassificationStage) Run(ctx context.Context) (domain.ClassificationSummary, error) {
	if s.store == nil || s.classifier == nil || s.scorer == nil {
		return domain.ClassificationSummary{}, errors.New("classification stage is not fully wired")
	}

	now := s.now().UTC()
	summary := domain.ClassificationSummary{StartedAt: now}

	items, err := s.store.GetUnclassified(ctx, s.window)
	if err != nil {
		return summary, fmt.Errorf("load unclassified: %w", err)
	}
	s.scorer.Rank(items, now)
	if s.maxItems > 0 && len(items) > s.maxItems {
		items = items[:s.maxItems]
	}
	summary.Considered = len(items)

	for start := 0; start < len(items); start += s.batchSize {
		batch := items[start:min(start+s.batchSize, len(items))]
		if err := s.limiter.Wait(ctx); err != nil {
			summary.Unclassified += len(items) - start
			return summary, fmt.Errorf("wait for classifier: %w", err)
		}
		summary.Batches++

		if err := s.classifyBatch(ctx, batch, &summary); err != nil {
			return summary, err
		}
	}

	written, err := s.writeResults(ctx, now)
	summary.Written = written
	summary.FinishedAt = s.now().UTC()

	s.logger.Info("classification finished",
		"considered", summary.Considered,
		"batches", summary.Batches,
		"classified", summary.Classified,
		"failed", summary.Failed,
		"unclassified", summary.Unclassified,
		"written", summary.Written,
	)
	if s.metrics != nil {
		s.metrics.ObserveClassification(summary)
	}
	notify(ctx, s.notifier, s.logger, ClassificationMessage(summary))

	return summary, err
}

func (s *ClassificationStage) classifyBatch(ctx context.Context, batch []domain.NewsItem, summary *domain.ClassificationSummary) error {
	inputs := make([]domain.ClassificationInput, len(batch))
	for i, item := range batch {
		inputs[i] = domain.InputFromItem(item)
	}

	verdicts, err := s.classifier.Classify(ctx, inputs)
	switch {
	case errors.Is(err, domain.ErrClassificationParse):
		s.logger.Warn("unparsable classifier response", "items", len(batch), "error", err)
		failed := make([]string, len(batch))
		for i, item := range batch {
			failed[i] = item.ID
		}
		if err := s.store.SaveClassifications(ctx, nil, failed); err != nil {
			return fmt.Errorf("save classifications: %w", err)
		}
		summary.Failed += len(failed)
		return nil
	case err != nil:
		s.logger.Warn("classifier call failed", "items", len(batch), "error", err)
		summary.CallFailures++
		summary.Unclassified += len(batch)
		return nil
	}

	accepted, failed := matchVerdicts(batch, verdicts, s.logger)
	if err := s.store.SaveClassifications(ctx, accepted, failed); err != nil {
		return fmt.Errorf("save classifications: %w", err)
	}
	summary.Classified += len(accepted)
	summary.Failed += len(failed)
	return nil
}

// matchVerdicts pairs verdicts with batch items by id. The first valid verdict per
// item wins; items left without one are reported as failed, in batch order.
func matchVerdicts(batch []domain.NewsItem, verdicts []domain.Verdict, log *slog.Logger) ([]domain.Verdict, []string) {
	inBatch := make(map[string]struct{}, len(batch))
	for _, item := range batch {
		inBatch[item.ID] = struct{}{}
	}

	byID := make(map[string]domain.Verdict, len(verdicts))
	for _, v := range verdicts {
		if _, ok := inBatch[v.ID]; !ok {
			log.Debug("ignore verdict for unknown id", "id", v.ID)
			continue
		}
		if _, seen := byID[v.ID]; seen {
			continue
		}
		if err := v.Validate(); err != nil {
			log.Debug("invalid verdict", "error", err)
			continue
		}
		byID[v.ID] = v
	}

	accepted := make([]domain.Verdict, 0, len(byID))
	var failed []string
	for _, item := range batch {
		if v, ok := byID[item.ID]; ok {
			accepted = append(accepted, v)
		} else {
			failed = append(failed, item.ID)
		}
	}
	return accepted, failed
}

func (s *ClassificationStage) writeResults(ctx context.Context, now time.Time) (int, error) {
	if s.sink == nil {
		return 0, nil
	}
	classified, err := s.store.GetClassified(ctx, s.window)
	if err != nil {
		return 0, fmt.Errorf("load classified: %w", err)
	}
	recent, err := s.store.GetRecentItemsFull(ctx, s.window)
	if err != nil {
		return 0, fmt.Errorf("load recent items: %w", err)
	}

	digest := ports.Digest{GeneratedAt: now, RawCount: len(recent), Items: classified}
	if err := s.sink.Write(ctx, digest); err != nil {
		return 0, fmt.Errorf("write results: %w", err)
	}
	return len(classified), nil
}
