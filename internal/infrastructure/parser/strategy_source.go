package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"NewsCollector/internal/config"
	"NewsCollector/internal/domain"
	"NewsCollector/internal/ports"
	"NewsCollector/internal/scanner"
)

const defaultSiteTimeout = time.Minute

// StrategySource implements CandidateSource via registered scanner strategies.
type StrategySource struct {
	registry    *scanner.Registry
	sites       []config.SiteConfig
	timeout     time.Duration
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

var _ ports.CandidateSource = (*StrategySource)(nil)

// SourceOptions bounds how sites are scanned.
type SourceOptions struct {
	Timeout     time.Duration
	Concurrency int
}

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, opts SourceOptions, log *slog.Logger) *StrategySource {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultSiteTimeout
	}
	return &StrategySource{
		registry:    reg,
		sites:       sites,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
		now:         time.Now,
		logger:      log,
	}
}

// Collect runs every site concurrently, each under its own timeout. Batches come
// back in configured site order; a failed site carries its error and no candidates.
func (s *StrategySource) Collect(ctx context.Context, window time.Duration) []ports.SourceBatch {
	since := s.now().Add(-window)
	results := make([]ports.SourceBatch, len(s.sites))

	s.debug("collect", "sites", len(s.sites), "since", since.Format(time.RFC3339))

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, site := range s.sites {
		g.Go(func() error {
			results[i] = s.scanSite(gctx, site, since)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *StrategySource) scanSite(ctx context.Context, site config.SiteConfig, since time.Time) (batch ports.SourceBatch) {
	batch.Source = site.Name
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			batch = ports.SourceBatch{Source: site.Name, Err: &domain.SourceError{Source: site.Name, Err: fmt.Errorf("panic: %v", r)}}
		}
		if batch.Err != nil {
			s.warn("site failed", "site", site.Name, "scanner", site.Scanner, "error", batch.Err)
			return
		}
		s.debug("site produced candidates", "site", site.Name, "count", len(batch.Candidates), "took", time.Since(started))
	}()

	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		batch.Err = &domain.SourceError{Source: site.Name, Err: err}
		return batch
	}

	timeout := site.Timeout
	if timeout <= 0 {
		timeout = s.timeout
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := scanner.Request{
		Since:    since,
		SiteName: site.Name,
		Tier:     site.Tier,
		Category: domain.Category(site.Category),
		Targets:  toScannerTargets(site.Targets),
		Options:  site.Options,
	}

	results, err := strategy.Scan(scanCtx, req)
	if err != nil {
		batch.Err = &domain.SourceError{Source: site.Name, Err: err}
		return batch
	}

	for i := range results {
		if results[i].Source == "" {
			results[i].Source = site.Name
		}
		if results[i].Tier == 0 {
			results[i].Tier = site.Tier
		}
		if results[i].Category == "" {
			results[i].Category = req.Category
		}
	}
	batch.Candidates = results
	return batch
}

func toScannerTargets(cfg []config.TargetConfig) []scanner.Target {
	targets := make([]scanner.Target, 0, len(cfg))
	for _, t := range cfg {
		targets = append(targets, scanner.Target{
			Name:  t.Name,
			URL:   t.URL,
			Query: t.Query,
			Tier:  t.Tier,
		})
	}
	return targets
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
