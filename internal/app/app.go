package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"time"

	"NewsCollector/internal/config"
	"NewsCollector/internal/domain"
	"NewsCollector/internal/infrastructure/llm"
	"NewsCollector/internal/infrastructure/metrics"
	"NewsCollector/internal/infrastructure/ml"
	"NewsCollector/internal/infrastructure/parser"
	"NewsCollector/internal/infrastructure/scheduler"
	"NewsCollector/internal/infrastructure/sink"
	"NewsCollector/internal/infrastructure/storage"
	"NewsCollector/internal/infrastructure/telegram"
	"NewsCollector/internal/logging"
	"NewsCollector/internal/ports"
	"NewsCollector/internal/report"
	"NewsCollector/internal/scanner"
	"NewsCollector/internal/scoring"
	"NewsCollector/internal/usecase"
)

const redditPace = 2 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	printer  *report.Printer
	scorer   *scoring.Scorer
	metrics  *metrics.Recorder
	notifier ports.Notifier
	registry *scanner.Registry
	now      func() time.Time
}

// Options tune process-level behaviour of the application.
type Options struct {
	Out      io.Writer
	Colorize bool
}

// New validates the scoring model and builds the application.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	scorer, err := scoring.New(scoring.Settings{
		Horizon:     cfg.Scoring.Horizon,
		Floor:       cfg.Scoring.Floor,
		TierWeights: cfg.Scoring.TierWeights,
	})
	if err != nil {
		return nil, fmt.Errorf("scoring settings: %w", err)
	}

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram); tg.Enabled() {
		notifier = tg
	}

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		printer:  report.NewPrinter(opts.Out, opts.Colorize),
		scorer:   scorer,
		metrics:  metrics.NewRecorder(),
		notifier: notifier,
		registry: newRegistry(),
		now:      time.Now,
	}, nil
}

func newRegistry() *scanner.Registry {
	client := &http.Client{Timeout: 30 * time.Second}
	registry := scanner.NewRegistry()
	registry.Register(parser.NewRSSScanner(client))
	registry.Register(parser.NewTwitterScanner(client))
	registry.Register(parser.NewGitHubScanner(client))
	registry.Register(parser.NewTrendingScanner(client))
	registry.Register(parser.NewHackerNewsScanner(client))
	registry.Register(parser.NewRedditScanner(client, redditPace))
	return registry
}

// sites injects credentials into the scanner options so they never live in YAML.
func (a *Application) sites() []config.SiteConfig {
	sites := a.cfg.EnabledSites()
	for i, site := range sites {
		opts := maps.Clone(site.Options)
		if opts == nil {
			opts = map[string]string{}
		}
		switch site.Scanner {
		case "twitter":
			if _, ok := opts["api_key"]; !ok && a.cfg.Credentials.TwitterAPIKey != "" {
				opts["api_key"] = a.cfg.Credentials.TwitterAPIKey
			}
		case "github":
			if _, ok := opts["token"]; !ok && a.cfg.Credentials.GitHubToken != "" {
				opts["token"] = a.cfg.Credentials.GitHubToken
			}
		}
		sites[i].Options = opts
	}
	return sites
}

func (a *Application) openStore(ctx context.Context) (*storage.Repository, error) {
	store, err := storage.Open(ctx, storage.Dialect(a.cfg.Database.Driver), a.cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// withStore opens the store for one run and releases it on every path.
func (a *Application) withStore(ctx context.Context, fn func(*storage.Repository) error) (err error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
		}
	}()
	return fn(store)
}

func (a *Application) ingestPipeline(store ports.ItemStore) *usecase.IngestPipeline {
	source := parser.NewStrategySource(a.registry, a.sites(), parser.SourceOptions{
		Timeout:     a.cfg.Ingestion.AdapterTimeout,
		Concurrency: a.cfg.Ingestion.Concurrency,
	}, a.logger.With("component", "source"))

	return usecase.NewIngestPipeline(usecase.IngestDeps{
		Source:   source,
		Store:    store,
		Scorer:   a.scorer,
		Metrics:  a.metrics,
		Notifier: a.notifier,
		Logger:   a.logger.With("component", "ingest"),
		Window:   a.cfg.Ingestion.Window,
		Now:      a.now,
	})
}

func (a *Application) classificationStage(store ports.ItemStore, out ports.ResultSink) (*usecase.ClassificationStage, error) {
	classifier, err := a.classifier()
	if err != nil {
		return nil, err
	}
	c := a.cfg.Classification
	return usecase.NewClassificationStage(usecase.ClassificationDeps{
		Store:       store,
		Classifier:  classifier,
		Scorer:      a.scorer,
		Sink:        out,
		Metrics:     a.metrics,
		Notifier:    a.notifier,
		Logger:      a.logger.With("component", "classify"),
		Window:      c.Window,
		BatchSize:   c.BatchSize,
		MaxItems:    c.MaxItems,
		MinInterval: c.MinInterval,
		Now:         a.now,
	}), nil
}

func (a *Application) classifier() (ports.Classifier, error) {
	switch a.cfg.Classification.Provider {
	case "chat":
		return llm.NewChatClassifier(a.cfg.ChatGPT), nil
	case "command":
		return llm.NewCommandClassifier(a.cfg.Command, a.cfg.ChatGPT.SystemPrompt), nil
	case "inference":
		return ml.NewClient(a.cfg.ML), nil
	case "rules", "":
		return llm.RuleClassifier{}, nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", a.cfg.Classification.Provider)
	}
}

func (a *Application) sinks() *sink.Multi {
	out := &sink.Multi{}
	if a.cfg.Output.Dir != "" {
		out.Add("file", sink.NewJSONFileSink(a.cfg.Output.Dir))
	}
	if k := a.cfg.Output.Kafka; len(k.Brokers) > 0 && k.Topic != "" {
		out.Add("kafka", sink.NewKafkaSink(k.Brokers, k.Topic, a.logger.With("component", "sink")))
	}
	return out
}

func (a *Application) pushMetrics(ctx context.Context) {
	if a.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := a.metrics.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job); err != nil {
		a.logger.Warn("push metrics", "error", err)
	}
}

func (a *Application) ingest(ctx context.Context, store ports.ItemStore) error {
	summary, err := a.ingestPipeline(store).Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return a.printer.Ingest(summary)
}

func (a *Application) classify(ctx context.Context, store ports.ItemStore) (err error) {
	out := a.sinks()
	defer func() {
		if cerr := out.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	stage, err := a.classificationStage(store, out)
	if err != nil {
		return err
	}
	summary, runErr := stage.Run(ctx)
	if perr := a.printer.Classification(summary); perr != nil {
		return errors.Join(runErr, perr)
	}
	if runErr != nil {
		return fmt.Errorf("classify: %w", runErr)
	}
	return nil
}

// Ingest runs one ingestion cycle.
func (a *Application) Ingest(ctx context.Context) error {
	defer a.pushMetrics(ctx)
	return a.withStore(ctx, func(store *storage.Repository) error {
		return a.ingest(ctx, store)
	})
}

// Classify runs one classification cycle and prints the top verdicts.
func (a *Application) Classify(ctx context.Context, top int) error {
	defer a.pushMetrics(ctx)
	return a.withStore(ctx, func(store *storage.Repository) error {
		if err := a.classify(ctx, store); err != nil {
			return err
		}
		return a.printTop(ctx, store, top)
	})
}

// Run ingests then classifies over a single store handle.
func (a *Application) Run(ctx context.Context) error {
	defer a.pushMetrics(ctx)
	return a.withStore(ctx, func(store *storage.Repository) error {
		if err := a.ingest(ctx, store); err != nil {
			return err
		}
		return a.classify(ctx, store)
	})
}

func (a *Application) printTop(ctx context.Context, store ports.ItemStore, top int) error {
	if top <= 0 {
		return nil
	}
	items, err := store.GetClassified(ctx, a.cfg.Classification.Window)
	if err != nil {
		return fmt.Errorf("load classified: %w", err)
	}
	return a.printer.Items(items, top)
}

// Schedule runs a full cycle now and then every configured interval until ctx ends.
func (a *Application) Schedule(ctx context.Context) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, func(ctx context.Context, _ time.Time) error {
		return a.Run(ctx)
	}, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval.String())
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// AddContent records a generated artifact linked to its source items.
func (a *Application) AddContent(ctx context.Context, content domain.Content, newsIDs []string) error {
	return a.withStore(ctx, func(store *storage.Repository) error {
		recorded, err := usecase.NewContentRecorder(store).Record(ctx, content, newsIDs)
		if err != nil {
			return err
		}
		a.printer.Content(recorded, len(newsIDs))
		return nil
	})
}
