package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "NEWSCOLLECTOR_CONFIG"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging        LoggingConfig        `yaml:"logging"`
	Database       DatabaseConfig       `yaml:"database"`
	Ingestion      IngestionConfig      `yaml:"ingestion"`
	Scoring        ScoringConfig        `yaml:"scoring"`
	Classification ClassificationConfig `yaml:"classification"`
	ChatGPT        ChatGPTConfig        `yaml:"chatgpt"`
	Command        CommandConfig        `yaml:"command"`
	ML             MLConfig             `yaml:"ml"`
	Output         OutputConfig         `yaml:"output"`
	Metrics        MetricsConfig        `yaml:"metrics"`
	Notifications  NotificationConfig   `yaml:"notifications"`
	Scheduler      SchedulerConfig      `yaml:"scheduler"`
	Credentials    CredentialsConfig    `yaml:"credentials"`
	Sites          []SiteConfig         `yaml:"sites"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// DatabaseConfig describes the store connection.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"`
	DSN    string `yaml:"dsn" env:"DATABASE_DSN"`
}

// IngestionConfig controls the collection cycle.
type IngestionConfig struct {
	Window         time.Duration `yaml:"window" env:"INGEST_WINDOW"`
	AdapterTimeout time.Duration `yaml:"adapterTimeout"`
	Concurrency    int           `yaml:"concurrency"`
}

// ScoringConfig tunes the recency and tier model.
type ScoringConfig struct {
	Horizon     time.Duration `yaml:"horizon"`
	Floor       float64       `yaml:"floor"`
	TierWeights []float64     `yaml:"tierWeights"`
}

// ClassificationConfig controls the verdict stage.
type ClassificationConfig struct {
	Provider    string        `yaml:"provider" env:"CLASSIFIER_PROVIDER"`
	Window      time.Duration `yaml:"window" env:"CLASSIFY_WINDOW"`
	BatchSize   int           `yaml:"batchSize"`
	MaxItems    int           `yaml:"maxItems"`
	MinInterval time.Duration `yaml:"minInterval"`
}

// ChatGPTConfig defines how to contact an OpenAI-compatible chat API.
type ChatGPTConfig struct {
	Endpoint     string        `yaml:"endpoint" env:"CHATGPT_ENDPOINT"`
	Model        string        `yaml:"model" env:"CHATGPT_MODEL"`
	APIKey       string        `yaml:"apiKey" env:"CHATGPT_API_KEY"`
	SystemPrompt string        `yaml:"systemPrompt"`
	Timeout      time.Duration `yaml:"timeout"`
}

// CommandConfig runs a local CLI that reads the prompt on stdin.
type CommandConfig struct {
	Path    string        `yaml:"path" env:"CLASSIFIER_COMMAND"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
}

// MLConfig describes the structured inference service.
type MLConfig struct {
	InferenceURL string        `yaml:"inferenceUrl" env:"ML_INFERENCE_URL"`
	APIKey       string        `yaml:"apiKey" env:"ML_API_KEY"`
	Timeout      time.Duration `yaml:"timeout"`
}

// OutputConfig lists result sinks.
type OutputConfig struct {
	Dir   string      `yaml:"dir" env:"OUTPUT_DIR"`
	Kafka KafkaConfig `yaml:"kafka"`
}

// KafkaConfig enables the broker sink when brokers are set.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC"`
}

// MetricsConfig points at a Pushgateway; empty disables pushing.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayUrl" env:"PUSHGATEWAY_URL"`
	Job            string `yaml:"job"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `yaml:"chatId" env:"TELEGRAM_CHAT_ID"`
	APIBase  string `yaml:"apiBase"`
}

// SchedulerConfig defines how often the schedule command runs a cycle.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval" env:"SCHEDULE_INTERVAL"`
	Timezone string        `yaml:"timezone"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	tz := s.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CredentialsConfig carries adapter secrets that must not live in YAML.
type CredentialsConfig struct {
	TwitterAPIKey string `yaml:"twitterApiKey" env:"TWITTER_API_KEY"`
	GitHubToken   string `yaml:"githubToken" env:"GITHUB_TOKEN"`
}

// SiteConfig describes a single source with its scanner strategy.
type SiteConfig struct {
	Name     string            `yaml:"name"`
	Scanner  string            `yaml:"scanner"`
	Tier     int               `yaml:"tier"`
	Category string            `yaml:"category"`
	Timeout  time.Duration     `yaml:"timeout"`
	Disabled bool              `yaml:"disabled"`
	Targets  []TargetConfig    `yaml:"targets"`
	Options  map[string]string `yaml:"options"`
}

// TargetConfig holds a concrete endpoint (feed URL, handle, subreddit, query).
type TargetConfig struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Query string `yaml:"query"`
	Tier  int    `yaml:"tier"`
}

// Load reads defaults, then the YAML file (if any), then environment overrides.
// An empty path falls back to NEWSCOLLECTOR_CONFIG.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if c.Ingestion.Window <= 0 {
		errs = append(errs, errors.New("ingestion.window must be positive"))
	}
	if c.Classification.Window <= 0 {
		errs = append(errs, errors.New("classification.window must be positive"))
	}
	if c.Classification.BatchSize <= 0 {
		errs = append(errs, errors.New("classification.batchSize must be positive"))
	}
	switch c.Classification.Provider {
	case "chat", "command", "inference", "rules":
	default:
		errs = append(errs, fmt.Errorf("classification.provider %q is unknown", c.Classification.Provider))
	}
	if c.Scheduler.Timezone != "" {
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("scheduler.timezone: %w", err))
		}
	}

	seen := map[string]struct{}{}
	for i, site := range c.Sites {
		if strings.TrimSpace(site.Name) == "" {
			errs = append(errs, fmt.Errorf("sites[%d]: name is required", i))
		}
		if _, dup := seen[site.Name]; dup {
			errs = append(errs, fmt.Errorf("sites[%d]: duplicate name %s", i, site.Name))
		}
		seen[site.Name] = struct{}{}
		if site.Scanner == "" {
			errs = append(errs, fmt.Errorf("site %s: scanner is required", site.Name))
		}
		if site.Tier < 1 || site.Tier > 5 {
			errs = append(errs, fmt.Errorf("site %s: tier must be 1..5", site.Name))
		}
	}
	return errors.Join(errs...)
}

// EnabledSites returns sites in configured order, skipping disabled ones.
func (c Config) EnabledSites() []SiteConfig {
	out := make([]SiteConfig, 0, len(c.Sites))
	for _, s := range c.Sites {
		if !s.Disabled {
			out = append(out, s)
		}
	}
	return out
}
