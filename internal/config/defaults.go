package config

import "time"

const defaultWindow = 72 * time.Hour

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "newscollector.db"},
		Ingestion: IngestionConfig{
			Window:         defaultWindow,
			AdapterTimeout: 60 * time.Second,
			Concurrency:    4,
		},
		Scoring: ScoringConfig{
			Horizon:     7 * 24 * time.Hour,
			Floor:       0.01,
			TierWeights: []float64{1.0, 0.8, 0.6, 0.45, 0.3},
		},
		Classification: ClassificationConfig{
			Provider:    "command",
			Window:      defaultWindow,
			BatchSize:   20,
			MaxItems:    200,
			MinInterval: 2 * time.Second,
		},
		ChatGPT: ChatGPTConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
			Timeout:  2 * time.Minute,
		},
		Command: CommandConfig{
			Path:    "claude",
			Args:    []string{"--print"},
			Timeout: 3 * time.Minute,
		},
		ML:     MLConfig{Timeout: time.Minute},
		Output: OutputConfig{Dir: "output", Kafka: KafkaConfig{Topic: "news.classified"}},
		Metrics: MetricsConfig{
			Job: "newscollector",
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{APIBase: "https://api.telegram.org"},
		},
		Scheduler: SchedulerConfig{Interval: 6 * time.Hour, Timezone: "UTC"},
		Sites:     defaultSites(),
	}
}

func defaultSites() []SiteConfig {
	return []SiteConfig{
		{
			Name:     "official-blogs",
			Scanner:  "rss",
			Tier:     1,
			Category: "official_blog",
			Targets: []TargetConfig{
				{Name: "openai", URL: "https://openai.com/news/rss.xml"},
				{Name: "google-ai", URL: "https://blog.google/technology/ai/rss/"},
				{Name: "deepmind", URL: "https://deepmind.google/blog/rss.xml"},
				{Name: "huggingface", URL: "https://huggingface.co/blog/feed.xml"},
			},
		},
		{
			Name:     "twitter",
			Scanner:  "twitter",
			Tier:     2,
			Category: "product_ecosystem",
			Targets: []TargetConfig{
				{Name: "OpenAI", Tier: 1},
				{Name: "AnthropicAI", Tier: 1},
				{Name: "GoogleDeepMind", Tier: 1},
				{Name: "karpathy", Tier: 2},
			},
			Options: map[string]string{"min_engagement": "100"},
		},
		{
			Name:     "reddit",
			Scanner:  "reddit",
			Tier:     3,
			Category: "product_ecosystem",
			Targets: []TargetConfig{
				{Name: "LocalLLaMA"},
				{Name: "MachineLearning"},
				{Name: "ClaudeAI"},
			},
			Options: map[string]string{"min_score": "50", "limit": "25"},
		},
		{
			Name:     "hackernews",
			Scanner:  "hackernews",
			Tier:     4,
			Category: "product_ecosystem",
			Options:  map[string]string{"min_score": "50", "limit": "30"},
		},
		{
			Name:     "github",
			Scanner:  "github",
			Tier:     5,
			Category: "developer_platform",
			Targets: []TargetConfig{
				{Name: "llm", Query: "topic:llm stars:>50"},
				{Name: "agents", Query: "topic:ai-agents stars:>50"},
			},
		},
		{
			Name:     "github-trending",
			Scanner:  "github_trending",
			Tier:     5,
			Category: "developer_platform",
			Targets:  []TargetConfig{{Name: "python"}, {Name: "typescript"}},
			Options:  map[string]string{"match": `(?i)\b(ai|llm|gpt|agent|model|inference|rag|mcp)\b`},
		},
	}
}
