package storage

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS news_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		full_text TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		social_url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		source_tier INTEGER NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		score REAL NOT NULL DEFAULT 0,
		engagement INTEGER NOT NULL DEFAULT 0,
		published_at DATETIME,
		detected_at DATETIME NOT NULL,
		agent_category TEXT,
		agent_score INTEGER,
		why_it_matters TEXT,
		action TEXT,
		classification_state TEXT NOT NULL DEFAULT 'unclassified',
		classification_attempts INTEGER NOT NULL DEFAULT 0,
		classified_at DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_news_items_detected_at ON news_items(detected_at)`,
	`CREATE INDEX IF NOT EXISTS idx_news_items_url ON news_items(url)`,
	`CREATE TABLE IF NOT EXISTS content (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		body_markdown TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT 'en',
		status TEXT NOT NULL DEFAULT 'draft',
		source_type TEXT NOT NULL DEFAULT '',
		published_at DATETIME,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS content_sources (
		content_id TEXT NOT NULL REFERENCES content(id) ON DELETE CASCADE,
		news_item_id TEXT NOT NULL REFERENCES news_items(id),
		PRIMARY KEY (content_id, news_item_id)
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS news_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		full_text TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		social_url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		source_tier INTEGER NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		score DOUBLE PRECISION NOT NULL DEFAULT 0,
		engagement INTEGER NOT NULL DEFAULT 0,
		published_at TIMESTAMPTZ,
		detected_at TIMESTAMPTZ NOT NULL,
		agent_category TEXT,
		agent_score INTEGER,
		why_it_matters TEXT,
		action TEXT,
		classification_state TEXT NOT NULL DEFAULT 'unclassified',
		classification_attempts INTEGER NOT NULL DEFAULT 0,
		classified_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_news_items_detected_at ON news_items(detected_at)`,
	`CREATE INDEX IF NOT EXISTS idx_news_items_url ON news_items(url)`,
	`CREATE TABLE IF NOT EXISTS content (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		body_markdown TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT 'en',
		status TEXT NOT NULL DEFAULT 'draft',
		source_type TEXT NOT NULL DEFAULT '',
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS content_sources (
		content_id TEXT NOT NULL REFERENCES content(id) ON DELETE CASCADE,
		news_item_id TEXT NOT NULL REFERENCES news_items(id),
		PRIMARY KEY (content_id, news_item_id)
	)`,
}
