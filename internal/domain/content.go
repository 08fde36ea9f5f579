package domain

import "time"

// ContentType enumerates generated artifact kinds.
type ContentType string

const (
	ContentBlog       ContentType = "blog"
	ContentNewsletter ContentType = "newsletter"
)

// ContentStatus is owned by the publishing step.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
)

// Content is a generated artifact linked to the items it was built from.
type Content struct {
	ID           string
	Type         ContentType
	Title        string
	Slug         string
	BodyMarkdown string
	Language     string
	Status       ContentStatus
	SourceType   string
	PublishedAt  time.Time
	CreatedAt    time.Time
}
