package sink

import (
	"time"

	"NewsCollector/internal/domain"
)

// Record is the wire shape of a classified item shared by every sink.
type Record struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	FullText      string     `json:"full_text,omitempty"`
	URL           string     `json:"url"`
	SocialURL     string     `json:"twitter_url,omitempty"`
	Source        string     `json:"source"`
	SourceTier    int        `json:"source_tier"`
	Category      string     `json:"category"`
	Score         float64    `json:"score"`
	Engagement    int        `json:"engagement"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	DetectedAt    time.Time  `json:"detected_at"`
	AgentCategory string     `json:"agent_category"`
	AgentScore    int        `json:"agent_score"`
	WhyItMatters  string     `json:"why_it_matters"`
	Action        string     `json:"action"`
}

// NewRecord flattens a classified item.
func NewRecord(item domain.ClassifiedItem) Record {
	r := Record{
		ID:            item.ID,
		Title:         item.Title,
		Summary:       item.Summary,
		FullText:      item.FullText,
		URL:           item.URL,
		SocialURL:     item.SocialURL,
		Source:        item.Source,
		SourceTier:    item.SourceTier,
		Category:      string(item.Category),
		Score:         item.Score,
		Engagement:    item.Engagement,
		DetectedAt:    item.DetectedAt.UTC(),
		AgentCategory: string(item.AgentCategory),
		AgentScore:    item.AgentScore,
		WhyItMatters:  item.WhyItMatters,
		Action:        item.Action,
	}
	if !item.PublishedAt.IsZero() {
		published := item.PublishedAt.UTC()
		r.PublishedAt = &published
	}
	return r
}
