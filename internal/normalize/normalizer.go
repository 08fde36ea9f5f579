package normalize

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"NewsCollector/internal/domain"
)

const (
	maxTitleRunes   = 300
	maxSummaryRunes = 500
)

var (
	releasePattern  = regexp.MustCompile(`(?i)\b(launch(es|ed)?|releas(e|es|ed)|introduc(es|ing)|announc(es|ed|ing)|now available|general availability)\b|\b(gpt|claude|gemini|llama|mistral|qwen|deepseek)[- ]?\d`)
	researchPattern = regexp.MustCompile(`(?i)\b(paper|research|benchmark|arxiv|study|evaluation|interpretability)\b`)
	devPattern      = regexp.MustCompile(`(?i)\b(api|sdk|cli|agent|framework|library|open[- ]source|repo|plugin|mcp|tool(kit|ing)?)\b`)
)

// Normalizer maps raw candidates into canonical news items.
type Normalizer struct {
	policy *bluemonday.Policy
}

// New creates a Normalizer with a strict markup policy for summaries.
func New() *Normalizer {
	return &Normalizer{policy: bluemonday.StrictPolicy()}
}

// Normalize produces a NewsItem without score and detection time.
func (n *Normalizer) Normalize(c domain.RawCandidate) (domain.NewsItem, error) {
	title := collapse(html.UnescapeString(n.policy.Sanitize(c.Title)))
	source := strings.TrimSpace(c.Source)
	rawURL := strings.TrimSpace(c.URL)

	switch {
	case title == "":
		return domain.NewsItem{}, fmt.Errorf("%w: missing title", domain.ErrMalformedCandidate)
	case rawURL == "":
		return domain.NewsItem{}, fmt.Errorf("%w: missing url", domain.ErrMalformedCandidate)
	case source == "":
		return domain.NewsItem{}, fmt.Errorf("%w: missing source", domain.ErrMalformedCandidate)
	}

	item := domain.NewsItem{
		Title:       truncate(title, maxTitleRunes),
		Summary:     truncate(n.clean(c.Summary), maxSummaryRunes),
		FullText:    n.clean(c.FullText),
		Source:      source,
		SourceTier:  clampTier(c.Tier),
		Engagement:  max(c.Engagement, 0),
		PublishedAt: c.PublishedAt.UTC(),
	}

	canonical, err := CanonicalURL(rawURL)
	switch {
	case err == nil:
		item.URL = canonical
		item.ID = ItemID(canonical)
	case strings.TrimSpace(c.ExternalID) != "":
		item.URL = rawURL
		item.ID = ExternalID(source, strings.TrimSpace(c.ExternalID))
	default:
		return domain.NewsItem{}, fmt.Errorf("%w: %v", domain.ErrMalformedCandidate, err)
	}

	if c.SocialURL != "" {
		if social, err := CanonicalURL(c.SocialURL); err == nil && social != item.URL {
			item.SocialURL = social
		}
	}
	item.Category = Categorize(c.Category, item.Title+" "+item.Summary)
	return item, nil
}

// Categorize applies keyword heuristics, keeping the hint when nothing matches.
func Categorize(hint domain.Category, text string) domain.Category {
	switch {
	case releasePattern.MatchString(text):
		return domain.CategoryModelRelease
	case researchPattern.MatchString(text):
		return domain.CategoryOfficialBlog
	case hint != "":
		return hint
	case devPattern.MatchString(text):
		return domain.CategoryDeveloperPlatform
	default:
		return domain.CategoryProductEcosystem
	}
}

func (n *Normalizer) clean(value string) string {
	if value == "" {
		return ""
	}
	return collapse(html.UnescapeString(n.policy.Sanitize(value)))
}

func collapse(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

func clampTier(tier int) int {
	switch {
	case tier < 1:
		return 5
	case tier > 5:
		return 5
	default:
		return tier
	}
}
