package domain

import "time"

// Category is the coarse topic tag assigned at normalization time.
type Category string

const (
	CategoryModelRelease      Category = "model_release"
	CategoryDeveloperPlatform Category = "developer_platform"
	CategoryOfficialBlog      Category = "official_blog"
	CategoryProductEcosystem  Category = "product_ecosystem"
)

// RawCandidate is a source payload before normalization.
type RawCandidate struct {
	Source      string
	Tier        int
	ExternalID  string
	Title       string
	Summary     string
	FullText    string
	URL         string
	SocialURL   string
	Category    Category
	Engagement  int
	PublishedAt time.Time
}

// NewsItem is the canonical persisted news record.
type NewsItem struct {
	ID          string
	Title       string
	Summary     string
	FullText    string
	URL         string
	SocialURL   string
	Source      string
	SourceTier  int
	Category    Category
	Score       float64
	Engagement  int
	PublishedAt time.Time
	DetectedAt  time.Time
}

// ReferenceTime is the moment recency is measured from.
func (n NewsItem) ReferenceTime() time.Time {
	if n.PublishedAt.IsZero() {
		return n.DetectedAt
	}
	return n.PublishedAt
}

// IdentitySet holds ids and canonical urls already persisted in a window.
type IdentitySet struct {
	IDs  map[string]struct{}
	URLs map[string]struct{}
}

// NewIdentitySet builds an empty set.
func NewIdentitySet() IdentitySet {
	return IdentitySet{IDs: map[string]struct{}{}, URLs: map[string]struct{}{}}
}

// Add records an item identity.
func (s IdentitySet) Add(id, url string) {
	if id != "" {
		s.IDs[id] = struct{}{}
	}
	if url != "" {
		s.URLs[url] = struct{}{}
	}
}

// Contains reports whether the item is already known by id or url.
func (s IdentitySet) Contains(item NewsItem) bool {
	if _, ok := s.IDs[item.ID]; ok {
		return true
	}
	_, ok := s.URLs[item.URL]
	return ok && item.URL != ""
}

// Len returns the number of known ids.
func (s IdentitySet) Len() int {
	return len(s.IDs)
}
