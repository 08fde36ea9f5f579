package scanner

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"NewsCollector/internal/domain"
)

// Target describes a concrete endpoint provided by config (feed, handle, subreddit, query).
type Target struct {
	Name  string
	URL   string
	Query string
	Tier  int
}

// Request carries all parameters required to execute a scan.
type Request struct {
	Since    time.Time
	SiteName string
	Tier     int
	Category domain.Category
	Targets  []Target
	Options  map[string]string
}

// TierFor returns the target tier when set, otherwise the site tier.
func (r Request) TierFor(t Target) int {
	if t.Tier > 0 {
		return t.Tier
	}
	return r.Tier
}

// Option returns a trimmed option value or fallback.
func (r Request) Option(key, fallback string) string {
	if v, ok := r.Options[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// IntOption parses an integer option, falling back on absence or garbage.
func (r Request) IntOption(key string, fallback int) int {
	v, err := strconv.Atoi(r.Option(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// BoolOption parses a boolean option.
func (r Request) BoolOption(key string, fallback bool) bool {
	v, err := strconv.ParseBool(r.Option(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// ListOption splits a comma separated option.
func (r Request) ListOption(key string) []string {
	raw := r.Option(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Fresh reports whether a publication time falls inside the request window.
// Unknown times are kept.
func (r Request) Fresh(published time.Time) bool {
	return published.IsZero() || r.Since.IsZero() || !published.Before(r.Since)
}

// Scanner captures a single source strategy (RSS, Hacker News, Reddit, etc.).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.RawCandidate, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

// Names lists registered scanners in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
