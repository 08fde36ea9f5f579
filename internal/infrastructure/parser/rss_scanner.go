package parser

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/scanner"
)

// RSSScanner reads RSS/Atom feeds of official blogs.
type RSSScanner struct {
	client *http.Client
}

// NewRSSScanner wires an HTTP client used by the feed parser.
func NewRSSScanner(client *http.Client) *RSSScanner {
	return &RSSScanner{client: newClient(client)}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

// Scan parses every feed target and keeps entries published inside the window.
// Option "match" restricts entries to titles or descriptions matching a regexp;
// option "limit" caps entries per feed.
func (r *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawCandidate, error) {
	if len(req.Targets) == 0 {
		return nil, fmt.Errorf("no feeds provided for site %s", req.SiteName)
	}

	var filter *regexp.Regexp
	if expr := req.Option("match", ""); expr != "" {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile match option: %w", err)
		}
		filter = re
	}
	limit := req.IntOption("limit", 20)

	var (
		results []domain.RawCandidate
		failed  targetErrors
	)
	for _, target := range req.Targets {
		items, err := r.scanFeed(ctx, req, target, filter, limit)
		failed.add(target.Name, err)
		results = append(results, items...)
	}
	return results, failed.result()
}

func (r *RSSScanner) scanFeed(ctx context.Context, req scanner.Request, target scanner.Target, filter *regexp.Regexp, limit int) ([]domain.RawCandidate, error) {
	fp := gofeed.NewParser()
	fp.Client = r.client
	fp.UserAgent = userAgent

	feed, err := fp.ParseURLWithContext(target.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", target.URL, err)
	}

	var out []domain.RawCandidate
	for _, item := range feed.Items {
		if len(out) >= limit {
			break
		}
		published := entryTime(item)
		if !req.Fresh(published) {
			continue
		}
		if filter != nil && !filter.MatchString(item.Title+" "+item.Description) {
			continue
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		out = append(out, domain.RawCandidate{
			Tier:        req.TierFor(target),
			ExternalID:  item.GUID,
			Title:       item.Title,
			Summary:     summary,
			FullText:    item.Content,
			URL:         item.Link,
			PublishedAt: published,
		})
	}
	return out, nil
}

func entryTime(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	default:
		return time.Time{}
	}
}
