package parser

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/scanner"
)

const (
	hackerNewsAPIBase = "https://hacker-news.firebaseio.com/v0"
	hackerNewsItemURL = "https://news.ycombinator.com/item?id="
)

type hnItem struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Score       int    `json:"score"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
	Dead        bool   `json:"dead"`
	Deleted     bool   `json:"deleted"`
}

// HackerNewsScanner reads the front page through the Firebase API.
type HackerNewsScanner struct {
	client     *http.Client
	summarizer *PageSummarizer
}

// NewHackerNewsScanner wires an HTTP client; summaries are fetched with the same client.
func NewHackerNewsScanner(client *http.Client) *HackerNewsScanner {
	client = newClient(client)
	return &HackerNewsScanner{client: client, summarizer: NewPageSummarizer(client)}
}

// Name identifies the strategy inside the registry.
func (h *HackerNewsScanner) Name() string {
	return "hackernews"
}

// Scan loads the top stories, keeps AI-related ones above "min_score" points and,
// with "fetch_summaries", fills summaries from the linked page.
func (h *HackerNewsScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawCandidate, error) {
	base := strings.TrimRight(req.Option("base_url", hackerNewsAPIBase), "/")
	limit := req.IntOption("limit", 30)
	minScore := req.IntOption("min_score", 50)
	filter, err := matchPattern(req.Option("match", ""))
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := getJSON(ctx, h.client, base+"/topstories.json", nil, &ids); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	stories := make([]*hnItem, len(ids))
	storyErrs := make([]error, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(req.IntOption("concurrency", 8), 1))
	for i, id := range ids {
		g.Go(func() error {
			var item hnItem
			if err := getJSON(gctx, h.client, fmt.Sprintf("%s/item/%d.json", base, id), nil, &item); err != nil {
				storyErrs[i] = err
				return nil
			}
			stories[i] = &item
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// one broken story does not fail the front page, all of them do
	var failed targetErrors
	for i, err := range storyErrs {
		failed.add("item "+strconv.FormatInt(ids[i], 10), err)
	}
	if err := failed.result(); err != nil {
		return nil, fmt.Errorf("stories: %w", err)
	}

	fetchSummaries := req.BoolOption("fetch_summaries", false)
	var results []domain.RawCandidate
	for _, story := range stories {
		if story == nil || story.Type != "story" || story.Dead || story.Deleted {
			continue
		}
		if story.Score < minScore || !filter.MatchString(story.Title) {
			continue
		}
		published := time.Unix(story.Time, 0).UTC()
		if !req.Fresh(published) {
			continue
		}

		discussion := fmt.Sprintf("%s%d", hackerNewsItemURL, story.ID)
		link := story.URL
		if link == "" {
			link = discussion
		}
		summary := story.Text
		if summary == "" && fetchSummaries && story.URL != "" {
			if s, err := h.summarizer.Summary(ctx, story.URL); err == nil {
				summary = s
			}
		}

		results = append(results, domain.RawCandidate{
			Tier:        req.Tier,
			ExternalID:  strconv.FormatInt(story.ID, 10),
			Title:       story.Title,
			Summary:     summary,
			URL:         link,
			SocialURL:   discussion,
			Engagement:  story.Score,
			PublishedAt: published,
		})
	}
	return results, nil
}
