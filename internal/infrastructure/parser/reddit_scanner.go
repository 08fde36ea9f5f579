package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/scanner"
)

const redditBaseURL = "https://www.reddit.com"

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Stickied   bool    `json:"stickied"`
	Over18     bool    `json:"over_18"`
	IsSelf     bool    `json:"is_self"`
}

// RedditScanner reads hot listings of subreddits through the public JSON API.
type RedditScanner struct {
	client *http.Client
	pace   time.Duration
}

// NewRedditScanner wires an HTTP client; pace is the minimum gap between listing calls.
func NewRedditScanner(client *http.Client, pace time.Duration) *RedditScanner {
	return &RedditScanner{client: newClient(client), pace: pace}
}

// Name identifies the strategy inside the registry.
func (r *RedditScanner) Name() string {
	return "reddit"
}

// Scan reads /r/{target}/hot.json for each target and keeps posts scoring above "min_score".
func (r *RedditScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawCandidate, error) {
	if len(req.Targets) == 0 {
		return nil, fmt.Errorf("no subreddits provided for site %s", req.SiteName)
	}
	base := strings.TrimRight(req.Option("base_url", redditBaseURL), "/")
	limit := req.IntOption("limit", 25)
	minScore := req.IntOption("min_score", 50)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if r.pace > 0 {
		limiter = rate.NewLimiter(rate.Every(r.pace), 1)
	}

	var (
		results []domain.RawCandidate
		failed  targetErrors
	)
	for _, target := range req.Targets {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
		endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d&raw_json=1", base, url.PathEscape(target.Name), limit)

		var listing redditListing
		err := getJSON(ctx, r.client, endpoint, nil, &listing)
		failed.add(target.Name, err)
		if err != nil {
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Stickied || post.Over18 || post.Score <= minScore {
				continue
			}
			published := time.Unix(int64(post.CreatedUTC), 0).UTC()
			if !req.Fresh(published) {
				continue
			}
			permalink := redditBaseURL + post.Permalink
			link := post.URL
			if post.IsSelf || link == "" {
				link = permalink
			}
			results = append(results, domain.RawCandidate{
				Tier:        req.TierFor(target),
				ExternalID:  post.ID,
				Title:       post.Title,
				Summary:     post.Selftext,
				URL:         link,
				SocialURL:   permalink,
				Engagement:  post.Score,
				PublishedAt: published,
			})
		}
	}
	return results, failed.result()
}
