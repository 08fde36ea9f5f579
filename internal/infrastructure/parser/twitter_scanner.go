package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/scanner"
)

const twitterAPIBase = "https://api.twitterapi.io"

type tweetURL struct {
	ExpandedURL string `json:"expanded_url"`
}

type tweet struct {
	ID             string `json:"id"`
	URL            string `json:"url"`
	Text           string `json:"text"`
	CreatedAt      string `json:"createdAt"`
	LikeCount      int    `json:"likeCount"`
	RetweetCount   int    `json:"retweetCount"`
	IsReply        bool   `json:"isReply"`
	RetweetedTweet *struct {
		ID string `json:"id"`
	} `json:"retweeted_tweet"`
	Author struct {
		UserName string `json:"userName"`
	} `json:"author"`
	Entities struct {
		URLs []tweetURL `json:"urls"`
	} `json:"entities"`
}

type tweetsResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"msg"`
	Tweets  []tweet `json:"tweets"`
	Data    struct {
		Tweets []tweet `json:"tweets"`
	} `json:"data"`
}

func (r tweetsResponse) all() []tweet {
	if len(r.Tweets) > 0 {
		return r.Tweets
	}
	return r.Data.Tweets
}

// TwitterScanner reads account timelines and searches through twitterapi.io.
type TwitterScanner struct {
	client *http.Client
}

// NewTwitterScanner wires an HTTP client.
func NewTwitterScanner(client *http.Client) *TwitterScanner {
	return &TwitterScanner{client: newClient(client)}
}

// Name identifies the strategy inside the registry.
func (t *TwitterScanner) Name() string {
	return "twitter"
}

// Scan treats a target with a query as an advanced search and any other target
// as the timeline of the handle in Name. Engagement is likes + 2*retweets.
func (t *TwitterScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawCandidate, error) {
	apiKey := req.Option("api_key", "")
	if apiKey == "" {
		return nil, errors.New("twitter api key is not configured")
	}
	if len(req.Targets) == 0 {
		return nil, fmt.Errorf("no accounts or queries provided for site %s", req.SiteName)
	}
	base := strings.TrimRight(req.Option("base_url", twitterAPIBase), "/")
	minEngagement := req.IntOption("min_engagement", 0)
	header := http.Header{"X-API-Key": []string{apiKey}}

	var (
		results []domain.RawCandidate
		failed  targetErrors
	)
	for _, target := range req.Targets {
		endpoint := base + "/twitter/user/last_tweets?userName=" + url.QueryEscape(target.Name)
		if target.Query != "" {
			endpoint = base + "/twitter/tweet/advanced_search?queryType=Latest&query=" + url.QueryEscape(target.Query)
		}

		var resp tweetsResponse
		err := getJSON(ctx, t.client, endpoint, header, &resp)
		if err == nil && resp.Status == "error" {
			err = fmt.Errorf("twitterapi: %s", resp.Message)
		}
		failed.add(target.Name, err)
		if err != nil {
			continue
		}

		for _, tw := range resp.all() {
			if tw.RetweetedTweet != nil || tw.IsReply || lowQualityTweet(tw.Text) {
				continue
			}
			published := parseTweetTime(tw.CreatedAt)
			if !req.Fresh(published) {
				continue
			}
			engagement := tw.LikeCount + 2*tw.RetweetCount
			if engagement < minEngagement {
				continue
			}
			results = append(results, tweetCandidate(req, target, tw, engagement, published))
		}
	}
	return results, failed.result()
}

func tweetCandidate(req scanner.Request, target scanner.Target, tw tweet, engagement int, published time.Time) domain.RawCandidate {
	postURL := tw.URL
	if postURL == "" && tw.Author.UserName != "" {
		postURL = fmt.Sprintf("https://x.com/%s/status/%s", tw.Author.UserName, tw.ID)
	}
	link := postURL
	if linked := linkedArticle(tw.Entities.URLs); linked != "" {
		link = linked
	}
	return domain.RawCandidate{
		Tier:        req.TierFor(target),
		ExternalID:  tw.ID,
		Title:       tweetTitle(tw.Text),
		Summary:     tw.Text,
		URL:         link,
		SocialURL:   postURL,
		Engagement:  engagement,
		PublishedAt: published,
	}
}

// linkedArticle returns the single external link of a post, if there is exactly one.
func linkedArticle(urls []tweetURL) string {
	var found string
	for _, u := range urls {
		parsed, err := url.Parse(u.ExpandedURL)
		if err != nil || parsed.Host == "" {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
		if host == "x.com" || host == "twitter.com" || host == "t.co" {
			continue
		}
		if found != "" {
			return ""
		}
		found = u.ExpandedURL
	}
	return found
}

func lowQualityTweet(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 40 {
		return true
	}
	if strings.HasPrefix(trimmed, "RT @") || strings.HasPrefix(trimmed, "@") {
		return true
	}
	words := strings.Fields(trimmed)
	noise := 0
	for _, w := range words {
		if strings.HasPrefix(w, "#") || strings.HasPrefix(w, "@") || strings.HasPrefix(w, "http") {
			noise++
		}
	}
	return noise*2 > len(words)
}

func tweetTitle(text string) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexByte(line, '\n'); i > 0 {
		line = line[:i]
	}
	runes := []rune(line)
	if len(runes) > 140 {
		return string(runes[:139]) + "…"
	}
	return line
}

func parseTweetTime(value string) time.Time {
	for _, layout := range []string{time.RubyDate, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
