package parser

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/scanner"
)

const githubBaseURL = "https://github.com"

var starsExpr = regexp.MustCompile(`([\d,]+)\s+stars?`)

// TrendingScanner scrapes the GitHub trending page, optionally per language.
type TrendingScanner struct {
	client *http.Client
}

// NewTrendingScanner wires an HTTP client.
func NewTrendingScanner(client *http.Client) *TrendingScanner {
	return &TrendingScanner{client: newClient(client)}
}

// Name identifies the strategy inside the registry.
func (t *TrendingScanner) Name() string {
	return "github_trending"
}

// Scan fetches /trending (or /trending/{language} per target) and keeps repos
// whose name or description match the "match" option. Engagement is stars gained
// in the period.
func (t *TrendingScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawCandidate, error) {
	base := strings.TrimRight(req.Option("base_url", githubBaseURL), "/")
	period := req.Option("since", "daily")
	filter, err := matchPattern(req.Option("match", ""))
	if err != nil {
		return nil, err
	}

	targets := req.Targets
	if len(targets) == 0 {
		targets = []scanner.Target{{Name: "all"}}
	}

	var (
		results []domain.RawCandidate
		failed  targetErrors
	)
	for _, target := range targets {
		pageURL := base + "/trending"
		if target.Name != "" && target.Name != "all" {
			pageURL += "/" + target.Name
		}
		pageURL += "?since=" + period

		doc, err := getDocument(ctx, t.client, pageURL)
		failed.add(target.Name, err)
		if err != nil {
			continue
		}
		results = append(results, extractTrending(doc, base, req.TierFor(target), filter.MatchString)...)
	}
	return results, failed.result()
}

func extractTrending(doc *goquery.Document, base string, tier int, keep func(string) bool) []domain.RawCandidate {
	var collected []domain.RawCandidate
	doc.Find("article.Box-row").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("h2 a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		name := strings.Join(strings.Fields(link.Text()), "")
		if name == "" {
			name = strings.Trim(href, "/")
		}
		description := strings.TrimSpace(row.Find("p").First().Text())
		if !keep(name + " " + description) {
			return
		}

		collected = append(collected, domain.RawCandidate{
			Tier:       tier,
			ExternalID: strings.Trim(href, "/"),
			Title:      name,
			Summary:    description,
			URL:        base + "/" + strings.Trim(href, "/"),
			Engagement: parseStars(row.Find("span.float-sm-right").Text()),
		})
	})
	return collected
}

func parseStars(text string) int {
	m := starsExpr.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return n
}
