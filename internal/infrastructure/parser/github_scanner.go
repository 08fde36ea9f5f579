package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/scanner"
)

const githubAPIBase = "https://api.github.com"

type githubRepo struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	StargazersCount int       `json:"stargazers_count"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
	PushedAt        time.Time `json:"pushed_at"`
}

type githubSearchResponse struct {
	Items []githubRepo `json:"items"`
}

// GitHubScanner queries the repository search API for fresh, popular projects.
type GitHubScanner struct {
	client *http.Client
}

// NewGitHubScanner wires an HTTP client.
func NewGitHubScanner(client *http.Client) *GitHubScanner {
	return &GitHubScanner{client: newClient(client)}
}

// Name identifies the strategy inside the registry.
func (g *GitHubScanner) Name() string {
	return "github"
}

// Scan runs every target query restricted to repositories created inside the window.
// Engagement is the star count.
func (g *GitHubScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawCandidate, error) {
	if len(req.Targets) == 0 {
		return nil, fmt.Errorf("no queries provided for site %s", req.SiteName)
	}
	base := strings.TrimRight(req.Option("base_url", githubAPIBase), "/")
	perPage := req.IntOption("limit", 20)

	header := http.Header{
		"Accept":               []string{"application/vnd.github+json"},
		"X-GitHub-Api-Version": []string{"2022-11-28"},
	}
	if token := req.Option("token", ""); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	var (
		results []domain.RawCandidate
		failed  targetErrors
	)
	for _, target := range req.Targets {
		query := target.Query
		if !req.Since.IsZero() {
			query = strings.TrimSpace(query + " created:>" + req.Since.UTC().Format("2006-01-02"))
		}
		values := url.Values{}
		values.Set("q", query)
		values.Set("sort", "stars")
		values.Set("order", "desc")
		values.Set("per_page", strconv.Itoa(perPage))

		var resp githubSearchResponse
		err := getJSON(ctx, g.client, base+"/search/repositories?"+values.Encode(), header, &resp)
		failed.add(target.Name, err)
		if err != nil {
			continue
		}

		for _, repo := range resp.Items {
			summary := repo.Description
			if repo.Language != "" {
				summary = strings.TrimSpace(fmt.Sprintf("%s [%s]", summary, repo.Language))
			}
			results = append(results, domain.RawCandidate{
				Tier:        req.TierFor(target),
				ExternalID:  strconv.FormatInt(repo.ID, 10),
				Title:       repo.FullName,
				Summary:     summary,
				URL:         repo.HTMLURL,
				Engagement:  repo.StargazersCount,
				PublishedAt: repo.CreatedAt.UTC(),
			})
		}
	}
	return results, failed.result()
}
