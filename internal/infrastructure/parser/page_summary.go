package parser

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageSummarizer extracts a short description from an article page.
type PageSummarizer struct {
	client *http.Client
}

// NewPageSummarizer wires an HTTP client.
func NewPageSummarizer(client *http.Client) *PageSummarizer {
	return &PageSummarizer{client: newClient(client)}
}

// Summary returns the page meta description, falling back to the first paragraph.
func (p *PageSummarizer) Summary(ctx context.Context, pageURL string) (string, error) {
	doc, err := getDocument(ctx, p.client, pageURL)
	if err != nil {
		return "", err
	}
	return documentSummary(doc), nil
}

func documentSummary(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`, `meta[name="twitter:description"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	var text string
	doc.Find("article p, main p, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := strings.TrimSpace(s.Text())
		if len(t) >= 60 {
			text = t
			return false
		}
		return true
	})
	return text
}
