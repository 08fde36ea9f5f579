package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/scanner"
)

func rssFeed(now time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Lab blog</title>
<item>
  <title>Introducing a new model</title>
  <link>https://lab.example/blog/new-model?utm_source=rss</link>
  <guid>post-1</guid>
  <description><![CDATA[<p>Our <b>best</b> model yet.</p>]]></description>
  <pubDate>%s</pubDate>
</item>
<item>
  <title>Hiring update</title>
  <link>https://lab.example/blog/hiring</link>
  <guid>post-2</guid>
  <pubDate>%s</pubDate>
</item>
<item>
  <title>Old model card</title>
  <link>https://lab.example/blog/old</link>
  <guid>post-3</guid>
  <pubDate>%s</pubDate>
</item>
</channel></rss>`,
		now.Add(-2*time.Hour).Format(time.RFC1123Z),
		now.Add(-3*time.Hour).Format(time.RFC1123Z),
		now.Add(-200*time.Hour).Format(time.RFC1123Z),
	)
}

func TestRSSScannerScan(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.xml" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFeed(now)))
	}))
	defer srv.Close()

	s := NewRSSScanner(srv.Client())
	req := scanner.Request{
		SiteName: "blogs",
		Since:    now.Add(-72 * time.Hour),
		Tier:     1,
		Targets: []scanner.Target{
			{Name: "lab", URL: srv.URL + "/feed.xml"},
			{Name: "down", URL: srv.URL + "/broken.xml"},
		},
		Options: map[string]string{"match": "(?i)model"},
	}

	got, err := s.Scan(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Introducing a new model", got[0].Title)
	assert.Equal(t, "post-1", got[0].ExternalID)
	assert.Equal(t, 1, got[0].Tier)
	assert.Contains(t, got[0].Summary, "best")
	assert.WithinDuration(t, now.Add(-2*time.Hour), got[0].PublishedAt, time.Second)
}

func TestRSSScannerFailsWhenAllFeedsFail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewRSSScanner(srv.Client())
	_, err := s.Scan(context.Background(), scanner.Request{Targets: []scanner.Target{{Name: "a", URL: srv.URL}}})
	require.Error(t, err)

	_, err = s.Scan(context.Background(), scanner.Request{SiteName: "empty"})
	assert.Error(t, err)
}

func TestRSSScannerEmptyFeedIsSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>x</title></channel></rss>`))
	}))
	defer srv.Close()

	got, err := NewRSSScanner(srv.Client()).Scan(context.Background(), scanner.Request{Targets: []scanner.Target{{Name: "a", URL: srv.URL}}})
	require.NoError(t, err)
	assert.Empty(t, got)
}
