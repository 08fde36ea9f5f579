package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent       = "NewsCollector/1.0 (+https://github.com/newscollector)"
	maxBodyBytes    = 4 << 20
	defaultClientTO = 30 * time.Second
)

// defaultAIPattern filters general-purpose feeds down to AI topics.
var defaultAIPattern = regexp.MustCompile(`(?i)\b(ai|a\.i\.|llms?|gpt[-\w]*|claude|gemini|llama|mistral|openai|anthropic|deepmind|hugging ?face|transformer|diffusion|agents?|machine learning|neural|inference|rag|mcp|copilot)\b`)

func newClient(client *http.Client) *http.Client {
	if client == nil {
		return &http.Client{Timeout: defaultClientTO}
	}
	return client
}

func matchPattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return defaultAIPattern, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile match option: %w", err)
	}
	return re, nil
}

func doGet(ctx context.Context, client *http.Client, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s returned %s: %s", rawURL, resp.Status, string(body))
	}
	return resp, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, header http.Header, out any) (err error) {
	resp, err := doGet(ctx, client, rawURL, header)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close body: %w", closeErr)
		}
	}()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

func getDocument(ctx context.Context, client *http.Client, rawURL string) (*goquery.Document, error) {
	resp, err := doGet(ctx, client, rawURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// targetErrors keeps per-target failures; a scan fails only when every target failed.
type targetErrors struct {
	attempted int
	errs      []error
}

func (t *targetErrors) add(name string, err error) {
	t.attempted++
	if err != nil {
		t.errs = append(t.errs, fmt.Errorf("%s: %w", name, err))
	}
}

func (t *targetErrors) result() error {
	if t.attempted > 0 && len(t.errs) == t.attempted {
		return errors.Join(t.errs...)
	}
	return nil
}
