package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"NewsCollector/internal/ports"
)

const dateLayout = "2006-01-02"

type fileDocument struct {
	Date          string   `json:"date"`
	GeneratedAt   string   `json:"generated_at"`
	RawCount      int      `json:"raw_count"`
	FilteredCount int      `json:"filtered_count"`
	Items         []Record `json:"items"`
}

// JSONFileSink writes one filtered-items-{date}.json document per day, replacing earlier runs.
type JSONFileSink struct {
	dir string
}

var _ ports.ResultSink = (*JSONFileSink)(nil)

// NewJSONFileSink writes into dir, creating it on first use.
func NewJSONFileSink(dir string) *JSONFileSink {
	return &JSONFileSink{dir: dir}
}

// Path returns the file a digest generated on that date lands in.
func (s *JSONFileSink) Path(digest ports.Digest) string {
	name := fmt.Sprintf("filtered-items-%s.json", digest.GeneratedAt.UTC().Format(dateLayout))
	return filepath.Join(s.dir, name)
}

// Write renders the digest and swaps it into place atomically.
func (s *JSONFileSink) Write(ctx context.Context, digest ports.Digest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	doc := fileDocument{
		Date:          digest.GeneratedAt.UTC().Format(dateLayout),
		GeneratedAt:   digest.GeneratedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		RawCount:      digest.RawCount,
		FilteredCount: len(digest.Items),
		Items:         make([]Record, 0, len(digest.Items)),
	}
	for _, item := range digest.Items {
		doc.Items = append(doc.Items, NewRecord(item))
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	target := s.Path(digest)
	tmp, err := os.CreateTemp(s.dir, ".filtered-items-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write digest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close digest: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename digest: %w", err)
	}
	return nil
}
