package usecase

import (
	"fmt"
	"strings"
	"time"

	"NewsCollector/internal/domain"
)

// IngestMessage renders an ingestion summary for chat notifications.
func IngestMessage(s domain.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ingest %s (%s)\n", s.StartedAt.Format("2006-01-02 15:04 MST"), s.FinishedAt.Sub(s.StartedAt).Round(time.Second))
	fmt.Fprintf(&b, "fetched %d, malformed %d, duplicates %d\n", s.Fetched, s.Malformed, s.Duplicates())
	fmt.Fprintf(&b, "new %d, refreshed %d\n", s.Inserted, s.Refreshed)
	for _, src := range s.Sources {
		if src.Failed() {
			fmt.Fprintf(&b, "! %s: %v\n", src.Name, src.Err)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ClassificationMessage renders a classification summary for chat notifications.
func ClassificationMessage(s domain.ClassificationSummary) string {
	if s.Considered == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Classify %s (%s)\n", s.StartedAt.Format("2006-01-02 15:04 MST"), s.FinishedAt.Sub(s.StartedAt).Round(time.Second))
	fmt.Fprintf(&b, "considered %d in %d batches\n", s.Considered, s.Batches)
	fmt.Fprintf(&b, "classified %d, failed %d, pending %d\n", s.Classified, s.Failed, s.Unclassified)
	if s.CallFailures > 0 {
		fmt.Fprintf(&b, "! classifier call failed %d times\n", s.CallFailures)
	}
	fmt.Fprintf(&b, "written %d", s.Written)
	return b.String()
}
