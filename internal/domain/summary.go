package domain

import "time"

// SourceReport is the per-site part of a run summary.
type SourceReport struct {
	Name      string
	Fetched   int
	Malformed int
	Err       error
}

// Failed reports whether the site contributed nothing because of an error.
func (r SourceReport) Failed() bool { return r.Err != nil }

// RunSummary describes one ingestion cycle, including degraded parts.
type RunSummary struct {
	StartedAt     time.Time
	FinishedAt    time.Time
	Sources       []SourceReport
	Fetched       int
	Malformed     int
	Merged        int
	Known         int
	Inserted      int
	Refreshed     int
	SourceFailure int
}

// Duplicates is the number of candidates removed by deduplication.
func (s RunSummary) Duplicates() int { return s.Merged + s.Known }

// ClassificationSummary describes one classification cycle.
type ClassificationSummary struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	Considered   int
	Batches      int
	Classified   int
	Failed       int
	CallFailures int
	Unclassified int
	Written      int
}
