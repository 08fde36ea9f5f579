// Package report renders run summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"NewsCollector/internal/domain"
)

// Printer writes summaries as tables with colored statuses.
type Printer struct {
	out  io.Writer
	ok   *color.Color
	bad  *color.Color
	warn *color.Color
	bold *color.Color
}

// NewPrinter writes to out; colorize=false strips ANSI codes.
func NewPrinter(out io.Writer, colorize bool) *Printer {
	p := &Printer{
		out:  out,
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		bold: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.ok, p.bad, p.warn, p.bold} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
}

func (p *Printer) render(header []string, rows [][]string) error {
	table := newTable(p.out)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("fill table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// Ingest prints per-source results followed by run totals.
func (p *Printer) Ingest(s domain.RunSummary) error {
	p.bold.Fprintf(p.out, "Ingest %s (%s)\n", s.StartedAt.Format(time.RFC3339), s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))

	rows := make([][]string, 0, len(s.Sources))
	for _, src := range s.Sources {
		status := p.ok.Sprint("ok")
		detail := ""
		if src.Failed() {
			status = p.bad.Sprint("failed")
			detail = src.Err.Error()
		} else if src.Malformed > 0 {
			status = p.warn.Sprint("partial")
		}
		rows = append(rows, []string{src.Name, status, strconv.Itoa(src.Fetched), strconv.Itoa(src.Malformed), detail})
	}
	if err := p.render([]string{"source", "status", "fetched", "malformed", "error"}, rows); err != nil {
		return err
	}

	return p.render([]string{"fetched", "malformed", "merged", "known", "inserted", "refreshed"}, [][]string{{
		strconv.Itoa(s.Fetched),
		strconv.Itoa(s.Malformed),
		strconv.Itoa(s.Merged),
		strconv.Itoa(s.Known),
		strconv.Itoa(s.Inserted),
		strconv.Itoa(s.Refreshed),
	}})
}

// Classification prints the verdict stage totals.
func (p *Printer) Classification(s domain.ClassificationSummary) error {
	p.bold.Fprintf(p.out, "Classify %s (%s)\n", s.StartedAt.Format(time.RFC3339), s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))

	failed := strconv.Itoa(s.Failed)
	if s.Failed > 0 {
		failed = p.warn.Sprint(failed)
	}
	calls := strconv.Itoa(s.CallFailures)
	if s.CallFailures > 0 {
		calls = p.bad.Sprint(calls)
	}
	return p.render([]string{"considered", "batches", "classified", "failed", "call failures", "pending", "written"}, [][]string{{
		strconv.Itoa(s.Considered),
		strconv.Itoa(s.Batches),
		p.ok.Sprint(s.Classified),
		failed,
		calls,
		strconv.Itoa(s.Unclassified),
		strconv.Itoa(s.Written),
	}})
}

// Items prints the top classified items.
func (p *Printer) Items(items []domain.ClassifiedItem, limit int) error {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(item.AgentScore),
			string(item.AgentCategory),
			truncate(item.Title, 70),
			item.Source,
		})
	}
	return p.render([]string{"score", "category", "title", "source"}, rows)
}

// Content prints a recorded artifact.
func (p *Printer) Content(c domain.Content, sources int) {
	p.ok.Fprintf(p.out, "recorded %s %q\n", c.Type, c.Title)
	fmt.Fprintf(p.out, "  id:      %s\n  slug:    %s\n  status:  %s\n  sources: %d\n", c.ID, c.Slug, c.Status, sources)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
