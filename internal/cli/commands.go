package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"NewsCollector/internal/domain"
)

func newIngestCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Collect from every enabled site and store new items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.app.Ingest(cmd.Context())
		},
	}
}

func newClassifyCommand(st *state) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify unclassified items and write the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.app.Classify(cmd.Context(), top)
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "print the N best classified items after the run")
	return cmd
}

func newRunCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Ingest then classify in one pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.app.Run(cmd.Context())
		},
	}
}

func newScheduleCommand(st *state) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run ingest and classify on an interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval > 0 {
				st.cfg.Scheduler.Interval = interval
				if err := st.rebuild(); err != nil {
					return err
				}
			}
			return st.app.Schedule(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "override scheduler.interval")
	return cmd
}

type contentFlags struct {
	kind     string
	title    string
	slug     string
	bodyFile string
	language string
	status   string
	source   string
	newsIDs  []string
}

func newContentCommand(st *state) *cobra.Command {
	content := &cobra.Command{
		Use:   "content",
		Short: "Manage generated content records",
	}

	var f contentFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a generated blog post or newsletter and link its source items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := f.content()
			if err != nil {
				return err
			}
			return st.app.AddContent(cmd.Context(), c, f.newsIDs)
		},
	}
	add.Flags().StringVar(&f.kind, "type", string(domain.ContentNewsletter), "blog or newsletter")
	add.Flags().StringVar(&f.title, "title", "", "content title")
	add.Flags().StringVar(&f.slug, "slug", "", "unique slug (default derived from title)")
	add.Flags().StringVar(&f.bodyFile, "body", "", "markdown file with the body, - for stdin")
	add.Flags().StringVar(&f.language, "language", "", "content language (default en)")
	add.Flags().StringVar(&f.status, "status", string(domain.ContentDraft), "draft or published")
	add.Flags().StringVar(&f.source, "source-type", "pipeline", "what produced the content")
	add.Flags().StringSliceVar(&f.newsIDs, "news", nil, "news item ids the content cites (repeatable or comma separated)")
	_ = add.MarkFlagRequired("title")

	content.AddCommand(add)
	return content
}

func (f contentFlags) content() (domain.Content, error) {
	status := domain.ContentStatus(strings.ToLower(f.status))
	if status != domain.ContentDraft && status != domain.ContentPublished {
		return domain.Content{}, fmt.Errorf("unknown status %q", f.status)
	}

	var body []byte
	switch f.bodyFile {
	case "":
	case "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return domain.Content{}, fmt.Errorf("read body from stdin: %w", err)
		}
		body = b
	default:
		b, err := os.ReadFile(f.bodyFile)
		if err != nil {
			return domain.Content{}, fmt.Errorf("read body: %w", err)
		}
		body = b
	}

	c := domain.Content{
		Type:         domain.ContentType(strings.ToLower(f.kind)),
		Title:        f.title,
		Slug:         f.slug,
		BodyMarkdown: string(body),
		Language:     f.language,
		Status:       status,
		SourceType:   f.source,
	}
	if c.Title == "" {
		return domain.Content{}, errors.New("--title is required")
	}
	return c, nil
}
