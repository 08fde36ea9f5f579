// Package cli defines the newscollector command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"NewsCollector/internal/app"
	"NewsCollector/internal/config"
	"NewsCollector/internal/logging"
)

type rootOptions struct {
	configPath string
	envFile    string
	verbose    bool
	noColor    bool
}

// state is resolved once per invocation in PersistentPreRunE.
type state struct {
	opts   rootOptions
	out    io.Writer
	errOut io.Writer
	cfg    config.Config
	logger *slog.Logger
	app    *app.Application
}

// NewRootCommand builds the command tree writing tables to out and logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	st := &state{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "newscollector",
		Short: "Collect, deduplicate, score and classify AI news",
		Long: `newscollector pulls AI news from feeds, social platforms and code hosts,
merges duplicates, scores what is left and stores it. A classification pass
then labels the freshest items and writes them out for content generation.

Example usage:
  newscollector ingest              # collect and store one window
  newscollector classify --top 10   # label unclassified items, show the best
  newscollector run                 # ingest then classify
  newscollector schedule            # run every scheduler.interval until interrupted`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.init()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&st.opts.configPath, "config", "", "YAML config file (default $NEWSCOLLECTOR_CONFIG)")
	flags.StringVar(&st.opts.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	flags.BoolVarP(&st.opts.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&st.opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newIngestCommand(st),
		newClassifyCommand(st),
		newRunCommand(st),
		newScheduleCommand(st),
		newContentCommand(st),
	)
	return root
}

func (s *state) init() error {
	if s.opts.envFile != "" {
		if err := godotenv.Load(s.opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", s.opts.envFile, err)
		}
	}

	cfg, err := config.Load(s.opts.configPath)
	if err != nil {
		return err
	}
	if s.opts.verbose {
		cfg.Logging.Level = "debug"
	}
	s.cfg = cfg
	s.logger = logging.NewWithWriter(s.errOut, cfg.Logging.Level, cfg.Logging.Format)
	return s.rebuild()
}

// rebuild recreates the application after flags changed the config.
func (s *state) rebuild() error {
	application, err := app.New(s.cfg, s.logger, app.Options{
		Out:      s.out,
		Colorize: !s.opts.noColor && !color.NoColor,
	})
	if err != nil {
		return err
	}
	s.app = application
	return nil
}

// Execute runs the command tree against ctx.
func Execute(ctx context.Context, out, errOut io.Writer, args []string) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
