package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/seriesrenamer/internal/catalog"
	"github.com/Nomadcxx/seriesrenamer/internal/config"
	"github.com/Nomadcxx/seriesrenamer/internal/fetch"
	"github.com/Nomadcxx/seriesrenamer/internal/logging"
	"github.com/Nomadcxx/seriesrenamer/internal/rename"
	"github.com/Nomadcxx/seriesrenamer/internal/reporter"
	"github.com/Nomadcxx/seriesrenamer/internal/scanner"
	"github.com/Nomadcxx/seriesrenamer/internal/ui"
)

var errNotTerminal = errors.New("interactive mode needs a terminal; use 'seriesrenamer rename' instead")

// commandContext carries the flags and lazily loaded state shared by subcommands
type commandContext struct {
	configFlag   string
	logLevelFlag string

	cfg *config.Config
}

func (c *commandContext) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if c.configFlag != "" {
		cfg, err = config.LoadFrom(c.configFlag)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if c.logLevelFlag != "" {
		cfg.Log.Level = c.logLevelFlag
	}
	c.cfg = cfg
	return cfg, nil
}

// logger builds the logger for a command. The TUI owns the terminal, so it logs to a file.
func (c *commandContext) logger(cfg *config.Config, stderr io.Writer, toFile bool) (*slog.Logger, io.Closer, error) {
	opts := logging.Options{Level: cfg.Log.Level, Output: stderr}
	if toFile {
		opts.Path = cfg.Log.File
		if opts.Path == "" {
			path, err := logging.DefaultLogPath()
			if err != nil {
				return nil, nil, err
			}
			opts.Path = path
		}
	}
	return logging.New(opts)
}

func (c *commandContext) journalDir(cfg *config.Config) (string, error) {
	if !cfg.Rename.Journal {
		return "", nil
	}
	return rename.DefaultJournalDir()
}

func newCoordinator(cfg *config.Config, log *slog.Logger, videosOnly bool) *fetch.Coordinator {
	opts := append(cfg.CatalogOptions(), catalog.WithLogger(log))
	client := catalog.NewClient(cfg.Catalog.APIKey, opts...)

	scan := scanner.Scan
	if videosOnly {
		scan = scanner.ScanVideos
	}
	return fetch.New(client, scan, log)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "seriesrenamer",
		Short:         "Rename a season of episode files from its IMDb listing",
		Long:          getLongDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.configFlag, "config", "", "config file (default is $HOME/.config/seriesrenamer/config.toml)")
	rootCmd.PersistentFlags().StringVar(&ctx.logLevelFlag, "log-level", "", "log level: quiet, normal, verbose")

	rootCmd.AddCommand(newTUICommand(ctx))
	rootCmd.AddCommand(newRenameCommand(ctx))
	rootCmd.AddCommand(newUndoCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newTUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive matcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, ctx)
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runTUI(cmd *cobra.Command, ctx *commandContext) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return errNotTerminal
	}

	cfg, err := ctx.config()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := ctx.logger(cfg, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer closer.Close()

	journalDir, err := ctx.journalDir(cfg)
	if err != nil {
		return err
	}

	model := ui.New(ui.Options{
		Coordinator: newCoordinator(cfg, log, cfg.Rename.VideosOnly),
		DryRun:      cfg.Rename.DryRun,
		JournalDir:  journalDir,
		ReportDir:   reporter.DefaultReportDir(),
		Log:         log,
	})

	log.Info("starting interactive session", "version", version)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seriesrenamer %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", buildTime)
		},
	}
}

func getLongDescription() string {
	return ui.FormatASCIIHeader(0) + "\n\n" +
		"seriesrenamer fetches a season's episode list from OMDb, lets you match it\n" +
		"against the files in a directory, and renames them to 'SxxEyy - Title.ext'."
}
