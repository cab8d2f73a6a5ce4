package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/seriesrenamer/internal/assign"
	"github.com/Nomadcxx/seriesrenamer/internal/config"
	"github.com/Nomadcxx/seriesrenamer/internal/fetch"
	"github.com/Nomadcxx/seriesrenamer/internal/match"
	"github.com/Nomadcxx/seriesrenamer/internal/rename"
	"github.com/Nomadcxx/seriesrenamer/internal/reporter"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var (
		link       string
		dir        string
		season     int
		dryRun     bool
		videosOnly bool
		report     bool
	)

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Fetch a season, auto-match files and rename them without the TUI",
		Long: `Fetch the episode list for a season, match local files to episodes by
episode marker or title similarity, and rename the matched files.
Files that cannot be matched are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if season < 1 {
				return fmt.Errorf("season must be a positive number, got %d", season)
			}

			log, closer, err := ctx.logger(cfg, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer closer.Close()

			dryRun = dryRun || cfg.Rename.DryRun
			videosOnly = videosOnly || cfg.Rename.VideosOnly

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			coord := newCoordinator(cfg, log, videosOnly)
			handle, err := coord.Start(runCtx, fetch.Request{Link: link, Root: dir, Season: season})
			if err != nil {
				return errors.New(reporter.DescribeError(err))
			}
			result, err := handle.Wait(runCtx)
			if err != nil {
				return err
			}
			if result.Err != nil {
				return errors.New(reporter.FetchStatus(result))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, reporter.FetchStatus(result))

			model := assign.New()
			model.Seed(result.Episodes, result.Files)
			for _, s := range match.Suggest(result.Episodes, result.Files, season) {
				model.Assign(s.File, s.Episode)
			}
			if model.Len() == 0 {
				fmt.Fprintln(out, "No files matched any episode; nothing to rename")
				return nil
			}

			exec := &rename.Executor{DryRun: dryRun, Log: log}
			if !dryRun {
				journalDir, err := ctx.journalDir(cfg)
				if err != nil {
					return err
				}
				if journalDir != "" {
					exec.Journal = rename.NewJournal(journalDir, dir, season)
				}
			}

			outcomes := exec.Execute(model.Entries(), season)
			fmt.Fprintln(out, reporter.Table(outcomes))

			if dryRun {
				fmt.Fprintln(out, "Dry run: no files were changed")
			}
			journalID := ""
			if exec.Journal != nil && len(exec.Journal.Operations) > 0 {
				journalID = exec.Journal.ID
				fmt.Fprintf(out, "Undo with: seriesrenamer undo %s\n", journalID)
			}
			if left := len(model.Unassigned()); left > 0 {
				fmt.Fprintf(out, "%d unmatched file(s) left untouched\n", left)
			}

			if report {
				path, err := reporter.Generate(reporter.Report{
					Timestamp: time.Now(),
					Root:      dir,
					Season:    season,
					DryRun:    dryRun,
					JournalID: journalID,
					Outcomes:  outcomes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Report saved to %s\n", path)
			}

			if counts := reporter.Summary(outcomes); counts.Failed > 0 {
				return fmt.Errorf("%d rename(s) failed", counts.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&link, "link", "l", "", "IMDb link or id of the series")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory holding the episode files")
	cmd.Flags().IntVarP(&season, "season", "s", 1, "season number")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the renames without touching any file")
	cmd.Flags().BoolVar(&videosOnly, "videos-only", false, "only consider video files")
	cmd.Flags().BoolVar(&report, "report", false, "write a report file")
	_ = cmd.MarkFlagRequired("link")

	return cmd
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <journal-id>",
		Short: "Revert a previous rename batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := rename.DefaultJournalDir()
			if err != nil {
				return err
			}
			j, err := rename.LoadJournal(dir, args[0])
			if err != nil {
				return err
			}

			outcomes, err := rename.Undo(j)
			fmt.Fprintln(cmd.OutOrStdout(), reporter.Table(outcomes))
			if err != nil {
				return err
			}
			if counts := reporter.Summary(outcomes); counts.Failed > 0 {
				return fmt.Errorf("%d file(s) could not be restored", counts.Failed)
			}
			return nil
		},
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded rename batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := rename.DefaultJournalDir()
			if err != nil {
				return err
			}
			journals, err := rename.ListJournals(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(journals) == 0 {
				fmt.Fprintln(out, "No rename history")
				return nil
			}

			rows := make([][]string, 0, len(journals))
			for _, j := range journals {
				rows = append(rows, []string{
					j.ID,
					j.CreatedAt.Format("2006-01-02 15:04"),
					fmt.Sprintf("%d", j.Season),
					fmt.Sprintf("%d", j.Succeeded()),
					j.Status,
					j.Root,
				})
			}
			fmt.Fprint(out, renderTable([]string{"ID", "When", "Season", "Renamed", "Status", "Directory"}, rows))
			return nil
		},
	}
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}

			path := ctx.configFlag
			if path == "" {
				if path, err = config.ConfigPath(); err != nil {
					return err
				}
			}

			rows := [][]string{
				{"catalog.api_key", maskKey(cfg.Catalog.APIKey)},
				{"catalog.base_url", cfg.Catalog.BaseURL},
				{"catalog.timeout_seconds", fmt.Sprintf("%d", cfg.Catalog.TimeoutSeconds)},
				{"rename.dry_run", fmt.Sprintf("%t", cfg.Rename.DryRun)},
				{"rename.journal", fmt.Sprintf("%t", cfg.Rename.Journal)},
				{"rename.videos_only", fmt.Sprintf("%t", cfg.Rename.VideosOnly)},
				{"log.level", cfg.Log.Level},
				{"log.file", cfg.Log.File},
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n", path)
			fmt.Fprint(out, renderTable([]string{"Key", "Value"}, rows))
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
			}
			return nil
		},
	}
}

func maskKey(key string) string {
	if key == "" || key == config.PlaceholderAPIKey {
		return key
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		tw.AppendRow(r)
	}
	return tw.Render() + "\n"
}

