package reporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Nomadcxx/seriesrenamer/internal/catalog"
	"github.com/Nomadcxx/seriesrenamer/internal/fetch"
	"github.com/Nomadcxx/seriesrenamer/internal/rename"
)

// Report represents one executed rename batch
type Report struct {
	Timestamp time.Time
	Root      string
	Season    int
	DryRun    bool
	JournalID string
	Outcomes  []rename.Outcome
}

// Counts holds the success/failure tally of a batch
type Counts struct {
	Succeeded int
	Failed    int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d renamed, %d failed", c.Succeeded, c.Failed)
}

// Summary tallies outcomes
func Summary(outcomes []rename.Outcome) Counts {
	var c Counts
	for _, o := range outcomes {
		if o.Success {
			c.Succeeded++
		} else {
			c.Failed++
		}
	}
	return c
}

// FetchStatus describes a fetch result in one line
func FetchStatus(r fetch.Result) string {
	if r.Err == nil {
		return fmt.Sprintf("Fetched %d episodes and %d local files in %s",
			len(r.Episodes), len(r.Files), r.Elapsed.Round(time.Millisecond))
	}
	return "Fetch failed: " + DescribeError(r.Err)
}

// DescribeError turns a fetch-stage error into user-facing text
func DescribeError(err error) string {
	var netErr *catalog.NetworkError
	var apiErr *catalog.APIError
	var decErr *catalog.DecodeError

	switch {
	case errors.Is(err, catalog.ErrNoIdentifier):
		return "the link does not contain an IMDb id (tt...)"
	case errors.Is(err, fetch.ErrWorkerDisconnected):
		return "the fetch worker stopped without a result"
	case errors.As(err, &apiErr):
		if apiErr.Message == "" {
			return fmt.Sprintf("catalog answered HTTP %d", apiErr.Status)
		}
		return fmt.Sprintf("catalog answered HTTP %d: %s", apiErr.Status, apiErr.Message)
	case errors.As(err, &decErr):
		return fmt.Sprintf("unreadable catalog response (%v)", decErr.Err)
	case errors.As(err, &netErr):
		return fmt.Sprintf("network error (%v)", netErr.Err)
	default:
		return err.Error()
	}
}

// Text renders one line per outcome followed by the summary
func Text(outcomes []rename.Outcome) string {
	var sb strings.Builder
	for _, o := range outcomes {
		if o.Success {
			sb.WriteString(fmt.Sprintf("  OK    %s -> %s\n", filepath.Base(o.OldPath), filepath.Base(o.NewPath)))
		} else {
			sb.WriteString(fmt.Sprintf("  FAIL  %s: %s\n", filepath.Base(o.OldPath), o.Error))
		}
	}
	sb.WriteString(Summary(outcomes).String() + "\n")
	return sb.String()
}

// Table renders outcomes as a rounded table
func Table(outcomes []rename.Outcome) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "File", "New name", "Result"})

	for i, o := range outcomes {
		result := "ok"
		newName := filepath.Base(o.NewPath)
		if o.NewPath == "" {
			newName = "-"
		}
		if !o.Success {
			result = o.Error
		}
		tw.AppendRow(table.Row{i + 1, filepath.Base(o.OldPath), newName, result})
	}

	c := Summary(outcomes)
	tw.AppendFooter(table.Row{"", "", "", c.String()})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, WidthMax: 48},
	})

	return tw.Render()
}

// Generate writes a timestamped report file to the default report directory
func Generate(report Report) (string, error) {
	return GenerateIn(DefaultReportDir(), report)
}

// GenerateIn writes a timestamped report file to dir
func GenerateIn(dir string, report Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := report.Timestamp.Format("20060102_150405")
	filename := filepath.Join(dir, timestamp+".txt")

	if err := os.WriteFile(filename, []byte(buildReportContent(report)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return filename, nil
}

// DefaultReportDir returns ~/.local/share/seriesrenamer/reports
func DefaultReportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "seriesrenamer", "reports")
	}
	return filepath.Join(home, ".local/share/seriesrenamer/reports")
}

// buildReportContent generates the report text
func buildReportContent(report Report) string {
	var sb strings.Builder

	sb.WriteString("SERIESRENAMER RENAME REPORT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", report.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Directory: %s\n", report.Root))
	sb.WriteString(fmt.Sprintf("Season: %d\n", report.Season))
	if report.DryRun {
		sb.WriteString("Mode: dry run (nothing was renamed)\n")
	}
	if report.JournalID != "" {
		sb.WriteString(fmt.Sprintf("Journal: %s\n", report.JournalID))
	}
	sb.WriteString("\n")

	c := Summary(report.Outcomes)
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Renamed: %d\n", c.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed: %d\n", c.Failed))
	sb.WriteString("\n")

	if c.Failed > 0 {
		sb.WriteString("FAILURES\n")
		sb.WriteString(strings.Repeat("=", 80) + "\n")
		n := 0
		for _, o := range report.Outcomes {
			if o.Success {
				continue
			}
			n++
			sb.WriteString(fmt.Sprintf("%d. %s\n", n, o.OldPath))
			sb.WriteString(fmt.Sprintf("   Reason: %s\n", o.Error))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("RENAMES\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	for _, o := range report.Outcomes {
		if !o.Success {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s\n  -> %s\n", o.OldPath, o.NewPath))
	}

	return sb.String()
}
