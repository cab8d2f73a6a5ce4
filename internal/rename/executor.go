package rename

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

// ErrDestinationExists is recorded when the target name is already taken
var ErrDestinationExists = errors.New("destination already exists")

// renameFunc is swappable so tests can inject filesystem failures
var renameFunc = os.Rename

// Outcome tracks a single rename operation
type Outcome struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Executor applies a confirmed plan to the filesystem.
// Failures are isolated per entry and never abort the batch.
type Executor struct {
	DryRun  bool
	Journal *Journal // optional; records every attempted rename
	Log     *slog.Logger
}

// Execute renames every file in entries within its own directory using the
// names from PlanName. One outcome is returned per entry, in entry order.
// Failed entries are not retried.
func Execute(entries []media.Assignment, season int) []Outcome {
	return (&Executor{}).Execute(entries, season)
}

// Execute renames every entry; see the package-level Execute
func (e *Executor) Execute(entries []media.Assignment, season int) []Outcome {
	log := e.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("component", "rename")

	outcomes := make([]Outcome, 0, len(entries))
	for _, entry := range Preview(entries, season) {
		oldPath := entry.File.Path

		if entry.Err != nil {
			reason := entry.Err.Error()
			if errors.Is(entry.Err, ErrMissingExtension) {
				reason = ErrMissingExtension.Error()
			}
			log.Warn("cannot plan rename", "path", oldPath, "reason", reason)
			outcomes = append(outcomes, Outcome{OldPath: oldPath, Error: reason})
			continue
		}

		newPath := entry.TargetPath()
		outcome := Outcome{OldPath: oldPath, NewPath: newPath}

		if err := e.renameOne(oldPath, newPath); err != nil {
			outcome.Error = err.Error()
			log.Warn("rename failed", "from", oldPath, "to", newPath, "error", err)
		} else {
			outcome.Success = true
			log.Info("renamed", "from", oldPath, "to", newPath, "dry_run", e.DryRun)
		}

		if e.Journal != nil && !e.DryRun {
			e.Journal.Record(outcome)
		}
		outcomes = append(outcomes, outcome)
	}

	if e.Journal != nil && !e.DryRun && len(e.Journal.Operations) > 0 {
		e.Journal.Status = "completed"
		if err := e.Journal.Save(); err != nil {
			log.Error("failed to save rename journal", "error", err)
		} else {
			log.Info("rename journal saved", "id", e.Journal.ID, "path", e.Journal.Path())
		}
	}

	return outcomes
}

func (e *Executor) renameOne(oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}

	srcInfo, err := os.Lstat(oldPath)
	if err != nil {
		return err
	}

	// A case-only change on a case-insensitive filesystem finds the source itself
	if dstInfo, err := os.Lstat(newPath); err == nil {
		if !os.SameFile(srcInfo, dstInfo) {
			return fmt.Errorf("%s: %w", filepath.Base(newPath), ErrDestinationExists)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if e.DryRun {
		return nil
	}
	return renameFunc(oldPath, newPath)
}
