package rename

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Journal records the renames of one executed batch so it can be undone
type Journal struct {
	ID         string      `json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	Root       string      `json:"root"`
	Season     int         `json:"season"`
	Operations []Operation `json:"operations"`
	Status     string      `json:"status"`

	dir string
}

// Operation is one recorded filesystem change
type Operation struct {
	Type      string    `json:"type"`
	OldPath   string    `json:"old_path"`
	NewPath   string    `json:"new_path,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// DefaultJournalDir returns ~/.local/share/seriesrenamer/journal
func DefaultJournalDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "seriesrenamer", "journal"), nil
}

// NewJournal starts an in-progress journal stored under dir
func NewJournal(dir, root string, season int) *Journal {
	return &Journal{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		Root:       root,
		Season:     season,
		Operations: []Operation{},
		Status:     "in_progress",
		dir:        dir,
	}
}

// Path returns the journal file location
func (j *Journal) Path() string {
	return filepath.Join(j.dir, j.ID+".json")
}

// Record appends the outcome of one rename
func (j *Journal) Record(o Outcome) {
	j.Operations = append(j.Operations, Operation{
		Type:      "rename",
		OldPath:   o.OldPath,
		NewPath:   o.NewPath,
		Timestamp: time.Now(),
		Success:   o.Success,
		Error:     o.Error,
	})
}

// Succeeded counts the successful operations
func (j *Journal) Succeeded() int {
	n := 0
	for _, op := range j.Operations {
		if op.Success {
			n++
		}
	}
	return n
}

// Save writes the journal as JSON
func (j *Journal) Save() error {
	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	if err := os.WriteFile(j.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}

	return nil
}

// LoadJournal reads the journal with the given id from dir
func LoadJournal(dir, id string) (*Journal, error) {
	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to parse journal: %w", err)
	}
	j.dir = dir

	return &j, nil
}

// ListJournals returns every journal in dir, newest first
func ListJournals(dir string) ([]*Journal, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var journals []*Journal
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		j, err := LoadJournal(dir, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		journals = append(journals, j)
	}

	sort.Slice(journals, func(a, b int) bool {
		return journals[a].CreatedAt.After(journals[b].CreatedAt)
	})

	return journals, nil
}

// Undo reverses the successful renames of j, newest first. Each reversal is
// isolated like a forward rename. The journal is marked reverted and saved.
func Undo(j *Journal) ([]Outcome, error) {
	if j.Status == "reverted" {
		return nil, fmt.Errorf("journal %s was already reverted", j.ID)
	}

	var outcomes []Outcome
	e := &Executor{}
	for i := len(j.Operations) - 1; i >= 0; i-- {
		op := j.Operations[i]
		if op.Type != "rename" || !op.Success {
			continue
		}

		outcome := Outcome{OldPath: op.NewPath, NewPath: op.OldPath}
		if err := e.renameOne(op.NewPath, op.OldPath); err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Success = true
		}
		outcomes = append(outcomes, outcome)
	}

	j.Status = "reverted"
	if err := j.Save(); err != nil {
		return outcomes, err
	}

	return outcomes, nil
}
