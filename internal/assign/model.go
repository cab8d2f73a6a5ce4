package assign

import (
	"fmt"

	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

// Model holds the fetched episodes, the files not yet assigned, and the
// plan mapping episodes to files.
//
// The plan is kept as a dual index so that a file can never sit under two
// episodes. Seed, Assign, Unassign and Clear are the only mutators.
// Every seeded file is in exactly one of unassigned or the plan.
//
// Model is not safe for concurrent use; it belongs to the interactive loop.
type Model struct {
	episodes   []media.Episode
	order      map[media.Episode]int
	unassigned []media.LocalFile
	byEpisode  map[media.Episode]media.LocalFile
	byFile     map[media.LocalFile]media.Episode
}

// New returns an empty model
func New() *Model {
	m := &Model{}
	m.Clear()
	return m
}

// Seed replaces all state. Any unconfirmed plan is discarded and every
// file starts unassigned. Duplicate files are collapsed.
func (m *Model) Seed(episodes []media.Episode, files []media.LocalFile) {
	m.Clear()

	for _, ep := range episodes {
		if _, seen := m.order[ep]; seen {
			continue
		}
		m.order[ep] = len(m.episodes)
		m.episodes = append(m.episodes, ep)
	}

	seen := make(map[media.LocalFile]bool, len(files))
	for _, f := range files {
		if seen[f] {
			continue
		}
		seen[f] = true
		m.unassigned = append(m.unassigned, f)
	}
}

// Clear empties the model
func (m *Model) Clear() {
	m.episodes = nil
	m.order = make(map[media.Episode]int)
	m.unassigned = nil
	m.byEpisode = make(map[media.Episode]media.LocalFile)
	m.byFile = make(map[media.LocalFile]media.Episode)
}

// Assign moves file into the slot for episode.
// If file was already planned under another episode, that episode loses it.
// If episode already held a different file, that file returns to unassigned.
func (m *Model) Assign(file media.LocalFile, episode media.Episode) {
	m.removeUnassigned(file)

	if prev, ok := m.byFile[file]; ok {
		delete(m.byEpisode, prev)
		delete(m.byFile, file)
	}

	if occupant, ok := m.byEpisode[episode]; ok {
		delete(m.byEpisode, episode)
		delete(m.byFile, occupant)
		if occupant != file {
			m.pushUnassigned(occupant)
		}
	}

	m.byEpisode[episode] = file
	m.byFile[file] = episode
}

// Unassign removes file from the plan and returns it to the unassigned
// pool. Calling it on an already unassigned file is a no-op.
func (m *Model) Unassign(file media.LocalFile) {
	if ep, ok := m.byFile[file]; ok {
		delete(m.byEpisode, ep)
		delete(m.byFile, file)
	}
	m.pushUnassigned(file)
}

// ConfirmedPlan returns a snapshot of the plan
func (m *Model) ConfirmedPlan() map[media.Episode]media.LocalFile {
	plan := make(map[media.Episode]media.LocalFile, len(m.byEpisode))
	for ep, f := range m.byEpisode {
		plan[ep] = f
	}
	return plan
}

// Entries returns the plan ordered by the catalog's episode order
func (m *Model) Entries() []media.Assignment {
	entries := make([]media.Assignment, 0, len(m.byEpisode))
	for _, ep := range m.episodes {
		if f, ok := m.byEpisode[ep]; ok {
			entries = append(entries, media.Assignment{Episode: ep, File: f})
		}
	}
	// Episodes assigned without being seeded still belong to the plan
	if len(entries) < len(m.byEpisode) {
		for ep, f := range m.byEpisode {
			if _, seeded := m.order[ep]; !seeded {
				entries = append(entries, media.Assignment{Episode: ep, File: f})
			}
		}
	}
	return entries
}

// Episodes returns the seeded episodes in catalog order
func (m *Model) Episodes() []media.Episode {
	return append([]media.Episode(nil), m.episodes...)
}

// Unassigned returns the files not in the plan
func (m *Model) Unassigned() []media.LocalFile {
	return append([]media.LocalFile(nil), m.unassigned...)
}

// FileFor returns the file planned for episode
func (m *Model) FileFor(episode media.Episode) (media.LocalFile, bool) {
	f, ok := m.byEpisode[episode]
	return f, ok
}

// EpisodeFor returns the episode a file is planned under
func (m *Model) EpisodeFor(file media.LocalFile) (media.Episode, bool) {
	ep, ok := m.byFile[file]
	return ep, ok
}

// Len returns the number of planned entries
func (m *Model) Len() int {
	return len(m.byEpisode)
}

// Check verifies the partition and uniqueness invariants
func (m *Model) Check() error {
	if len(m.byEpisode) != len(m.byFile) {
		return fmt.Errorf("plan index mismatch: %d episodes, %d files", len(m.byEpisode), len(m.byFile))
	}
	for ep, f := range m.byEpisode {
		if back, ok := m.byFile[f]; !ok || back != ep {
			return fmt.Errorf("file %s is not indexed back to episode %q", f.Path, ep.Title)
		}
	}

	seen := make(map[media.LocalFile]bool, len(m.unassigned))
	for _, f := range m.unassigned {
		if seen[f] {
			return fmt.Errorf("file %s is unassigned twice", f.Path)
		}
		seen[f] = true
		if ep, ok := m.byFile[f]; ok {
			return fmt.Errorf("file %s is both unassigned and planned for %q", f.Path, ep.Title)
		}
	}
	return nil
}

func (m *Model) removeUnassigned(file media.LocalFile) {
	for i, f := range m.unassigned {
		if f == file {
			m.unassigned = append(m.unassigned[:i], m.unassigned[i+1:]...)
			return
		}
	}
}

func (m *Model) pushUnassigned(file media.LocalFile) {
	for _, f := range m.unassigned {
		if f == file {
			return
		}
	}
	m.unassigned = append(m.unassigned, file)
}
