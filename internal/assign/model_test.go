package assign

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

func fixtures(nEpisodes, nFiles int) ([]media.Episode, []media.LocalFile) {
	episodes := make([]media.Episode, nEpisodes)
	for i := range episodes {
		episodes[i] = media.Episode{
			Title:      fmt.Sprintf("Episode %d", i+1),
			Label:      fmt.Sprintf("%d", i+1),
			ExternalID: fmt.Sprintf("tt%04d", i+1),
		}
	}
	files := make([]media.LocalFile, nFiles)
	for i := range files {
		files[i] = media.LocalFile{Path: fmt.Sprintf("/show/file%02d.mkv", i)}
	}
	return episodes, files
}

// partitionHolds asserts every seeded file appears exactly once across
// unassigned and the plan.
func partitionHolds(t *testing.T, m *Model, files []media.LocalFile) {
	t.Helper()
	require.NoError(t, m.Check())

	count := make(map[media.LocalFile]int)
	for _, f := range m.Unassigned() {
		count[f]++
	}
	for _, f := range m.ConfirmedPlan() {
		count[f]++
	}
	for _, f := range files {
		assert.Equal(t, 1, count[f], "file %s", f.Path)
	}
	assert.Len(t, count, len(files))
}

func TestSeed(t *testing.T) {
	episodes, files := fixtures(3, 2)
	m := New()
	m.Seed(episodes, files)

	assert.Equal(t, episodes, m.Episodes())
	assert.Equal(t, files, m.Unassigned())
	assert.Equal(t, 0, m.Len())

	// Reseeding discards the previous plan wholesale
	m.Assign(files[0], episodes[0])
	m.Seed(episodes[:1], files[1:])
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, files[1:], m.Unassigned())
	assert.Equal(t, episodes[:1], m.Episodes())
}

func TestSeed_CollapsesDuplicateFiles(t *testing.T) {
	episodes, files := fixtures(1, 1)
	m := New()
	m.Seed(episodes, []media.LocalFile{files[0], files[0]})
	assert.Equal(t, files, m.Unassigned())
}

func TestAssign(t *testing.T) {
	episodes, files := fixtures(2, 2)
	m := New()
	m.Seed(episodes, files)

	m.Assign(files[0], episodes[0])

	f, ok := m.FileFor(episodes[0])
	require.True(t, ok)
	assert.Equal(t, files[0], f)
	assert.Equal(t, []media.LocalFile{files[1]}, m.Unassigned())
	partitionHolds(t, m, files)
}

func TestAssign_MovesFileBetweenEpisodes(t *testing.T) {
	episodes, files := fixtures(2, 1)
	m := New()
	m.Seed(episodes, files)

	m.Assign(files[0], episodes[0])
	m.Assign(files[0], episodes[1])

	f, ok := m.FileFor(episodes[1])
	require.True(t, ok)
	assert.Equal(t, files[0], f)

	_, ok = m.FileFor(episodes[0])
	assert.False(t, ok, "old episode must no longer point at the file")
	assert.Empty(t, m.Unassigned())
	partitionHolds(t, m, files)
}

func TestAssign_BumpsOccupantToUnassigned(t *testing.T) {
	episodes, files := fixtures(1, 2)
	m := New()
	m.Seed(episodes, files)

	m.Assign(files[0], episodes[0])
	m.Assign(files[1], episodes[0])

	f, _ := m.FileFor(episodes[0])
	assert.Equal(t, files[1], f)
	assert.Equal(t, []media.LocalFile{files[0]}, m.Unassigned())
	partitionHolds(t, m, files)
}

func TestAssign_SameSlotTwice(t *testing.T) {
	episodes, files := fixtures(1, 1)
	m := New()
	m.Seed(episodes, files)

	m.Assign(files[0], episodes[0])
	m.Assign(files[0], episodes[0])

	assert.Equal(t, 1, m.Len())
	assert.Empty(t, m.Unassigned())
	partitionHolds(t, m, files)
}

func TestUnassign_Idempotent(t *testing.T) {
	episodes, files := fixtures(2, 2)
	m := New()
	m.Seed(episodes, files)
	m.Assign(files[0], episodes[0])
	m.Assign(files[1], episodes[1])

	m.Unassign(files[0])
	once := snapshot(m)
	m.Unassign(files[0])
	twice := snapshot(m)

	assert.Equal(t, once, twice)
	_, ok := m.EpisodeFor(files[0])
	assert.False(t, ok)
	partitionHolds(t, m, files)
}

func TestEntries_FollowEpisodeOrder(t *testing.T) {
	episodes, files := fixtures(3, 3)
	m := New()
	m.Seed(episodes, files)

	m.Assign(files[0], episodes[2])
	m.Assign(files[1], episodes[0])

	assert.Equal(t, []media.Assignment{
		{Episode: episodes[0], File: files[1]},
		{Episode: episodes[2], File: files[0]},
	}, m.Entries())
}

func TestConfirmedPlanIsACopy(t *testing.T) {
	episodes, files := fixtures(1, 1)
	m := New()
	m.Seed(episodes, files)
	m.Assign(files[0], episodes[0])

	plan := m.ConfirmedPlan()
	delete(plan, episodes[0])
	assert.Equal(t, 1, m.Len())
}

type state struct {
	Unassigned []media.LocalFile
	Plan       map[media.Episode]media.LocalFile
}

func snapshot(m *Model) state {
	return state{Unassigned: m.Unassigned(), Plan: m.ConfirmedPlan()}
}

// Random sequences of operations never break the partition or put one
// file under two episodes.
func TestInvariants_RandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(20261016))

	for run := 0; run < 200; run++ {
		episodes, files := fixtures(1+rng.Intn(6), 1+rng.Intn(6))
		m := New()
		m.Seed(episodes, files)

		for step := 0; step < 50; step++ {
			f := files[rng.Intn(len(files))]
			if rng.Intn(3) == 0 {
				m.Unassign(f)
			} else {
				m.Assign(f, episodes[rng.Intn(len(episodes))])
			}

			if err := m.Check(); err != nil {
				t.Fatalf("run %d step %d: %v", run, step, err)
			}
		}
		partitionHolds(t, m, files)

		seen := make(map[media.LocalFile]media.Episode)
		for ep, f := range m.ConfirmedPlan() {
			if other, dup := seen[f]; dup {
				t.Fatalf("run %d: file %s under %q and %q", run, f.Path, other.Title, ep.Title)
			}
			seen[f] = ep
		}
	}
}
