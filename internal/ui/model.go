package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nomadcxx/seriesrenamer/internal/assign"
	"github.com/Nomadcxx/seriesrenamer/internal/fetch"
	"github.com/Nomadcxx/seriesrenamer/internal/match"
	"github.com/Nomadcxx/seriesrenamer/internal/media"
	"github.com/Nomadcxx/seriesrenamer/internal/rename"
	"github.com/Nomadcxx/seriesrenamer/internal/reporter"
)

// PollInterval is how often an in-flight fetch is polled
const PollInterval = 100 * time.Millisecond

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewForm ViewMode = iota
	ViewMatch
	ViewConfirm
	ViewRenaming
	ViewReport
)

const (
	inputLink = iota
	inputDir
	inputSeason
	inputCount
)

type pane int

const (
	paneEpisodes pane = iota
	paneFiles
)

type pollTickMsg struct{}

type renameDoneMsg struct {
	outcomes   []rename.Outcome
	journalID  string
	reportPath string
	reportErr  error
}

// Options wires the model to its collaborators
type Options struct {
	Coordinator *fetch.Coordinator
	DryRun      bool
	JournalDir  string // empty disables the rename journal
	ReportDir   string // empty disables report files
	Log         *slog.Logger

	// Initial form values
	Link   string
	Dir    string
	Season int
}

// Model represents the TUI state. It owns the assignment model and the
// in-flight fetch handle; both are only touched from Update.
type Model struct {
	opts   Options
	log    *slog.Logger
	ctx    context.Context
	coord  *fetch.Coordinator
	assign *assign.Model

	mode   ViewMode
	width  int
	height int
	ready  bool

	inputs  []textinput.Model
	focused int

	spinner  spinner.Model
	fetching bool
	handle   *fetch.Handle
	pending  fetch.Request

	// season and root of the current seeded state
	season int
	root   string

	episodes list.Model
	files    list.Model
	pane     pane

	viewport viewport.Model
	preview  []rename.PlanEntry
	outcomes []rename.Outcome

	status     string
	statusKind statusKind
}

// New creates the TUI model
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 500
		ti.Width = 60
		ti.PromptStyle = lipgloss.NewStyle().Foreground(RAMARed)
		ti.TextStyle = lipgloss.NewStyle().Foreground(RAMAForeground)
		ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(RAMAMuted)
		inputs[i] = ti
	}
	inputs[inputLink].Placeholder = "https://www.imdb.com/title/tt0903747/"
	inputs[inputLink].SetValue(opts.Link)
	inputs[inputDir].Placeholder = "/path/to/season"
	inputs[inputDir].SetValue(opts.Dir)
	inputs[inputSeason].Placeholder = "1"
	inputs[inputSeason].CharLimit = 3
	if opts.Season > 0 {
		inputs[inputSeason].SetValue(strconv.Itoa(opts.Season))
	}
	inputs[inputLink].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(RAMARed)

	return Model{
		opts:     opts,
		log:      log.With("component", "ui"),
		ctx:      context.Background(),
		coord:    opts.Coordinator,
		assign:   assign.New(),
		mode:     ViewForm,
		inputs:   inputs,
		spinner:  sp,
		episodes: newPaneList("EPISODES"),
		files:    newPaneList("UNASSIGNED FILES"),
	}
}

func newPaneList(title string) list.Model {
	l := list.New(nil, newListDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = TitleStyle
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

type episodeItem struct {
	episode media.Episode
	file    media.LocalFile
	linked  bool
}

func (i episodeItem) Title() string {
	return fmt.Sprintf("E%s  %s", rename.EpisodeOrdinal(i.episode.Label), i.episode.Title)
}

func (i episodeItem) Description() string {
	if !i.linked {
		return "(no file)"
	}
	return "← " + i.file.Name()
}

func (i episodeItem) FilterValue() string { return i.episode.Title }

type fileItem struct {
	file media.LocalFile
}

func (i fileItem) Title() string       { return i.file.Name() }
func (i fileItem) Description() string { return filepath.Dir(i.file.Path) }
func (i fileItem) FilterValue() string { return i.file.Name() }

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func pollCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case pollTickMsg:
		return m.poll()

	case spinner.TickMsg:
		if !m.fetching && m.mode != ViewRenaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case renameDoneMsg:
		return m.finishRename(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ViewForm:
			return m.updateForm(msg)
		case ViewMatch:
			return m.updateMatch(msg)
		case ViewConfirm:
			return m.updateConfirm(msg)
		case ViewReport:
			return m.updateReport(msg)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) resize() {
	paneWidth := (m.width - 6) / 2
	if paneWidth < 20 {
		paneWidth = 20
	}
	paneHeight := m.height - 8
	if paneHeight < 6 {
		paneHeight = 6
	}
	m.episodes.SetSize(paneWidth, paneHeight)
	m.files.SetSize(paneWidth, paneHeight)

	if !m.ready {
		m.viewport = viewport.New(m.width, m.height-4)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = m.height - 4
	}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "tab", "down":
		cmd := m.focusInput((m.focused + 1) % inputCount)
		return m, cmd

	case "shift+tab", "up":
		cmd := m.focusInput((m.focused + inputCount - 1) % inputCount)
		return m, cmd

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.inputs[m.focused].Blur()
	m.focused = i
	return m.inputs[i].Focus()
}

// submit starts a fetch. Only one fetch may be in flight at a time.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.fetching {
		m.setStatus(statusWarn, "A fetch is already running")
		return m, nil
	}

	link := strings.TrimSpace(m.inputs[inputLink].Value())
	root := strings.TrimSpace(m.inputs[inputDir].Value())
	season, err := strconv.Atoi(strings.TrimSpace(m.inputs[inputSeason].Value()))
	if err != nil || season <= 0 {
		m.setStatus(statusFail, "Season must be a positive number")
		return m, nil
	}
	if root == "" {
		m.setStatus(statusFail, "Directory cannot be empty")
		return m, nil
	}

	req := fetch.Request{Link: link, Root: root, Season: season}
	h, err := m.coord.Start(m.ctx, req)
	if err != nil {
		m.setStatus(statusFail, reporter.FetchStatus(fetch.Result{Err: err}))
		return m, nil
	}

	m.handle = h
	m.pending = req
	m.fetching = true
	m.setStatus(statusInfo, fmt.Sprintf("Fetching season %d...", season))
	m.log.Debug("fetch submitted", "generation", h.Generation(), "link", link, "root", root, "season", season)

	return m, tea.Batch(m.spinner.Tick, pollCmd())
}

func (m Model) poll() (tea.Model, tea.Cmd) {
	if m.handle == nil {
		return m, nil
	}

	r, ok := m.handle.Poll()
	if !ok {
		return m, pollCmd()
	}

	m.handle = nil
	m.fetching = false

	if !m.coord.IsCurrent(r) {
		m.log.Debug("dropping stale fetch result", "generation", r.Generation)
		return m, nil
	}

	if r.Err != nil {
		m.log.Warn("fetch failed", "error", r.Err)
		m.setStatus(statusFail, reporter.FetchStatus(r))
		return m, nil
	}

	m.season = m.pending.Season
	m.root = m.pending.Root
	m.assign.Seed(r.Episodes, r.Files)
	m.mode = ViewMatch
	m.pane = paneFiles
	m.setStatus(statusOK, reporter.FetchStatus(r))

	cmd := m.refreshLists()
	return m, cmd
}

func (m *Model) refreshLists() tea.Cmd {
	epItems := make([]list.Item, 0, len(m.assign.Episodes()))
	for _, ep := range m.assign.Episodes() {
		f, ok := m.assign.FileFor(ep)
		epItems = append(epItems, episodeItem{episode: ep, file: f, linked: ok})
	}

	unassigned := m.assign.Unassigned()
	fileItems := make([]list.Item, 0, len(unassigned))
	for _, f := range unassigned {
		fileItems = append(fileItems, fileItem{file: f})
	}

	return tea.Batch(m.episodes.SetItems(epItems), m.files.SetItems(fileItems))
}

func (m Model) updateMatch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.mode = ViewForm
		return m, nil

	case "tab":
		if m.pane == paneEpisodes {
			m.pane = paneFiles
		} else {
			m.pane = paneEpisodes
		}
		return m, nil

	case "enter":
		ep, okEp := m.episodes.SelectedItem().(episodeItem)
		f, okFile := m.files.SelectedItem().(fileItem)
		if !okEp || !okFile {
			m.setStatus(statusWarn, "Select an episode and an unassigned file")
			return m, nil
		}
		m.assign.Assign(f.file, ep.episode)
		m.setStatus(statusOK, fmt.Sprintf("%s → E%s", f.file.Name(), rename.EpisodeOrdinal(ep.episode.Label)))
		cmd := m.refreshLists()
		return m, cmd

	case "u":
		ep, ok := m.episodes.SelectedItem().(episodeItem)
		if !ok || !ep.linked {
			return m, nil
		}
		m.assign.Unassign(ep.file)
		m.setStatus(statusInfo, ep.file.Name()+" unassigned")
		cmd := m.refreshLists()
		return m, cmd

	case "a":
		var free []media.Episode
		for _, ep := range m.assign.Episodes() {
			if _, ok := m.assign.FileFor(ep); !ok {
				free = append(free, ep)
			}
		}
		suggestions := match.Suggest(free, m.assign.Unassigned(), m.season)
		for _, s := range suggestions {
			m.assign.Assign(s.File, s.Episode)
		}
		m.setStatus(statusInfo, fmt.Sprintf("Auto-matched %d file(s)", len(suggestions)))
		cmd := m.refreshLists()
		return m, cmd

	case "c":
		if m.assign.Len() == 0 {
			m.setStatus(statusWarn, "Nothing assigned yet")
			return m, nil
		}
		m.preview = rename.Preview(m.assign.Entries(), m.season)
		m.mode = ViewConfirm
		m.viewport.SetContent(m.renderPreview())
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	if m.pane == paneEpisodes {
		m.episodes, cmd = m.episodes.Update(msg)
	} else {
		m.files, cmd = m.files.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.mode = ViewRenaming
		return m, tea.Batch(m.spinner.Tick, m.runRename(m.assign.Entries(), m.season))

	case "n", "esc":
		m.mode = ViewMatch
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// runRename executes the plan off the UI loop and delivers one renameDoneMsg
func (m Model) runRename(entries []media.Assignment, season int) tea.Cmd {
	opts := m.opts
	root := m.root
	log := m.log

	return func() tea.Msg {
		e := &rename.Executor{DryRun: opts.DryRun, Log: log}
		if opts.JournalDir != "" && !opts.DryRun {
			e.Journal = rename.NewJournal(opts.JournalDir, root, season)
		}

		done := renameDoneMsg{outcomes: e.Execute(entries, season)}
		if e.Journal != nil && len(e.Journal.Operations) > 0 {
			done.journalID = e.Journal.ID
		}

		if opts.ReportDir != "" {
			done.reportPath, done.reportErr = reporter.GenerateIn(opts.ReportDir, reporter.Report{
				Timestamp: time.Now(),
				Root:      root,
				Season:    season,
				DryRun:    opts.DryRun,
				JournalID: done.journalID,
				Outcomes:  done.outcomes,
			})
		}
		return done
	}
}

func (m Model) finishRename(msg renameDoneMsg) (tea.Model, tea.Cmd) {
	m.outcomes = msg.outcomes
	m.mode = ViewReport

	var cmd tea.Cmd
	if !m.opts.DryRun {
		m.assign.Clear()
		cmd = m.refreshLists()
	}

	c := reporter.Summary(msg.outcomes)
	if c.Failed > 0 {
		m.setStatus(statusWarn, c.String())
	} else {
		m.setStatus(statusOK, c.String())
	}
	if msg.reportErr != nil {
		m.log.Error("failed to write report", "error", msg.reportErr)
	}

	m.viewport.SetContent(m.renderReport(msg))
	m.viewport.GotoTop()
	return m, cmd
}

func (m Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.mode = ViewForm
		m.outcomes = nil
		m.preview = nil
		m.setStatus(statusNone, "")
		cmd := m.focusInput(inputLink)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Mode returns the current view
func (m Model) Mode() ViewMode {
	return m.mode
}

// Outcomes returns the result of the last rename batch
func (m Model) Outcomes() []rename.Outcome {
	return m.outcomes
}
