// Package tui is the interactive day view: a table of the selected
// day's entries with live elapsed time, refreshed once a second. It is
// purely a presentation layer over the store, session controller and
// reporting engine.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mzaikin/daytrack/internal/logger"
	"github.com/mzaikin/daytrack/internal/model"
	"github.com/mzaikin/daytrack/internal/report"
	"github.com/mzaikin/daytrack/internal/session"
	"github.com/mzaikin/daytrack/internal/store"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneTasks Pane = iota
	PaneEntries
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeReport
	ModeHelp
)

// tickMsg drives the once-per-second refresh.
type tickMsg time.Time

// Model is the main TUI model
type Model struct {
	store    *store.Store
	sessions *session.Controller
	reports  *report.Engine

	date    string // selected day (date key)
	tasks   []model.Task
	entries []model.EntryRow
	running map[int64]int64 // taskID -> open entryID
	report  report.DailyReport

	// UI state
	width       int
	height      int
	pane        Pane
	mode        Mode
	taskCursor  int
	entryCursor int

	message string
}

// NewModel creates a new TUI model showing today.
func NewModel(st *store.Store, ctrl *session.Controller, eng *report.Engine) Model {
	logger.Info("Initializing TUI model")

	m := Model{
		store:    st,
		sessions: ctrl,
		reports:  eng,
		date:     model.DateKeyOf(time.Now()),
		running:  make(map[int64]int64),
	}
	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("tasks", len(m.tasks)),
		logger.F("entries", len(m.entries)))
	return m
}

// Init schedules the first refresh tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadData re-reads everything from the store. Called on every tick and
// after every mutation; the UI never holds store state across a write.
func (m *Model) loadData() {
	var err error
	m.tasks, err = m.store.ListTasks()
	if err != nil {
		logger.Error("Failed to list tasks", logger.F("error", err))
	}
	m.entries, err = m.store.ListEntriesForDate(m.date)
	if err != nil {
		logger.Error("Failed to list entries", logger.F("error", err))
	}

	open, err := m.sessions.ActiveEntries()
	if err != nil {
		logger.Error("Failed to list open entries", logger.F("error", err))
	}
	m.running = make(map[int64]int64, len(open))
	for _, e := range open {
		m.running[e.TaskID] = e.ID
	}

	if m.mode == ModeReport {
		m.report, _ = m.reports.Daily(m.date)
	}

	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = max(0, len(m.tasks)-1)
	}
	if m.entryCursor >= len(m.entries) {
		m.entryCursor = max(0, len(m.entries)-1)
	}
}

func (m *Model) currentTask() *model.Task {
	if m.taskCursor < len(m.tasks) {
		return &m.tasks[m.taskCursor]
	}
	return nil
}

func (m *Model) currentEntry() *model.EntryRow {
	if m.entryCursor < len(m.entries) {
		return &m.entries[m.entryCursor]
	}
	return nil
}

// setToday jumps the view back to the current day.
func (m *Model) setToday() {
	m.date = model.DateKeyOf(time.Now())
	m.entryCursor = 0
	m.loadData()
}

// shiftDay moves the selected day by delta days.
func (m *Model) shiftDay(delta int) {
	t, err := time.ParseInLocation(model.DateLayout, m.date, time.Local)
	if err != nil {
		t = time.Now()
	}
	m.date = model.DateKeyOf(t.AddDate(0, 0, delta))
}
