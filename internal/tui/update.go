package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mzaikin/daytrack/internal/logger"
)

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Periodic read-only refresh; re-derives everything from the
		// store, so it interleaves freely with command-path writes.
		m.loadData()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal {
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Report), key.Matches(msg, keys.Help):
			m.mode = ModeNormal
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneTasks {
			m.pane = PaneEntries
		} else {
			m.pane = PaneTasks
		}

	case key.Matches(msg, keys.Up):
		if m.pane == PaneTasks && m.taskCursor > 0 {
			m.taskCursor--
		} else if m.pane == PaneEntries && m.entryCursor > 0 {
			m.entryCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.pane == PaneTasks && m.taskCursor < len(m.tasks)-1 {
			m.taskCursor++
		} else if m.pane == PaneEntries && m.entryCursor < len(m.entries)-1 {
			m.entryCursor++
		}

	case key.Matches(msg, keys.Start):
		m.startSelected()

	case key.Matches(msg, keys.Stop):
		m.stopSelected()

	case key.Matches(msg, keys.Pause):
		stopped, err := m.sessions.PauseAll()
		if err != nil {
			m.message = err.Error()
		} else if stopped == 0 {
			m.message = "nothing was running"
		} else {
			m.message = fmt.Sprintf("paused %d", stopped)
		}
		m.loadData()

	case key.Matches(msg, keys.PrevDay):
		m.shiftDay(-1)
		m.entryCursor = 0
		m.loadData()

	case key.Matches(msg, keys.NextDay):
		m.shiftDay(1)
		m.entryCursor = 0
		m.loadData()

	case key.Matches(msg, keys.Today):
		m.setToday()

	case key.Matches(msg, keys.Report):
		m.mode = ModeReport
		m.report, _ = m.reports.Daily(m.date)

	case key.Matches(msg, keys.Delete):
		m.deleteSelected()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) startSelected() {
	task := m.currentTask()
	if task == nil {
		m.message = "no task selected"
		return
	}
	out, err := m.sessions.Start(task.ID)
	if err != nil {
		logger.Error("Start failed", logger.F("task", task.ID), logger.F("error", err))
		m.message = err.Error()
		return
	}
	if out.AlreadyActive {
		m.message = fmt.Sprintf("%s already running", task.Name)
	} else if out.Stopped > 0 {
		m.message = fmt.Sprintf("switched to %s", task.Name)
	} else {
		m.message = fmt.Sprintf("started %s", task.Name)
	}
	m.loadData()
}

func (m *Model) stopSelected() {
	var err error
	switch m.pane {
	case PaneTasks:
		task := m.currentTask()
		if task == nil {
			return
		}
		err = m.sessions.Stop(task.ID)
	case PaneEntries:
		e := m.currentEntry()
		if e == nil {
			return
		}
		if !e.Open() {
			m.message = "entry already closed"
			return
		}
		err = m.sessions.StopEntry(e.ID)
	}
	if err != nil {
		m.message = err.Error()
	} else {
		m.message = "stopped"
	}
	m.loadData()
}

func (m *Model) deleteSelected() {
	if m.pane != PaneEntries {
		m.message = "select an entry to delete"
		return
	}
	e := m.currentEntry()
	if e == nil {
		return
	}
	if err := m.store.DeleteEntry(e.ID); err != nil {
		m.message = err.Error()
		return
	}
	m.message = fmt.Sprintf("deleted entry %d", e.ID)
	m.loadData()
}
