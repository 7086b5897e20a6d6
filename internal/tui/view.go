package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the full UI.
func (m Model) View() string {
	switch m.mode {
	case ModeReport:
		return m.viewReport()
	case ModeHelp:
		return m.viewHelp()
	}

	header := HeaderStyle.Render(fmt.Sprintf("daytrack  %s", m.date))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewTasks(), m.viewEntries())
	status := m.viewStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) viewTasks() string {
	var b strings.Builder
	b.WriteString("Tasks\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(HelpStyle.Render("no tasks yet"))
	}
	for i, t := range m.tasks {
		marker := "  "
		if _, ok := m.running[t.ID]; ok {
			marker = RunningStyle.Render("▶ ")
		}
		w := "  "
		if t.Important {
			w = ImportantStyle.Render("W ")
		}

		line := marker + w + t.Name
		if i == m.taskCursor && m.pane == PaneTasks {
			line = ItemSelectedStyle.Render(line)
		} else {
			line = ItemStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	return SidebarStyle.Render(b.String())
}

func (m Model) viewEntries() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-22s %-10s %-10s %-9s\n", "Task", "Start", "End", "Hours"))
	b.WriteString(strings.Repeat("─", 54) + "\n")

	if len(m.entries) == 0 {
		b.WriteString(HelpStyle.Render("no entries on this day"))
	}

	now := time.Now()
	for i, e := range m.entries {
		name := e.TaskName
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		if e.TaskImportant {
			name = ImportantStyle.Render(name)
		}

		var end, hours string
		if e.Open() {
			// Live elapsed for the running entry; the stored duration
			// stays zero until it is stopped.
			end = RunningStyle.Render("running")
			hours = RunningStyle.Render(formatClock(e.Elapsed(now)))
		} else {
			end = e.End.Format("15:04:05")
			hours = fmt.Sprintf("%.2f", e.DurationH)
		}

		line := fmt.Sprintf("%-22s %-10s %-10s %-9s", name, e.Start.Format("15:04:05"), end, hours)
		if i == m.entryCursor && m.pane == PaneEntries {
			line = ItemSelectedStyle.Render(line)
		} else {
			line = ItemStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	return EntryListStyle.Render(b.String())
}

func (m Model) viewReport() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Report  %s", m.report.Date)) + "\n\n")

	if m.report.TaskCount == 0 {
		b.WriteString(HelpStyle.Render("nothing tracked on this day") + "\n")
	}
	for _, tt := range m.report.PerTask {
		name := tt.TaskName
		if tt.Important {
			name = ImportantStyle.Render("W " + name)
		} else {
			name = "  " + name
		}
		b.WriteString(fmt.Sprintf("%-34s %6.2fh  ×%d\n", name, tt.TotalHours, tt.EntryCount))
	}
	b.WriteString(strings.Repeat("─", 48) + "\n")
	b.WriteString(fmt.Sprintf("  %-32s %6.2fh  (%d tasks)\n", "Total", m.report.TotalHours, m.report.TaskCount))
	b.WriteString("\n" + HelpStyle.Render("esc/r back  ·  q quit"))

	return PanelStyle.Render(b.String())
}

func (m Model) viewHelp() string {
	rows := []string{
		"s/enter  start selected task",
		"x        stop selected task or entry",
		"p        pause all running entries",
		"tab      switch pane",
		"←/→ [ ]  previous / next day",
		"t        jump to today",
		"r        daily report",
		"d        delete selected entry",
		"q        quit",
	}
	return PanelStyle.Render("Keys\n\n" + strings.Join(rows, "\n") + "\n\n" + HelpStyle.Render("esc back"))
}

func (m Model) viewStatusBar() string {
	parts := []string{"s start", "x stop", "p pause", "r report", "? help", "q quit"}
	bar := strings.Join(parts, " · ")

	if n := len(m.running); n > 0 {
		bar = RunningStyle.Render(fmt.Sprintf("▶ %d running", n)) + "  " + bar
	}
	if m.message != "" {
		bar += "  |  " + m.message
	}
	return StatusBarStyle.Render(bar)
}

// formatClock renders an elapsed duration as h:mm:ss.
func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	min := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
}
