// Package report aggregates a day's entries into per-task and grand
// totals for display and spreadsheet export.
package report

import (
	"math"
	"sort"
	"strconv"

	"github.com/mzaikin/daytrack/internal/model"
	"github.com/mzaikin/daytrack/internal/store"
)

// TaskTotal is one task's slice of a daily report.
type TaskTotal struct {
	TaskName   string  `json:"task_name"`
	Important  bool    `json:"important"`
	TotalHours float64 `json:"total_hours"`
	EntryCount int     `json:"entry_count"`
}

// DailyReport summarizes one calendar day.
type DailyReport struct {
	Date       string      `json:"date"`
	PerTask    []TaskTotal `json:"per_task"`
	TotalHours float64     `json:"total_hours"`
	TaskCount  int         `json:"task_count"`
}

// Engine computes reports from store state. It holds nothing of its
// own; every call re-reads the store.
type Engine struct {
	store *store.Store
}

// NewEngine returns a reporting engine over the given store.
func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Daily groups the day's entries by task, summing stored durations and
// counting entries. Groups are ordered important first, then by total
// time descending, then by name; note this differs from the entry
// listing, which orders by name. Open entries contribute their stored
// zero duration and are counted like any other.
func (e *Engine) Daily(dateKey string) (DailyReport, error) {
	rows, err := e.store.ListEntriesForDate(dateKey)
	if err != nil {
		return DailyReport{}, err
	}

	byTask := make(map[int64]*TaskTotal)
	var order []int64
	for _, r := range rows {
		tt, ok := byTask[r.TaskID]
		if !ok {
			tt = &TaskTotal{TaskName: r.TaskName, Important: r.TaskImportant}
			byTask[r.TaskID] = tt
			order = append(order, r.TaskID)
		}
		tt.TotalHours += r.DurationH
		tt.EntryCount++
	}

	rep := DailyReport{Date: dateKey, TaskCount: len(order)}
	for _, id := range order {
		tt := byTask[id]
		tt.TotalHours = round2(tt.TotalHours)
		rep.PerTask = append(rep.PerTask, *tt)
		rep.TotalHours += tt.TotalHours
	}
	rep.TotalHours = round2(rep.TotalHours)

	sort.SliceStable(rep.PerTask, func(i, j int) bool {
		a, b := rep.PerTask[i], rep.PerTask[j]
		if a.Important != b.Important {
			return a.Important
		}
		if a.TotalHours != b.TotalHours {
			return a.TotalHours > b.TotalHours
		}
		return a.TaskName < b.TaskName
	})
	return rep, nil
}

// ActiveSummary returns the currently open entries with their live
// elapsed hours, so a report over a day with a running session shows it
// rather than dropping it.
func (e *Engine) ActiveSummary() ([]model.EntryRow, error) {
	return e.store.ListOpenEntries()
}

// ExportRows shapes a day's report into tabular rows for the export
// sink: a header, one row per task, and a trailing Total row. With
// onlyImportant set, tasks without the W flag are filtered out (the
// grand total then covers only what remains).
func (e *Engine) ExportRows(dateKey string, onlyImportant bool) ([][]string, error) {
	rep, err := e.Daily(dateKey)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"Task", "W", "Hours", "Entries"}}
	var total float64
	var entries int
	for _, tt := range rep.PerTask {
		if onlyImportant && !tt.Important {
			continue
		}
		w := ""
		if tt.Important {
			w = "W"
		}
		rows = append(rows, []string{
			tt.TaskName, w, formatHours(tt.TotalHours), strconv.Itoa(tt.EntryCount),
		})
		total += tt.TotalHours
		entries += tt.EntryCount
	}
	rows = append(rows, []string{"Total", "", formatHours(round2(total)), strconv.Itoa(entries)})
	return rows, nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
