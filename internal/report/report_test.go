package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mzaikin/daytrack/internal/model"
	"github.com/mzaikin/daytrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2026-08-27"

func newFixture(t *testing.T) (*store.Store, *Engine) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, NewEngine(st)
}

func track(t *testing.T, st *store.Store, taskID int64, start, end string) {
	t.Helper()
	startTS, err := time.ParseInLocation(model.TimeLayout, start, time.Local)
	require.NoError(t, err)
	endTS, err := time.ParseInLocation(model.TimeLayout, end, time.Local)
	require.NoError(t, err)

	id, err := st.StartEntry(taskID, startTS)
	require.NoError(t, err)
	require.NoError(t, st.StopEntry(id, endTS))
}

func TestDaily_Aggregation(t *testing.T) {
	st, eng := newFixture(t)

	x, err := st.AddTask("task x", "", false)
	require.NoError(t, err)
	y, err := st.AddTask("task y", "", false)
	require.NoError(t, err)

	track(t, st, x, day+"T09:00:00", day+"T10:00:00") // 1.0h
	track(t, st, x, day+"T11:00:00", day+"T12:30:00") // 1.5h
	track(t, st, y, day+"T13:00:00", day+"T13:30:00") // 0.5h

	rep, err := eng.Daily(day)
	require.NoError(t, err)

	assert.Equal(t, day, rep.Date)
	assert.Equal(t, 2, rep.TaskCount)
	assert.Equal(t, 3.0, rep.TotalHours)

	require.Len(t, rep.PerTask, 2)
	// Ordered by total time descending, not by name.
	assert.Equal(t, "task x", rep.PerTask[0].TaskName)
	assert.Equal(t, 2.5, rep.PerTask[0].TotalHours)
	assert.Equal(t, 2, rep.PerTask[0].EntryCount)
	assert.Equal(t, "task y", rep.PerTask[1].TaskName)
	assert.Equal(t, 0.5, rep.PerTask[1].TotalHours)
}

func TestDaily_ImportantTasksSortFirst(t *testing.T) {
	st, eng := newFixture(t)

	big, err := st.AddTask("long but ordinary", "", false)
	require.NoError(t, err)
	small, err := st.AddTask("short but important", "", true)
	require.NoError(t, err)

	track(t, st, big, day+"T09:00:00", day+"T17:00:00")   // 8.0h
	track(t, st, small, day+"T17:00:00", day+"T17:30:00") // 0.5h

	rep, err := eng.Daily(day)
	require.NoError(t, err)
	require.Len(t, rep.PerTask, 2)
	assert.Equal(t, "short but important", rep.PerTask[0].TaskName)
}

func TestDaily_EmptyDay(t *testing.T) {
	_, eng := newFixture(t)

	rep, err := eng.Daily(day)
	require.NoError(t, err)
	assert.Zero(t, rep.TaskCount)
	assert.Zero(t, rep.TotalHours)
	assert.Empty(t, rep.PerTask)
}

func TestDaily_OpenEntryDoesNotInflateTotals(t *testing.T) {
	st, eng := newFixture(t)

	id, err := st.AddTask("running", "", false)
	require.NoError(t, err)
	track(t, st, id, day+"T09:00:00", day+"T10:00:00")

	start, err := time.ParseInLocation(model.TimeLayout, day+"T11:00:00", time.Local)
	require.NoError(t, err)
	_, err = st.StartEntry(id, start)
	require.NoError(t, err)

	rep, err := eng.Daily(day)
	require.NoError(t, err)

	// The open entry is counted but contributes its stored zero hours.
	require.Len(t, rep.PerTask, 1)
	assert.Equal(t, 2, rep.PerTask[0].EntryCount)
	assert.Equal(t, 1.0, rep.TotalHours)

	active, err := eng.ActiveSummary()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "running", active[0].TaskName)
}

func TestExportRows(t *testing.T) {
	st, eng := newFixture(t)

	w, err := st.AddTask("flagged", "", true)
	require.NoError(t, err)
	plain, err := st.AddTask("plain", "", false)
	require.NoError(t, err)

	track(t, st, w, day+"T09:00:00", day+"T10:30:00")    // 1.5h
	track(t, st, plain, day+"T11:00:00", day+"T12:00:00") // 1.0h

	rows, err := eng.ExportRows(day, false)
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 tasks + total

	assert.Equal(t, []string{"Task", "W", "Hours", "Entries"}, rows[0])
	assert.Equal(t, []string{"flagged", "W", "1.50", "1"}, rows[1])
	assert.Equal(t, []string{"plain", "", "1.00", "1"}, rows[2])
	assert.Equal(t, []string{"Total", "", "2.50", "2"}, rows[3])
}

func TestExportRows_OnlyImportant(t *testing.T) {
	st, eng := newFixture(t)

	w, err := st.AddTask("flagged", "", true)
	require.NoError(t, err)
	plain, err := st.AddTask("plain", "", false)
	require.NoError(t, err)

	track(t, st, w, day+"T09:00:00", day+"T10:30:00")
	track(t, st, plain, day+"T11:00:00", day+"T12:00:00")

	rows, err := eng.ExportRows(day, true)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "flagged", rows[1][0])
	// The total covers only the exported tasks.
	assert.Equal(t, []string{"Total", "", "1.50", "1"}, rows[2])
}
