package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mzaikin/daytrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(model.TimeLayout, s, time.Local)
	require.NoError(t, err)
	return parsed
}

func TestAddTask_UpsertByName(t *testing.T) {
	s := newTestStore(t)

	id1, err := s.AddTask("Code review", "", false)
	require.NoError(t, err)

	// Same name (with surrounding whitespace) must return the original
	// id and never create a second row.
	id2, err := s.AddTask("  Code review  ", "Other", true)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	tasks, err := s.ListTasks()
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, model.DefaultCategory, tasks[0].Category)
}

func TestAddTask_EmptyNameRejected(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddTask("   ", "", false)
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestAddTask_NamesAreCaseSensitive(t *testing.T) {
	s := newTestStore(t)

	id1, err := s.AddTask("review", "", false)
	require.NoError(t, err)
	id2, err := s.AddTask("Review", "", false)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestListTasks_Ordering(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddTask("zeta", "", false)
	require.NoError(t, err)
	_, err = s.AddTask("alpha", "", false)
	require.NoError(t, err)
	_, err = s.AddTask("omega", "", true)
	require.NoError(t, err)

	tasks, err := s.ListTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// Important first, then name ascending.
	assert.Equal(t, "omega", tasks[0].Name)
	assert.Equal(t, "alpha", tasks[1].Name)
	assert.Equal(t, "zeta", tasks[2].Name)
}

func TestSetTaskImportance(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("focus", "", false)
	require.NoError(t, err)

	require.NoError(t, s.SetTaskImportance(id, true))
	task, err := s.GetTask(id)
	require.NoError(t, err)
	assert.True(t, task.Important)

	err = s.SetTaskImportance(9999, true)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRemoveTask_CascadesEntries(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("doomed", "", false)
	require.NoError(t, err)
	e1, err := s.StartEntry(id, ts(t, "2026-08-27T09:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.StopEntry(e1, ts(t, "2026-08-27T10:00:00")))
	e2, err := s.StartEntry(id, ts(t, "2026-08-27T11:00:00"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveTask(id))

	_, err = s.GetEntry(e1)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.GetEntry(e2)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, s.RemoveTask(id), model.ErrNotFound)
}

func TestStartStop_DurationAndDateKey(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("work", "", false)
	require.NoError(t, err)

	entryID, err := s.StartEntry(id, ts(t, "2024-01-01T09:00:00"))
	require.NoError(t, err)

	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	assert.True(t, e.Open())
	assert.True(t, e.Active)
	assert.Equal(t, "2024-01-01", e.DateKey)
	assert.Equal(t, 0.0, e.DurationH)

	require.NoError(t, s.StopEntry(entryID, ts(t, "2024-01-01T10:30:00")))

	e, err = s.GetEntry(entryID)
	require.NoError(t, err)
	assert.False(t, e.Open())
	assert.False(t, e.Active)
	assert.Equal(t, 1.5, e.DurationH)
}

func TestStartEntry_UnknownTask(t *testing.T) {
	s := newTestStore(t)

	_, err := s.StartEntry(42, time.Time{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStopEntry_AlreadyClosed(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("work", "", false)
	require.NoError(t, err)
	entryID, err := s.StartEntry(id, ts(t, "2024-01-01T09:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.StopEntry(entryID, ts(t, "2024-01-01T10:30:00")))

	err = s.StopEntry(entryID, ts(t, "2024-01-01T12:00:00"))
	assert.ErrorIs(t, err, model.ErrAlreadyClosed)

	// Failed stop must not touch the recorded duration.
	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, e.DurationH)
}

func TestStopEntry_NotFound(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.StopEntry(7, time.Time{}), model.ErrNotFound)
}

func TestStopEntry_EndBeforeStartRejected(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("work", "", false)
	require.NoError(t, err)
	entryID, err := s.StartEntry(id, ts(t, "2024-01-01T09:00:00"))
	require.NoError(t, err)

	err = s.StopEntry(entryID, ts(t, "2024-01-01T08:00:00"))
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))

	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	assert.True(t, e.Open())
}

func TestStopEntry_SameSecondStillCloses(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("blink", "", false)
	require.NoError(t, err)
	entryID, err := s.StartEntry(id, ts(t, "2024-01-01T09:00:00"))
	require.NoError(t, err)

	require.NoError(t, s.StopEntry(entryID, ts(t, "2024-01-01T09:00:00")))
	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	require.False(t, e.Open())
	assert.True(t, e.End.After(e.Start))
}

func TestStopAllOpen(t *testing.T) {
	s := newTestStore(t)

	a, err := s.AddTask("a", "", false)
	require.NoError(t, err)
	b, err := s.AddTask("b", "", false)
	require.NoError(t, err)
	_, err = s.StartEntry(a, ts(t, "2026-08-27T09:00:00"))
	require.NoError(t, err)
	_, err = s.StartEntry(b, ts(t, "2026-08-27T09:30:00"))
	require.NoError(t, err)

	n, err := s.StopAllOpen(ts(t, "2026-08-27T10:00:00"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	open, err := s.ListOpenEntries()
	require.NoError(t, err)
	assert.Empty(t, open)

	n, err = s.StopAllOpen(time.Time{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListEntriesForDate_OrderingAndJoin(t *testing.T) {
	s := newTestStore(t)

	plain, err := s.AddTask("bravo", "", false)
	require.NoError(t, err)
	wFlag, err := s.AddTask("zulu", "", true)
	require.NoError(t, err)

	// Inserted out of order on purpose.
	e1, err := s.StartEntry(plain, ts(t, "2026-08-27T11:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.StopEntry(e1, ts(t, "2026-08-27T12:00:00")))
	e2, err := s.StartEntry(wFlag, ts(t, "2026-08-27T09:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.StopEntry(e2, ts(t, "2026-08-27T09:30:00")))
	e3, err := s.StartEntry(plain, ts(t, "2026-08-27T08:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.StopEntry(e3, ts(t, "2026-08-27T08:30:00")))

	rows, err := s.ListEntriesForDate("2026-08-27")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Important task first, then task name, then start time.
	assert.Equal(t, "zulu", rows[0].TaskName)
	assert.True(t, rows[0].TaskImportant)
	assert.Equal(t, e3, rows[1].ID)
	assert.Equal(t, e1, rows[2].ID)

	other, err := s.ListEntriesForDate("2026-08-28")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdateEntry_RejectsBadInterval(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("work", "", false)
	require.NoError(t, err)
	entryID, err := s.StartEntry(id, ts(t, "2024-01-01T09:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.StopEntry(entryID, ts(t, "2024-01-01T10:00:00")))

	err = s.UpdateEntry(entryID, ts(t, "2024-01-01T11:00:00"), ts(t, "2024-01-01T11:00:00"), 0)
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))

	// The entry must be left exactly as it was.
	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	assert.Equal(t, ts(t, "2024-01-01T09:00:00"), e.Start)
	assert.Equal(t, 1.0, e.DurationH)
}

func TestUpdateEntry_RecomputesDurationAndDateKey(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("night shift", "", false)
	require.NoError(t, err)
	entryID, err := s.StartEntry(id, ts(t, "2026-08-27T09:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.StopEntry(entryID, ts(t, "2026-08-27T10:00:00")))

	// Move the whole interval across midnight: the entry refiles under
	// the new start's day.
	require.NoError(t, s.UpdateEntry(entryID,
		ts(t, "2026-08-28T00:15:00"), ts(t, "2026-08-28T02:30:00"), 0))

	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", e.DateKey)
	assert.Equal(t, 2.25, e.DurationH)
	assert.False(t, e.Active)
}

func TestUpdateEntry_ReassignsTask(t *testing.T) {
	s := newTestStore(t)

	a, err := s.AddTask("a", "", false)
	require.NoError(t, err)
	b, err := s.AddTask("b", "", false)
	require.NoError(t, err)
	entryID, err := s.StartEntry(a, ts(t, "2026-08-27T09:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.StopEntry(entryID, ts(t, "2026-08-27T10:00:00")))

	require.NoError(t, s.UpdateEntry(entryID,
		ts(t, "2026-08-27T09:00:00"), ts(t, "2026-08-27T10:00:00"), b))

	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	assert.Equal(t, b, e.TaskID)

	err = s.UpdateEntry(entryID, ts(t, "2026-08-27T09:00:00"), ts(t, "2026-08-27T10:00:00"), 999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateEntry_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateEntry(5, ts(t, "2026-08-27T09:00:00"), ts(t, "2026-08-27T10:00:00"), 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAddEmptyEntry(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("placeholder", "", false)
	require.NoError(t, err)

	entryID, err := s.AddEmptyEntry(id, "2026-08-27")
	require.NoError(t, err)

	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	assert.False(t, e.Open())
	assert.Equal(t, 0.0, e.DurationH)
	assert.Equal(t, "2026-08-27", e.DateKey)
	assert.Equal(t, ts(t, "2026-08-27T00:00:00"), e.Start)

	_, err = s.AddEmptyEntry(id, "27.08.2026")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestDeleteEntry(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddTask("work", "", false)
	require.NoError(t, err)
	entryID, err := s.StartEntry(id, time.Time{})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry(entryID))
	_, err = s.GetEntry(entryID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.DeleteEntry(entryID), model.ErrNotFound)
}

func TestOpen_Reopen_PreservesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.AddTask("persist", "", true)
	require.NoError(t, err)
	entryID, err := s.StartEntry(id, ts(t, "2026-08-27T09:00:00"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Opening an existing database runs migrations again; they must be
	// idempotent and must not rewrite any row.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	task, err := s.GetTask(id)
	require.NoError(t, err)
	assert.True(t, task.Important)

	e, err := s.GetEntry(entryID)
	require.NoError(t, err)
	assert.True(t, e.Open())
}

func TestOpen_MigratesLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Build a pre-"active" database by hand.
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE tasks (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category TEXT DEFAULT 'General',
		important INTEGER DEFAULT 0)`)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE entries (
		id INTEGER PRIMARY KEY,
		task_id INTEGER NOT NULL,
		start_ts TEXT NOT NULL,
		end_ts TEXT,
		duration_h REAL DEFAULT 0,
		date_key TEXT NOT NULL,
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE)`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO tasks (id, name) VALUES (1, 'old task')`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO entries (task_id, start_ts, end_ts, duration_h, date_key)
		VALUES (1, '2020-05-01T09:00:00', '2020-05-01T10:00:00', 1.0, '2020-05-01')`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	rows, err := s.ListEntriesForDate("2020-05-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].DurationH)
	assert.False(t, rows[0].Active) // backfilled default
}

func TestListOpenEntries_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.AddTask("interrupted", "", false)
	require.NoError(t, err)
	_, err = s.StartEntry(id, ts(t, "2026-08-27T09:00:00"))
	require.NoError(t, err)
	// Simulated crash: close without stopping.
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	open, err := s.ListOpenEntries()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "interrupted", open[0].TaskName)
	assert.Equal(t, 0.0, open[0].DurationH)
}

func TestGetEntry_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetEntry(123)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
