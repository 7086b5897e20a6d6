package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mzaikin/daytrack/internal/model"
)

const entryColumns = `e.id, e.task_id, e.start_ts, e.end_ts, e.duration_h, e.date_key, e.active`

// StartEntry opens a new entry for the task at the given time (zero
// means now). The entry files under the calendar day of its start.
// Active-session policy belongs to the session controller; the store
// happily opens entries side by side.
func (s *Store) StartEntry(taskID int64, at time.Time) (int64, error) {
	if _, err := s.GetTask(taskID); err != nil {
		return 0, fmt.Errorf("start entry: task %d: %w", taskID, err)
	}
	if at.IsZero() {
		at = time.Now()
	}
	at = at.Truncate(time.Second)

	res, err := s.db.Exec(
		`INSERT INTO entries (task_id, start_ts, date_key, active) VALUES (?, ?, ?, 1)`,
		taskID, at.Format(model.TimeLayout), model.DateKeyOf(at))
	if err != nil {
		return 0, fmt.Errorf("start entry: %w", err)
	}
	return res.LastInsertId()
}

// StopEntry closes an open entry at the given time (zero means now) and
// persists its rounded duration. Stopping a closed entry fails and
// leaves the recorded duration untouched.
func (s *Store) StopEntry(entryID int64, at time.Time) error {
	e, err := s.GetEntry(entryID)
	if err != nil {
		return fmt.Errorf("stop entry %d: %w", entryID, err)
	}
	if !e.Open() {
		return fmt.Errorf("stop entry %d: %w", entryID, model.ErrAlreadyClosed)
	}

	if at.IsZero() {
		at = time.Now()
	}
	at = at.Truncate(time.Second)
	if at.Before(e.Start) {
		return model.Validationf("end %s must be after start %s",
			at.Format(model.TimeLayout), e.Start.Format(model.TimeLayout))
	}
	// Stopping within the starting second still records a closed
	// interval: end is strictly after start.
	if !at.After(e.Start) {
		at = e.Start.Add(time.Second)
	}

	_, err = s.db.Exec(
		`UPDATE entries SET end_ts = ?, duration_h = ?, active = 0 WHERE id = ?`,
		at.Format(model.TimeLayout), model.RoundHours(at.Sub(e.Start)), entryID)
	if err != nil {
		return fmt.Errorf("stop entry %d: %w", entryID, err)
	}
	return nil
}

// StopAllOpen closes every open entry at the given time and reports how
// many were closed. Used by pause-all.
func (s *Store) StopAllOpen(at time.Time) (int, error) {
	open, err := s.ListOpenEntries()
	if err != nil {
		return 0, err
	}
	if at.IsZero() {
		at = time.Now()
	}
	at = at.Truncate(time.Second)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("stop all: %w", err)
	}
	defer tx.Rollback()

	closed := 0
	for _, e := range open {
		end := at
		// A clock that went backwards must not produce a negative span.
		if !end.After(e.Start) {
			end = e.Start.Add(time.Second)
		}
		if _, err := tx.Exec(
			`UPDATE entries SET end_ts = ?, duration_h = ?, active = 0 WHERE id = ?`,
			end.Format(model.TimeLayout), model.RoundHours(end.Sub(e.Start)), e.ID); err != nil {
			return 0, fmt.Errorf("stop all: entry %d: %w", e.ID, err)
		}
		closed++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("stop all: %w", err)
	}
	return closed, nil
}

// ListOpenEntries returns every entry without an end time, joined with
// its task. An entry left open by a crash shows up here like any other;
// that is recovery, not corruption.
func (s *Store) ListOpenEntries() ([]model.EntryRow, error) {
	rows, err := s.db.Query(
		`SELECT `+entryColumns+`, t.name, t.important
		 FROM entries e JOIN tasks t ON e.task_id = t.id
		 WHERE e.end_ts IS NULL
		 ORDER BY e.start_ts ASC`)
	if err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}
	return collectEntryRows(rows)
}

// ListEntriesForDate returns the entries filed under a date key, joined
// with their tasks: important tasks first, then task name, then start.
func (s *Store) ListEntriesForDate(dateKey string) ([]model.EntryRow, error) {
	rows, err := s.db.Query(
		`SELECT `+entryColumns+`, t.name, t.important
		 FROM entries e JOIN tasks t ON e.task_id = t.id
		 WHERE e.date_key = ?
		 ORDER BY t.important DESC, t.name ASC, e.start_ts ASC`,
		dateKey)
	if err != nil {
		return nil, fmt.Errorf("list entries for %s: %w", dateKey, err)
	}
	return collectEntryRows(rows)
}

// GetEntry returns a single entry by id.
func (s *Store) GetEntry(entryID int64) (model.Entry, error) {
	row := s.db.QueryRow(
		`SELECT `+entryColumns+` FROM entries e WHERE e.id = ?`, entryID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, model.ErrNotFound
	}
	return e, err
}

// AddEmptyEntry inserts a closed zero-length entry at midnight of the
// given day. It pins a task onto that day's sheet so its times can be
// filled in by hand.
func (s *Store) AddEmptyEntry(taskID int64, dateKey string) (int64, error) {
	if _, err := s.GetTask(taskID); err != nil {
		return 0, fmt.Errorf("add empty entry: task %d: %w", taskID, err)
	}
	if _, err := time.ParseInLocation(model.DateLayout, dateKey, time.Local); err != nil {
		return 0, model.Validationf("bad date %q, want %s", dateKey, model.DateLayout)
	}

	midnight := dateKey + "T00:00:00"
	res, err := s.db.Exec(
		`INSERT INTO entries (task_id, start_ts, end_ts, duration_h, date_key, active)
		 VALUES (?, ?, ?, 0, ?, 0)`,
		taskID, midnight, midnight, dateKey)
	if err != nil {
		return 0, fmt.Errorf("add empty entry: %w", err)
	}
	return res.LastInsertId()
}

// UpdateEntry rewrites an entry's interval and, optionally, its owning
// task (newTaskID 0 keeps the current one). The duration and date key
// are recomputed from the new times: moving a start across midnight
// refiles the entry under the new day. An edit cannot reopen an entry,
// so both timestamps are required and the end must come after the start.
func (s *Store) UpdateEntry(entryID int64, newStart, newEnd time.Time, newTaskID int64) error {
	if _, err := s.GetEntry(entryID); err != nil {
		return fmt.Errorf("update entry %d: %w", entryID, err)
	}
	if newStart.IsZero() || newEnd.IsZero() {
		return model.Validationf("both start and end are required")
	}
	newStart = newStart.Truncate(time.Second)
	newEnd = newEnd.Truncate(time.Second)
	if !newEnd.After(newStart) {
		return model.Validationf("end %s must be after start %s",
			newEnd.Format(model.TimeLayout), newStart.Format(model.TimeLayout))
	}

	taskID := newTaskID
	if taskID != 0 {
		if _, err := s.GetTask(taskID); err != nil {
			return fmt.Errorf("update entry %d: task %d: %w", entryID, taskID, err)
		}
		_, err := s.db.Exec(
			`UPDATE entries SET task_id = ?, start_ts = ?, end_ts = ?, duration_h = ?, date_key = ?, active = 0
			 WHERE id = ?`,
			taskID, newStart.Format(model.TimeLayout), newEnd.Format(model.TimeLayout),
			model.RoundHours(newEnd.Sub(newStart)), model.DateKeyOf(newStart), entryID)
		if err != nil {
			return fmt.Errorf("update entry %d: %w", entryID, err)
		}
		return nil
	}

	_, err := s.db.Exec(
		`UPDATE entries SET start_ts = ?, end_ts = ?, duration_h = ?, date_key = ?, active = 0
		 WHERE id = ?`,
		newStart.Format(model.TimeLayout), newEnd.Format(model.TimeLayout),
		model.RoundHours(newEnd.Sub(newStart)), model.DateKeyOf(newStart), entryID)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", entryID, err)
	}
	return nil
}

// DeleteEntry removes an entry for good.
func (s *Store) DeleteEntry(entryID int64) error {
	res, err := s.db.Exec(`DELETE FROM entries WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", entryID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete entry %d: %w", entryID, model.ErrNotFound)
	}
	return nil
}

func scanEntry(r rowScanner) (model.Entry, error) {
	var (
		e        model.Entry
		startRaw string
		endRaw   sql.NullString
		active   int
	)
	if err := r.Scan(&e.ID, &e.TaskID, &startRaw, &endRaw, &e.DurationH, &e.DateKey, &active); err != nil {
		return model.Entry{}, err
	}

	start, err := model.ParseTimestamp(startRaw)
	if err != nil {
		return model.Entry{}, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	e.Start = start

	if endRaw.Valid && endRaw.String != "" {
		end, err := model.ParseTimestamp(endRaw.String)
		if err != nil {
			return model.Entry{}, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		e.End = &end
	}
	e.Active = active != 0
	return e, nil
}

func collectEntryRows(rows *sql.Rows) ([]model.EntryRow, error) {
	defer rows.Close()

	var out []model.EntryRow
	for rows.Next() {
		var (
			e         model.Entry
			startRaw  string
			endRaw    sql.NullString
			active    int
			name      string
			important int
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &startRaw, &endRaw, &e.DurationH, &e.DateKey,
			&active, &name, &important); err != nil {
			return nil, fmt.Errorf("scan entry row: %w", err)
		}

		start, err := model.ParseTimestamp(startRaw)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		e.Start = start
		if endRaw.Valid && endRaw.String != "" {
			end, err := model.ParseTimestamp(endRaw.String)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", e.ID, err)
			}
			e.End = &end
		}
		e.Active = active != 0

		out = append(out, model.EntryRow{Entry: e, TaskName: name, TaskImportant: important != 0})
	}
	return out, rows.Err()
}
