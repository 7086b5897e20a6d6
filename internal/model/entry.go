package model

import (
	"math"
	"time"
)

// Timestamp layouts used throughout the store. Times are kept in the
// user's local zone with second precision.
const (
	TimeLayout = "2006-01-02T15:04:05"
	DateLayout = "2006-01-02"
)

// Entry is one timed interval of work against a task. An entry with no
// end time is open (in progress); its stored duration stays zero until
// it is closed.
type Entry struct {
	ID        int64      `json:"id"`
	TaskID    int64      `json:"task_id"`
	Start     time.Time  `json:"start_ts"`
	End       *time.Time `json:"end_ts,omitempty"`
	DurationH float64    `json:"duration_h"`
	DateKey   string     `json:"date_key"`
	Active    bool       `json:"active"`
}

// EntryRow is an entry joined with its owning task, as returned by the
// per-day listing and open-entry queries.
type EntryRow struct {
	Entry
	TaskName      string `json:"task_name"`
	TaskImportant bool   `json:"task_important"`
}

// Open reports whether the entry has no end time yet.
func (e *Entry) Open() bool {
	return e.End == nil
}

// Elapsed returns the live duration of an open entry as of now, or the
// recorded interval for a closed one. Used for display only; the stored
// duration of an open entry is always zero.
func (e *Entry) Elapsed(now time.Time) time.Duration {
	if e.End != nil {
		return e.End.Sub(e.Start)
	}
	return now.Sub(e.Start)
}

// DateKeyOf derives the calendar-day bucket an entry files under from
// its start timestamp.
func DateKeyOf(t time.Time) string {
	return t.Format(DateLayout)
}

// RoundHours converts an interval to fractional hours rounded to two
// decimal places, the precision persisted in duration_h.
func RoundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

// ParseTimestamp parses a stored or user-supplied timestamp. RFC3339
// inputs are accepted too so edits can paste either form.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{TimeLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Validationf("bad timestamp %q, want %s", s, TimeLayout)
}
