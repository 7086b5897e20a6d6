package store

import (
	"database/sql"
	"fmt"
)

// migrate runs all schema migrations. Every step is additive and
// idempotent; an existing database is never rewritten.
func (s *Store) migrate() error {
	migrations := []string{
		migrationCreateTasks,
		migrationCreateEntries,
	}

	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return s.migrateActiveColumn()
}

// migrateActiveColumn backfills the active column on databases created
// before it existed. Existing rows default to inactive.
func (s *Store) migrateActiveColumn() error {
	has, err := s.hasColumn("entries", "active")
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	if _, err := s.db.Exec(`ALTER TABLE entries ADD COLUMN active INTEGER DEFAULT 0`); err != nil {
		return fmt.Errorf("add active column: %w", err)
	}
	return nil
}

func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

const migrationCreateTasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    category TEXT DEFAULT 'General',
    important INTEGER DEFAULT 0
);
`

const migrationCreateEntries = `
CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY,
    task_id INTEGER NOT NULL,
    start_ts TEXT NOT NULL,
    end_ts TEXT,
    duration_h REAL DEFAULT 0,
    date_key TEXT NOT NULL,
    active INTEGER DEFAULT 0,
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date_key);
CREATE INDEX IF NOT EXISTS idx_entries_task ON entries(task_id);
`
