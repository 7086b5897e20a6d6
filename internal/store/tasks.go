package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mzaikin/daytrack/internal/model"
)

// AddTask creates a task, or returns the existing task's id when the
// name is already taken. Upsert-by-name is deliberate: re-adding a task
// from the UI must never produce a duplicate row.
func (s *Store) AddTask(name, category string, important bool) (int64, error) {
	name, err := model.NormalizeTaskName(name)
	if err != nil {
		return 0, err
	}
	if category == "" {
		category = model.DefaultCategory
	}

	res, err := s.db.Exec(
		`INSERT INTO tasks (name, category, important) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, category, boolInt(important))
	if err != nil {
		return 0, fmt.Errorf("add task: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return res.LastInsertId()
	}

	var id int64
	if err := s.db.QueryRow(`SELECT id FROM tasks WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("add task: lookup existing: %w", err)
	}
	return id, nil
}

// GetTask returns the task with the given id.
func (s *Store) GetTask(id int64) (model.Task, error) {
	row := s.db.QueryRow(`SELECT id, name, category, important FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// FindTask looks a task up by its exact (trimmed) name.
func (s *Store) FindTask(name string) (model.Task, error) {
	name, err := model.NormalizeTaskName(name)
	if err != nil {
		return model.Task{}, err
	}
	row := s.db.QueryRow(`SELECT id, name, category, important FROM tasks WHERE name = ?`, name)
	return scanTask(row)
}

// ListTasks returns all tasks, important ones first, then by name.
func (s *Store) ListTasks() ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, name, category, important FROM tasks ORDER BY important DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetTaskImportance flips the W flag. Unknown ids are an error rather
// than a silent no-op.
func (s *Store) SetTaskImportance(id int64, important bool) error {
	res, err := s.db.Exec(`UPDATE tasks SET important = ? WHERE id = ?`, boolInt(important), id)
	if err != nil {
		return fmt.Errorf("set importance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set importance: task %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// RemoveTask deletes a task and, through the foreign key, every entry
// recorded against it.
func (s *Store) RemoveTask(id int64) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove task: task %d: %w", id, model.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(r rowScanner) (model.Task, error) {
	var (
		t         model.Task
		category  sql.NullString
		important int
	)
	err := r.Scan(&t.ID, &t.Name, &category, &important)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, model.ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("scan task: %w", err)
	}
	t.Category = model.DefaultCategory
	if category.Valid && category.String != "" {
		t.Category = category.String
	}
	t.Important = important != 0
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
