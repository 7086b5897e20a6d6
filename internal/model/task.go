package model

import "strings"

// DefaultCategory is the sentinel category assigned to tasks created
// without an explicit one.
const DefaultCategory = "General"

// Task is something the user tracks time against.
type Task struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Important bool   `json:"important"` // the "W" flag: sort priority and report filtering
}

// NormalizeTaskName trims surrounding whitespace and validates the result.
// Task names are case-sensitive and must be non-empty after trimming.
func NormalizeTaskName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Validationf("task name must not be empty")
	}
	return name, nil
}
