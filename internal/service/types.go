// Package service defines the task operations the commands run against.
package service

import "todo/internal/store"

// Change describes one task affected by a mutation.
type Change struct {
	List    string
	Task    string
	Checked bool // state after a check; false for removals
}

// TaskList is a named list with its tasks, for display.
type TaskList struct {
	Name  string       `json:"name" yaml:"name"`
	Tasks []store.Task `json:"tasks" yaml:"tasks"`
}
