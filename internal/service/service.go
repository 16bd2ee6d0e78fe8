// Package service defines the task operations the commands run against.
package service

import "context"

// Service defines the operations behind the CLI commands.
// Every mutating call is one load, mutate, save cycle on the store.
type Service interface {
	// AddTask appends an unchecked task to list.
	AddTask(ctx context.Context, task, list string) error

	// RemoveTask deletes task from list. If the task is not in list, other
	// lists holding it are offered to the user.
	RemoveTask(ctx context.Context, task, list string) ([]Change, error)

	// CheckTask toggles task in list, with the same fallback as RemoveTask.
	// With an empty list it toggles the first match across all lists.
	CheckTask(ctx context.Context, task, list string) ([]Change, error)

	// RemoveSelected lets the user pick tasks interactively and removes them.
	RemoveSelected(ctx context.Context) ([]Change, error)

	// CheckSelected lets the user pick tasks interactively and toggles them.
	CheckSelected(ctx context.Context) ([]Change, error)

	// CreateList creates an empty list.
	CreateList(ctx context.Context, name string) error

	// DeleteList removes a list and all of its tasks.
	DeleteList(ctx context.Context, name string) error

	// ListTasks returns one list, or every list when list is empty.
	ListTasks(ctx context.Context, list string) ([]TaskList, error)

	// ListLists returns all list names in store order.
	ListLists(ctx context.Context) ([]string, error)
}
