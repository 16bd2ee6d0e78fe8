package store

import (
	"errors"
	"fmt"
)

var (
	// ErrListExists is returned when creating a list whose name is taken.
	ErrListExists = errors.New("list already exists")

	// ErrListNotFound is returned when the named list does not exist.
	ErrListNotFound = errors.New("list not found")

	// ErrTaskExists is returned when adding a task already present in the list.
	ErrTaskExists = errors.New("task already exists")

	// ErrTaskNotFound is returned when no list holds the named task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyName is returned for blank list or task names.
	ErrEmptyName = errors.New("name required")

	// ErrAuth is returned by remote gateways when credentials are missing,
	// expired or revoked.
	ErrAuth = errors.New("not authenticated")
)

// StorageError reports a failure to read, parse or write the backing store.
// It is fatal for the running command.
type StorageError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s store: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s store %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
