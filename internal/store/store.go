// Package store holds the task store model and its persistence.
//
// A Store maps list names to ordered task sequences. It is loaded and saved
// as a whole; the mutations here are pure in-memory operations and never touch
// disk. Persisting is the caller's job (see Gateway).
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Task is a single checkable item. Two tasks are the same task iff their
// names are equal; Checked is not part of identity.
type Task struct {
	Name    string `json:"name" yaml:"name"`
	Checked bool   `json:"checked" yaml:"checked"`
}

// String renders the task with a checkbox prefix.
func (t Task) String() string {
	if t.Checked {
		return "[x] " + t.Name
	}
	return "[ ] " + t.Name
}

// Store is the full set of named lists. List enumeration order is the order
// lists were created (or appeared in the loaded file).
type Store struct {
	names []string
	lists map[string][]Task
}

// New returns an empty store.
func New() *Store {
	return &Store{lists: make(map[string][]Task)}
}

// Len returns the number of lists.
func (s *Store) Len() int {
	return len(s.names)
}

// Lists returns list names in enumeration order.
func (s *Store) Lists() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Has reports whether a list with the given name exists.
func (s *Store) Has(list string) bool {
	_, ok := s.lists[list]
	return ok
}

// Tasks returns a copy of the tasks in list.
func (s *Store) Tasks(list string) ([]Task, error) {
	tasks, ok := s.lists[list]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, list)
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

// Contains reports whether list holds a task named task.
func (s *Store) Contains(list, task string) bool {
	return indexOf(s.lists[list], task) >= 0
}

// CreateList inserts a new empty list.
func (s *Store) CreateList(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if s.Has(name) {
		return fmt.Errorf("%w: %s", ErrListExists, name)
	}
	s.names = append(s.names, name)
	s.lists[name] = nil
	return nil
}

// DeleteList removes a list and every task in it.
func (s *Store) DeleteList(name string) error {
	if !s.Has(name) {
		return fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	delete(s.lists, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return nil
}

// AddTask appends an unchecked task to list.
func (s *Store) AddTask(list, task string) error {
	if strings.TrimSpace(task) == "" {
		return ErrEmptyName
	}
	tasks, ok := s.lists[list]
	if !ok {
		return fmt.Errorf("%w: %s", ErrListNotFound, list)
	}
	if indexOf(tasks, task) >= 0 {
		return fmt.Errorf("%w: %s", ErrTaskExists, task)
	}
	s.lists[list] = append(tasks, Task{Name: task})
	return nil
}

// RemoveTask deletes task from list, keeping the order of the rest.
func (s *Store) RemoveTask(list, task string) error {
	tasks, ok := s.lists[list]
	if !ok {
		return fmt.Errorf("%w: %s", ErrListNotFound, list)
	}
	i := indexOf(tasks, task)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, task)
	}
	s.lists[list] = append(tasks[:i], tasks[i+1:]...)
	return nil
}

// ToggleTask flips the checked state of task in list and returns the new state.
func (s *Store) ToggleTask(list, task string) (bool, error) {
	tasks, ok := s.lists[list]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrListNotFound, list)
	}
	i := indexOf(tasks, task)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrTaskNotFound, task)
	}
	tasks[i].Checked = !tasks[i].Checked
	return tasks[i].Checked, nil
}

// ToggleFirst toggles the first task named task across all lists, in list
// enumeration order, and stops there. Same-named tasks in later lists are
// left alone.
func (s *Store) ToggleFirst(task string) (list string, checked bool, err error) {
	for _, name := range s.names {
		if !s.Contains(name, task) {
			continue
		}
		checked, err = s.ToggleTask(name, task)
		return name, checked, err
	}
	return "", false, fmt.Errorf("%w: %s", ErrTaskNotFound, task)
}

// Clone returns a deep copy.
func (s *Store) Clone() *Store {
	c := New()
	for _, name := range s.names {
		c.names = append(c.names, name)
		tasks := make([]Task, len(s.lists[name]))
		copy(tasks, s.lists[name])
		c.lists[name] = tasks
	}
	return c
}

func indexOf(tasks []Task, name string) int {
	for i, t := range tasks {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// MarshalJSON encodes the store as an object keyed by list name, keeping
// list order.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		tasks := s.lists[name]
		if tasks == nil {
			tasks = []Task{}
		}
		val, err := json.Marshal(tasks)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by list name, keeping key order.
// Empty names and duplicate list or task names are rejected.
func (s *Store) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("store must be a JSON object")
	}

	loaded := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var tasks []Task
		if err := dec.Decode(&tasks); err != nil {
			return fmt.Errorf("list %q: %w", name, err)
		}
		if err := loaded.CreateList(name); err != nil {
			return err
		}
		seen := make(map[string]bool, len(tasks))
		for _, t := range tasks {
			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("list %q: %w", name, ErrEmptyName)
			}
			if seen[t.Name] {
				return fmt.Errorf("list %q: %w: %s", name, ErrTaskExists, t.Name)
			}
			seen[t.Name] = true
		}
		loaded.lists[name] = tasks
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = *loaded
	return nil
}
