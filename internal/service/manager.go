package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"todo/internal/logging"
	"todo/internal/resolver"
	"todo/internal/store"
)

// AllLists is the extra option offered when picking a list interactively.
const AllLists = "All"

// ErrNoSelection is returned when a single-select prompt comes back empty.
var ErrNoSelection = errors.New("nothing selected")

// Manager implements Service on top of a store.Gateway.
type Manager struct {
	gateway  store.Gateway
	resolver *resolver.Resolver
	selector resolver.Selector
	logger   *log.Logger
}

// NewManager creates a Manager. The selector is used for interactive picks;
// the resolver handles tasks missing from the named list.
func NewManager(gw store.Gateway, res *resolver.Resolver, sel resolver.Selector, logger *log.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		gateway:  gw,
		resolver: res,
		selector: sel,
		logger:   logger,
	}
}

// AddTask implements Service.
func (m *Manager) AddTask(ctx context.Context, task, list string) error {
	s, err := m.gateway.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.AddTask(list, task); err != nil {
		return err
	}
	return m.gateway.Save(ctx, s)
}

// RemoveTask implements Service.
func (m *Manager) RemoveTask(ctx context.Context, task, list string) ([]Change, error) {
	return m.mutate(ctx, task, list, "remove", func(s *store.Store, l string) (Change, error) {
		return Change{List: l, Task: task}, s.RemoveTask(l, task)
	})
}

// CheckTask implements Service.
func (m *Manager) CheckTask(ctx context.Context, task, list string) ([]Change, error) {
	if list == "" {
		return m.checkFirst(ctx, task)
	}
	return m.mutate(ctx, task, list, "check", toggle(task))
}

func toggle(task string) func(*store.Store, string) (Change, error) {
	return func(s *store.Store, l string) (Change, error) {
		checked, err := s.ToggleTask(l, task)
		return Change{List: l, Task: task, Checked: checked}, err
	}
}

// checkFirst toggles only the first list holding task.
func (m *Manager) checkFirst(ctx context.Context, task string) ([]Change, error) {
	s, err := m.gateway.Load(ctx)
	if err != nil {
		return nil, err
	}
	list, checked, err := s.ToggleFirst(task)
	if err != nil {
		return nil, err
	}
	if err := m.gateway.Save(ctx, s); err != nil {
		return nil, err
	}
	return []Change{{List: list, Task: task, Checked: checked}}, nil
}

// mutate applies apply to task in list, falling back to the resolver when
// list does not hold it. The store is saved once, and only if something
// changed.
func (m *Manager) mutate(ctx context.Context, task, list, action string, apply func(*store.Store, string) (Change, error)) ([]Change, error) {
	s, err := m.gateway.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !s.Has(list) {
		return nil, fmt.Errorf("%w: %s", store.ErrListNotFound, list)
	}

	targets := []string{list}
	if !s.Contains(list, task) {
		targets, err = m.resolver.Resolve(ctx, s, task, list, action)
		if err != nil {
			return nil, err
		}
		m.logger.Debug("resolved task to other lists", "task", task, "action", action, "lists", targets)
	}
	if len(targets) == 0 {
		return nil, nil
	}

	changes := make([]Change, 0, len(targets))
	for _, l := range targets {
		c, err := apply(s, l)
		if err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := m.gateway.Save(ctx, s); err != nil {
		return nil, err
	}
	return changes, nil
}

// target is one task picked interactively.
type target struct {
	list string
	task string
}

// RemoveSelected implements Service.
func (m *Manager) RemoveSelected(ctx context.Context) ([]Change, error) {
	return m.applySelected(ctx, func(s *store.Store, t target) (Change, error) {
		return Change{List: t.list, Task: t.task}, s.RemoveTask(t.list, t.task)
	})
}

// CheckSelected implements Service.
func (m *Manager) CheckSelected(ctx context.Context) ([]Change, error) {
	return m.applySelected(ctx, func(s *store.Store, t target) (Change, error) {
		return toggle(t.task)(s, t.list)
	})
}

func (m *Manager) applySelected(ctx context.Context, apply func(*store.Store, target) (Change, error)) ([]Change, error) {
	s, err := m.gateway.Load(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := m.pickTargets(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, nil
	}

	changes := make([]Change, 0, len(targets))
	for _, t := range targets {
		c, err := apply(s, t)
		if err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := m.gateway.Save(ctx, s); err != nil {
		return nil, err
	}
	return changes, nil
}

// pickTargets asks for a list (or All) among non-empty lists, then for any
// number of tasks in it. Under All, tasks are shown as "list: task"; a label
// that repeats an earlier one gets a " (n)" suffix so every option maps to
// exactly one task.
func (m *Manager) pickTargets(ctx context.Context, s *store.Store) ([]target, error) {
	var lists []string
	for _, l := range s.Lists() {
		if tasks, _ := s.Tasks(l); len(tasks) > 0 {
			lists = append(lists, l)
		}
	}
	if len(lists) == 0 {
		return nil, fmt.Errorf("%w: no tasks in any list", store.ErrTaskNotFound)
	}

	picked, err := m.selector.Select(ctx, append(lists, AllLists), false)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, ErrNoSelection
	}

	scope := []string{picked[0]}
	if picked[0] == AllLists {
		scope = lists
	} else if !s.Has(picked[0]) {
		return nil, fmt.Errorf("%w: %s", store.ErrListNotFound, picked[0])
	}

	var options []string
	byLabel := make(map[string]target)
	for _, l := range scope {
		tasks, _ := s.Tasks(l)
		for _, t := range tasks {
			label := t.Name
			if picked[0] == AllLists {
				label = l + ": " + t.Name
			}
			// "a: b" + "c" and "a" + "b: c" render alike; number repeats.
			base := label
			for n := 2; ; n++ {
				if _, taken := byLabel[label]; !taken {
					break
				}
				label = fmt.Sprintf("%s (%d)", base, n)
			}
			options = append(options, label)
			byLabel[label] = target{list: l, task: t.Name}
		}
	}

	labels, err := m.selector.Select(ctx, options, true)
	if err != nil {
		return nil, err
	}
	var targets []target
	seen := make(map[string]bool)
	for _, label := range labels {
		t, ok := byLabel[label]
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		targets = append(targets, t)
	}
	return targets, nil
}

// CreateList implements Service.
func (m *Manager) CreateList(ctx context.Context, name string) error {
	s, err := m.gateway.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.CreateList(name); err != nil {
		return err
	}
	return m.gateway.Save(ctx, s)
}

// DeleteList implements Service.
func (m *Manager) DeleteList(ctx context.Context, name string) error {
	s, err := m.gateway.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.DeleteList(name); err != nil {
		return err
	}
	return m.gateway.Save(ctx, s)
}

// ListTasks implements Service.
func (m *Manager) ListTasks(ctx context.Context, list string) ([]TaskList, error) {
	s, err := m.gateway.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := s.Lists()
	if list != "" {
		names = []string{list}
	}

	result := make([]TaskList, 0, len(names))
	for _, name := range names {
		tasks, err := s.Tasks(name)
		if err != nil {
			return nil, err
		}
		result = append(result, TaskList{Name: name, Tasks: tasks})
	}
	return result, nil
}

// ListLists implements Service.
func (m *Manager) ListLists(ctx context.Context) ([]string, error) {
	s, err := m.gateway.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Lists(), nil
}
