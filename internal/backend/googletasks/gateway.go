package googletasks

import (
	"context"
	"errors"
	"fmt"
	"sort"

	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/store"
)

// remoteTask is a task as last seen on the server.
type remoteTask struct {
	id      string
	title   string
	checked bool
}

// remoteList is a task list as last seen on the server.
type remoteList struct {
	id    string
	title string
	tasks []remoteTask
}

// snapshot is the remote state a Save is diffed against.
type snapshot struct {
	lists []remoteList
}

func (s *snapshot) list(title string) (remoteList, bool) {
	for _, l := range s.lists {
		if l.title == title {
			return l, true
		}
	}
	return remoteList{}, false
}

// Load implements store.Gateway.
func (g *Gateway) Load(ctx context.Context) (*store.Store, error) {
	lists, err := g.fetchLists(ctx)
	if err != nil {
		return nil, err
	}

	s := store.New()
	snap := &snapshot{}
	for _, l := range lists {
		if err := s.CreateList(l.Title); err != nil {
			return nil, &store.StorageError{Op: "load", Err: fmt.Errorf("task list %q: %w", l.Title, err)}
		}

		items, err := g.fetchTasks(ctx, l.Id)
		if err != nil {
			return nil, err
		}

		rl := remoteList{id: l.Id, title: l.Title}
		for _, t := range items {
			if err := s.AddTask(l.Title, t.Title); err != nil {
				g.logger.Warn("skipping task", "list", l.Title, "task", t.Title, "err", err)
				continue
			}
			checked := t.Status == statusCompleted
			if checked {
				if _, err := s.ToggleTask(l.Title, t.Title); err != nil {
					return nil, &store.StorageError{Op: "load", Err: fmt.Errorf("task %q in %q: %w", t.Title, l.Title, err)}
				}
			}
			rl.tasks = append(rl.tasks, remoteTask{id: t.Id, title: t.Title, checked: checked})
		}
		snap.lists = append(snap.lists, rl)
	}

	g.snapshot = snap
	g.logger.Debug("loaded google tasks", "lists", len(snap.lists))
	return s, nil
}

func (g *Gateway) fetchLists(ctx context.Context) ([]*tasks.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []*tasks.TaskList
	err := g.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		result = append(result, resp.Items...)
		return nil
	})
	if err != nil {
		return nil, wrapError("load", err)
	}
	return result, nil
}

// fetchTasks returns the top-level tasks of a list, completed and hidden
// ones included, in position order.
func (g *Gateway) fetchTasks(ctx context.Context, listID string) ([]*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []*tasks.Task
	err := g.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if t.Parent != "" {
					continue
				}
				result = append(result, t)
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("load", err)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// Save implements store.Gateway. It applies the difference between s and the
// last loaded state. A failure part way leaves earlier changes applied.
func (g *Gateway) Save(ctx context.Context, s *store.Store) error {
	if g.snapshot == nil {
		return &store.StorageError{Op: "save", Err: errors.New("store was not loaded from this gateway")}
	}

	ops := plan(g.snapshot, s)
	g.logger.Debug("saving google tasks", "changes", len(ops))

	ids := newIDMap(g.snapshot)
	for _, o := range ops {
		if err := g.apply(ctx, ids, o); err != nil {
			return err
		}
	}

	g.snapshot = ids.snapshotOf(s)
	return nil
}

func (g *Gateway) apply(ctx context.Context, ids *idMap, o op) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	switch o.kind {
	case opDeleteList:
		if err := g.svc.Tasklists.Delete(ids.lists[o.list]).Context(ctx).Do(); err != nil {
			return wrapError("save", err)
		}
		ids.dropList(o.list)

	case opCreateList:
		created, err := g.svc.Tasklists.Insert(&tasks.TaskList{Title: o.list}).Context(ctx).Do()
		if err != nil {
			return wrapError("save", err)
		}
		ids.lists[o.list] = created.Id
		ids.tasks[o.list] = make(map[string]string)

	case opDeleteTask:
		listID := ids.lists[o.list]
		if err := g.svc.Tasks.Delete(listID, ids.tasks[o.list][o.task]).Context(ctx).Do(); err != nil {
			return wrapError("save", err)
		}
		delete(ids.tasks[o.list], o.task)

	case opInsertTask:
		listID := ids.lists[o.list]
		t := &tasks.Task{Title: o.task, Status: statusNeedsAction}
		if o.checked {
			t.Status = statusCompleted
		}
		call := g.svc.Tasks.Insert(listID, t)
		if o.previous != "" {
			call = call.Previous(ids.tasks[o.list][o.previous])
		}
		created, err := call.Context(ctx).Do()
		if err != nil {
			return wrapError("save", err)
		}
		ids.tasks[o.list][o.task] = created.Id

	case opSetStatus:
		listID := ids.lists[o.list]
		patch := &tasks.Task{Status: statusNeedsAction, NullFields: []string{"Completed"}}
		if o.checked {
			patch = &tasks.Task{Status: statusCompleted}
		}
		if _, err := g.svc.Tasks.Patch(listID, ids.tasks[o.list][o.task], patch).Context(ctx).Do(); err != nil {
			return wrapError("save", err)
		}
	}
	return nil
}

// idMap tracks server IDs by list title and task title while a save runs.
type idMap struct {
	lists map[string]string
	tasks map[string]map[string]string
}

func newIDMap(s *snapshot) *idMap {
	m := &idMap{
		lists: make(map[string]string),
		tasks: make(map[string]map[string]string),
	}
	for _, l := range s.lists {
		m.lists[l.title] = l.id
		m.tasks[l.title] = make(map[string]string)
		for _, t := range l.tasks {
			m.tasks[l.title][t.title] = t.id
		}
	}
	return m
}

func (m *idMap) dropList(title string) {
	delete(m.lists, title)
	delete(m.tasks, title)
}

// snapshotOf describes s using the IDs known after a save.
func (m *idMap) snapshotOf(s *store.Store) *snapshot {
	snap := &snapshot{}
	for _, name := range s.Lists() {
		rl := remoteList{id: m.lists[name], title: name}
		items, _ := s.Tasks(name)
		for _, t := range items {
			rl.tasks = append(rl.tasks, remoteTask{id: m.tasks[name][t.Name], title: t.Name, checked: t.Checked})
		}
		snap.lists = append(snap.lists, rl)
	}
	return snap
}
