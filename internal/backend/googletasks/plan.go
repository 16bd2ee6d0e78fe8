package googletasks

import "todo/internal/store"

type opKind int

const (
	opDeleteList opKind = iota
	opCreateList
	opDeleteTask
	opInsertTask
	opSetStatus
)

func (k opKind) String() string {
	switch k {
	case opDeleteList:
		return "delete-list"
	case opCreateList:
		return "create-list"
	case opDeleteTask:
		return "delete-task"
	case opInsertTask:
		return "insert-task"
	case opSetStatus:
		return "set-status"
	}
	return "unknown"
}

// op is one remote change. Lists and tasks are named by title; previous is
// the task the new one goes after ("" for the top of the list).
type op struct {
	kind     opKind
	list     string
	task     string
	previous string
	checked  bool
}

// plan returns the changes that turn prev into next. Removed lists go first,
// then lists are walked in next's order: created if new, otherwise removed
// tasks are deleted before new tasks are inserted and status changes patched.
func plan(prev *snapshot, next *store.Store) []op {
	var ops []op

	for _, l := range prev.lists {
		if !next.Has(l.title) {
			ops = append(ops, op{kind: opDeleteList, list: l.title})
		}
	}

	for _, name := range next.Lists() {
		items, _ := next.Tasks(name)
		old, existed := prev.list(name)
		if !existed {
			ops = append(ops, op{kind: opCreateList, list: name})
		}

		before := make(map[string]bool, len(old.tasks))
		for _, t := range old.tasks {
			before[t.title] = t.checked
			if !next.Contains(name, t.title) {
				ops = append(ops, op{kind: opDeleteTask, list: name, task: t.title})
			}
		}

		previous := ""
		for _, t := range items {
			checked, ok := before[t.Name]
			switch {
			case !ok:
				ops = append(ops, op{kind: opInsertTask, list: name, task: t.Name, previous: previous, checked: t.Checked})
			case checked != t.Checked:
				ops = append(ops, op{kind: opSetStatus, list: name, task: t.Name, checked: t.Checked})
			}
			previous = t.Name
		}
	}
	return ops
}
