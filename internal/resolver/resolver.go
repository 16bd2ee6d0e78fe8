// Package resolver finds a task in other lists when it is missing from the
// list the user named, and asks the user which of those lists to act on.
//
// The resolver only answers "which lists"; it never mutates the store.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/store"
)

// ErrDeclined means the user answered no to a single-candidate prompt.
// Callers abort the operation and print nothing.
var ErrDeclined = errors.New("declined")

// ErrAborted is returned after the exit hook runs when the user declines to
// choose among several candidates. With the default hook the process has
// already exited.
var ErrAborted = errors.New("aborted")

// Confirmer asks a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Selector lets the user pick among options. In single-select mode it
// returns at most one item; in multi-select mode any subset, possibly empty.
type Selector interface {
	Select(ctx context.Context, options []string, multi bool) ([]string, error)
}

// Resolver picks target lists for a task that was not found where expected.
type Resolver struct {
	confirm Confirmer
	sel     Selector
	out     io.Writer
	exit    func(code int)
	logger  *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExit replaces os.Exit as the hook used when the user abandons a
// multi-candidate prompt.
func WithExit(fn func(code int)) Option {
	return func(r *Resolver) { r.exit = fn }
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a resolver that prints prompts to out.
func New(confirm Confirmer, sel Selector, out io.Writer, opts ...Option) *Resolver {
	r := &Resolver{
		confirm: confirm,
		sel:     sel,
		out:     out,
		exit:    os.Exit,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindCandidates returns, in store order, every list other than exclude that
// holds a task named task.
func FindCandidates(s *store.Store, task, exclude string) []string {
	var out []string
	for _, list := range s.Lists() {
		if list == exclude {
			continue
		}
		if s.Contains(list, task) {
			out = append(out, list)
		}
	}
	return out
}

// Resolve decides which lists the action applies to after task was not found
// in list. action is a verb shown to the user, e.g. "remove" or "check".
//
// No candidates: store.ErrTaskNotFound. One candidate: a yes/no prompt, no
// gives ErrDeclined. Several: the candidates are printed and the user is asked
// whether to continue; no ends the process through the exit hook, yes opens
// the selector and returns whatever subset was picked.
func (r *Resolver) Resolve(ctx context.Context, s *store.Store, task, list, action string) ([]string, error) {
	candidates := FindCandidates(s, task, list)
	r.logger.Debug("resolving task in other lists", "task", task, "list", list, "candidates", len(candidates))

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: %s", store.ErrTaskNotFound, task)

	case 1:
		q := fmt.Sprintf("Task %q is not in %q but was found in %q. %s it there?", task, list, candidates[0], capitalize(action))
		ok, err := r.confirm.Confirm(q)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeclined
		}
		return candidates, nil
	}

	fmt.Fprintf(r.out, "Task %q is not in %q but was found in %d lists:\n", task, list, len(candidates))
	for i, c := range candidates {
		fmt.Fprintf(r.out, "%4d  %s\n", i+1, c)
	}
	ok, err := r.confirm.Confirm(fmt.Sprintf("Choose lists to %s it in?", action))
	if err != nil {
		return nil, err
	}
	if !ok {
		r.exit(exitcode.Success)
		return nil, ErrAborted
	}

	picked, err := r.sel.Select(ctx, candidates, true)
	if err != nil {
		return nil, err
	}
	return keepCandidates(candidates, picked), nil
}

// keepCandidates returns the picked entries that are real candidates, in
// candidate order and without repeats.
func keepCandidates(candidates, picked []string) []string {
	chosen := make(map[string]bool, len(picked))
	for _, p := range picked {
		chosen[p] = true
	}
	out := []string{}
	for _, c := range candidates {
		if chosen[c] {
			out = append(out, c)
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
