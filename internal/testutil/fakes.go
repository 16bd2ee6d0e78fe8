// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"todo/internal/store"
)

// ErrScriptExhausted is returned when a scripted fake runs out of answers.
var ErrScriptExhausted = errors.New("no scripted answer left")

// MemoryGateway is an in-memory store.Gateway for testing.
// Load and Save copy the store so tests observe only what was saved.
type MemoryGateway struct {
	mu    sync.Mutex
	store *store.Store
	saves int

	// Error injection for testing
	LoadErr error
	SaveErr error
}

// NewMemoryGateway creates a gateway holding the given lists, all empty.
func NewMemoryGateway(lists ...string) *MemoryGateway {
	s := store.New()
	for _, l := range lists {
		s.CreateList(l)
	}
	return &MemoryGateway{store: s}
}

// AddTask adds a task directly to the persisted store.
func (g *MemoryGateway) AddTask(list, task string, checked bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.store.Has(list) {
		g.store.CreateList(list)
	}
	g.store.AddTask(list, task)
	if checked {
		g.store.ToggleTask(list, task)
	}
}

// Snapshot returns a copy of the persisted store.
func (g *MemoryGateway) Snapshot() *store.Store {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.Clone()
}

// Saves returns how many times Save succeeded.
func (g *MemoryGateway) Saves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves
}

// Load implements store.Gateway.
func (g *MemoryGateway) Load(ctx context.Context) (*store.Store, error) {
	if g.LoadErr != nil {
		return nil, g.LoadErr
	}
	return g.Snapshot(), nil
}

// Save implements store.Gateway.
func (g *MemoryGateway) Save(ctx context.Context, s *store.Store) error {
	if g.SaveErr != nil {
		return g.SaveErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.store = s.Clone()
	g.saves++
	return nil
}

// ScriptedConfirmer answers yes/no questions from a script.
type ScriptedConfirmer struct {
	Answers   []bool
	Questions []string
	Err       error
}

// Confirm implements resolver.Confirmer.
func (c *ScriptedConfirmer) Confirm(question string) (bool, error) {
	c.Questions = append(c.Questions, question)
	if c.Err != nil {
		return false, c.Err
	}
	if len(c.Answers) == 0 {
		return false, ErrScriptExhausted
	}
	answer := c.Answers[0]
	c.Answers = c.Answers[1:]
	return answer, nil
}

// SelectCall records one Select invocation.
type SelectCall struct {
	Options []string
	Multi   bool
}

// ScriptedSelector returns scripted picks in order.
type ScriptedSelector struct {
	Picks [][]string
	Calls []SelectCall
	Err   error
}

// Select implements resolver.Selector.
func (s *ScriptedSelector) Select(ctx context.Context, options []string, multi bool) ([]string, error) {
	opts := make([]string, len(options))
	copy(opts, options)
	s.Calls = append(s.Calls, SelectCall{Options: opts, Multi: multi})
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Picks) == 0 {
		return nil, ErrScriptExhausted
	}
	pick := s.Picks[0]
	s.Picks = s.Picks[1:]
	return pick, nil
}

// ExitRecorder captures exit codes instead of ending the process.
type ExitRecorder struct {
	Codes []int
}

// Exit records code.
func (e *ExitRecorder) Exit(code int) {
	e.Codes = append(e.Codes, code)
}
