// Package store owns the in-memory todo list and keeps it synced to a kv slot.
//
// A Store hydrates once when it is built and writes the whole list back to
// the slot at the end of every mutation that changed something. Mutations
// on an id that is not in the list are silent no-ops.
package store

import (
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/kv"
	"github.com/idilsaglam/tada/internal/model"
)

// DefaultKey is the slot the list lives in.
const DefaultKey = "todos"

// Store is the single source of truth for the todo list.
type Store struct {
	mu     sync.RWMutex
	slot   kv.Store
	key    string
	logger *log.Logger
	now    func() time.Time
	lastID int64
	todos  []model.Todo
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for hydration and write warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now as the id source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKey overrides the slot key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New builds a Store on slot and hydrates it. A missing, unreadable or
// malformed slot leaves the list empty; the last two are logged.
func New(slot kv.Store, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		logger: log.New(io.Discard),
		now:    time.Now,
		todos:  []model.Todo{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	b, err := s.slot.Get(s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("could not read saved todos, starting empty", "key", s.key, "err", err)
		}
		return
	}
	todos, err := Decode(b)
	if err != nil {
		s.logger.Warn("saved todos are malformed, starting empty", "key", s.key, "err", err)
		return
	}
	s.todos = todos
	for _, t := range todos {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.logger.Debug("hydrated todos", "key", s.key, "count", len(todos))
}

// nextID derives an id from the clock in milliseconds, never handing out
// the same or a smaller value twice. Caller holds mu.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// persist writes the whole list to the slot. If the write fails the list
// is put back to prev, so memory never runs ahead of storage. Caller holds mu.
func (s *Store) persist(prev []model.Todo) error {
	b, err := Encode(s.todos)
	if err == nil {
		err = s.slot.Set(s.key, b)
	}
	if err != nil {
		s.todos = prev
		s.logger.Error("failed to save todos", "key", s.key, "err", err)
		return err
	}
	return nil
}

// indexOf returns the position of id, or -1. Caller holds mu.
func (s *Store) indexOf(id int64) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTodo appends a new, not completed item. The input is not validated.
func (s *Store) AddTodo(in model.Input) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := slices.Clone(s.todos)
	t := model.Todo{
		ID:          s.nextID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Completed:   false,
	}
	s.todos = append(s.todos, t)
	if err := s.persist(prev); err != nil {
		return model.Todo{}, err
	}
	s.logger.Debug("added todo", "id", t.ID, "title", t.Title)
	return t, nil
}

// RemoveTodo drops the item with id, if any.
func (s *Store) RemoveTodo(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	prev := s.todos
	out := make([]model.Todo, 0, len(s.todos)-1)
	out = append(out, s.todos[:i]...)
	out = append(out, s.todos[i+1:]...)
	s.todos = out
	s.logger.Debug("removed todo", "id", id)
	return s.persist(prev)
}

// SetPriority changes the priority of id and gives the item a new id.
func (s *Store) SetPriority(id int64, p model.Priority) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	prev := slices.Clone(s.todos)
	s.todos[i].Priority = p
	s.todos[i].ID = s.nextID()
	s.logger.Debug("set priority", "old_id", id, "id", s.todos[i].ID, "priority", p)
	return s.persist(prev)
}

// SetCompleted sets the completed flag of id. The id does not change.
func (s *Store) SetCompleted(id int64, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	prev := slices.Clone(s.todos)
	s.todos[i].Completed = completed
	s.logger.Debug("set completed", "id", id, "completed", completed)
	return s.persist(prev)
}

// UpdateTodo replaces title, description and priority of id and gives the
// item a new id.
func (s *Store) UpdateTodo(id int64, in model.Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	prev := slices.Clone(s.todos)
	t := &s.todos[i]
	t.Title = in.Title
	t.Description = in.Description
	t.Priority = in.Priority
	t.ID = s.nextID()
	s.logger.Debug("updated todo", "old_id", id, "id", t.ID)
	return s.persist(prev)
}

// Todos returns a copy of the list in insertion order.
func (s *Store) Todos() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Get looks an item up by id.
func (s *Store) Get(id int64) (model.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.todos[i], true
	}
	return model.Todo{}, false
}

// LastID is the most recent id the store handed out, the new id of an
// item after SetPriority or UpdateTodo.
func (s *Store) LastID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

// Stats counts completed and pending items.
func (s *Store) Stats() (done, pending int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
