package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Store is the list a UI renders. Mutations are applied locally only after
// the server accepted them, so a failed call leaves the list as it was.
type Store struct {
	c   *Client
	log *slog.Logger

	mu    sync.Mutex
	todos []Todo
}

func NewStore(c *Client, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{c: c, log: log}
}

// Load replaces the list with the server's.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.c.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load todos", "err", err)
		return err
	}
	s.mu.Lock()
	s.todos = list
	s.mu.Unlock()
	return nil
}

// Add creates a todo from trimmed text and puts it first. Blank text is
// ignored.
func (s *Store) Add(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	t, err := s.c.Create(ctx, text)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to create todo", "err", err)
		return err
	}
	s.mu.Lock()
	s.todos = append([]Todo{t}, s.todos...)
	s.mu.Unlock()
	return nil
}

// Toggle flips the completed flag of id.
func (s *Store) Toggle(ctx context.Context, id int64) error {
	cur, ok := s.find(id)
	if !ok {
		return fmt.Errorf("todo %d is not loaded", id)
	}
	done := !cur.Completed
	return s.update(ctx, UpdateInput{ID: id, Completed: &done}, "failed to toggle todo")
}

// Edit replaces the text of id with trimmed text. Blank text is ignored.
func (s *Store) Edit(ctx context.Context, id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.update(ctx, UpdateInput{ID: id, Text: &text}, "failed to update todo")
}

// Remove deletes id.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if err := s.c.Delete(ctx, id); err != nil {
		s.log.ErrorContext(ctx, "failed to delete todo", "id", id, "err", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.todos[:0:0]
	for _, t := range s.todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.todos = kept
	return nil
}

// Todos returns a copy of the current list.
func (s *Store) Todos() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Todo(nil), s.todos...)
}

// Stats returns how many todos are completed out of the total.
func (s *Store) Stats() (completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.Completed {
			completed++
		}
	}
	return completed, len(s.todos)
}

func (s *Store) update(ctx context.Context, in UpdateInput, msg string) error {
	t, err := s.c.Update(ctx, in)
	if err != nil {
		s.log.ErrorContext(ctx, msg, "id", in.ID, "err", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == t.ID {
			s.todos[i] = t
		}
	}
	return nil
}

func (s *Store) find(id int64) (Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}
