package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"TodoRPC/internal/cache"
	dom "TodoRPC/internal/domain"
	"TodoRPC/internal/repo"

	"golang.org/x/sync/singleflight"
)

const listKey = "list"

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
	now   func() time.Time
	log   *slog.Logger
}

type Option func(*TodoService)

// WithClock replaces time.Now as the source of created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TodoService) { s.log = l }
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache, opts ...Option) *TodoService {
	s := &TodoService{repo: r, cache: c, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TodoService) Create(ctx context.Context, text string) (dom.Todo, error) {
	if err := validateText(text); err != nil {
		return dom.Todo{}, err
	}
	now := s.timestamp()
	t, err := s.repo.Create(ctx, dom.Todo{
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// List returns every todo, newest first. With a cache, concurrent calls under
// the same list generation share one table read.
func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "todo cache generation read failed", "err", err)
		return s.repo.List(ctx)
	}
	key := listKey + ":" + strconv.FormatInt(gen, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// joined callers must not fail because the first caller went away
		ctx := context.WithoutCancel(ctx)
		list, err := s.cache.GetList(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "todo cache read failed", "err", err)
		} else if list != nil {
			return list, nil
		}
		list, err = s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		err = s.cache.SetList(ctx, gen, list)
		if err != nil && !errors.Is(err, cache.ErrStale) {
			s.log.WarnContext(ctx, "todo cache write failed", "err", err)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

func (s *TodoService) Get(ctx context.Context, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, notFound(err, id)
	}
	return t, nil
}

// Update applies the fields present in patch and always advances updated_at.
func (s *TodoService) Update(ctx context.Context, id int64, patch dom.TodoPatch) (dom.Todo, error) {
	if patch.Text != nil {
		if err := validateText(*patch.Text); err != nil {
			return dom.Todo{}, err
		}
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, notFound(err, id)
	}

	now := s.timestamp()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Microsecond)
	}
	t, err := s.repo.Update(ctx, patch.Apply(existing, now))
	if err != nil {
		return dom.Todo{}, notFound(err, id)
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, id)
	}
	s.invalidateCache(ctx)
	return nil
}

// Ping checks that the store is reachable.
func (s *TodoService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// timestamp is the service clock at storage precision.
func (s *TodoService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "todo cache invalidate failed", "err", err)
	}
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	return nil
}

// notFound turns repo.ErrNoRows into a NotFoundError for id and wraps anything else.
func notFound(err error, id int64) error {
	if errors.Is(err, repo.ErrNoRows) {
		return &NotFoundError{ID: id}
	}
	return fmt.Errorf("todo %d: %w", id, err)
}
