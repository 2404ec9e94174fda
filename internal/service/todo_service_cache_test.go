package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"TodoRPC/internal/cache"
	dom "TodoRPC/internal/domain"
	"TodoRPC/internal/repo"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cachedListKey = "todo:list"

// gatedRepo holds the first List call until release is closed. With
// afterRead the table is read before pausing, otherwise after.
type gatedRepo struct {
	repo.TodoRepo
	afterRead bool

	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedRepo(inner repo.TodoRepo, afterRead bool) *gatedRepo {
	return &gatedRepo{
		TodoRepo:  inner,
		afterRead: afterRead,
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (g *gatedRepo) List(ctx context.Context) ([]dom.Todo, error) {
	first := false
	g.once.Do(func() { first = true })
	if !first {
		return g.TodoRepo.List(ctx)
	}
	if g.afterRead {
		list, err := g.TodoRepo.List(ctx)
		close(g.entered)
		<-g.release
		return list, err
	}
	close(g.entered)
	<-g.release
	return g.TodoRepo.List(ctx)
}

func newCachedService(t *testing.T, r repo.TodoRepo) (*TodoService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewTodoService(r, cache.NewTodoCache(rdb, time.Minute), WithClock(newStepClock()), WithLogger(log))
	return s, mr
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func TestCachedListMissThenHit(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	s, mr := newCachedService(t, r)

	created, err := s.Create(ctx, "cached")
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dom.Todo{created}, list)
	assert.True(t, mr.Exists(cachedListKey))

	// a row written behind the service is not seen until invalidation
	_, err = r.Create(ctx, dom.Todo{Text: "sneaky", CreatedAt: created.CreatedAt, UpdatedAt: created.UpdatedAt})
	require.NoError(t, err)
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dom.Todo{created}, list)
}

func TestWritesInvalidateCachedList(t *testing.T) {
	ctx := context.Background()
	s, mr := newCachedService(t, newTestRepo(t))

	fill := func() {
		t.Helper()
		_, err := s.List(ctx)
		require.NoError(t, err)
		require.True(t, mr.Exists(cachedListKey))
	}

	fill()
	created, err := s.Create(ctx, "first")
	require.NoError(t, err)
	assert.False(t, mr.Exists(cachedListKey), "create")
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dom.Todo{created}, list)

	fill()
	updated, err := s.Update(ctx, created.ID, dom.TodoPatch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cachedListKey), "update")
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dom.Todo{updated}, list)

	fill()
	require.NoError(t, s.Delete(ctx, created.ID))
	assert.False(t, mr.Exists(cachedListKey), "delete")
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListFallsBackToTableWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newCachedService(t, newTestRepo(t))

	first, err := s.Create(ctx, "before outage")
	require.NoError(t, err)
	_, err = s.List(ctx)
	require.NoError(t, err)

	mr.Close()

	second, err := s.Create(ctx, "during outage")
	require.NoError(t, err)
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dom.Todo{second, first}, list)
}

func TestListReadBeforeCreateDoesNotCacheStaleRows(t *testing.T) {
	ctx := context.Background()
	gated := newGatedRepo(newTestRepo(t), true)
	s, _ := newCachedService(t, gated)

	stale := make(chan []dom.Todo, 1)
	go func() {
		list, _ := s.List(ctx)
		stale <- list
	}()
	<-gated.entered

	created, err := s.Create(ctx, "new")
	require.NoError(t, err)

	// a caller arriving after the create must not share the older read
	fresh := make(chan []dom.Todo, 1)
	go func() {
		list, err := s.List(ctx)
		assert.NoError(t, err)
		fresh <- list
	}()
	assert.Contains(t, waitFor(t, fresh), created)

	close(gated.release)
	assert.Empty(t, waitFor(t, stale))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, created, "list after create")
}

func TestListSurvivesFirstCallerCancel(t *testing.T) {
	gated := newGatedRepo(newTestRepo(t), false)
	s, _ := newCachedService(t, gated)

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		list []dom.Todo
		err  error
	}
	done := make(chan result, 1)
	go func() {
		list, err := s.List(ctx)
		done <- result{list, err}
	}()
	<-gated.entered
	cancel()
	close(gated.release)

	res := waitFor(t, done)
	require.NoError(t, res.err)
	assert.NotNil(t, res.list)
}
