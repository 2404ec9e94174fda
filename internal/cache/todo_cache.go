package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "TodoRPC/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList = "todo:list"
	// keyGen is bumped on every invalidation. A list is only stored if the
	// generation it was read under is still current.
	keyGen = "todo:list:gen"
)

// ErrStale is returned by SetList when the list was invalidated after the
// caller read its generation.
var ErrStale = errors.New("cached list is stale")

// TodoCache caches the todo list in Redis.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current list generation (0 before the first write).
func (c *TodoCache) Generation(ctx context.Context) (int64, error) {
	return generation(ctx, c.rdb)
}

// GetList returns the cached list, or nil on a miss.
func (c *TodoCache) GetList(ctx context.Context) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := make([]dom.Todo, 0)
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores list if gen is still the current generation, otherwise it
// returns ErrStale and leaves the cache alone.
func (c *TodoCache) SetList(ctx context.Context, gen int64, list []dom.Todo) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyList, b, c.ttl)
			return nil
		})
		return err
	}, keyGen)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

// Invalidate drops the cached list and bumps the generation. Called after
// every write.
func (c *TodoCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyList)
		pipe.Incr(ctx, keyGen)
		return nil
	})
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, r getter) (int64, error) {
	gen, err := r.Get(ctx, keyGen).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
