package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "TodoAPI/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList       = "todo:list"
	keyGeneration = "todo:list:gen"
)

// TodoCache caches the todo list in Redis.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetList returns cached list or nil if miss.
func (c *TodoCache) GetList(ctx context.Context) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
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

// Generation returns the current list generation. Invalidate bumps it.
func (c *TodoCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGeneration).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// SetList stores the list if no write invalidated the cache since gen was read.
func (c *TodoCache) SetList(ctx context.Context, list []dom.Todo, gen int64) error {
	if list == nil {
		list = []dom.Todo{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, keyGeneration).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyList, b, c.ttl)
			return nil
		})
		return err
	}, keyGeneration)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate drops the cached list and bumps the generation (called on every write).
func (c *TodoCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, keyGeneration)
		pipe.Del(ctx, keyList)
		return nil
	})
	return err
}
