package repository

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"taskflow/internal/model"
)

const countsCacheKey = "tasks:counts"

// CountsCache wraps a TaskStore with a Redis-backed cache for the dashboard
// counts, which are polled far more often than tasks change. Every mutation
// evicts the cached value.
type CountsCache struct {
	TaskStore
	redis *redis.Client
	ttl   time.Duration
}

var _ TaskStore = (*CountsCache)(nil)

// NewCountsCache creates a caching wrapper using the provided Redis client and TTL.
func NewCountsCache(base TaskStore, client *redis.Client, ttl time.Duration) *CountsCache {
	if base == nil {
		panic("repository.NewCountsCache: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &CountsCache{TaskStore: base, redis: client, ttl: ttl}
}

func (c *CountsCache) CountsByStatus(ctx context.Context) (model.StatusCounts, error) {
	if counts, ok := c.load(ctx); ok {
		return counts, nil
	}

	counts, err := c.TaskStore.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, counts)
	return counts, nil
}

func (c *CountsCache) Create(ctx context.Context, task *model.Task) error {
	if err := c.TaskStore.Create(ctx, task); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *CountsCache) Update(ctx context.Context, id uuid.UUID, patch model.TaskPatch) (*model.Task, model.Snapshot, error) {
	task, prev, err := c.TaskStore.Update(ctx, id, patch)
	if err != nil {
		return nil, model.Snapshot{}, err
	}
	c.evict(ctx)
	return task, prev, nil
}

func (c *CountsCache) ReplaceAll(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	inserted, err := c.TaskStore.ReplaceAll(ctx, tasks)
	// A failed replace may still have cleared the collection.
	c.evict(ctx)
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (c *CountsCache) load(ctx context.Context) (model.StatusCounts, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, countsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing store without failing.
			_ = c.redis.Del(ctx, countsCacheKey).Err()
		}
		return nil, false
	}
	var counts model.StatusCounts
	if err := sonic.Unmarshal(data, &counts); err != nil {
		_ = c.redis.Del(ctx, countsCacheKey).Err()
		return nil, false
	}
	return counts, true
}

func (c *CountsCache) store(ctx context.Context, counts model.StatusCounts) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(counts)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, countsCacheKey, data, c.ttl).Err()
}

func (c *CountsCache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, countsCacheKey).Err()
}
