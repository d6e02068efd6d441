package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/model"
)

// countingStore counts how often the counts query reaches the backing store.
type countingStore struct {
	TaskStore
	countCalls int
}

func (s *countingStore) CountsByStatus(ctx context.Context) (model.StatusCounts, error) {
	s.countCalls++
	return s.TaskStore.CountsByStatus(ctx)
}

func setupCache(t *testing.T, ttl time.Duration) (*CountsCache, *countingStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mem, err := NewMemoryStore()
	require.NoError(t, err)
	base := &countingStore{TaskStore: mem}

	return NewCountsCache(base, client, ttl), base, mr
}

func cacheTestTask(status model.Status) *model.Task {
	return &model.Task{
		Title:       "Cached",
		Description: "d",
		DueDate:     model.NewDate(2024, time.June, 1),
		ClientName:  "c",
		ProjectName: "p",
		CreatedBy:   "u",
		Status:      status,
	}
}

func TestCountsCache_MissThenHit(t *testing.T) {
	cache, base, mr := setupCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, base.TaskStore.Create(ctx, cacheTestTask(model.StatusClosed)))

	first, err := cache.CountsByStatus(ctx)
	require.NoError(t, err)
	second, err := cache.CountsByStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, base.countCalls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, second[model.StatusClosed])
	assert.Equal(t, 0, second[model.StatusUnassigned])

	ttl := mr.TTL(countsCacheKey)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL: %v", ttl)
}

func TestCountsCache_MutationsEvict(t *testing.T) {
	cache, base, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	_, err := cache.CountsByStatus(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(countsCacheKey))

	task := cacheTestTask(model.StatusUnassigned)
	require.NoError(t, cache.Create(ctx, task))
	assert.False(t, mr.Exists(countsCacheKey), "create should evict")

	counts, err := cache.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.StatusUnassigned])

	_, _, err = cache.Update(ctx, task.ID, model.StatusPatch(model.StatusInProgress))
	require.NoError(t, err)
	assert.False(t, mr.Exists(countsCacheKey), "update should evict")

	counts, err = cache.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts[model.StatusUnassigned])
	assert.Equal(t, 1, counts[model.StatusInProgress])

	_, err = cache.ReplaceAll(ctx, model.SampleTasks())
	require.NoError(t, err)
	assert.False(t, mr.Exists(countsCacheKey), "replace should evict")

	counts, err = cache.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, counts.Total())
	assert.Equal(t, 4, base.countCalls)
}

func TestCountsCache_FailedUpdateKeepsEntry(t *testing.T) {
	cache, _, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	_, err := cache.CountsByStatus(ctx)
	require.NoError(t, err)

	task := cacheTestTask(model.StatusAssigned)
	require.NoError(t, cache.Create(ctx, task))
	_, err = cache.CountsByStatus(ctx)
	require.NoError(t, err)

	_, _, err = cache.Update(ctx, task.ID, model.StatusPatch("Done"))
	assert.True(t, model.IsValidationError(err))
	assert.True(t, mr.Exists(countsCacheKey))
}

func TestCountsCache_CorruptEntryFallsBack(t *testing.T) {
	cache, base, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set(countsCacheKey, "not-json"))

	counts, err := cache.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Total())
	assert.Equal(t, 1, base.countCalls)
}

func TestCountsCache_RedisDownFallsBack(t *testing.T) {
	cache, base, mr := setupCache(t, time.Minute)
	ctx := context.Background()
	mr.SetError("ERR server unavailable")

	counts, err := cache.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Len(t, counts, len(model.Statuses))
	assert.Equal(t, 1, base.countCalls)

	require.NoError(t, cache.Create(ctx, cacheTestTask(model.StatusClosed)))
}

func TestCountsCache_ZeroTTLDisablesStore(t *testing.T) {
	cache, base, mr := setupCache(t, 0)
	ctx := context.Background()

	_, err := cache.CountsByStatus(ctx)
	require.NoError(t, err)
	_, err = cache.CountsByStatus(ctx)
	require.NoError(t, err)

	assert.False(t, mr.Exists(countsCacheKey))
	assert.Equal(t, 2, base.countCalls)
}
