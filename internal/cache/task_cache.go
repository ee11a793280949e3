package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/YoussoufEfkiren/ToDoList/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "task:list:"

// TaskCache caches per-owner task lists in Redis, one key per
// (owner, status filter) pair.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func listKey(ownerID int64, status *dom.Status) string {
	key := keyPrefix + strconv.FormatInt(ownerID, 10)
	if status != nil {
		key += ":" + string(*status)
	}
	return key
}

// GetList returns the cached list for the owner and filter, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, ownerID int64, status *dom.Status) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID, status)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list in cache.
func (c *TaskCache) SetList(ctx context.Context, ownerID int64, status *dom.Status, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(ownerID, status), b, c.ttl).Err()
}

// InvalidateOwner removes every list key for the owner (cache
// invalidation on write). Status keys are enumerable, so no SCAN.
func (c *TaskCache) InvalidateOwner(ctx context.Context, ownerID int64) error {
	keys := []string{listKey(ownerID, nil)}
	for _, s := range []dom.Status{dom.StatusPending, dom.StatusInProgress, dom.StatusCompleted} {
		st := s
		keys = append(keys, listKey(ownerID, &st))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
