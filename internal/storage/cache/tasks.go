// Package cache puts a Redis read-through cache in front of a task
// repository. Only the per-owner task list is cached; every write evicts it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/storage"
)

type TaskRepository struct {
	storage.TaskRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewTaskRepository wraps base. A nil client or a zero TTL disables caching.
func NewTaskRepository(base storage.TaskRepository, client *redis.Client, ttl time.Duration) *TaskRepository {
	if base == nil {
		panic("cache.NewTaskRepository: base repository is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &TaskRepository{
		TaskRepository: base,
		redis:          client,
		ttl:            ttl,
	}
}

func (c *TaskRepository) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	if tasks, ok := c.load(ctx, userID); ok {
		return tasks, nil
	}

	tasks, err := c.TaskRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, userID, tasks)
	return tasks, nil
}

func (c *TaskRepository) Insert(ctx context.Context, task *models.Task) error {
	if err := c.TaskRepository.Insert(ctx, task); err != nil {
		return err
	}
	c.evict(ctx, task.UserID)
	return nil
}

func (c *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	if err := c.TaskRepository.Update(ctx, task); err != nil {
		return err
	}
	c.evict(ctx, task.UserID)
	return nil
}

// UpdatePlacements evicts even on failure because a batch may have been
// partially applied.
func (c *TaskRepository) UpdatePlacements(ctx context.Context, userID string, placements []models.Placement, updatedAt time.Time) error {
	err := c.TaskRepository.UpdatePlacements(ctx, userID, placements, updatedAt)
	c.evict(ctx, userID)
	return err
}

func (c *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := c.TaskRepository.Delete(ctx, userID, taskID); err != nil {
		return err
	}
	c.evict(ctx, userID)
	return nil
}

func (c *TaskRepository) load(ctx context.Context, userID string) ([]models.Task, bool) {
	if c.redis == nil || c.ttl == 0 {
		return nil, false
	}
	data, err := c.redis.Get(ctx, tasksKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing repository.
			_ = c.redis.Del(ctx, tasksKey(userID)).Err()
		}
		return nil, false
	}
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, tasksKey(userID)).Err()
		return nil, false
	}
	return tasks, true
}

func (c *TaskRepository) store(ctx context.Context, userID string, tasks []models.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, tasksKey(userID), data, c.ttl).Err()
}

func (c *TaskRepository) evict(ctx context.Context, userID string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, tasksKey(userID)).Err()
}

func tasksKey(userID string) string {
	return "tasks:" + userID
}
