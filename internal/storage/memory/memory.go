// Package memory keeps tasks and users in process memory. It backs local
// runs with STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/storage"
)

type Store struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
	users map[string]models.User
}

func New() *Store {
	return &Store{
		tasks: make(map[string]models.Task),
		users: make(map[string]models.User),
	}
}

// Tasks exposes the store as a storage.TaskRepository.
func (s *Store) Tasks() storage.TaskRepository {
	return taskRepository{s}
}

// Users exposes the store as a storage.UserRepository.
func (s *Store) Users() storage.UserRepository {
	return userRepository{s}
}

type taskRepository struct {
	*Store
}

func (r taskRepository) ListByUser(_ context.Context, userID string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]models.Task, 0)
	for _, t := range r.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (r taskRepository) FindByID(_ context.Context, taskID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}

func (r taskRepository) FindByIDs(_ context.Context, taskIDs []string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]models.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		if t, ok := r.tasks[id]; ok {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (r taskRepository) MaxPosition(_ context.Context, userID, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maxPosition := -1
	for _, t := range r.tasks {
		if t.UserID == userID && t.Status == status && t.Position > maxPosition {
			maxPosition = t.Position
		}
	}
	return maxPosition, nil
}

func (r taskRepository) Insert(_ context.Context, task *models.Task) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = id.String()
	r.tasks[task.ID] = *task
	return nil
}

func (r taskRepository) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[task.ID]
	if !ok || current.UserID != task.UserID {
		return storage.ErrNotFound
	}
	current.Title = task.Title
	current.Description = task.Description
	current.Status = task.Status
	current.Position = task.Position
	current.UpdatedAt = task.UpdatedAt
	r.tasks[task.ID] = current
	return nil
}

func (r taskRepository) UpdatePlacements(_ context.Context, userID string, placements []models.Placement, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range placements {
		current, ok := r.tasks[p.ID]
		if !ok || current.UserID != userID {
			continue
		}
		current.Status = p.Status
		current.Position = p.Position
		current.UpdatedAt = updatedAt
		r.tasks[p.ID] = current
	}
	return nil
}

func (r taskRepository) Delete(_ context.Context, userID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[taskID]
	if !ok || current.UserID != userID {
		return storage.ErrNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

type userRepository struct {
	*Store
}

func (r userRepository) Insert(_ context.Context, user *models.User) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return storage.ErrDuplicate
		}
	}
	user.ID = id.String()
	r.users[user.ID] = *user
	return nil
}

func (r userRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r userRepository) FindByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}
