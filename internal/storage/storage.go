// Package storage declares the persistence contracts the services depend on.
// Implementations live in the mongo, postgres and cache subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type TaskRepository interface {
	// ListByUser returns the user's tasks ordered by position ascending,
	// then creation time descending.
	ListByUser(ctx context.Context, userID string) ([]models.Task, error)

	// FindByID returns ErrNotFound if no task has the given ID. It does
	// not check ownership.
	FindByID(ctx context.Context, taskID string) (*models.Task, error)

	// FindByIDs returns the tasks that exist; missing IDs are skipped.
	FindByIDs(ctx context.Context, taskIDs []string) ([]models.Task, error)

	// MaxPosition returns the highest position in the (user, status)
	// group, or -1 if the group is empty.
	MaxPosition(ctx context.Context, userID, status string) (int, error)

	// Insert stores the task and sets its ID.
	Insert(ctx context.Context, task *models.Task) error

	// Update overwrites the mutable fields of the user's task.
	Update(ctx context.Context, task *models.Task) error

	// UpdatePlacements writes every placement of the user's tasks in one
	// batch. The batch is not atomic.
	UpdatePlacements(ctx context.Context, userID string, placements []models.Placement, updatedAt time.Time) error

	Delete(ctx context.Context, userID, taskID string) error
}

type UserRepository interface {
	// Insert stores the user and sets its ID. It returns ErrDuplicate if
	// the email is taken.
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
}
