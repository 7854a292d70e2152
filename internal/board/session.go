package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

var ErrReorderFailed = errors.New("failed to save task order")

// Syncer is the task API the session keeps its collection in sync with.
type Syncer interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error)
	ReorderTasks(ctx context.Context, placements []models.Placement) ([]models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// Session holds one user's task collection the way a single browser tab
// does. It is not safe for concurrent use.
type Session struct {
	logger zerolog.Logger
	api    Syncer
	tasks  []models.Task
}

func NewSession(logger zerolog.Logger, api Syncer) *Session {
	return &Session{
		logger: logger,
		api:    api,
	}
}

// Tasks returns a copy of the current collection.
func (s *Session) Tasks() []models.Task {
	return clone(s.tasks)
}

func (s *Session) Column(status string) []models.Task {
	return Column(s.tasks, status)
}

func (s *Session) Filter(filter string) []models.Task {
	return Filter(s.tasks, filter)
}

func (s *Session) Count() map[string]int {
	return Count(s.tasks)
}

// Refresh replaces the collection with the authoritative one.
func (s *Session) Refresh(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to fetch tasks")
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	s.tasks = tasks
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("fetched tasks")
	return nil
}

// Drag applies the move locally, then persists the changed placements in
// one reorder call. When that call fails the local ordering is discarded
// and the collection is fetched again.
func (s *Session) Drag(ctx context.Context, move Move) error {
	result, err := Apply(s.tasks, move)
	if err != nil {
		return err
	}
	if len(result.Changes) == 0 {
		s.logger.Debug().
			Str("task_id", move.TaskID).
			Msg("drag changed nothing")
		return nil
	}

	previous := s.tasks
	s.tasks = result.Tasks

	refreshed, err := s.api.ReorderTasks(ctx, result.Changes)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", move.TaskID).
			Str("target", move.Target.String()).
			Int("changes", len(result.Changes)).
			Msg("failed to reorder tasks")

		refreshErr := s.Refresh(ctx)
		if refreshErr != nil {
			s.tasks = previous
			return fmt.Errorf("%w: %w", ErrReorderFailed, errors.Join(err, refreshErr))
		}
		return fmt.Errorf("%w: %w", ErrReorderFailed, err)
	}

	s.tasks = refreshed
	s.logger.Debug().
		Str("task_id", move.TaskID).
		Int("changes", len(result.Changes)).
		Msg("reordered tasks")
	return nil
}

// Create adds the new task to the front of the collection.
func (s *Session) Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	task, err := s.api.CreateTask(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.tasks = append([]models.Task{*task}, s.tasks...)
	return task, nil
}

func (s *Session) Update(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.api.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return nil, err
	}
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i] = *task
		}
	}
	return task, nil
}

func (s *Session) SetStatus(ctx context.Context, taskID, status string) (*models.Task, error) {
	return s.Update(ctx, taskID, models.TaskPatch{Status: &status})
}

func (s *Session) Delete(ctx context.Context, taskID string) error {
	err := s.api.DeleteTask(ctx, taskID)
	if err != nil {
		return err
	}
	remaining := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.ID != taskID {
			remaining = append(remaining, t)
		}
	}
	s.tasks = remaining
	return nil
}
