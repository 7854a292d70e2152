package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskRepository
	now    func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskRepository,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
		now:    time.Now,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	title, err := validateTitle(params.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(params.Description)
	if err != nil {
		return nil, err
	}
	status := params.Status
	if status == "" {
		status = models.StatusTodo
	}
	if err = validateStatus(status); err != nil {
		return nil, err
	}

	maxPosition, err := s.tasks.MaxPosition(ctx, params.UserID, status)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Str("status", status).
			Msg("failed to select max position")
		return nil, err
	}

	now := s.now()
	task := &models.Task{
		UserID:      params.UserID,
		Title:       title,
		Description: description,
		Status:      status,
		Position:    maxPosition + 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tasks.Insert(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Int("position", task.Position).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.findOwnedTask(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	if params.IsEmpty() {
		s.logger.Warn().
			Str("task_id", task.ID).
			Msg("no fields to update")
		return task, nil
	}

	if params.Title != nil {
		task.Title, err = validateTitle(*params.Title)
		if err != nil {
			return nil, err
		}
	}
	if params.Description != nil {
		task.Description, err = validateDescription(*params.Description)
		if err != nil {
			return nil, err
		}
	}
	if params.Status != nil {
		if err = validateStatus(*params.Status); err != nil {
			return nil, err
		}
		task.Status = *params.Status
	}
	if params.Position != nil {
		if err = validatePosition(*params.Position); err != nil {
			return nil, err
		}
		task.Position = *params.Position
	}
	task.UpdatedAt = s.now()

	err = s.tasks.Update(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Str("status", task.Status).
		Int("position", task.Position).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) ReorderTasks(ctx context.Context, params ReorderTasksParams) ([]models.Task, error) {
	ids := make([]string, 0, len(params.Placements))
	for _, p := range params.Placements {
		if err := validatePlacement(p); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}

	if len(ids) > 0 {
		found, err := s.tasks.FindByIDs(ctx, ids)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int("count", len(ids)).
				Msg("failed to select tasks by ids")
			return nil, err
		}

		owners := make(map[string]string, len(found))
		for _, t := range found {
			owners[t.ID] = t.UserID
		}
		for _, id := range ids {
			owner, ok := owners[id]
			if !ok {
				s.logger.Error().
					Str("task_id", id).
					Msg("task not found")
				return nil, ErrTaskNotFound
			}
			if owner != params.UserID {
				s.logger.Warn().
					Str("task_id", id).
					Str("user_id", params.UserID).
					Msg("reorder of foreign task rejected")
				return nil, ErrTaskForbidden
			}
		}

		err = s.tasks.UpdatePlacements(ctx, params.UserID, params.Placements, s.now())
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("user_id", params.UserID).
				Int("count", len(ids)).
				Msg("failed to update task placements")
			return nil, err
		}
		s.logger.Info().
			Str("user_id", params.UserID).
			Int("count", len(ids)).
			Msg("reordered tasks")
	}

	return s.GetTasks(ctx, params.UserID)
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	task, err := s.findOwnedTask(ctx, params.UserID, params.ID)
	if err != nil {
		return err
	}

	err = s.tasks.Delete(ctx, task.UserID, task.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) findOwnedTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	if task.UserID != userID {
		s.logger.Warn().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task belongs to another user")
		return nil, ErrTaskForbidden
	}
	return task, nil
}
