package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/storage"
)

type taskRepositoryImpl struct {
	pgPool *pgxpool.Pool
}

func NewTaskRepository(pgPool *pgxpool.Pool) storage.TaskRepository {
	return &taskRepositoryImpl{
		pgPool: pgPool,
	}
}

const selectTaskColumns = `
SELECT id,
       user_id,
       title,
       description,
       status,
       position,
       created_at,
       updated_at
FROM tasks
`

func (r *taskRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	const selectTasksByUserIDQuery = selectTaskColumns + `
WHERE user_id = $1
ORDER BY position ASC, created_at DESC
`
	rows, err := r.pgPool.Query(ctx, selectTasksByUserIDQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks by user id: %w", err)
	}
	return collectTasks(rows)
}

func (r *taskRepositoryImpl) FindByID(ctx context.Context, taskID string) (*models.Task, error) {
	const selectTaskByIDQuery = selectTaskColumns + `
WHERE id = $1
`
	rows, err := r.pgPool.Query(ctx, selectTaskByIDQuery, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to select task by id: %w", err)
	}
	task, err := pgx.CollectExactlyOneRow(rows, scanTask)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return &task, nil
}

func (r *taskRepositoryImpl) FindByIDs(ctx context.Context, taskIDs []string) ([]models.Task, error) {
	const selectTasksByIDsQuery = selectTaskColumns + `
WHERE id = ANY($1)
`
	rows, err := r.pgPool.Query(ctx, selectTasksByIDsQuery, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks by ids: %w", err)
	}
	return collectTasks(rows)
}

func (r *taskRepositoryImpl) MaxPosition(ctx context.Context, userID, status string) (int, error) {
	const selectMaxPositionQuery = `
SELECT COALESCE(MAX(position), -1)
FROM tasks
WHERE user_id = $1 AND status = $2
`
	var maxPosition int
	err := r.pgPool.QueryRow(ctx, selectMaxPositionQuery, userID, status).Scan(&maxPosition)
	if err != nil {
		return 0, fmt.Errorf("failed to select max position: %w", err)
	}
	return maxPosition, nil
}

func (r *taskRepositoryImpl) Insert(ctx context.Context, task *models.Task) error {
	taskUUID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate task uuid: %w", err)
	}

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   status,
                   position,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err = r.pgPool.Exec(
		ctx,
		insertTaskQuery,
		taskUUID.String(),
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Position,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	task.ID = taskUUID.String()
	return nil
}

func (r *taskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    position = $4,
    updated_at = $5
WHERE id = $6 AND user_id = $7
`
	tag, err := r.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status,
		task.Position,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *taskRepositoryImpl) UpdatePlacements(ctx context.Context, userID string, placements []models.Placement, updatedAt time.Time) error {
	if len(placements) == 0 {
		return nil
	}

	const updateTaskPlacementQuery = `
UPDATE tasks
SET status = $1,
    position = $2,
    updated_at = $3
WHERE id = $4 AND user_id = $5
`
	batch := &pgx.Batch{}
	for _, p := range placements {
		batch.Queue(updateTaskPlacementQuery, p.Status, p.Position, updatedAt, p.ID, userID)
	}

	err := r.pgPool.SendBatch(ctx, batch).Close()
	if err != nil {
		return fmt.Errorf("failed to update task placements: %w", err)
	}
	return nil
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, userID, taskID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := r.pgPool.Exec(ctx, deleteTaskQuery, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.CollectableRow) (models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Position,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	return task, err
}

func collectTasks(rows pgx.Rows) ([]models.Task, error) {
	tasks, err := pgx.CollectRows(rows, scanTask)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tasks: %w", err)
	}
	return tasks, nil
}
