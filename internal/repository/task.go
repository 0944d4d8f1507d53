package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"connectly/internal/model"
)

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, assigned_to, task_type, metadata, completed, created_at, updated_at`

// InsertTask writes a validated task in a single statement.
func (r *taskRepository) InsertTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (title, description, assigned_to, task_type, metadata, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		task.Title,
		task.Description,
		task.AssignedTo,
		task.TaskType,
		task.Metadata,
		task.Completed,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, taskID int64) (*model.Task, error) {
	var task model.Task
	err := r.db.GetContext(ctx, &task, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// ListByAssignee returns the tasks assigned to a user, newest first.
func (r *taskRepository) ListByAssignee(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Task, *string, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `SELECT ` + taskColumns + `
			FROM tasks
			WHERE assigned_to = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		`
		args = []interface{}{userID, limit + 1}
	} else {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, err
		}
		query = `SELECT ` + taskColumns + `
			FROM tasks
			WHERE assigned_to = $1 AND (created_at, id) < ($2, $3)
			ORDER BY created_at DESC, id DESC
			LIMIT $4
		`
		args = []interface{}{userID, ts, id, limit + 1}
	}

	tasks := []model.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, nil, fmt.Errorf("list tasks: %w", err)
	}

	var nextCursor *string
	if len(tasks) > limit {
		tasks = tasks[:limit]
		last := tasks[len(tasks)-1]
		c := formatCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}
	return tasks, nextCursor, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, task_type = $3, metadata = $4, completed = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		task.Title,
		task.Description,
		task.TaskType,
		task.Metadata,
		task.Completed,
		task.ID,
	).Scan(&task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, taskID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}
