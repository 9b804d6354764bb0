package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `id, restaurant_id, assignee_id, created_by, title, description, due_at, status, completed_at, created_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.RestaurantID, &t.AssigneeID, &t.CreatedBy, &t.Title, &t.Description, &t.DueAt, &t.Status, &t.CompletedAt, &t.CreatedAt)
	return t, err
}

func (s *Store) CreateTask(ctx context.Context, restaurantID, createdBy uuid.UUID, assigneeID *uuid.UUID, title, description string, dueAt *time.Time) (Task, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (restaurant_id, created_by, assignee_id, title, description, due_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+taskColumns, restaurantID, createdBy, assigneeID, title, description, dueAt)
	t, err := scanTask(row)
	if err != nil {
		return Task{}, fmt.Errorf("creating task: %w", err)
	}
	return t, nil
}

func (s *Store) GetTask(ctx context.Context, restaurantID, taskID uuid.UUID) (Task, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND restaurant_id = $2`,
		taskID, restaurantID)
	t, err := scanTask(row)
	if err != nil {
		return Task{}, notFound(err, "task")
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, restaurantID uuid.UUID) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE restaurant_id = $1 ORDER BY created_at DESC`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *Store) ListTasksByAssignee(ctx context.Context, restaurantID, assigneeID uuid.UUID) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE restaurant_id = $1 AND assignee_id = $2 ORDER BY created_at DESC`,
		restaurantID, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by assignee: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]Task, error) {
	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, restaurantID, taskID uuid.UUID, assigneeID *uuid.UUID, title, description string, dueAt *time.Time) (Task, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE tasks SET assignee_id = $3, title = $4, description = $5, due_at = $6
		WHERE id = $1 AND restaurant_id = $2
		RETURNING `+taskColumns, taskID, restaurantID, assigneeID, title, description, dueAt)
	t, err := scanTask(row)
	if err != nil {
		return Task{}, notFound(err, "task")
	}
	return t, nil
}

func (s *Store) CompleteTask(ctx context.Context, restaurantID, taskID uuid.UUID) (Task, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE tasks SET status = $3, completed_at = now()
		WHERE id = $1 AND restaurant_id = $2
		RETURNING `+taskColumns, taskID, restaurantID, TaskStatusDone)
	t, err := scanTask(row)
	if err != nil {
		return Task{}, notFound(err, "task")
	}
	return t, nil
}

func (s *Store) DeleteTask(ctx context.Context, restaurantID, taskID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND restaurant_id = $2`, taskID, restaurantID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	return nil
}
