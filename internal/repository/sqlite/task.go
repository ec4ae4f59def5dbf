package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

var _ repository.TaskRepository = (*DB)(nil)

const taskColumns = `id, todo_list_id, section_id, idea_id, title, completed, order_index, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.TodoListID, &t.SectionID, &t.IdeaID, &t.Title,
		&t.Completed, &t.OrderIndex, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (db *DB) CreateTask(ctx context.Context, ownerID string, task *model.Task) error {
	if _, err := db.GetTodoList(ctx, ownerID, task.TodoListID); err != nil {
		return err
	}

	task.ID = xid.New().String()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.TodoListID, task.SectionID, task.IdeaID, task.Title,
		task.Completed, task.OrderIndex, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting task: %w", err)
	}
	return nil
}

func (db *DB) GetTask(ctx context.Context, ownerID, id string) (*model.Task, error) {
	task, err := scanTask(db.conn.QueryRowContext(ctx,
		`SELECT t.id, t.todo_list_id, t.section_id, t.idea_id, t.title,
		        t.completed, t.order_index, t.created_at, t.updated_at
		 FROM tasks t
		 JOIN todo_lists l ON l.id = t.todo_list_id
		 WHERE t.id = ? AND l.owner_id = ?`,
		id, ownerID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}
	return task, nil
}

func (db *DB) ListTasks(ctx context.Context, ownerID, todoListID string) ([]model.Task, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT t.id, t.todo_list_id, t.section_id, t.idea_id, t.title,
		        t.completed, t.order_index, t.created_at, t.updated_at
		 FROM tasks t
		 JOIN todo_lists l ON l.id = t.todo_list_id
		 WHERE t.todo_list_id = ? AND l.owner_id = ?
		 ORDER BY t.order_index, t.created_at, t.id`,
		todoListID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}
	return tasks, nil
}

func (db *DB) UpdateTask(ctx context.Context, ownerID string, task *model.Task) error {
	task.UpdatedAt = time.Now()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, completed = ?, section_id = ?, order_index = ?, updated_at = ?
		 WHERE id = ? AND todo_list_id IN
			(SELECT id FROM todo_lists WHERE owner_id = ?)`,
		task.Title, task.Completed, task.SectionID, task.OrderIndex, task.UpdatedAt,
		task.ID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}
	return notFoundIfZero(result, "task", task.ID)
}

// BulkUpdateTasks applies one patch to many tasks in a single statement and
// returns the updated rows. Ids the caller doesn't own are silently skipped —
// the returned slice is the source of truth for what changed.
func (db *DB) BulkUpdateTasks(ctx context.Context, ownerID string, ids []string, updates repository.TaskUpdates) ([]model.Task, error) {
	if len(ids) == 0 {
		return []model.Task{}, nil
	}

	set := make([]string, 0, 4)
	setArgs := make([]any, 0, 5)
	if updates.Title != nil {
		set = append(set, "title = ?")
		setArgs = append(setArgs, *updates.Title)
	}
	if updates.Completed != nil {
		set = append(set, "completed = ?")
		setArgs = append(setArgs, *updates.Completed)
	}
	if updates.ClearSection {
		set = append(set, "section_id = NULL")
	} else if updates.SectionID != nil {
		set = append(set, "section_id = ?")
		setArgs = append(setArgs, *updates.SectionID)
	}
	if updates.OrderIndex != nil {
		set = append(set, "order_index = ?")
		setArgs = append(setArgs, *updates.OrderIndex)
	}
	if len(set) == 0 {
		return nil, apperror.ValidationFailed("updates", "no fields to update")
	}
	set = append(set, "updated_at = ?")
	setArgs = append(setArgs, time.Now())

	query := `UPDATE tasks SET ` + strings.Join(set, ", ") + `
		 WHERE id IN (` + placeholders(len(ids)) + `)
		   AND todo_list_id IN (SELECT id FROM todo_lists WHERE owner_id = ?)`
	execArgs := append(setArgs, args(ids)...)
	execArgs = append(execArgs, ownerID)

	if _, err := db.conn.ExecContext(ctx, query, execArgs...); err != nil {
		return nil, fmt.Errorf("sqlite: bulk updating tasks: %w", err)
	}

	return db.tasksByIDs(ctx, ownerID, ids)
}

func (db *DB) tasksByIDs(ctx context.Context, ownerID string, ids []string) ([]model.Task, error) {
	query := `SELECT t.id, t.todo_list_id, t.section_id, t.idea_id, t.title,
	                 t.completed, t.order_index, t.created_at, t.updated_at
		 FROM tasks t
		 JOIN todo_lists l ON l.id = t.todo_list_id
		 WHERE t.id IN (` + placeholders(len(ids)) + `) AND l.owner_id = ?
		 ORDER BY t.order_index, t.created_at, t.id`
	queryArgs := append(args(ids), ownerID)

	rows, err := db.conn.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetching tasks by ids: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, len(ids))
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}
	return tasks, nil
}

func (db *DB) MaxTaskOrderIndex(ctx context.Context, ownerID, todoListID string) (float64, bool, error) {
	var max sql.NullFloat64
	err := db.conn.QueryRowContext(ctx,
		`SELECT MAX(t.order_index)
		 FROM tasks t
		 JOIN todo_lists l ON l.id = t.todo_list_id
		 WHERE t.todo_list_id = ? AND l.owner_id = ?`,
		todoListID, ownerID,
	).Scan(&max)
	if err != nil {
		return 0, false, fmt.Errorf("sqlite: max order index for list %s: %w", todoListID, err)
	}
	return max.Float64, max.Valid, nil
}
