package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

var _ repository.SyncRepository = (*DB)(nil)

// The operations in this file are the cross-entity cascades of the idea↔task
// sync protocol. Each runs in a single transaction so a crash can't strand a
// task pointing at a half-deleted idea or vice versa. "Best effort" survives
// inside the transaction in SQL form: deleting a linked row that is already
// gone affects zero rows and the cascade carries on.

// CreateTodoListFromGroup snapshots the group's ideas into a fresh list: one
// task per idea, titles copied, linked through idea_id, order keys 0..n-1 in
// idea (creation) order. A one-time import — later group membership changes
// do not flow into the list.
func (db *DB) CreateTodoListFromGroup(ctx context.Context, list *model.TodoList, ideas []model.Idea) ([]model.Task, error) {
	list.ID = xid.New().String()
	now := time.Now()
	list.CreatedAt = now
	list.UpdatedAt = now

	tasks := make([]model.Task, 0, len(ideas))

	err := db.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO todo_lists (`+todoListColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			list.ID, list.OwnerID, list.GroupID, list.Name, list.Archived,
			list.CreatedAt, list.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting todo list: %w", err)
		}

		for i, idea := range ideas {
			ideaID := idea.ID
			task := model.Task{
				ID:         xid.New().String(),
				TodoListID: list.ID,
				IdeaID:     &ideaID,
				Title:      idea.Title,
				OrderIndex: float64(i),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO tasks (`+taskColumns+`)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				task.ID, task.TodoListID, task.SectionID, task.IdeaID, task.Title,
				task.Completed, task.OrderIndex, task.CreatedAt, task.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("sqlite: importing task for idea %s: %w", idea.ID, err)
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteTaskCascade removes the linked idea first, then the task, in one
// transaction. Returns the idea id when one was deleted with the task.
func (db *DB) DeleteTaskCascade(ctx context.Context, ownerID, taskID string) (*string, error) {
	task, err := db.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	var deletedIdeaID *string
	err = db.inTx(ctx, func(tx *sql.Tx) error {
		if task.IdeaID != nil {
			result, err := tx.ExecContext(ctx,
				`DELETE FROM ideas WHERE id = ? AND owner_id = ?`,
				*task.IdeaID, ownerID,
			)
			if err != nil {
				return fmt.Errorf("sqlite: deleting linked idea %s: %w", *task.IdeaID, err)
			}
			if n, _ := result.RowsAffected(); n > 0 {
				deletedIdeaID = task.IdeaID
			}
			// Zero rows: the idea was already gone. The task delete proceeds.
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID); err != nil {
			return fmt.Errorf("sqlite: deleting task %s: %w", taskID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deletedIdeaID, nil
}

// DeleteIdeaCascade removes every task referencing the idea, then the idea.
func (db *DB) DeleteIdeaCascade(ctx context.Context, ownerID, ideaID string) ([]string, error) {
	if _, err := db.GetIdea(ctx, ownerID, ideaID); err != nil {
		return nil, err
	}

	var deletedTaskIDs []string
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT t.id FROM tasks t
			 JOIN todo_lists l ON l.id = t.todo_list_id
			 WHERE t.idea_id = ? AND l.owner_id = ?`,
			ideaID, ownerID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: finding tasks for idea %s: %w", ideaID, err)
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("sqlite: scanning task id: %w", err)
			}
			deletedTaskIDs = append(deletedTaskIDs, id)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("sqlite: iterating task ids: %w", err)
		}

		if len(deletedTaskIDs) > 0 {
			query := `DELETE FROM tasks WHERE id IN (` + placeholders(len(deletedTaskIDs)) + `)`
			if _, err := tx.ExecContext(ctx, query, args(deletedTaskIDs)...); err != nil {
				return fmt.Errorf("sqlite: deleting tasks for idea %s: %w", ideaID, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM ideas WHERE id = ? AND owner_id = ?`, ideaID, ownerID,
		); err != nil {
			return fmt.Errorf("sqlite: deleting idea %s: %w", ideaID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deletedTaskIDs, nil
}

// BulkDeleteTasks deletes the owned subset of the given tasks with the same
// cascade semantics as DeleteTaskCascade.
func (db *DB) BulkDeleteTasks(ctx context.Context, ownerID string, taskIDs []string) ([]string, []string, error) {
	if len(taskIDs) == 0 {
		return []string{}, []string{}, nil
	}

	var deletedTaskIDs, deletedIdeaIDs []string
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		deletedTaskIDs, deletedIdeaIDs, err = deleteTasksTx(ctx, tx, ownerID,
			`t.id IN (`+placeholders(len(taskIDs))+`)`, args(taskIDs))
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return deletedTaskIDs, deletedIdeaIDs, nil
}

// ClearCompletedTasks deletes every completed task in the list, cascading to
// linked ideas.
func (db *DB) ClearCompletedTasks(ctx context.Context, ownerID, todoListID string) ([]string, []string, error) {
	if _, err := db.GetTodoList(ctx, ownerID, todoListID); err != nil {
		return nil, nil, err
	}

	var deletedTaskIDs, deletedIdeaIDs []string
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		deletedTaskIDs, deletedIdeaIDs, err = deleteTasksTx(ctx, tx, ownerID,
			`t.todo_list_id = ? AND t.completed = 1`, []any{todoListID})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return deletedTaskIDs, deletedIdeaIDs, nil
}

// deleteTasksTx deletes the owned tasks matching cond (with its args) plus
// their linked ideas, inside the caller's transaction.
func deleteTasksTx(ctx context.Context, tx *sql.Tx, ownerID, cond string, condArgs []any) ([]string, []string, error) {
	query := `SELECT t.id, t.idea_id FROM tasks t
		 JOIN todo_lists l ON l.id = t.todo_list_id
		 WHERE l.owner_id = ? AND ` + cond
	rows, err := tx.QueryContext(ctx, query, append([]any{ownerID}, condArgs...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: selecting tasks to delete: %w", err)
	}
	defer rows.Close()

	taskIDs := []string{}
	ideaIDs := []string{}
	for rows.Next() {
		var (
			id     string
			ideaID *string
		)
		if err := rows.Scan(&id, &ideaID); err != nil {
			return nil, nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		taskIDs = append(taskIDs, id)
		if ideaID != nil {
			ideaIDs = append(ideaIDs, *ideaID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("sqlite: iterating tasks to delete: %w", err)
	}
	if len(taskIDs) == 0 {
		return taskIDs, ideaIDs, nil
	}

	if len(ideaIDs) > 0 {
		q := `DELETE FROM ideas WHERE owner_id = ? AND id IN (` + placeholders(len(ideaIDs)) + `)`
		if _, err := tx.ExecContext(ctx, q, append([]any{ownerID}, args(ideaIDs)...)...); err != nil {
			return nil, nil, fmt.Errorf("sqlite: deleting linked ideas: %w", err)
		}
	}

	q := `DELETE FROM tasks WHERE id IN (` + placeholders(len(taskIDs)) + `)`
	if _, err := tx.ExecContext(ctx, q, args(taskIDs)...); err != nil {
		return nil, nil, fmt.Errorf("sqlite: deleting tasks: %w", err)
	}
	return taskIDs, ideaIDs, nil
}

// MoveTasksToList reassigns the owned subset of the given tasks to the
// target list's unsectioned bucket, appended after its current maximum order
// key in the order the ids were given.
func (db *DB) MoveTasksToList(ctx context.Context, ownerID, targetListID string, taskIDs []string) ([]model.Task, error) {
	if _, err := db.GetTodoList(ctx, ownerID, targetListID); err != nil {
		return nil, err
	}
	if len(taskIDs) == 0 {
		return []model.Task{}, nil
	}

	err := db.inTx(ctx, func(tx *sql.Tx) error {
		var max sql.NullFloat64
		err := tx.QueryRowContext(ctx,
			`SELECT MAX(order_index) FROM tasks WHERE todo_list_id = ?`, targetListID,
		).Scan(&max)
		if err != nil {
			return fmt.Errorf("sqlite: max order index for list %s: %w", targetListID, err)
		}
		next := 0.0
		if max.Valid {
			next = max.Float64 + 1
		}

		now := time.Now()
		for _, id := range taskIDs {
			result, err := tx.ExecContext(ctx,
				`UPDATE tasks SET todo_list_id = ?, section_id = NULL, order_index = ?, updated_at = ?
				 WHERE id = ? AND todo_list_id IN
					(SELECT id FROM todo_lists WHERE owner_id = ?)`,
				targetListID, next, now, id, ownerID,
			)
			if err != nil {
				return fmt.Errorf("sqlite: moving task %s: %w", id, err)
			}
			if n, _ := result.RowsAffected(); n > 0 {
				next++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	moved, err := db.tasksByIDs(ctx, ownerID, taskIDs)
	if err != nil {
		return nil, err
	}
	// tasksByIDs drops ids the caller didn't own; what remains is what moved.
	if moved == nil {
		moved = []model.Task{}
	}
	return moved, nil
}
