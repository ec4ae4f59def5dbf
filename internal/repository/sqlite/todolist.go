package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

var _ repository.TodoListRepository = (*DB)(nil)

const todoListColumns = `id, owner_id, group_id, name, archived, created_at, updated_at`

func scanTodoList(row interface{ Scan(...any) error }) (*model.TodoList, error) {
	var l model.TodoList
	err := row.Scan(&l.ID, &l.OwnerID, &l.GroupID, &l.Name, &l.Archived, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (db *DB) GetTodoList(ctx context.Context, ownerID, id string) (*model.TodoList, error) {
	list, err := scanTodoList(db.conn.QueryRowContext(ctx,
		`SELECT `+todoListColumns+` FROM todo_lists WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("todo list", id)
		}
		return nil, fmt.Errorf("sqlite: getting todo list %s: %w", id, err)
	}
	return list, nil
}

func (db *DB) ListTodoLists(ctx context.Context, ownerID string) ([]model.TodoList, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+todoListColumns+` FROM todo_lists
		 WHERE owner_id = ? ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing todo lists: %w", err)
	}
	defer rows.Close()

	lists := make([]model.TodoList, 0)
	for rows.Next() {
		list, err := scanTodoList(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning todo list row: %w", err)
		}
		lists = append(lists, *list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating todo lists: %w", err)
	}
	return lists, nil
}

func (db *DB) UpdateTodoList(ctx context.Context, ownerID string, list *model.TodoList) error {
	list.UpdatedAt = time.Now()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE todo_lists SET name = ?, archived = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		list.Name, list.Archived, list.UpdatedAt, list.ID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating todo list %s: %w", list.ID, err)
	}
	return notFoundIfZero(result, "todo list", list.ID)
}

// DeleteTodoList cascades to sections and tasks through the schema's foreign
// keys. Linked ideas stay on the canvas — deleting the task VIEW of a group
// is not deleting the ideas.
func (db *DB) DeleteTodoList(ctx context.Context, ownerID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM todo_lists WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting todo list %s: %w", id, err)
	}
	return notFoundIfZero(result, "todo list", id)
}

func (db *DB) FindTodoListByGroup(ctx context.Context, ownerID, groupID string) (*model.TodoList, error) {
	list, err := scanTodoList(db.conn.QueryRowContext(ctx,
		`SELECT `+todoListColumns+` FROM todo_lists
		 WHERE owner_id = ? AND group_id = ?
		 ORDER BY created_at LIMIT 1`,
		ownerID, groupID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("todo list for group", groupID)
		}
		return nil, fmt.Errorf("sqlite: finding todo list for group %s: %w", groupID, err)
	}
	return list, nil
}
