package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

var _ repository.SectionRepository = (*DB)(nil)

// Sections have no owner_id column; ownership flows through the parent list,
// so every statement joins (or subqueries) todo_lists.

func (db *DB) CreateSection(ctx context.Context, ownerID string, section *model.Section) error {
	// Verify the parent list belongs to the caller before inserting.
	if _, err := db.GetTodoList(ctx, ownerID, section.TodoListID); err != nil {
		return err
	}

	section.ID = xid.New().String()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sections (id, todo_list_id, name, order_index)
		 VALUES (?, ?, ?, ?)`,
		section.ID, section.TodoListID, section.Name, section.OrderIndex,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting section: %w", err)
	}
	return nil
}

func (db *DB) GetSection(ctx context.Context, ownerID, id string) (*model.Section, error) {
	var s model.Section
	err := db.conn.QueryRowContext(ctx,
		`SELECT s.id, s.todo_list_id, s.name, s.order_index
		 FROM sections s
		 JOIN todo_lists l ON l.id = s.todo_list_id
		 WHERE s.id = ? AND l.owner_id = ?`,
		id, ownerID,
	).Scan(&s.ID, &s.TodoListID, &s.Name, &s.OrderIndex)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("section", id)
		}
		return nil, fmt.Errorf("sqlite: getting section %s: %w", id, err)
	}
	return &s, nil
}

func (db *DB) ListSections(ctx context.Context, ownerID, todoListID string) ([]model.Section, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.id, s.todo_list_id, s.name, s.order_index
		 FROM sections s
		 JOIN todo_lists l ON l.id = s.todo_list_id
		 WHERE s.todo_list_id = ? AND l.owner_id = ?
		 ORDER BY s.order_index, s.id`,
		todoListID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sections: %w", err)
	}
	defer rows.Close()

	sections := make([]model.Section, 0)
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.TodoListID, &s.Name, &s.OrderIndex); err != nil {
			return nil, fmt.Errorf("sqlite: scanning section row: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating sections: %w", err)
	}
	return sections, nil
}

func (db *DB) UpdateSection(ctx context.Context, ownerID string, section *model.Section) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE sections SET name = ?, order_index = ?
		 WHERE id = ? AND todo_list_id IN
			(SELECT id FROM todo_lists WHERE owner_id = ?)`,
		section.Name, section.OrderIndex, section.ID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating section %s: %w", section.ID, err)
	}
	return notFoundIfZero(result, "section", section.ID)
}

// DeleteSection moves the section's tasks to the unsectioned bucket via the
// tasks.section_id ON DELETE SET NULL foreign key.
func (db *DB) DeleteSection(ctx context.Context, ownerID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM sections
		 WHERE id = ? AND todo_list_id IN
			(SELECT id FROM todo_lists WHERE owner_id = ?)`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting section %s: %w", id, err)
	}
	return notFoundIfZero(result, "section", id)
}
