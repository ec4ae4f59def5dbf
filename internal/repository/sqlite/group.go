package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

var _ repository.GroupRepository = (*DB)(nil)

func (db *DB) CreateGroup(ctx context.Context, group *model.Group) error {
	group.ID = xid.New().String()
	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO groups (id, owner_id, name, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		group.ID, group.OwnerID, group.Name, group.Color, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting group: %w", err)
	}
	return nil
}

func (db *DB) GetGroup(ctx context.Context, ownerID, id string) (*model.Group, error) {
	var g model.Group
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, name, color, created_at, updated_at
		 FROM groups WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&g.ID, &g.OwnerID, &g.Name, &g.Color, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("group", id)
		}
		return nil, fmt.Errorf("sqlite: getting group %s: %w", id, err)
	}
	return &g, nil
}

func (db *DB) ListGroups(ctx context.Context, ownerID string) ([]model.Group, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, owner_id, name, color, created_at, updated_at
		 FROM groups WHERE owner_id = ? ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing groups: %w", err)
	}
	defer rows.Close()

	groups := make([]model.Group, 0)
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Color, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating groups: %w", err)
	}
	return groups, nil
}

func (db *DB) UpdateGroup(ctx context.Context, ownerID string, group *model.Group) error {
	group.UpdatedAt = time.Now()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE groups SET name = ?, color = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		group.Name, group.Color, group.UpdatedAt, group.ID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating group %s: %w", group.ID, err)
	}
	return notFoundIfZero(result, "group", group.ID)
}

// DeleteGroup relies on the ideas.group_id ON DELETE SET NULL foreign key to
// detach member ideas. Todo lists keep their group_id on purpose — that
// missing cascade is the documented source of drift the repair tool fixes.
func (db *DB) DeleteGroup(ctx context.Context, ownerID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM groups WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting group %s: %w", id, err)
	}
	return notFoundIfZero(result, "group", id)
}

// notFoundIfZero converts an UPDATE/DELETE that matched nothing into the
// domain's NotFound — the WHERE owner_id clause makes foreign rows look
// exactly like missing ones.
func notFoundIfZero(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
