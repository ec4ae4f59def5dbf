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

var _ repository.IdeaRepository = (*DB)(nil)

const ideaColumns = `id, owner_id, title, description, color, group_id, position_x, position_y, created_at, updated_at`

func scanIdea(row interface{ Scan(...any) error }) (*model.Idea, error) {
	var i model.Idea
	err := row.Scan(
		&i.ID, &i.OwnerID, &i.Title, &i.Description, &i.Color, &i.GroupID,
		&i.PositionX, &i.PositionY, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (db *DB) CreateIdea(ctx context.Context, idea *model.Idea) error {
	idea.ID = xid.New().String()
	now := time.Now()
	idea.CreatedAt = now
	idea.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO ideas (`+ideaColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idea.ID, idea.OwnerID, idea.Title, idea.Description, idea.Color, idea.GroupID,
		idea.PositionX, idea.PositionY, idea.CreatedAt, idea.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting idea: %w", err)
	}
	return nil
}

func (db *DB) GetIdea(ctx context.Context, ownerID, id string) (*model.Idea, error) {
	idea, err := scanIdea(db.conn.QueryRowContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("idea", id)
		}
		return nil, fmt.Errorf("sqlite: getting idea %s: %w", id, err)
	}
	return idea, nil
}

func (db *DB) ListIdeas(ctx context.Context, ownerID string) ([]model.Idea, error) {
	return db.listIdeas(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE owner_id = ? ORDER BY created_at, id`,
		ownerID)
}

func (db *DB) ListIdeasByGroup(ctx context.Context, ownerID, groupID string) ([]model.Idea, error) {
	return db.listIdeas(ctx,
		`SELECT `+ideaColumns+` FROM ideas
		 WHERE owner_id = ? AND group_id = ? ORDER BY created_at, id`,
		ownerID, groupID)
}

func (db *DB) listIdeas(ctx context.Context, query string, queryArgs ...any) ([]model.Idea, error) {
	rows, err := db.conn.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing ideas: %w", err)
	}
	defer rows.Close()

	ideas := make([]model.Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning idea row: %w", err)
		}
		ideas = append(ideas, *idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ideas: %w", err)
	}
	return ideas, nil
}

func (db *DB) UpdateIdea(ctx context.Context, ownerID string, idea *model.Idea) error {
	idea.UpdatedAt = time.Now()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE ideas
		 SET title = ?, description = ?, color = ?, group_id = ?,
		     position_x = ?, position_y = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		idea.Title, idea.Description, idea.Color, idea.GroupID,
		idea.PositionX, idea.PositionY, idea.UpdatedAt,
		idea.ID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating idea %s: %w", idea.ID, err)
	}
	return notFoundIfZero(result, "idea", idea.ID)
}

// UpdateIdeaPosition is the narrow write behind drag persistence: only the
// position columns move, so nothing else the user may have edited in another
// tab gets clobbered by a stale drag commit.
func (db *DB) UpdateIdeaPosition(ctx context.Context, ownerID, id string, x, y float64) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE ideas SET position_x = ?, position_y = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		x, y, time.Now(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating idea position %s: %w", id, err)
	}
	return notFoundIfZero(result, "idea", id)
}
