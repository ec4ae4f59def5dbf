package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/order"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repair"
)

var (
	_ repair.Store      = (*DB)(nil)
	_ repair.OrderStore = (*DB)(nil)
)

// LinkedTasks returns every task with an idea link, left-joined against the
// ideas table so the caller can tell a live link from a dangling one. The
// join is unscoped: repair is operator tooling and sees every owner's rows.
func (db *DB) LinkedTasks(ctx context.Context) ([]repair.LinkedTask, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT t.id, t.todo_list_id, t.idea_id, i.id IS NOT NULL, i.group_id
		 FROM tasks t
		 LEFT JOIN ideas i ON i.id = t.idea_id
		 WHERE t.idea_id IS NOT NULL
		 ORDER BY t.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying linked tasks: %w", err)
	}
	defer rows.Close()

	var out []repair.LinkedTask
	for rows.Next() {
		var (
			t       repair.LinkedTask
			groupID sql.NullString
		)
		if err := rows.Scan(&t.TaskID, &t.TodoListID, &t.IdeaID, &t.IdeaExists, &groupID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning linked task: %w", err)
		}
		if groupID.Valid {
			t.IdeaGroupID = &groupID.String
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating linked tasks: %w", err)
	}
	return out, nil
}

// TodoListsByGroup maps each group id to its earliest-created todo list.
func (db *DB) TodoListsByGroup(ctx context.Context) (map[string]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT group_id, id FROM todo_lists
		 WHERE group_id IS NOT NULL
		 ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying group lists: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var groupID, listID string
		if err := rows.Scan(&groupID, &listID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning group list: %w", err)
		}
		if _, seen := out[groupID]; !seen {
			out[groupID] = listID
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating group lists: %w", err)
	}
	return out, nil
}

// MoveTasks reassigns every batch to its target list inside one transaction,
// so a repair run commits whole or rolls back whole. Within each target the
// tasks land unsectioned, appended after the list's current maximum order
// key. Targets are processed in sorted order so key assignment is
// deterministic across runs.
func (db *DB) MoveTasks(ctx context.Context, moves map[string][]string) error {
	if len(moves) == 0 {
		return nil
	}
	targets := make([]string, 0, len(moves))
	for id := range moves {
		targets = append(targets, id)
	}
	sort.Strings(targets)

	return db.inTx(ctx, func(tx *sql.Tx) error {
		for _, targetListID := range targets {
			if err := moveTasksTx(ctx, tx, targetListID, moves[targetListID]); err != nil {
				return err
			}
		}
		return nil
	})
}

func moveTasksTx(ctx context.Context, tx *sql.Tx, targetListID string, taskIDs []string) error {
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

	for _, id := range taskIDs {
		_, err := tx.ExecContext(ctx,
			`UPDATE tasks SET todo_list_id = ?, section_id = NULL, order_index = ?,
				updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			targetListID, next, id,
		)
		if err != nil {
			return fmt.Errorf("sqlite: reassigning task %s: %w", id, err)
		}
		next++
	}
	return nil
}

// TaskOrderBuckets loads every task's ordering key grouped by its
// (list, section) scope.
func (db *DB) TaskOrderBuckets(ctx context.Context) (map[repair.Bucket][]order.Sibling, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, todo_list_id, section_id, order_index, created_at FROM tasks`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying task order rows: %w", err)
	}
	defer rows.Close()

	out := make(map[repair.Bucket][]order.Sibling)
	for rows.Next() {
		var (
			s         order.Sibling
			listID    string
			sectionID sql.NullString
		)
		if err := rows.Scan(&s.ID, &listID, &sectionID, &s.OrderIndex, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task order row: %w", err)
		}
		bucket := repair.Bucket{TodoListID: listID, SectionID: sectionID.String}
		out[bucket] = append(out[bucket], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating task order rows: %w", err)
	}
	return out, nil
}

// ApplyRekeys writes new order keys in one transaction.
func (db *DB) ApplyRekeys(ctx context.Context, rekeys []order.Rekey) error {
	if len(rekeys) == 0 {
		return nil
	}
	return db.inTx(ctx, func(tx *sql.Tx) error {
		for _, rk := range rekeys {
			if _, err := tx.ExecContext(ctx,
				`UPDATE tasks SET order_index = ? WHERE id = ?`,
				rk.OrderIndex, rk.ID,
			); err != nil {
				return fmt.Errorf("sqlite: rekeying task %s: %w", rk.ID, err)
			}
		}
		return nil
	})
}
