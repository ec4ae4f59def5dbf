// Package repair audits and fixes idea↔task link drift. The tasks table
// deliberately carries no foreign key on idea_id, so a crash between the two
// halves of a sync write can leave a task pointing at a missing idea, or at
// an idea whose group's list is not the list the task lives in. This package
// finds both kinds and moves the movable ones home.
package repair

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/order"
)

// LinkedTask is one task row that carries an idea link, joined against the
// idea it points to.
type LinkedTask struct {
	TaskID      string
	TodoListID  string
	IdeaID      string
	IdeaExists  bool
	IdeaGroupID *string // nil when the idea is missing or ungrouped
}

// Store is the storage surface the audit and repair passes need. It is
// unscoped: repair runs as an operator tool over the whole database.
type Store interface {
	// LinkedTasks returns every task with a non-null idea link.
	LinkedTasks(ctx context.Context) ([]LinkedTask, error)
	// TodoListsByGroup maps each group id to its todo list (the earliest
	// created one, when duplicates exist).
	TodoListsByGroup(ctx context.Context) (map[string]string, error)
	// MoveTasks reassigns each batch of tasks to its target list,
	// unsectioned, with fresh order keys appended after the target's
	// current maximum. The whole run is one transaction: every batch
	// commits or none do.
	MoveTasks(ctx context.Context, moves map[string][]string) error
}

// Kind classifies a finding.
type Kind string

const (
	// KindOrphan marks a task whose linked idea no longer exists.
	KindOrphan Kind = "orphan"
	// KindMisplaced marks a task living in a different list than the one
	// its idea's group maps to.
	KindMisplaced Kind = "misplaced"
	// KindUnroutable marks a misplaced-looking task with no destination:
	// its idea is ungrouped, or the group has no list.
	KindUnroutable Kind = "unroutable"
)

// Finding is one audited inconsistency.
type Finding struct {
	Kind       Kind
	TaskID     string
	TodoListID string
	IdeaID     string
	// TargetListID is set for KindMisplaced: where the task should live.
	TargetListID string
}

// Report is the outcome of an audit pass.
type Report struct {
	Scanned  int // linked tasks examined
	Findings []Finding
}

// Count returns how many findings have the given kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// Audit scans every linked task and classifies drift without changing
// anything. A task is consistent when its idea exists and either the idea is
// ungrouped, or the task already lives in the list its idea's group maps to.
func Audit(ctx context.Context, store Store) (*Report, error) {
	tasks, err := store.LinkedTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("repair: loading linked tasks: %w", err)
	}
	listByGroup, err := store.TodoListsByGroup(ctx)
	if err != nil {
		return nil, fmt.Errorf("repair: loading group lists: %w", err)
	}

	report := &Report{Scanned: len(tasks)}
	for _, t := range tasks {
		switch {
		case !t.IdeaExists:
			report.Findings = append(report.Findings, Finding{
				Kind:       KindOrphan,
				TaskID:     t.TaskID,
				TodoListID: t.TodoListID,
				IdeaID:     t.IdeaID,
			})
		case t.IdeaGroupID == nil:
			// Ungrouped idea: any list is as good as another.
		default:
			target, ok := listByGroup[*t.IdeaGroupID]
			if !ok {
				report.Findings = append(report.Findings, Finding{
					Kind:       KindUnroutable,
					TaskID:     t.TaskID,
					TodoListID: t.TodoListID,
					IdeaID:     t.IdeaID,
				})
			} else if target != t.TodoListID {
				report.Findings = append(report.Findings, Finding{
					Kind:         KindMisplaced,
					TaskID:       t.TaskID,
					TodoListID:   t.TodoListID,
					IdeaID:       t.IdeaID,
					TargetListID: target,
				})
			}
		}
	}
	return report, nil
}

// Result summarizes a repair pass.
type Result struct {
	Report *Report
	Moved  int
	// Skipped holds the findings repair could not act on: orphans (nothing
	// to move them toward) and unroutable tasks.
	Skipped []Finding
}

// Repair audits and then moves every misplaced task into the list its idea's
// group maps to. All moves of a run go through a single MoveTasks call, so a
// run either lands completely or not at all — a mid-run failure never leaves
// half the batches committed. Running it twice is safe: the second audit
// finds nothing misplaced.
func Repair(ctx context.Context, store Store, logger *slog.Logger) (*Result, error) {
	report, err := Audit(ctx, store)
	if err != nil {
		return nil, err
	}

	result := &Result{Report: report}
	byTarget := make(map[string][]string)
	for _, f := range report.Findings {
		if f.Kind != KindMisplaced {
			result.Skipped = append(result.Skipped, f)
			continue
		}
		byTarget[f.TargetListID] = append(byTarget[f.TargetListID], f.TaskID)
	}
	if len(byTarget) == 0 {
		return result, nil
	}

	if err := store.MoveTasks(ctx, byTarget); err != nil {
		return nil, fmt.Errorf("repair: moving misplaced tasks: %w", err)
	}

	targets := make([]string, 0, len(byTarget))
	for id := range byTarget {
		targets = append(targets, id)
	}
	sort.Strings(targets)
	for _, target := range targets {
		logger.Info("moved tasks to group list", "list_id", target, "count", len(byTarget[target]))
		result.Moved += len(byTarget[target])
	}
	return result, nil
}

// Bucket identifies one ordering scope: a list's unsectioned tasks, or one
// section's tasks.
type Bucket struct {
	TodoListID string
	SectionID  string // empty for unsectioned
}

// OrderStore is the storage surface order-key renormalization needs.
type OrderStore interface {
	// TaskOrderBuckets returns every task grouped into its ordering bucket.
	TaskOrderBuckets(ctx context.Context) (map[Bucket][]order.Sibling, error)
	// ApplyRekeys writes new order keys in one transaction.
	ApplyRekeys(ctx context.Context, rekeys []order.Rekey) error
}

// Renormalize rewrites every bucket's order keys to sequential integers from
// zero, preserving the current visible ordering. Midpoint insertion halves
// the gap between neighbors on every use, so long-lived lists eventually
// want their headroom back.
func Renormalize(ctx context.Context, store OrderStore) (int, error) {
	buckets, err := store.TaskOrderBuckets(ctx)
	if err != nil {
		return 0, fmt.Errorf("repair: loading order buckets: %w", err)
	}

	var rekeys []order.Rekey
	for _, siblings := range buckets {
		order.Sort(siblings)
		rekeys = append(rekeys, order.Renormalize(siblings)...)
	}
	if len(rekeys) == 0 {
		return 0, nil
	}
	if err := store.ApplyRekeys(ctx, rekeys); err != nil {
		return 0, fmt.Errorf("repair: applying %d rekeys: %w", len(rekeys), err)
	}
	return len(rekeys), nil
}
