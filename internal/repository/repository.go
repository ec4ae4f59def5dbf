// Package repository defines the storage interfaces consumed by the service
// layer. The sqlite subpackage provides the real implementation; tests supply
// in-memory mocks. Services never see a *sql.DB.
//
// Ownership scoping is part of the contract: every lookup that takes an
// ownerID must treat rows owned by someone else exactly like missing rows
// (apperror.NotFound), so the API never reveals whether a foreign id exists.
package repository

import (
	"context"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertGitHubUser inserts on first OAuth login and refreshes the
	// profile fields on subsequent logins, keyed by GitHubID.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroup(ctx context.Context, ownerID, id string) (*model.Group, error)
	ListGroups(ctx context.Context, ownerID string) ([]model.Group, error)
	UpdateGroup(ctx context.Context, ownerID string, group *model.Group) error
	// DeleteGroup nulls group_id on member ideas (never deletes them) and
	// deliberately leaves todo lists pointing at the dead group id.
	DeleteGroup(ctx context.Context, ownerID, id string) error
}

type IdeaRepository interface {
	CreateIdea(ctx context.Context, idea *model.Idea) error
	GetIdea(ctx context.Context, ownerID, id string) (*model.Idea, error)
	ListIdeas(ctx context.Context, ownerID string) ([]model.Idea, error)
	// ListIdeasByGroup returns the group's members in creation order — the
	// order a todo-list snapshot imports them in.
	ListIdeasByGroup(ctx context.Context, ownerID, groupID string) ([]model.Idea, error)
	UpdateIdea(ctx context.Context, ownerID string, idea *model.Idea) error
	// UpdateIdeaPosition touches only position_x/position_y (and updated_at),
	// matching the drag engine's position-only persistence requests.
	UpdateIdeaPosition(ctx context.Context, ownerID, id string, x, y float64) error
}

type TodoListRepository interface {
	GetTodoList(ctx context.Context, ownerID, id string) (*model.TodoList, error)
	ListTodoLists(ctx context.Context, ownerID string) ([]model.TodoList, error)
	UpdateTodoList(ctx context.Context, ownerID string, list *model.TodoList) error
	DeleteTodoList(ctx context.Context, ownerID, id string) error
	// FindTodoListByGroup returns the list materializing groupID, or
	// apperror.NotFound when the group was never converted.
	FindTodoListByGroup(ctx context.Context, ownerID, groupID string) (*model.TodoList, error)
}

type SectionRepository interface {
	CreateSection(ctx context.Context, ownerID string, section *model.Section) error
	GetSection(ctx context.Context, ownerID, id string) (*model.Section, error)
	ListSections(ctx context.Context, ownerID, todoListID string) ([]model.Section, error)
	UpdateSection(ctx context.Context, ownerID string, section *model.Section) error
	DeleteSection(ctx context.Context, ownerID, id string) error
}

// TaskUpdates is the patch set for single and bulk task updates. Nil pointer
// means "leave unchanged"; ClearSection moves tasks to the unsectioned bucket
// (a nil SectionID alone can't express that).
type TaskUpdates struct {
	Title        *string
	Completed    *bool
	SectionID    *string
	ClearSection bool
	OrderIndex   *float64
}

type TaskRepository interface {
	CreateTask(ctx context.Context, ownerID string, task *model.Task) error
	GetTask(ctx context.Context, ownerID, id string) (*model.Task, error)
	ListTasks(ctx context.Context, ownerID, todoListID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, ownerID string, task *model.Task) error
	BulkUpdateTasks(ctx context.Context, ownerID string, ids []string, updates TaskUpdates) ([]model.Task, error)
	// MaxTaskOrderIndex returns the largest order key in the whole list
	// (all sections), or ok=false for an empty list.
	MaxTaskOrderIndex(ctx context.Context, ownerID, todoListID string) (float64, bool, error)
}

// SyncRepository groups the cross-entity operations that must be atomic.
// Each call runs inside a single storage transaction: either every row
// change commits or none do. The best-effort flavor of the cascades lives in
// the SQL itself — deleting a linked row that is already gone affects zero
// rows and is not an error.
type SyncRepository interface {
	// CreateTodoListFromGroup creates the list and snapshots the given
	// ideas into linked tasks with sequential integer order keys from 0.
	CreateTodoListFromGroup(ctx context.Context, list *model.TodoList, ideas []model.Idea) ([]model.Task, error)
	// DeleteTaskCascade removes the task and, when linked, its idea.
	// Returns the deleted idea id when one went with it.
	DeleteTaskCascade(ctx context.Context, ownerID, taskID string) (*string, error)
	// DeleteIdeaCascade removes every task referencing the idea, then the
	// idea itself. Returns the ids of the deleted tasks.
	DeleteIdeaCascade(ctx context.Context, ownerID, ideaID string) ([]string, error)
	// BulkDeleteTasks removes the given tasks with single-delete cascade
	// semantics (linked ideas go too).
	BulkDeleteTasks(ctx context.Context, ownerID string, taskIDs []string) (deletedTaskIDs []string, deletedIdeaIDs []string, err error)
	// ClearCompletedTasks bulk-deletes the list's completed tasks with the
	// same cascade semantics.
	ClearCompletedTasks(ctx context.Context, ownerID, todoListID string) (deletedTaskIDs []string, deletedIdeaIDs []string, err error)
	// MoveTasksToList reassigns the tasks to the target list, unsectioned,
	// with fresh order keys appended after the target's current maximum.
	MoveTasksToList(ctx context.Context, ownerID, targetListID string, taskIDs []string) ([]model.Task, error)
}
