package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/canvas"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

// TodoListService handles todo lists, including the group→list conversion
// that snapshots a group's ideas into linked tasks.
type TodoListService struct {
	lists    repository.TodoListRepository
	groups   repository.GroupRepository
	ideas    repository.IdeaRepository
	sections repository.SectionRepository
	tasks    repository.TaskRepository
	sync     repository.SyncRepository
	cache    *canvas.IdeaCache
	logger   *slog.Logger
}

func NewTodoListService(
	lists repository.TodoListRepository,
	groups repository.GroupRepository,
	ideas repository.IdeaRepository,
	sections repository.SectionRepository,
	tasks repository.TaskRepository,
	sync repository.SyncRepository,
	cache *canvas.IdeaCache,
	logger *slog.Logger,
) *TodoListService {
	return &TodoListService{
		lists:    lists,
		groups:   groups,
		ideas:    ideas,
		sections: sections,
		tasks:    tasks,
		sync:     sync,
		cache:    cache,
		logger:   logger,
	}
}

// CreateFromGroup converts a group into a todo list: one task per member
// idea, in creation order, titles copied, linked back through the idea id.
// The snapshot is one-time — ideas added to the group later do not appear in
// the list.
//
// A group can only be converted once; a second attempt is a conflict.
func (s *TodoListService) CreateFromGroup(ctx context.Context, ownerID, groupID, name string) (*model.TodoList, []model.Task, error) {
	if strings.TrimSpace(groupID) == "" {
		return nil, nil, apperror.ValidationFailed("groupId", "group id is required")
	}
	group, err := s.groups.GetGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.lists.FindTodoListByGroup(ctx, ownerID, groupID); err == nil {
		return nil, nil, apperror.Conflict("todo list for group", groupID)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, nil, fmt.Errorf("checking for existing list: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = group.Name
	}
	if len(name) > MaxNameLength {
		return nil, nil, apperror.ValidationFailed("name",
			fmt.Sprintf("list name must be %d characters or less", MaxNameLength))
	}

	ideas, err := s.ideas.ListIdeasByGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing group ideas: %w", err)
	}

	list := &model.TodoList{OwnerID: ownerID, GroupID: &group.ID, Name: name}
	tasks, err := s.sync.CreateTodoListFromGroup(ctx, list, ideas)
	if err != nil {
		s.logger.Error("failed to convert group to todo list",
			"group_id", groupID, "error", err)
		return nil, nil, fmt.Errorf("converting group to todo list: %w", err)
	}

	s.logger.Info("todo list created from group",
		"id", list.ID, "group_id", groupID, "tasks_imported", len(tasks))
	return list, tasks, nil
}

func (s *TodoListService) List(ctx context.Context, ownerID string) ([]model.TodoList, error) {
	lists, err := s.lists.ListTodoLists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing todo lists: %w", err)
	}
	return lists, nil
}

// TodoListDetail is a list with its sections and tasks, the payload of the
// list view.
type TodoListDetail struct {
	List     *model.TodoList
	Sections []model.Section
	Tasks    []model.Task
}

func (s *TodoListService) Get(ctx context.Context, ownerID, id string) (*TodoListDetail, error) {
	list, err := s.lists.GetTodoList(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.sections.ListSections(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	tasks, err := s.tasks.ListTasks(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return &TodoListDetail{List: list, Sections: sections, Tasks: tasks}, nil
}

// Update renames and/or archives the list. Archiving hides a list from the
// default view without touching its tasks.
func (s *TodoListService) Update(ctx context.Context, ownerID, id string, name *string, archived *bool) (*model.TodoList, error) {
	list, err := s.lists.GetTodoList(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperror.ValidationFailed("name", "list name is required")
		}
		if len(trimmed) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("list name must be %d characters or less", MaxNameLength))
		}
		list.Name = trimmed
	}
	if archived != nil {
		list.Archived = *archived
	}

	if err := s.lists.UpdateTodoList(ctx, ownerID, list); err != nil {
		return nil, fmt.Errorf("updating todo list: %w", err)
	}
	return list, nil
}

// Delete removes the list along with its sections and tasks. Linked ideas
// stay on the canvas: deleting a list is a task-side operation, not an
// idea delete.
func (s *TodoListService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.lists.DeleteTodoList(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("todo list deleted", "id", id, "owner_id", ownerID)
	return nil
}

// ClearCompletedResult reports what a completed-tasks sweep removed.
type ClearCompletedResult struct {
	DeletedTaskIDs []string
	DeletedIdeaIDs []string
}

// ClearCompleted bulk-deletes the list's completed tasks with the same
// cascade semantics as deleting each one: linked ideas go too, all in one
// transaction.
func (s *TodoListService) ClearCompleted(ctx context.Context, ownerID, id string) (*ClearCompletedResult, error) {
	taskIDs, ideaIDs, err := s.sync.ClearCompletedTasks(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	for _, ideaID := range ideaIDs {
		s.cache.Remove(ideaID)
	}

	s.logger.Info("completed tasks cleared",
		"list_id", id, "tasks", len(taskIDs), "ideas", len(ideaIDs))
	return &ClearCompletedResult{DeletedTaskIDs: taskIDs, DeletedIdeaIDs: ideaIDs}, nil
}
