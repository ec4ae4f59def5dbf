package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/canvas"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

// TaskService handles todo tasks and the task side of the idea↔task sync
// protocol: companion idea creation, delete cascades, reordering, and the
// bulk operations.
type TaskService struct {
	tasks    repository.TaskRepository
	lists    repository.TodoListRepository
	groups   repository.GroupRepository
	ideas    repository.IdeaRepository
	sections repository.SectionRepository
	sync     repository.SyncRepository
	cache    *canvas.IdeaCache
	logger   *slog.Logger
}

func NewTaskService(
	tasks repository.TaskRepository,
	lists repository.TodoListRepository,
	groups repository.GroupRepository,
	ideas repository.IdeaRepository,
	sections repository.SectionRepository,
	sync repository.SyncRepository,
	cache *canvas.IdeaCache,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		lists:    lists,
		groups:   groups,
		ideas:    ideas,
		sections: sections,
		sync:     sync,
		cache:    cache,
		logger:   logger,
	}
}

// CreateResult is a created task plus the outcome of the best-effort
// companion idea.
type CreateTaskResult struct {
	Task        *model.Task
	IdeaCreated bool
	IdeaID      *string
}

// Create adds a task to a list and, when the list came from a group, plants
// a companion idea card in that group so the canvas and the list stay in
// step.
//
// COMPANION CREATION IS BEST-EFFORT:
// The idea is created first; if the task insert then fails, the idea is
// compensated away. If the idea itself cannot be created (say the group was
// deleted underneath us), the task is still created — a task without a card
// beats no task, and the result reports IdeaCreated=false so the client
// knows.
func (s *TaskService) Create(ctx context.Context, ownerID, todoListID, title string, sectionID *string, orderIndex *float64) (*CreateTaskResult, error) {
	title, err := validateIdeaTitle(title)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.GetTodoList(ctx, ownerID, todoListID)
	if err != nil {
		return nil, err
	}
	if sectionID != nil && *sectionID == "" {
		sectionID = nil
	}

	idea := s.createCompanionIdea(ctx, ownerID, list, title)

	// The client may place the task explicitly; without a key the task
	// appends after everything in the list.
	var key float64
	if orderIndex != nil {
		key = *orderIndex
	} else if max, ok, err := s.tasks.MaxTaskOrderIndex(ctx, ownerID, todoListID); err != nil {
		return nil, fmt.Errorf("computing order index: %w", err)
	} else if ok {
		key = max + 1
	}

	task := &model.Task{
		TodoListID: todoListID,
		SectionID:  sectionID,
		Title:      title,
		OrderIndex: key,
	}
	if idea != nil {
		task.IdeaID = &idea.ID
	}

	if err := s.tasks.CreateTask(ctx, ownerID, task); err != nil {
		if idea != nil {
			// Compensate: don't leave a card with no task behind it.
			if _, derr := s.sync.DeleteIdeaCascade(ctx, ownerID, idea.ID); derr != nil {
				s.logger.Warn("failed to compensate companion idea",
					"idea_id", idea.ID, "error", derr)
			} else {
				s.cache.Remove(idea.ID)
			}
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}

	result := &CreateTaskResult{Task: task}
	if idea != nil {
		result.IdeaCreated = true
		result.IdeaID = &idea.ID
	}
	s.logger.Info("task created",
		"id", task.ID, "list_id", todoListID, "idea_created", result.IdeaCreated)
	return result, nil
}

// createCompanionIdea places and creates the canvas card for a new task.
// Returns nil when the list has no live group or creation fails; both are
// non-fatal.
func (s *TaskService) createCompanionIdea(ctx context.Context, ownerID string, list *model.TodoList, title string) *model.Idea {
	if list.GroupID == nil {
		return nil
	}
	group, err := s.groups.GetGroup(ctx, ownerID, *list.GroupID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("failed to load group for companion idea",
				"group_id", *list.GroupID, "error", err)
		}
		// Dead group reference on the list: the task goes in cardless.
		return nil
	}

	members, err := s.ideas.ListIdeasByGroup(ctx, ownerID, group.ID)
	if err != nil {
		s.logger.Warn("failed to list group ideas for placement",
			"group_id", group.ID, "error", err)
		return nil
	}
	positions := make([]canvas.Point, len(members))
	for i, m := range members {
		positions[i] = canvas.Point{X: m.PositionX, Y: m.PositionY}
	}
	pos := canvas.PlaceCompanion(positions)

	idea := &model.Idea{
		OwnerID:   ownerID,
		Title:     title,
		Color:     group.Color,
		GroupID:   &group.ID,
		PositionX: pos.X,
		PositionY: pos.Y,
	}
	if err := s.ideas.CreateIdea(ctx, idea); err != nil {
		s.logger.Warn("failed to create companion idea",
			"group_id", group.ID, "error", err)
		return nil
	}
	s.cache.Put(*idea)
	return idea
}

// Toggle sets the completion flag.
func (s *TaskService) Toggle(ctx context.Context, ownerID, id string, completed bool) (*model.Task, error) {
	task, err := s.tasks.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if task.Completed == completed {
		return task, nil
	}
	task.Completed = completed
	if err := s.tasks.UpdateTask(ctx, ownerID, task); err != nil {
		return nil, fmt.Errorf("toggling task: %w", err)
	}
	return task, nil
}

// Rename changes the task title. The linked idea's title is NOT touched:
// after import the two texts evolve independently.
func (s *TaskService) Rename(ctx context.Context, ownerID, id, title string) (*model.Task, error) {
	title, err := validateIdeaTitle(title)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	task.Title = title
	if err := s.tasks.UpdateTask(ctx, ownerID, task); err != nil {
		return nil, fmt.Errorf("renaming task: %w", err)
	}
	return task, nil
}

// Reorder applies a drop: a fresh fractional order key, optionally moving
// the task into a section (or out of every section). Only the dropped task
// is written — siblings keep their keys.
//
// Dropping a task exactly where it already sits is a no-op and issues no
// write.
func (s *TaskService) Reorder(ctx context.Context, ownerID, id string, orderIndex float64, sectionID *string, clearSection bool) (*model.Task, error) {
	task, err := s.tasks.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	newSection := task.SectionID
	switch {
	case clearSection:
		newSection = nil
	case sectionID != nil && *sectionID != "":
		newSection = sectionID
	}
	if newSection != nil {
		if err := s.validateSectionTarget(ctx, ownerID, task.TodoListID, *newSection); err != nil {
			return nil, err
		}
	}

	if task.OrderIndex == orderIndex && equalSection(task.SectionID, newSection) {
		return task, nil
	}

	task.OrderIndex = orderIndex
	task.SectionID = newSection
	if err := s.tasks.UpdateTask(ctx, ownerID, task); err != nil {
		return nil, fmt.Errorf("reordering task: %w", err)
	}
	return task, nil
}

func (s *TaskService) validateSectionTarget(ctx context.Context, ownerID, todoListID, sectionID string) error {
	section, err := s.sections.GetSection(ctx, ownerID, sectionID)
	if err != nil {
		return err
	}
	if section.TodoListID != todoListID {
		return apperror.ValidationFailed("sectionId", "section does not belong to the task's list")
	}
	return nil
}

func equalSection(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DeleteTaskResult reports what a task delete cascade removed.
type DeleteTaskResult struct {
	DeletedTaskID string
	DeletedIdeaID *string
}

// Delete removes the task and its linked idea (when one exists) in a single
// transaction. A dangling link — the idea already gone — does not block the
// delete.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) (*DeleteTaskResult, error) {
	ideaID, err := s.sync.DeleteTaskCascade(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if ideaID != nil {
		s.cache.Remove(*ideaID)
	}

	s.logger.Info("task deleted", "id", id, "cascaded_idea", ideaID != nil)
	return &DeleteTaskResult{DeletedTaskID: id, DeletedIdeaID: ideaID}, nil
}

// BulkUpdate applies one patch to many tasks. Tasks not owned by the caller
// are silently skipped; the returned slice holds only the tasks actually
// updated.
func (s *TaskService) BulkUpdate(ctx context.Context, ownerID string, taskIDs []string, updates repository.TaskUpdates) ([]model.Task, error) {
	if len(taskIDs) == 0 {
		return nil, apperror.ValidationFailed("taskIds", "at least one task id is required")
	}
	if updates.Title != nil {
		title, err := validateIdeaTitle(*updates.Title)
		if err != nil {
			return nil, err
		}
		updates.Title = &title
	}

	updated, err := s.tasks.BulkUpdateTasks(ctx, ownerID, taskIDs, updates)
	if err != nil {
		return nil, fmt.Errorf("bulk updating tasks: %w", err)
	}
	return updated, nil
}

// BulkDeleteResult reports what a bulk delete removed.
type BulkDeleteResult struct {
	DeletedTaskIDs []string
	DeletedIdeaIDs []string
}

// BulkDelete removes many tasks with single-delete cascade semantics.
func (s *TaskService) BulkDelete(ctx context.Context, ownerID string, taskIDs []string) (*BulkDeleteResult, error) {
	if len(taskIDs) == 0 {
		return nil, apperror.ValidationFailed("taskIds", "at least one task id is required")
	}
	deletedTasks, deletedIdeas, err := s.sync.BulkDeleteTasks(ctx, ownerID, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("bulk deleting tasks: %w", err)
	}
	for _, ideaID := range deletedIdeas {
		s.cache.Remove(ideaID)
	}

	s.logger.Info("tasks bulk-deleted",
		"tasks", len(deletedTasks), "ideas", len(deletedIdeas))
	return &BulkDeleteResult{DeletedTaskIDs: deletedTasks, DeletedIdeaIDs: deletedIdeas}, nil
}

// MoveToList reassigns tasks to another list, unsectioned, appended after
// the destination's current tail in the order given.
func (s *TaskService) MoveToList(ctx context.Context, ownerID, targetListID string, taskIDs []string) ([]model.Task, error) {
	if len(taskIDs) == 0 {
		return nil, apperror.ValidationFailed("taskIds", "at least one task id is required")
	}
	moved, err := s.sync.MoveTasksToList(ctx, ownerID, targetListID, taskIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tasks moved", "target_list_id", targetListID, "count", len(moved))
	return moved, nil
}
