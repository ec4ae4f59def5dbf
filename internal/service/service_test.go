package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

// =========================================================================
// MOCK STORE
// =========================================================================
//
// One in-memory fake backing every repository interface the services need.
// A hand-written mock instead of a mocking library: the sync cascades span
// several entity types, and a single coherent in-memory store makes the
// cross-entity assertions straightforward.

type mockStore struct {
	ideas    map[string]*model.Idea
	groups   map[string]*model.Group
	lists    map[string]*model.TodoList
	sections map[string]*model.Section
	tasks    map[string]*model.Task

	nextID int
	clock  time.Time

	// Error injection.
	failCreateTask bool
	failCreateIdea bool

	// Write counters for no-op assertions.
	taskWrites int
}

var (
	_ repository.IdeaRepository     = (*mockStore)(nil)
	_ repository.GroupRepository    = (*mockStore)(nil)
	_ repository.TodoListRepository = (*mockStore)(nil)
	_ repository.SectionRepository  = (*mockStore)(nil)
	_ repository.TaskRepository     = (*mockStore)(nil)
	_ repository.SyncRepository     = (*mockStore)(nil)
)

func newMockStore() *mockStore {
	return &mockStore{
		ideas:    map[string]*model.Idea{},
		groups:   map[string]*model.Group{},
		lists:    map[string]*model.TodoList{},
		sections: map[string]*model.Section{},
		tasks:    map[string]*model.Task{},
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%03d", prefix, m.nextID)
}

func (m *mockStore) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- IdeaRepository ---

func (m *mockStore) CreateIdea(_ context.Context, idea *model.Idea) error {
	if m.failCreateIdea {
		return fmt.Errorf("mock: idea insert failed")
	}
	idea.ID = m.id("idea")
	idea.CreatedAt = m.now()
	idea.UpdatedAt = idea.CreatedAt
	stored := *idea
	m.ideas[idea.ID] = &stored
	return nil
}

func (m *mockStore) GetIdea(_ context.Context, ownerID, id string) (*model.Idea, error) {
	idea, ok := m.ideas[id]
	if !ok || idea.OwnerID != ownerID {
		return nil, apperror.NotFound("idea", id)
	}
	result := *idea
	return &result, nil
}

func (m *mockStore) ListIdeas(_ context.Context, ownerID string) ([]model.Idea, error) {
	var out []model.Idea
	for _, idea := range m.ideas {
		if idea.OwnerID == ownerID {
			out = append(out, *idea)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) ListIdeasByGroup(_ context.Context, ownerID, groupID string) ([]model.Idea, error) {
	var out []model.Idea
	for _, idea := range m.ideas {
		if idea.OwnerID == ownerID && idea.GroupID != nil && *idea.GroupID == groupID {
			out = append(out, *idea)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) UpdateIdea(_ context.Context, ownerID string, idea *model.Idea) error {
	existing, ok := m.ideas[idea.ID]
	if !ok || existing.OwnerID != ownerID {
		return apperror.NotFound("idea", idea.ID)
	}
	idea.UpdatedAt = m.now()
	stored := *idea
	m.ideas[idea.ID] = &stored
	return nil
}

func (m *mockStore) UpdateIdeaPosition(_ context.Context, ownerID, id string, x, y float64) error {
	idea, ok := m.ideas[id]
	if !ok || idea.OwnerID != ownerID {
		return apperror.NotFound("idea", id)
	}
	idea.PositionX, idea.PositionY = x, y
	idea.UpdatedAt = m.now()
	return nil
}

// --- GroupRepository ---

func (m *mockStore) CreateGroup(_ context.Context, group *model.Group) error {
	group.ID = m.id("group")
	group.CreatedAt = m.now()
	group.UpdatedAt = group.CreatedAt
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *mockStore) GetGroup(_ context.Context, ownerID, id string) (*model.Group, error) {
	group, ok := m.groups[id]
	if !ok || group.OwnerID != ownerID {
		return nil, apperror.NotFound("group", id)
	}
	result := *group
	return &result, nil
}

func (m *mockStore) ListGroups(_ context.Context, ownerID string) ([]model.Group, error) {
	var out []model.Group
	for _, g := range m.groups {
		if g.OwnerID == ownerID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) UpdateGroup(_ context.Context, ownerID string, group *model.Group) error {
	existing, ok := m.groups[group.ID]
	if !ok || existing.OwnerID != ownerID {
		return apperror.NotFound("group", group.ID)
	}
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *mockStore) DeleteGroup(_ context.Context, ownerID, id string) error {
	group, ok := m.groups[id]
	if !ok || group.OwnerID != ownerID {
		return apperror.NotFound("group", id)
	}
	delete(m.groups, id)
	for _, idea := range m.ideas {
		if idea.GroupID != nil && *idea.GroupID == id {
			idea.GroupID = nil
		}
	}
	// todo_lists keep the dead group id on purpose.
	return nil
}

// --- TodoListRepository ---

func (m *mockStore) GetTodoList(_ context.Context, ownerID, id string) (*model.TodoList, error) {
	list, ok := m.lists[id]
	if !ok || list.OwnerID != ownerID {
		return nil, apperror.NotFound("todo list", id)
	}
	result := *list
	return &result, nil
}

func (m *mockStore) ListTodoLists(_ context.Context, ownerID string) ([]model.TodoList, error) {
	var out []model.TodoList
	for _, l := range m.lists {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) UpdateTodoList(_ context.Context, ownerID string, list *model.TodoList) error {
	existing, ok := m.lists[list.ID]
	if !ok || existing.OwnerID != ownerID {
		return apperror.NotFound("todo list", list.ID)
	}
	stored := *list
	m.lists[list.ID] = &stored
	return nil
}

func (m *mockStore) DeleteTodoList(_ context.Context, ownerID, id string) error {
	list, ok := m.lists[id]
	if !ok || list.OwnerID != ownerID {
		return apperror.NotFound("todo list", id)
	}
	delete(m.lists, id)
	for sid, sec := range m.sections {
		if sec.TodoListID == id {
			delete(m.sections, sid)
		}
	}
	for tid, task := range m.tasks {
		if task.TodoListID == id {
			delete(m.tasks, tid)
		}
	}
	return nil
}

func (m *mockStore) FindTodoListByGroup(_ context.Context, ownerID, groupID string) (*model.TodoList, error) {
	var found *model.TodoList
	for _, l := range m.lists {
		if l.OwnerID == ownerID && l.GroupID != nil && *l.GroupID == groupID {
			if found == nil || l.CreatedAt.Before(found.CreatedAt) {
				found = l
			}
		}
	}
	if found == nil {
		return nil, apperror.NotFound("todo list for group", groupID)
	}
	result := *found
	return &result, nil
}

// --- SectionRepository ---

func (m *mockStore) listOwner(listID string) (string, bool) {
	list, ok := m.lists[listID]
	if !ok {
		return "", false
	}
	return list.OwnerID, true
}

func (m *mockStore) CreateSection(_ context.Context, ownerID string, section *model.Section) error {
	if owner, ok := m.listOwner(section.TodoListID); !ok || owner != ownerID {
		return apperror.NotFound("todo list", section.TodoListID)
	}
	section.ID = m.id("section")
	stored := *section
	m.sections[section.ID] = &stored
	return nil
}

func (m *mockStore) GetSection(_ context.Context, ownerID, id string) (*model.Section, error) {
	section, ok := m.sections[id]
	if !ok {
		return nil, apperror.NotFound("section", id)
	}
	if owner, ok := m.listOwner(section.TodoListID); !ok || owner != ownerID {
		return nil, apperror.NotFound("section", id)
	}
	result := *section
	return &result, nil
}

func (m *mockStore) ListSections(_ context.Context, ownerID, todoListID string) ([]model.Section, error) {
	var out []model.Section
	for _, sec := range m.sections {
		if sec.TodoListID == todoListID {
			if owner, ok := m.listOwner(sec.TodoListID); ok && owner == ownerID {
				out = append(out, *sec)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *mockStore) UpdateSection(_ context.Context, ownerID string, section *model.Section) error {
	if _, err := m.GetSection(context.Background(), ownerID, section.ID); err != nil {
		return err
	}
	stored := *section
	m.sections[section.ID] = &stored
	return nil
}

func (m *mockStore) DeleteSection(_ context.Context, ownerID, id string) error {
	if _, err := m.GetSection(context.Background(), ownerID, id); err != nil {
		return err
	}
	delete(m.sections, id)
	for _, task := range m.tasks {
		if task.SectionID != nil && *task.SectionID == id {
			task.SectionID = nil
		}
	}
	return nil
}

// --- TaskRepository ---

func (m *mockStore) CreateTask(_ context.Context, ownerID string, task *model.Task) error {
	if m.failCreateTask {
		return fmt.Errorf("mock: task insert failed")
	}
	if owner, ok := m.listOwner(task.TodoListID); !ok || owner != ownerID {
		return apperror.NotFound("todo list", task.TodoListID)
	}
	task.ID = m.id("task")
	task.CreatedAt = m.now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *mockStore) GetTask(_ context.Context, ownerID, id string) (*model.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, apperror.NotFound("task", id)
	}
	if owner, ok := m.listOwner(task.TodoListID); !ok || owner != ownerID {
		return nil, apperror.NotFound("task", id)
	}
	result := *task
	return &result, nil
}

func (m *mockStore) ListTasks(_ context.Context, ownerID, todoListID string) ([]model.Task, error) {
	var out []model.Task
	for _, task := range m.tasks {
		if task.TodoListID == todoListID {
			if owner, ok := m.listOwner(task.TodoListID); ok && owner == ownerID {
				out = append(out, *task)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockStore) UpdateTask(_ context.Context, ownerID string, task *model.Task) error {
	if _, err := m.GetTask(context.Background(), ownerID, task.ID); err != nil {
		return err
	}
	m.taskWrites++
	task.UpdatedAt = m.now()
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *mockStore) BulkUpdateTasks(_ context.Context, ownerID string, ids []string, updates repository.TaskUpdates) ([]model.Task, error) {
	var out []model.Task
	for _, id := range ids {
		task, err := m.GetTask(context.Background(), ownerID, id)
		if err != nil {
			continue
		}
		if updates.Title != nil {
			task.Title = *updates.Title
		}
		if updates.Completed != nil {
			task.Completed = *updates.Completed
		}
		if updates.ClearSection {
			task.SectionID = nil
		} else if updates.SectionID != nil {
			task.SectionID = updates.SectionID
		}
		if updates.OrderIndex != nil {
			task.OrderIndex = *updates.OrderIndex
		}
		m.taskWrites++
		stored := *task
		m.tasks[id] = &stored
		out = append(out, stored)
	}
	return out, nil
}

func (m *mockStore) MaxTaskOrderIndex(_ context.Context, ownerID, todoListID string) (float64, bool, error) {
	max, found := 0.0, false
	for _, task := range m.tasks {
		if task.TodoListID != todoListID {
			continue
		}
		if owner, ok := m.listOwner(todoListID); !ok || owner != ownerID {
			continue
		}
		if !found || task.OrderIndex > max {
			max, found = task.OrderIndex, true
		}
	}
	return max, found, nil
}

// --- SyncRepository ---

func (m *mockStore) CreateTodoListFromGroup(_ context.Context, list *model.TodoList, ideas []model.Idea) ([]model.Task, error) {
	list.ID = m.id("list")
	list.CreatedAt = m.now()
	list.UpdatedAt = list.CreatedAt
	storedList := *list
	m.lists[list.ID] = &storedList

	var tasks []model.Task
	for i, idea := range ideas {
		ideaID := idea.ID
		task := model.Task{
			ID:         m.id("task"),
			TodoListID: list.ID,
			IdeaID:     &ideaID,
			Title:      idea.Title,
			OrderIndex: float64(i),
			CreatedAt:  m.now(),
		}
		stored := task
		m.tasks[task.ID] = &stored
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (m *mockStore) DeleteTaskCascade(ctx context.Context, ownerID, taskID string) (*string, error) {
	task, err := m.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	var deletedIdea *string
	if task.IdeaID != nil {
		if idea, ok := m.ideas[*task.IdeaID]; ok && idea.OwnerID == ownerID {
			delete(m.ideas, *task.IdeaID)
			deletedIdea = task.IdeaID
		}
	}
	delete(m.tasks, taskID)
	return deletedIdea, nil
}

func (m *mockStore) DeleteIdeaCascade(ctx context.Context, ownerID, ideaID string) ([]string, error) {
	if _, err := m.GetIdea(ctx, ownerID, ideaID); err != nil {
		return nil, err
	}
	var deletedTasks []string
	for id, task := range m.tasks {
		if task.IdeaID != nil && *task.IdeaID == ideaID {
			delete(m.tasks, id)
			deletedTasks = append(deletedTasks, id)
		}
	}
	delete(m.ideas, ideaID)
	sort.Strings(deletedTasks)
	return deletedTasks, nil
}

func (m *mockStore) BulkDeleteTasks(ctx context.Context, ownerID string, taskIDs []string) ([]string, []string, error) {
	var deletedTasks, deletedIdeas []string
	for _, id := range taskIDs {
		ideaID, err := m.DeleteTaskCascade(ctx, ownerID, id)
		if err != nil {
			continue
		}
		deletedTasks = append(deletedTasks, id)
		if ideaID != nil {
			deletedIdeas = append(deletedIdeas, *ideaID)
		}
	}
	return deletedTasks, deletedIdeas, nil
}

func (m *mockStore) ClearCompletedTasks(ctx context.Context, ownerID, todoListID string) ([]string, []string, error) {
	if _, err := m.GetTodoList(ctx, ownerID, todoListID); err != nil {
		return nil, nil, err
	}
	var ids []string
	for id, task := range m.tasks {
		if task.TodoListID == todoListID && task.Completed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return m.BulkDeleteTasks(ctx, ownerID, ids)
}

func (m *mockStore) MoveTasksToList(ctx context.Context, ownerID, targetListID string, taskIDs []string) ([]model.Task, error) {
	if _, err := m.GetTodoList(ctx, ownerID, targetListID); err != nil {
		return nil, err
	}
	next := 0.0
	if max, ok, _ := m.MaxTaskOrderIndex(ctx, ownerID, targetListID); ok {
		next = max + 1
	}
	var moved []model.Task
	for _, id := range taskIDs {
		task, err := m.GetTask(ctx, ownerID, id)
		if err != nil {
			continue
		}
		task.TodoListID = targetListID
		task.SectionID = nil
		task.OrderIndex = next
		next++
		stored := *task
		m.tasks[id] = &stored
		moved = append(moved, stored)
	}
	return moved, nil
}
