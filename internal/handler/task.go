package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/auth"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/service"
)

// TaskHandler exposes task operations: creation (with its companion idea on
// the canvas), toggle, rename, reorder, and the bulk endpoints.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

type createTaskRequest struct {
	Title      string   `json:"title"`
	SectionID  string   `json:"sectionId"`
	OrderIndex *float64 `json:"orderIndex"`
}

// HandleCreate adds a task to a list. When the list's group still exists, a
// companion idea card is planted on the canvas and linked to the task; the
// response says whether that happened.
//
// HTTP: POST /api/todolists/{id}/tasks
// RESPONSE: {"task": {...}, "ideaCreated": bool, "ideaId": "..."|null, "message": "..."}
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var sectionID *string
	if req.SectionID != "" {
		sectionID = &req.SectionID
	}

	result, err := h.svc.Create(r.Context(), userID, r.PathValue("id"), req.Title, sectionID, req.OrderIndex)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "task created"
	if result.IdeaCreated {
		message = "task created with linked idea"
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"task":        result.Task,
		"ideaCreated": result.IdeaCreated,
		"ideaId":      result.IdeaID,
		"message":     message,
	})
}

// HandleToggle sets a task's completed flag.
//
// HTTP: PATCH /api/tasks/{id}/toggle
func (h *TaskHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.svc.Toggle(r.Context(), userID, r.PathValue("id"), req.Completed)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

// HandleRename changes a task's title. The linked idea keeps its own title —
// the two texts evolve independently after creation.
//
// HTTP: PATCH /api/tasks/{id}
func (h *TaskHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.svc.Rename(r.Context(), userID, r.PathValue("id"), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

// reorderRequest moves a task among its siblings. The client computes the
// fractional orderIndex from the drop position; the server persists it.
//
// SectionID distinguishes three cases the same way ideaRequest.GroupID does:
// absent keeps the current section, null moves to the unsectioned bucket, a
// string moves into that section.
type reorderRequest struct {
	OrderIndex *float64        `json:"orderIndex"`
	SectionID  json.RawMessage `json:"sectionId"`
}

// HandleReorder repositions a task within its list.
//
// HTTP: PATCH /api/tasks/{id}/reorder
func (h *TaskHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.OrderIndex == nil {
		writeError(w, apperror.ValidationFailed("orderIndex", "orderIndex is required"))
		return
	}

	var sectionID *string
	var clearSection bool
	if req.SectionID != nil {
		if string(req.SectionID) == "null" {
			clearSection = true
		} else {
			var id string
			if err := json.Unmarshal(req.SectionID, &id); err != nil {
				writeError(w, apperror.ValidationFailed("sectionId", "sectionId must be a string or null"))
				return
			}
			sectionID = &id
		}
	}

	task, err := h.svc.Reorder(r.Context(), userID, r.PathValue("id"), *req.OrderIndex, sectionID, clearSection)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

// HandleDelete removes a task and its linked idea in one transaction.
//
// HTTP: DELETE /api/tasks/{id}
// RESPONSE: {"message": "...", "deletedTaskId": "...", "deletedIdeaId": "..."|null}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	result, err := h.svc.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "task deleted",
		"deletedTaskId": result.DeletedTaskID,
		"deletedIdeaId": result.DeletedIdeaID,
	})
}

type bulkUpdateRequest struct {
	TaskIDs []string `json:"taskIds"`
	Updates struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	} `json:"updates"`
}

// HandleBulkUpdate applies the same field updates to many tasks at once.
// Tasks that no longer exist are skipped, not errors — multi-select in the UI
// can race a concurrent delete.
//
// HTTP: PATCH /api/tasks/bulk-update
// RESPONSE: {"updatedTasks": [...]}
func (h *TaskHandler) HandleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req bulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updates := repository.TaskUpdates{
		Title:     req.Updates.Title,
		Completed: req.Updates.Completed,
	}
	tasks, err := h.svc.BulkUpdate(r.Context(), userID, req.TaskIDs, updates)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"updatedTasks": tasks})
}

type bulkDeleteRequest struct {
	TaskIDs []string `json:"taskIds"`
}

// HandleBulkDelete removes many tasks, each with single-delete cascade
// semantics, all in one transaction.
//
// HTTP: DELETE /api/tasks/bulk-delete
// RESPONSE: {"message": "...", "deletedTaskIds": [...], "deletedIdeaIds": [...]}
func (h *TaskHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req bulkDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.BulkDelete(r.Context(), userID, req.TaskIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "tasks deleted",
		"deletedTaskIds": result.DeletedTaskIDs,
		"deletedIdeaIds": result.DeletedIdeaIDs,
	})
}

type moveTasksRequest struct {
	TaskIDs          []string `json:"taskIds"`
	TargetTodoListID string   `json:"targetTodoListId"`
}

// HandleMoveToList moves tasks to another list, appending them after the
// target's existing tasks and dropping any section assignment.
//
// HTTP: PATCH /api/tasks/move-to-todolist
// RESPONSE: {"movedTasks": [...]}
func (h *TaskHandler) HandleMoveToList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req moveTasksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.svc.MoveToList(r.Context(), userID, req.TargetTodoListID, req.TaskIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"movedTasks": tasks})
}
