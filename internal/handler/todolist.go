package handler

import (
	"log/slog"
	"net/http"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/auth"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/service"
)

// TodoListHandler exposes todo list CRUD, including the group → list
// conversion that snapshots a group's ideas into tasks.
type TodoListHandler struct {
	svc    *service.TodoListService
	logger *slog.Logger
}

func NewTodoListHandler(svc *service.TodoListService, logger *slog.Logger) *TodoListHandler {
	return &TodoListHandler{svc: svc, logger: logger}
}

// createTodoListRequest converts a group into a todo list.
//
// ProjectID is accepted and ignored: an earlier client grouped lists under
// projects, and those clients still send the field. Rejecting unknown fields
// would break them for no benefit.
type createTodoListRequest struct {
	GroupID   string `json:"groupId"`
	Name      string `json:"name"`
	ProjectID string `json:"projectId"`
}

type updateTodoListRequest struct {
	Name     *string `json:"name"`
	Archived *bool   `json:"archived"`
}

// HandleList returns the user's todo lists.
//
// HTTP: GET /api/todolists
func (h *TodoListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	lists, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"todoLists": lists})
}

// HandleCreate converts a group into a todo list, importing every member
// idea as a task in canvas order. One list per group: converting the same
// group twice is a 409.
//
// HTTP: POST /api/todolists
func (h *TodoListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createTodoListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	list, tasks, err := h.svc.CreateFromGroup(r.Context(), userID, req.GroupID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"todoList": list,
		"tasks":    tasks,
		"message":  "todo list created from group",
	})
}

// HandleGet returns a list with its sections and tasks — everything the task
// view needs in one round trip.
//
// HTTP: GET /api/todolists/{id}
func (h *TodoListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	detail, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todoList": detail.List,
		"sections": detail.Sections,
		"tasks":    detail.Tasks,
	})
}

// HandleUpdate renames or archives a list.
//
// HTTP: PATCH /api/todolists/{id}
func (h *TodoListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req updateTodoListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	list, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.Name, req.Archived)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"todoList": list})
}

// HandleDelete removes a list with its sections and tasks. Linked ideas stay
// on the canvas — deleting a list is leaving task view, not destroying work.
//
// HTTP: DELETE /api/todolists/{id}
func (h *TodoListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "todo list deleted"})
}

// HandleClearCompleted bulk-deletes the list's completed tasks, cascading to
// their linked ideas like any task delete.
//
// HTTP: DELETE /api/todolists/{id}/completed-tasks
func (h *TodoListHandler) HandleClearCompleted(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	result, err := h.svc.ClearCompleted(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "completed tasks cleared",
		"deletedTaskIds": result.DeletedTaskIDs,
		"deletedIdeaIds": result.DeletedIdeaIDs,
	})
}
