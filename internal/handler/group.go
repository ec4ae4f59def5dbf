package handler

import (
	"log/slog"
	"net/http"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/auth"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/service"
)

// GroupHandler exposes CRUD for color-coded idea groups. Deleting a group
// detaches its member ideas rather than deleting them.
type GroupHandler struct {
	svc    *service.GroupService
	logger *slog.Logger
}

func NewGroupHandler(svc *service.GroupService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{svc: svc, logger: logger}
}

type groupRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HandleList returns all of the user's groups.
//
// HTTP: GET /api/groups
func (h *GroupHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	groups, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

// HandleCreate creates a group.
//
// HTTP: POST /api/groups
func (h *GroupHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.svc.Create(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"group": group})
}

// HandleGet returns a single group.
//
// HTTP: GET /api/groups/{id}
func (h *GroupHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	group, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"group": group})
}

// HandleUpdate renames or recolors a group. An empty name leaves the current
// name in place so color-only patches don't have to resend it.
//
// HTTP: PATCH /api/groups/{id}
func (h *GroupHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"group": group})
}

// HandleDelete removes a group. Member ideas survive with group_id nulled;
// a todo list made from the group keeps its (now dead) group reference.
//
// HTTP: DELETE /api/groups/{id}
func (h *GroupHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "group deleted"})
}
