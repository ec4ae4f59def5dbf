package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/auth"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/service"
)

// IdeaHandler exposes the canvas CRUD: idea cards, their positions, and the
// cascade delete that keeps linked tasks in step.
type IdeaHandler struct {
	svc    *service.IdeaService
	logger *slog.Logger
}

func NewIdeaHandler(svc *service.IdeaService, logger *slog.Logger) *IdeaHandler {
	return &IdeaHandler{svc: svc, logger: logger}
}

// ideaRequest is the create/update payload. Every field is optional at the
// JSON level; the service decides which are required per operation.
//
// GroupID is a json.RawMessage because "groupId": null and an absent groupId
// mean different things: null detaches the idea from its group, absent leaves
// the group untouched. A plain *string cannot tell those apart.
type ideaRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Color       *string         `json:"color"`
	GroupID     json.RawMessage `json:"groupId"`
	PositionX   *float64        `json:"positionX"`
	PositionY   *float64        `json:"positionY"`
}

// toInput translates the wire payload into the service's input struct.
func (req *ideaRequest) toInput() (service.IdeaInput, error) {
	in := service.IdeaInput{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		PositionX:   req.PositionX,
		PositionY:   req.PositionY,
	}
	if req.GroupID != nil {
		if string(req.GroupID) == "null" {
			in.ClearGroup = true
		} else {
			var id string
			if err := json.Unmarshal(req.GroupID, &id); err != nil {
				return in, apperror.ValidationFailed("groupId", "groupId must be a string or null")
			}
			in.GroupID = &id
		}
	}
	return in, nil
}

// HandleList returns every idea the user owns — the canvas load.
//
// HTTP: GET /api/ideas
func (h *IdeaHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	ideas, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ideas": ideas})
}

// HandleCreate creates an idea card.
//
// HTTP: POST /api/ideas
func (h *IdeaHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req ideaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	idea, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"idea": idea})
}

// HandleGet returns a single idea.
//
// HTTP: GET /api/ideas/{id}
func (h *IdeaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	idea, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"idea": idea})
}

// HandleUpdate patches an idea's fields.
//
// HTTP: PATCH /api/ideas/{id}
//
// A payload carrying only positionX/positionY takes the drag-drop fast path:
// one position-only UPDATE that leaves title, color, and group untouched even
// when a stale client omits them.
func (h *IdeaHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var req ideaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if req.positionOnly() {
		idea, err := h.svc.UpdatePosition(r.Context(), userID, id, *req.PositionX, *req.PositionY)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"idea": idea})
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	idea, err := h.svc.Update(r.Context(), userID, id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"idea": idea})
}

func (req *ideaRequest) positionOnly() bool {
	return req.PositionX != nil && req.PositionY != nil &&
		req.Title == nil && req.Description == nil && req.Color == nil && req.GroupID == nil
}

// HandleDelete removes an idea and cascades to its linked tasks.
//
// HTTP: DELETE /api/ideas/{id}
// RESPONSE: {"message": "...", "deletedIdeaId": "...", "deletedTaskIds": [...]}
func (h *IdeaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	result, err := h.svc.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "idea deleted",
		"deletedIdeaId":  result.DeletedIdeaID,
		"deletedTaskIds": result.DeletedTaskIDs,
	})
}
