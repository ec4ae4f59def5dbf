package handler

import (
	"log/slog"
	"net/http"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/auth"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/service"
)

// SectionHandler exposes CRUD for named sections within a todo list.
type SectionHandler struct {
	svc    *service.SectionService
	logger *slog.Logger
}

func NewSectionHandler(svc *service.SectionService, logger *slog.Logger) *SectionHandler {
	return &SectionHandler{svc: svc, logger: logger}
}

// HandleCreate appends a section to the end of a list.
//
// HTTP: POST /api/todolists/{id}/sections
func (h *SectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	section, err := h.svc.Create(r.Context(), userID, r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"section": section})
}

// HandleUpdate renames a section or moves it among its siblings.
//
// HTTP: PATCH /api/sections/{id}
func (h *SectionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req struct {
		Name       *string  `json:"name"`
		OrderIndex *float64 `json:"orderIndex"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	section, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.Name, req.OrderIndex)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"section": section})
}

// HandleDelete removes a section. Its tasks drop to the list's unsectioned
// bucket rather than being deleted.
//
// HTTP: DELETE /api/sections/{id}
func (h *SectionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "section deleted"})
}
