// Package service contains the business logic layer.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates cascades
//	Repository (data layer)  → reads/writes SQLite
//
// Services accept repository interfaces, never *sqlite.DB, so tests swap in
// mocks without a database. Services return domain errors (apperror); the
// handler layer maps them to HTTP status codes.
//
// The sync protocol between canvas ideas and todo tasks lives here: the
// repositories expose the atomic primitives (SyncRepository) and the services
// decide when to invoke them and what counts as best-effort.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/canvas"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

// Validation constants shared across entity services.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxNameLength        = 100
)

// IdeaService handles canvas idea cards: CRUD, position patches from the
// drag engine, and the idea→task delete cascade.
type IdeaService struct {
	ideas  repository.IdeaRepository
	sync   repository.SyncRepository
	cache  *canvas.IdeaCache
	logger *slog.Logger
}

func NewIdeaService(
	ideas repository.IdeaRepository,
	sync repository.SyncRepository,
	cache *canvas.IdeaCache,
	logger *slog.Logger,
) *IdeaService {
	return &IdeaService{ideas: ideas, sync: sync, cache: cache, logger: logger}
}

// IdeaInput carries the client-settable fields of an idea. Pointer fields on
// update mean "leave unchanged".
type IdeaInput struct {
	Title       *string
	Description *string
	Color       *string
	GroupID     *string
	ClearGroup  bool
	PositionX   *float64
	PositionY   *float64
}

func validateIdeaTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperror.ValidationFailed("title", "idea title is required")
	}
	if len(title) > MaxTitleLength {
		return "", apperror.ValidationFailed("title",
			fmt.Sprintf("idea title must be %d characters or less", MaxTitleLength))
	}
	return title, nil
}

func validateDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if len(desc) > MaxDescriptionLength {
		return "", apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	return desc, nil
}

// Create validates and saves a new idea card. A card created without an
// explicit position lands at the default placement spot; the client drags it
// from there.
func (s *IdeaService) Create(ctx context.Context, ownerID string, in IdeaInput) (*model.Idea, error) {
	if in.Title == nil {
		return nil, apperror.ValidationFailed("title", "idea title is required")
	}
	title, err := validateIdeaTitle(*in.Title)
	if err != nil {
		return nil, err
	}

	idea := &model.Idea{
		OwnerID:   ownerID,
		Title:     title,
		PositionX: canvas.DefaultPlacementX,
		PositionY: canvas.DefaultPlacementY,
	}
	if in.Description != nil {
		if idea.Description, err = validateDescription(*in.Description); err != nil {
			return nil, err
		}
	}
	if in.Color != nil {
		idea.Color = strings.TrimSpace(*in.Color)
	}
	if in.GroupID != nil && *in.GroupID != "" {
		idea.GroupID = in.GroupID
	}
	if in.PositionX != nil {
		idea.PositionX = clampCoord(*in.PositionX)
	}
	if in.PositionY != nil {
		idea.PositionY = clampCoord(*in.PositionY)
	}

	if err := s.ideas.CreateIdea(ctx, idea); err != nil {
		s.logger.Error("failed to create idea", "error", err)
		return nil, fmt.Errorf("creating idea: %w", err)
	}
	s.cache.Put(*idea)

	s.logger.Info("idea created", "id", idea.ID, "owner_id", ownerID)
	return idea, nil
}

func (s *IdeaService) Get(ctx context.Context, ownerID, id string) (*model.Idea, error) {
	return s.ideas.GetIdea(ctx, ownerID, id)
}

// List returns the owner's cards for a canvas load, warming the cache on the
// way through. The database stays the source of truth for reads; the cache
// exists so the burst of position patches a drag produces doesn't dump it.
func (s *IdeaService) List(ctx context.Context, ownerID string) ([]model.Idea, error) {
	ideas, err := s.ideas.ListIdeas(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	for _, idea := range ideas {
		s.cache.Put(idea)
	}
	return ideas, nil
}

// Update applies a partial edit. Nil input fields are left unchanged.
func (s *IdeaService) Update(ctx context.Context, ownerID, id string, in IdeaInput) (*model.Idea, error) {
	idea, err := s.ideas.GetIdea(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if idea.Title, err = validateIdeaTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if idea.Description, err = validateDescription(*in.Description); err != nil {
			return nil, err
		}
	}
	if in.Color != nil {
		idea.Color = strings.TrimSpace(*in.Color)
	}
	switch {
	case in.ClearGroup:
		idea.GroupID = nil
	case in.GroupID != nil && *in.GroupID != "":
		idea.GroupID = in.GroupID
	}
	if in.PositionX != nil {
		idea.PositionX = clampCoord(*in.PositionX)
	}
	if in.PositionY != nil {
		idea.PositionY = clampCoord(*in.PositionY)
	}

	if err := s.ideas.UpdateIdea(ctx, ownerID, idea); err != nil {
		s.logger.Error("failed to update idea", "id", id, "error", err)
		return nil, fmt.Errorf("updating idea: %w", err)
	}
	s.cache.Put(*idea)
	return idea, nil
}

// UpdatePosition persists a drag-engine position update. It writes only the
// coordinates and patches the cache in place rather than invalidating it: a
// position change can't affect any other cached field, and drags generate a
// burst of these.
func (s *IdeaService) UpdatePosition(ctx context.Context, ownerID, id string, x, y float64) (*model.Idea, error) {
	x, y = clampCoord(x), clampCoord(y)
	if err := s.ideas.UpdateIdeaPosition(ctx, ownerID, id, x, y); err != nil {
		return nil, err
	}
	s.cache.PatchPosition(id, x, y)
	return s.ideas.GetIdea(ctx, ownerID, id)
}

// DeleteIdeaResult reports what an idea delete cascade removed.
type DeleteIdeaResult struct {
	DeletedIdeaID  string
	DeletedTaskIDs []string
}

// Delete removes the idea and every task linked to it, in one transaction.
func (s *IdeaService) Delete(ctx context.Context, ownerID, id string) (*DeleteIdeaResult, error) {
	taskIDs, err := s.sync.DeleteIdeaCascade(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	s.cache.Remove(id)

	s.logger.Info("idea deleted",
		"id", id, "owner_id", ownerID, "cascaded_tasks", len(taskIDs))
	return &DeleteIdeaResult{DeletedIdeaID: id, DeletedTaskIDs: taskIDs}, nil
}

// clampCoord keeps canvas coordinates non-negative, matching the drag
// engine's clamp.
func clampCoord(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
