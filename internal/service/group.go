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

// GroupService handles color-coded idea groups.
type GroupService struct {
	groups repository.GroupRepository
	cache  *canvas.IdeaCache
	logger *slog.Logger
}

func NewGroupService(groups repository.GroupRepository, cache *canvas.IdeaCache, logger *slog.Logger) *GroupService {
	return &GroupService{groups: groups, cache: cache, logger: logger}
}

func validateGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", "group name is required")
	}
	if len(name) > MaxNameLength {
		return "", apperror.ValidationFailed("name",
			fmt.Sprintf("group name must be %d characters or less", MaxNameLength))
	}
	return name, nil
}

func (s *GroupService) Create(ctx context.Context, ownerID, name, color string) (*model.Group, error) {
	name, err := validateGroupName(name)
	if err != nil {
		return nil, err
	}

	group := &model.Group{OwnerID: ownerID, Name: name, Color: strings.TrimSpace(color)}
	if err := s.groups.CreateGroup(ctx, group); err != nil {
		s.logger.Error("failed to create group", "error", err)
		return nil, fmt.Errorf("creating group: %w", err)
	}

	s.logger.Info("group created", "id", group.ID, "owner_id", ownerID)
	return group, nil
}

func (s *GroupService) Get(ctx context.Context, ownerID, id string) (*model.Group, error) {
	return s.groups.GetGroup(ctx, ownerID, id)
}

func (s *GroupService) List(ctx context.Context, ownerID string) ([]model.Group, error) {
	groups, err := s.groups.ListGroups(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return groups, nil
}

// Update renames or recolors a group. Empty name means "leave unchanged";
// color is always applied because clearing a color back to "" is legitimate.
func (s *GroupService) Update(ctx context.Context, ownerID, id, name, color string) (*model.Group, error) {
	group, err := s.groups.GetGroup(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) != "" {
		if group.Name, err = validateGroupName(name); err != nil {
			return nil, err
		}
	}
	group.Color = strings.TrimSpace(color)

	if err := s.groups.UpdateGroup(ctx, ownerID, group); err != nil {
		s.logger.Error("failed to update group", "id", id, "error", err)
		return nil, fmt.Errorf("updating group: %w", err)
	}
	return group, nil
}

// Delete removes the group. Member ideas survive ungrouped (the storage
// layer nulls their group reference), and any todo list converted from the
// group keeps its now-dead group id — that link is intentionally weak.
// The idea cache is invalidated wholesale: member ideas changed without
// individual write-through updates.
func (s *GroupService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.groups.DeleteGroup(ctx, ownerID, id); err != nil {
		return err
	}
	s.cache.Invalidate()

	s.logger.Info("group deleted", "id", id, "owner_id", ownerID)
	return nil
}
