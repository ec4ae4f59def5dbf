package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/order"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/repository"
)

// SectionService handles the named sections that partition a todo list.
// Sections carry the same fractional order keys as tasks.
type SectionService struct {
	sections repository.SectionRepository
	lists    repository.TodoListRepository
	logger   *slog.Logger
}

func NewSectionService(
	sections repository.SectionRepository,
	lists repository.TodoListRepository,
	logger *slog.Logger,
) *SectionService {
	return &SectionService{sections: sections, lists: lists, logger: logger}
}

func validateSectionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", "section name is required")
	}
	if len(name) > MaxNameLength {
		return "", apperror.ValidationFailed("name",
			fmt.Sprintf("section name must be %d characters or less", MaxNameLength))
	}
	return name, nil
}

// Create appends a section to the end of the list.
func (s *SectionService) Create(ctx context.Context, ownerID, todoListID, name string) (*model.Section, error) {
	name, err := validateSectionName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.lists.GetTodoList(ctx, ownerID, todoListID); err != nil {
		return nil, err
	}

	existing, err := s.sections.ListSections(ctx, ownerID, todoListID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	siblings := make([]order.Sibling, len(existing))
	for i, sec := range existing {
		siblings[i] = order.Sibling{ID: sec.ID, OrderIndex: sec.OrderIndex}
	}

	section := &model.Section{
		TodoListID: todoListID,
		Name:       name,
		OrderIndex: order.Append(siblings),
	}
	if err := s.sections.CreateSection(ctx, ownerID, section); err != nil {
		s.logger.Error("failed to create section", "list_id", todoListID, "error", err)
		return nil, fmt.Errorf("creating section: %w", err)
	}

	s.logger.Info("section created", "id", section.ID, "list_id", todoListID)
	return section, nil
}

// Update renames and/or rekeys a section. A nil orderIndex leaves the key
// alone; like task reorders, only the moved section is written.
func (s *SectionService) Update(ctx context.Context, ownerID, id string, name *string, orderIndex *float64) (*model.Section, error) {
	section, err := s.sections.GetSection(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if section.Name, err = validateSectionName(*name); err != nil {
			return nil, err
		}
	}
	if orderIndex != nil {
		section.OrderIndex = *orderIndex
	}

	if err := s.sections.UpdateSection(ctx, ownerID, section); err != nil {
		return nil, fmt.Errorf("updating section: %w", err)
	}
	return section, nil
}

// Delete removes the section. Its tasks drop back into the list's
// unsectioned bucket (the storage layer nulls their section reference);
// nothing is deleted with it.
func (s *SectionService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.sections.DeleteSection(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("section deleted", "id", id, "owner_id", ownerID)
	return nil
}
