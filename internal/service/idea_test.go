package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/canvas"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
)

func newIdeaService(store *mockStore) (*IdeaService, *canvas.IdeaCache) {
	cache := canvas.NewIdeaCache()
	return NewIdeaService(store, store, cache, discardLogger()), cache
}

func strp(s string) *string { return &s }

func f64p(v float64) *float64 { return &v }

func TestCreateIdeaValidation(t *testing.T) {
	store := newMockStore()
	svc, _ := newIdeaService(store)
	ctx := context.Background()

	cases := []struct {
		name string
		in   IdeaInput
	}{
		{"missing title", IdeaInput{}},
		{"blank title", IdeaInput{Title: strp("   ")}},
		{"title too long", IdeaInput{Title: strp(strings.Repeat("x", MaxTitleLength+1))}},
		{"description too long", IdeaInput{
			Title:       strp("ok"),
			Description: strp(strings.Repeat("y", MaxDescriptionLength+1)),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, owner, tc.in); !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateIdeaDefaultsToPlacementSpot(t *testing.T) {
	store := newMockStore()
	svc, _ := newIdeaService(store)

	idea, err := svc.Create(context.Background(), owner, IdeaInput{Title: strp("card")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if idea.PositionX != canvas.DefaultPlacementX || idea.PositionY != canvas.DefaultPlacementY {
		t.Errorf("position = (%v, %v), want default spot", idea.PositionX, idea.PositionY)
	}
}

func TestCreateIdeaClampsNegativePosition(t *testing.T) {
	store := newMockStore()
	svc, _ := newIdeaService(store)

	idea, err := svc.Create(context.Background(), owner, IdeaInput{
		Title:     strp("card"),
		PositionX: f64p(-50),
		PositionY: f64p(10),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if idea.PositionX != 0 || idea.PositionY != 10 {
		t.Errorf("position = (%v, %v), want clamp at (0, 10)", idea.PositionX, idea.PositionY)
	}
}

func TestUpdatePositionPatchesCacheWithoutInvalidating(t *testing.T) {
	store := newMockStore()
	svc, cache := newIdeaService(store)
	ctx := context.Background()

	idea, err := svc.Create(ctx, owner, IdeaInput{Title: strp("card")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.UpdatePosition(ctx, owner, idea.ID, 300, -5)
	if err != nil {
		t.Fatalf("UpdatePosition: %v", err)
	}
	if got.PositionX != 300 || got.PositionY != 0 {
		t.Errorf("position = (%v, %v), want (300, 0) after clamp", got.PositionX, got.PositionY)
	}

	cached, ok := cache.Get(idea.ID)
	if !ok {
		t.Fatal("idea missing from cache after position patch")
	}
	if cached.PositionX != 300 || cached.PositionY != 0 {
		t.Errorf("cached position = (%v, %v), want the patch applied in place",
			cached.PositionX, cached.PositionY)
	}
}

func TestUpdateClearGroup(t *testing.T) {
	store := newMockStore()
	svc, _ := newIdeaService(store)
	ctx := context.Background()
	group := seedGroupWithIdeas(t, store)

	idea, err := svc.Create(ctx, owner, IdeaInput{Title: strp("card"), GroupID: &group.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Update(ctx, owner, idea.ID, IdeaInput{ClearGroup: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.GroupID != nil {
		t.Errorf("GroupID = %v, want ungrouped", *got.GroupID)
	}
}

func TestDeleteIdeaCascadesToTasks(t *testing.T) {
	store := newMockStore()
	svc, cache := newIdeaService(store)
	ctx := context.Background()

	// A converted group: the idea has a linked task.
	group := seedGroupWithIdeas(t, store, "linked")
	var ideaID string
	for id := range store.ideas {
		ideaID = id
	}
	ideas, _ := store.ListIdeasByGroup(ctx, owner, group.ID)
	todoList := &model.TodoList{OwnerID: owner, GroupID: &group.ID, Name: "List"}
	if _, err := store.CreateTodoListFromGroup(ctx, todoList, ideas); err != nil {
		t.Fatalf("CreateTodoListFromGroup: %v", err)
	}
	cache.Put(*store.ideas[ideaID])

	result, err := svc.Delete(ctx, owner, ideaID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(result.DeletedTaskIDs) != 1 {
		t.Errorf("DeletedTaskIDs = %v, want one linked task", result.DeletedTaskIDs)
	}
	if len(store.tasks) != 0 {
		t.Errorf("store still holds %d tasks", len(store.tasks))
	}
	if _, ok := cache.Get(ideaID); ok {
		t.Errorf("idea still cached after delete")
	}
}
