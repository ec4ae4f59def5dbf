package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/apperror"
)

func newSectionService(store *mockStore) *SectionService {
	return NewSectionService(store, store, discardLogger())
}

func TestCreateSectionAppendsToEnd(t *testing.T) {
	store := newMockStore()
	svc := newSectionService(store)
	ctx := context.Background()
	_, list, _ := seedGroupList(t, store)

	first, err := svc.Create(ctx, owner, list.ID, "Backlog")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.OrderIndex != 0 {
		t.Errorf("first OrderIndex = %v, want 0", first.OrderIndex)
	}

	second, err := svc.Create(ctx, owner, list.ID, "Doing")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.OrderIndex != 1 {
		t.Errorf("second OrderIndex = %v, want max+1 = 1", second.OrderIndex)
	}
}

func TestCreateSectionRequiresOwnedList(t *testing.T) {
	store := newMockStore()
	svc := newSectionService(store)

	_, err := svc.Create(context.Background(), owner, "no-such-list", "Backlog")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSectionUnsectionsTasks(t *testing.T) {
	store := newMockStore()
	svc := newSectionService(store)
	ctx := context.Background()
	_, list, tasks := seedGroupList(t, store, "a")

	section, err := svc.Create(ctx, owner, list.ID, "Doing")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	task := store.tasks[tasks[0].ID]
	task.SectionID = &section.ID

	if err := svc.Delete(ctx, owner, section.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.tasks[tasks[0].ID].SectionID != nil {
		t.Errorf("task still sectioned after section delete")
	}
	if _, ok := store.tasks[tasks[0].ID]; !ok {
		t.Errorf("task deleted with its section; it must survive")
	}
}

func TestUpdateSectionRekey(t *testing.T) {
	store := newMockStore()
	svc := newSectionService(store)
	ctx := context.Background()
	_, list, _ := seedGroupList(t, store)

	section, err := svc.Create(ctx, owner, list.ID, "Backlog")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	key := 0.5
	got, err := svc.Update(ctx, owner, section.ID, nil, &key)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.OrderIndex != 0.5 {
		t.Errorf("OrderIndex = %v, want 0.5", got.OrderIndex)
	}
	if got.Name != "Backlog" {
		t.Errorf("Name = %q, rekey must not rename", got.Name)
	}
}
