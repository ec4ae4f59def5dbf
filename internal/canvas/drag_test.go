package canvas

import (
	"errors"
	"testing"
)

func TestResolveSelection(t *testing.T) {
	selection := []string{"a", "b", "c"}

	got := ResolveSelection("b", selection)
	if len(got) != 3 {
		t.Errorf("grabbing a selected card should drag the whole selection, got %v", got)
	}

	got = ResolveSelection("z", selection)
	if len(got) != 1 || got[0] != "z" {
		t.Errorf("grabbing an unselected card should drag only it, got %v", got)
	}
}

func TestDragSession_BasicMove(t *testing.T) {
	s := NewDragSession()
	err := s.Begin(100, []CardPosition{{ID: "a", Pos: Point{X: 100, Y: 200}}})
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if !s.Dragging() {
		t.Fatal("session should be dragging after Begin")
	}

	s.Pointer(30, -50)
	updated := s.Frame()
	if len(updated) != 1 {
		t.Fatalf("Frame() returned %d cards, want 1", len(updated))
	}
	if updated[0].Pos != (Point{X: 130, Y: 150}) {
		t.Errorf("position = %+v, want {130 150}", updated[0].Pos)
	}

	moved := s.End()
	if len(moved) != 1 || moved[0].Pos != (Point{X: 130, Y: 150}) {
		t.Errorf("End() = %+v, want one update at {130 150}", moved)
	}
	if s.Dragging() {
		t.Error("session should be idle after End")
	}
}

func TestDragSession_ZoomScalesDelta(t *testing.T) {
	// At 50% zoom, a 100px screen move is a 200-unit canvas move.
	s := NewDragSession()
	if err := s.Begin(50, []CardPosition{{ID: "a", Pos: Point{X: 0, Y: 0}}}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	s.Pointer(100, 50)
	updated := s.Frame()
	if updated[0].Pos != (Point{X: 200, Y: 100}) {
		t.Errorf("position = %+v, want {200 100}", updated[0].Pos)
	}
	s.End()
}

func TestDragSession_ClampsNegativePositions(t *testing.T) {
	s := NewDragSession()
	if err := s.Begin(100, []CardPosition{{ID: "a", Pos: Point{X: 10, Y: 40}}}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	s.Pointer(-500, -500)
	updated := s.Frame()
	if updated[0].Pos != (Point{X: 0, Y: 0}) {
		t.Errorf("position = %+v, want clamped {0 0}", updated[0].Pos)
	}
	s.End()
}

func TestDragSession_CoalescesPointerEvents(t *testing.T) {
	s := NewDragSession()
	if err := s.Begin(100, []CardPosition{{ID: "a", Pos: Point{X: 0, Y: 0}}}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// A burst of pointer events between frames: only the last one matters.
	s.Pointer(5, 5)
	s.Pointer(12, 9)
	s.Pointer(20, 30)
	updated := s.Frame()
	if updated[0].Pos != (Point{X: 20, Y: 30}) {
		t.Errorf("position = %+v, want the latest delta applied once", updated[0].Pos)
	}

	// Nothing pending → Frame does no work.
	if again := s.Frame(); again != nil {
		t.Errorf("second Frame() = %v, want nil with nothing pending", again)
	}
	s.End()
}

func TestDragSession_EndAppliesPendingDelta(t *testing.T) {
	// Release can land between frames; the last pointer position still commits.
	s := NewDragSession()
	if err := s.Begin(100, []CardPosition{{ID: "a", Pos: Point{X: 10, Y: 10}}}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	s.Pointer(40, 0)
	moved := s.End()
	if len(moved) != 1 || moved[0].Pos != (Point{X: 50, Y: 10}) {
		t.Errorf("End() = %+v, want commit of the pending delta", moved)
	}
}

func TestDragSession_NoMovementEndsEmpty(t *testing.T) {
	s := NewDragSession()
	if err := s.Begin(100, []CardPosition{{ID: "a", Pos: Point{X: 1, Y: 2}}}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if moved := s.End(); len(moved) != 0 {
		t.Errorf("End() without movement = %+v, want no updates", moved)
	}
}

func TestDragSession_MultiCardKeepsOffsets(t *testing.T) {
	s := NewDragSession()
	err := s.Begin(100, []CardPosition{
		{ID: "a", Pos: Point{X: 0, Y: 0}},
		{ID: "b", Pos: Point{X: 300, Y: 120}},
	})
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	s.Pointer(10, 20)
	updated := s.Frame()
	if updated[0].Pos != (Point{X: 10, Y: 20}) || updated[1].Pos != (Point{X: 310, Y: 140}) {
		t.Errorf("multi-card move broke relative offsets: %+v", updated)
	}
	s.End()
}

func TestDragSession_RejectsConcurrentBegin(t *testing.T) {
	s := NewDragSession()
	if err := s.Begin(100, []CardPosition{{ID: "a", Pos: Point{}}}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	err := s.Begin(100, []CardPosition{{ID: "b", Pos: Point{}}})
	if !errors.Is(err, ErrDragActive) {
		t.Errorf("second Begin() error = %v, want ErrDragActive", err)
	}
	s.End()
}

func TestDragSession_Rollback(t *testing.T) {
	s := NewDragSession()
	if err := s.Begin(100, []CardPosition{{ID: "a", Pos: Point{X: 7, Y: 9}}}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	s.Pointer(100, 100)
	s.Frame()

	restored := s.Rollback()
	if len(restored) != 1 || restored[0].Pos != (Point{X: 7, Y: 9}) {
		t.Errorf("Rollback() = %+v, want captured start positions", restored)
	}
	if s.Dragging() {
		t.Error("session should be idle after Rollback")
	}
}
