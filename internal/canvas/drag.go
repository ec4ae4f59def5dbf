package canvas

import (
	"errors"
	"sync"
)

// ErrDragActive is returned by Begin while a previous gesture is still open.
var ErrDragActive = errors.New("canvas: drag session already active")

// CardPosition pairs a card id with a canvas position.
type CardPosition struct {
	ID  string
	Pos Point
}

// ResolveSelection decides which cards a gesture moves: the full
// multi-selection when the grabbed card belongs to it, otherwise just the
// grabbed card.
func ResolveSelection(grabbedID string, selection []string) []string {
	for _, id := range selection {
		if id == grabbedID {
			return selection
		}
	}
	return []string{grabbedID}
}

// DragSession is the drag-reposition state machine: Idle → Dragging → Idle.
//
// It is an explicit mutable object passed by reference into the event loop —
// pointer handlers call Pointer with the latest cumulative screen delta, the
// render loop calls Frame once per animation frame, and the release handler
// calls End. High-frequency pointer events therefore coalesce naturally: only
// the most recent delta survives to the next Frame, bounding work per frame.
//
// Touch input drives the same machine with the first touch point; there is no
// cancel gesture — releasing anywhere commits the last computed positions.
type DragSession struct {
	mu sync.Mutex

	dragging bool
	zoom     int

	// order preserves selection iteration order; start holds the captured
	// canvas-space position of every card at gesture start.
	order []string
	start map[string]Point

	current map[string]Point

	pendingDX float64
	pendingDY float64
	hasPend   bool
}

// NewDragSession returns an idle session.
func NewDragSession() *DragSession {
	return &DragSession{}
}

// Dragging reports whether a gesture is in progress.
func (s *DragSession) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

// Begin enters the Dragging state, capturing the start position of every card
// in the resolved selection. zoom is the view zoom percent at gesture start;
// it stays fixed for the whole gesture. Begin fails while a session is open.
func (s *DragSession) Begin(zoom int, cards []CardPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dragging {
		return ErrDragActive
	}
	if len(cards) == 0 {
		return errors.New("canvas: drag requires at least one card")
	}
	if zoom <= 0 {
		zoom = 100
	}

	s.dragging = true
	s.zoom = zoom
	s.order = make([]string, 0, len(cards))
	s.start = make(map[string]Point, len(cards))
	s.current = make(map[string]Point, len(cards))
	for _, c := range cards {
		s.order = append(s.order, c.ID)
		s.start[c.ID] = c.Pos
		s.current[c.ID] = c.Pos
	}
	s.pendingDX, s.pendingDY, s.hasPend = 0, 0, false
	return nil
}

// Pointer records the cumulative screen-space delta since gesture start.
// Repeated calls between frames overwrite each other — that is the
// coalescing: per frame, only the latest pointer position matters.
func (s *DragSession) Pointer(screenDX, screenDY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dragging {
		return
	}
	s.pendingDX = screenDX
	s.pendingDY = screenDY
	s.hasPend = true
}

// Frame applies the pending pointer delta once and returns the updated
// positions, or nil when nothing is pending. Screen deltas divide by the
// zoom scale to become canvas deltas; each card moves from its captured
// start, with both coordinates clamped at zero.
func (s *DragSession) Frame() []CardPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dragging || !s.hasPend {
		return nil
	}
	s.applyPendingLocked()
	return s.snapshotLocked()
}

// End commits the gesture: any still-pending delta is applied, the session
// returns to Idle, and the positions that actually changed are returned —
// one entry per moved card, each destined for its own persistence request.
func (s *DragSession) End() []CardPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dragging {
		return nil
	}
	if s.hasPend {
		s.applyPendingLocked()
	}

	var moved []CardPosition
	for _, id := range s.order {
		if s.current[id] != s.start[id] {
			moved = append(moved, CardPosition{ID: id, Pos: s.current[id]})
		}
	}
	s.resetLocked()
	return moved
}

// Rollback abandons the gesture and returns every card to its captured start
// position. Nothing in the live UI calls this — optimistic updates are left
// in place on persistence failure — but it gives callers that do want
// compensation a correct primitive.
func (s *DragSession) Rollback() []CardPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dragging {
		return nil
	}
	out := make([]CardPosition, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, CardPosition{ID: id, Pos: s.start[id]})
	}
	s.resetLocked()
	return out
}

func (s *DragSession) applyPendingLocked() {
	scale := float64(s.zoom) / 100
	dx := s.pendingDX / scale
	dy := s.pendingDY / scale
	for id, start := range s.start {
		p := Point{X: start.X + dx, Y: start.Y + dy}
		if p.X < 0 {
			p.X = 0
		}
		if p.Y < 0 {
			p.Y = 0
		}
		s.current[id] = p
	}
	s.hasPend = false
}

func (s *DragSession) snapshotLocked() []CardPosition {
	out := make([]CardPosition, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, CardPosition{ID: id, Pos: s.current[id]})
	}
	return out
}

func (s *DragSession) resetLocked() {
	s.dragging = false
	s.order = nil
	s.start = nil
	s.current = nil
	s.pendingDX, s.pendingDY, s.hasPend = 0, 0, false
}
