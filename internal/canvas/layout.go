package canvas

// Placement heuristic for companion ideas: new cards flow horizontally along
// the group's bottom row and wrap to a fresh row once the flow passes
// RowWrapWidth. The numbers are canvas units.
const (
	FlowGap      = 24.0
	RowWrapWidth = 1600.0

	DefaultPlacementX = 120.0
	DefaultPlacementY = 120.0
)

// PlaceCompanion returns the canvas position for an idea joining a group with
// the given existing card positions. An empty group gets the default spot.
func PlaceCompanion(existing []Point) Point {
	if len(existing) == 0 {
		return Point{X: DefaultPlacementX, Y: DefaultPlacementY}
	}

	// The flow row is the bottom-most row of the group.
	rowY := existing[0].Y
	for _, p := range existing[1:] {
		if p.Y > rowY {
			rowY = p.Y
		}
	}

	rowRight := -1.0
	groupLeft := existing[0].X
	for _, p := range existing {
		if p.X < groupLeft {
			groupLeft = p.X
		}
		if p.Y == rowY && p.X > rowRight {
			rowRight = p.X
		}
	}

	next := Point{X: rowRight + CardWidth + FlowGap, Y: rowY}
	if next.X+CardWidth > RowWrapWidth {
		// Row is full: wrap to a new row under the group, back at its left edge.
		next = Point{X: groupLeft, Y: rowY + CardHeight + FlowGap}
	}
	return next
}
