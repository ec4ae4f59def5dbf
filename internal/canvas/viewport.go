// Package canvas holds the client-side canvas logic that is independent of
// any rendering framework: pan/zoom arithmetic, the drag-reposition session,
// the write-through idea cache, and the placement heuristic for companion
// ideas. Everything here is pure state and math — HTTP and storage live in
// the service and repository layers.
package canvas

import "math"

// Card geometry and zoom limits, in canvas units and zoom percent.
const (
	CardWidth  = 208.0
	CardHeight = 120.0

	// FitPadding is the margin added on all four sides of the content
	// bounding box before fitting it to the viewport.
	FitPadding = 64.0

	MinZoom  = 25
	MaxZoom  = 400
	ZoomStep = 25
)

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a rectangle extent in screen pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform is the canvas view state: a zoom percentage (always a multiple of
// ZoomStep within [MinZoom, MaxZoom]) and a screen-space pan offset. A canvas
// point p renders at p*Zoom/100 + Pan.
type Transform struct {
	Zoom int     `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// Scale returns the zoom as a multiplier (100% → 1.0).
func (t Transform) Scale() float64 {
	return float64(t.Zoom) / 100
}

// ClampZoom snaps z to the nearest ZoomStep multiple inside [MinZoom, MaxZoom].
func ClampZoom(z int) int {
	step := int(math.Round(float64(z)/ZoomStep)) * ZoomStep
	if step < MinZoom {
		return MinZoom
	}
	if step > MaxZoom {
		return MaxZoom
	}
	return step
}

// ZoomIn bumps the zoom one step. The pan is untouched; manual zoom is
// applied instantly with no interpolation.
func ZoomIn(t Transform) Transform {
	t.Zoom = ClampZoom(t.Zoom + ZoomStep)
	return t
}

// ZoomOut drops the zoom one step.
func ZoomOut(t Transform) Transform {
	t.Zoom = ClampZoom(t.Zoom - ZoomStep)
	return t
}

// FitToView computes the transform that shows every card at once: the minimal
// bounding box over the card rectangles, padded by FitPadding, zoomed so the
// padded box fits the viewport, centered.
//
// Zoom selection: the exact fit factor is rounded to the nearest ZoomStep,
// except that rounding up would crop the padded box — in that case we step
// down once so the content still fits. The result is clamped to
// [MinZoom, MaxZoom]; at MinZoom very large canvases simply don't fit, which
// is accepted.
//
// With zero cards the operation is a no-op and returns current unchanged.
func FitToView(cards []Point, viewport Size, current Transform) Transform {
	if len(cards) == 0 || viewport.Width <= 0 || viewport.Height <= 0 {
		return current
	}

	minX, minY := cards[0].X, cards[0].Y
	maxX, maxY := cards[0].X+CardWidth, cards[0].Y+CardHeight
	for _, c := range cards[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X+CardWidth)
		maxY = math.Max(maxY, c.Y+CardHeight)
	}

	paddedW := (maxX - minX) + 2*FitPadding
	paddedH := (maxY - minY) + 2*FitPadding

	exact := math.Min(viewport.Width/paddedW, viewport.Height/paddedH) * 100
	zoom := ClampZoom(int(math.Round(exact)))
	if float64(zoom) > exact && zoom > MinZoom {
		zoom -= ZoomStep
	}

	scale := float64(zoom) / 100
	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2

	return Transform{
		Zoom: zoom,
		PanX: viewport.Width/2 - centerX*scale,
		PanY: viewport.Height/2 - centerY*scale,
	}
}
