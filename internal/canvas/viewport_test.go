package canvas

import (
	"math"
	"testing"
)

func TestClampZoom(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{25, 25},
		{400, 400},
		{0, 25},
		{-50, 25},
		{1000, 400},
		{37, 25},  // nearest step down
		{38, 50},  // nearest step up
		{112, 100},
		{113, 125},
	}
	for _, tt := range tests {
		if got := ClampZoom(tt.in); got != tt.want {
			t.Errorf("ClampZoom(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestZoomSteps(t *testing.T) {
	tr := Transform{Zoom: 100}

	tr = ZoomIn(tr)
	if tr.Zoom != 125 {
		t.Errorf("ZoomIn: Zoom = %d, want 125", tr.Zoom)
	}

	tr.Zoom = MaxZoom
	tr = ZoomIn(tr)
	if tr.Zoom != MaxZoom {
		t.Errorf("ZoomIn at max: Zoom = %d, want %d", tr.Zoom, MaxZoom)
	}

	tr.Zoom = MinZoom
	tr = ZoomOut(tr)
	if tr.Zoom != MinZoom {
		t.Errorf("ZoomOut at min: Zoom = %d, want %d", tr.Zoom, MinZoom)
	}
}

func TestFitToView_ZeroCardsIsNoOp(t *testing.T) {
	current := Transform{Zoom: 150, PanX: 10, PanY: -20}
	got := FitToView(nil, Size{Width: 1280, Height: 800}, current)
	if got != current {
		t.Errorf("FitToView(no cards) = %+v, want unchanged %+v", got, current)
	}
}

func TestFitToView_ContentFitsAndIsCentered(t *testing.T) {
	cases := []struct {
		name     string
		cards    []Point
		viewport Size
	}{
		{"single card", []Point{{X: 500, Y: 300}}, Size{Width: 1280, Height: 800}},
		{"spread cards", []Point{{X: 0, Y: 0}, {X: 900, Y: 200}, {X: 400, Y: 700}}, Size{Width: 1280, Height: 800}},
		{"wide layout", []Point{{X: 0, Y: 0}, {X: 2400, Y: 0}}, Size{Width: 1440, Height: 900}},
		{"tall layout", []Point{{X: 0, Y: 0}, {X: 0, Y: 1900}}, Size{Width: 1280, Height: 720}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FitToView(tc.cards, tc.viewport, Transform{Zoom: 100})

			if got.Zoom < MinZoom || got.Zoom > MaxZoom || got.Zoom%ZoomStep != 0 {
				t.Fatalf("Zoom = %d, want a %d-step inside [%d, %d]", got.Zoom, ZoomStep, MinZoom, MaxZoom)
			}

			minX, minY := tc.cards[0].X, tc.cards[0].Y
			maxX, maxY := tc.cards[0].X+CardWidth, tc.cards[0].Y+CardHeight
			for _, c := range tc.cards[1:] {
				minX = math.Min(minX, c.X)
				minY = math.Min(minY, c.Y)
				maxX = math.Max(maxX, c.X+CardWidth)
				maxY = math.Max(maxY, c.Y+CardHeight)
			}
			paddedW := (maxX - minX) + 2*FitPadding
			paddedH := (maxY - minY) + 2*FitPadding

			scale := got.Scale()
			const eps = 1e-9
			// The padded box must fit — unless the zoom bottomed out at MinZoom,
			// where cropping is accepted.
			if got.Zoom > MinZoom {
				if scale*paddedW > tc.viewport.Width+eps || scale*paddedH > tc.viewport.Height+eps {
					t.Errorf("padded box %gx%g at %d%% overflows viewport %gx%g",
						paddedW, paddedH, got.Zoom, tc.viewport.Width, tc.viewport.Height)
				}
			}

			// The bounding-box center must land on the viewport center.
			cx := (minX + maxX) / 2 * scale + got.PanX
			cy := (minY + maxY) / 2 * scale + got.PanY
			if math.Abs(cx-tc.viewport.Width/2) > eps || math.Abs(cy-tc.viewport.Height/2) > eps {
				t.Errorf("content center renders at (%g, %g), want viewport center (%g, %g)",
					cx, cy, tc.viewport.Width/2, tc.viewport.Height/2)
			}
		})
	}
}

func TestFitToView_ClampsToMinZoomOnHugeCanvas(t *testing.T) {
	cards := []Point{{X: 0, Y: 0}, {X: 50000, Y: 50000}}
	got := FitToView(cards, Size{Width: 1280, Height: 800}, Transform{Zoom: 100})
	if got.Zoom != MinZoom {
		t.Errorf("Zoom = %d, want clamp at %d", got.Zoom, MinZoom)
	}
}

func TestPlaceCompanion(t *testing.T) {
	t.Run("empty group gets default spot", func(t *testing.T) {
		got := PlaceCompanion(nil)
		want := Point{X: DefaultPlacementX, Y: DefaultPlacementY}
		if got != want {
			t.Errorf("PlaceCompanion(empty) = %+v, want %+v", got, want)
		}
	})

	t.Run("flows right of the bottom row", func(t *testing.T) {
		existing := []Point{{X: 100, Y: 100}, {X: 332, Y: 100}}
		got := PlaceCompanion(existing)
		want := Point{X: 332 + CardWidth + FlowGap, Y: 100}
		if got != want {
			t.Errorf("PlaceCompanion = %+v, want %+v", got, want)
		}
	})

	t.Run("wraps to a new row past the width threshold", func(t *testing.T) {
		existing := []Point{{X: 100, Y: 100}, {X: RowWrapWidth - CardWidth, Y: 100}}
		got := PlaceCompanion(existing)
		want := Point{X: 100, Y: 100 + CardHeight + FlowGap}
		if got != want {
			t.Errorf("PlaceCompanion = %+v, want %+v", got, want)
		}
	})
}
