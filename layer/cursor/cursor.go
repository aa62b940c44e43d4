// Package cursor tracks every participant's pointer and renders it with the
// presenter always visually on top, regardless of event arrival order
// (spec.md §4.8).
package cursor

import (
	"math"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/internal/blend"
	"github.com/bigbluebutton/bbwhiteboard/shape"
	"github.com/bigbluebutton/bbwhiteboard/transform"
)

// presenterColor is the legacy cursor's fixed presenter color, #FF0000 at
// 0.6 alpha (spec.md §4.8 "rendering").
var presenterColor = gg.RGBA{R: 1, G: 0, B: 0, A: 0.6}

// State is one tracked participant's pointer.
type State struct {
	Label    string
	Position geom.Position
	Hidden   bool
}

// Layer owns every participant's cursor plus the unattributed legacy
// cursor (spec.md §4.8's "cursors: map user_id -> {label, position}").
type Layer struct {
	Cursors      map[string]*State
	LegacyCursor *State
	PresenterID  string

	// Dirty mirrors the other layers' own Dirty field so the scheduler can
	// decide, uniformly across all four layers, whether anything changed
	// this tick and a new frame must be composited (spec.md §4.9 step 2's
	// "each returns true if its cached pattern changed" — the cursor layer
	// has no cached pattern to invalidate, so it tracks the same signal
	// directly instead).
	Dirty bool

	CurrentPresentation string
	CurrentSlide        int

	// TldrawCoordinates is true once the recording has switched to the
	// tldraw whiteboard (spec.md §4.3's >=2.6 gate), at which point tracked
	// cursor positions arrive already absolute in shapes space. Before that
	// they are 0..1 fractions of the slide and must be scaled by
	// shapes_size at render time (spec.md §4.8 "translate to position ·
	// shapes_size (legacy space) or directly to position (tldraw space)").
	TldrawCoordinates bool
}

// NewLayer returns an empty cursor layer.
func NewLayer() *Layer {
	return &Layer{Cursors: map[string]*State{}}
}

// OnJoin creates a cursor entry for a newly joined participant.
func (l *Layer) OnJoin(userID, label string) {
	l.Cursors[userID] = &State{Label: label, Hidden: true}
	l.Dirty = true
}

// OnLeave removes a participant's cursor entry.
func (l *Layer) OnLeave(userID string) {
	if c, ok := l.Cursors[userID]; ok {
		delete(l.Cursors, userID)
		if !c.Hidden {
			l.Dirty = true
		}
	}
}

// OnPresenter records the current presenter.
func (l *Layer) OnPresenter(userID string) {
	if userID == l.PresenterID {
		return
	}
	l.PresenterID = userID
	l.Dirty = true
}

// OnPresentationOrSlide hides every cursor when the active presentation or
// slide changes (spec.md §4.8 "positions are reset to hidden whenever the
// active presentation or slide changes").
func (l *Layer) OnPresentationOrSlide(presentation string, slide int) {
	if presentation == l.CurrentPresentation && slide == l.CurrentSlide {
		return
	}
	l.CurrentPresentation = presentation
	l.CurrentSlide = slide
	for _, c := range l.Cursors {
		c.Hidden = true
	}
	if l.LegacyCursor != nil {
		l.LegacyCursor.Hidden = true
	}
	l.Dirty = true
}

// OnLegacyCursor updates the unattributed legacy cursor position. pos is a
// normalized [0,1]^2 fraction of the slide; outside that range the cursor
// is hidden (spec.md §4.8, §3 "hidden if outside [0,1]^2").
func (l *Layer) OnLegacyCursor(pos geom.Position) {
	hidden := pos.X < 0 || pos.X > 1 || pos.Y < 0 || pos.Y > 1
	l.LegacyCursor = &State{Position: pos, Hidden: hidden}
	l.Dirty = true
}

// OnWhiteboardCursor updates a tracked participant's tldraw-space position.
// Events for a presentation/slide other than the current one are ignored
// (spec.md §4.8 "a whiteboard_cursor event on a foreign presentation/slide
// is ignored"). pos is absolute tldraw-space; only the first quadrant is
// visible.
func (l *Layer) OnWhiteboardCursor(userID, presentation string, slide int, pos geom.Position) {
	if presentation != l.CurrentPresentation || slide != l.CurrentSlide {
		return
	}
	c, ok := l.Cursors[userID]
	if !ok {
		c = &State{}
		l.Cursors[userID] = c
	}
	c.Position = pos
	c.Hidden = pos.X < 0 || pos.Y < 0
	l.Dirty = true
}

// OnShapeDraw updates the presenter's cursor from the last point of a shape
// they are actively drawing, except on DRAW_END which arrives late and
// would otherwise appear as a jump (spec.md §4.8).
func (l *Layer) OnShapeDraw(userID, presentation string, slide int, status shape.LegacyShapeStatus, lastPoint geom.Position) {
	if userID != l.PresenterID || status == shape.DrawEnd {
		return
	}
	l.OnWhiteboardCursor(userID, presentation, slide, lastPoint)
}

// radius implements spec.md §4.8's r = 0.005 * sqrt(Vw^2 + Vh^2).
func radius(viewport geom.Size) float64 {
	return 0.005 * math.Sqrt(viewport.W*viewport.W+viewport.H*viewport.H)
}

// Render paints the legacy cursor (if visible) under the slide transform,
// then every tracked cursor under the shapes transform, with the presenter
// composited OVER and every other cursor composited DEST_OVER so a
// late-arriving non-presenter cursor can never obscure the presenter
// (spec.md §4.8).
func (l *Layer) Render(dc *gg.Context, viewport geom.Size, pageSize geom.Size, slideTransform, shapesTransform transform.Transform) {
	defer func() { l.Dirty = false }()
	r := radius(viewport)

	if l.LegacyCursor != nil && !l.LegacyCursor.Hidden {
		slideTransform.ApplySlideTransform(dc, pageSize)
		cx := l.LegacyCursor.Position.X * pageSize.W
		cy := l.LegacyCursor.Position.Y * pageSize.H
		// paintDisc maps (cx,cy) through the context's current matrix, so r
		// is supplied in final device pixels and needs no scale compensation.
		paintDisc(dc, cx, cy, r, presenterColor, blend.BlendSourceOver)
		transform.Unapply(dc)
	}

	if len(l.Cursors) == 0 {
		return
	}
	shapesTransform.ApplyShapesTransform(dc, pageSize)
	// The shapes transform scales coordinates by Scale*ShapesScale before
	// they reach the device, so the disc radius must be pre-divided by the
	// same factor to still paint at r device pixels (spec.md §4.8 "fill a
	// disc of radius r / shapes_scale / scale").
	shapesR := r / shapesTransform.ShapesScale / shapesTransform.Scale
	for userID, c := range l.Cursors {
		if c.Hidden {
			continue
		}
		pos := c.Position
		if !l.TldrawCoordinates {
			pos = geom.Position{X: pos.X * shapesTransform.ShapesSize.W, Y: pos.Y * shapesTransform.ShapesSize.H}
		}
		mode := blend.BlendDestinationOver
		col := observerColor
		if userID == l.PresenterID {
			mode = blend.BlendSourceOver
			col = presenterColor
		}
		paintDisc(dc, pos.X, pos.Y, shapesR, col, mode)
	}
	transform.Unapply(dc)
}

// observerColor is the non-presenter cursor color — distinct from the
// presenter's red so the two are visually unambiguous even where discs
// overlap.
var observerColor = gg.RGBA{R: 0.1, G: 0.4, B: 0.9, A: 0.6}
