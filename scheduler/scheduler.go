// Package scheduler owns the frame clock and drives the four compositing
// layers from a parsed event log, pushing finished frames to an encoder
// boundary (spec.md §4.9).
package scheduler

import (
	"fmt"
	"math/big"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/event"
	"github.com/bigbluebutton/bbwhiteboard/fontsetup"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/layer/cursor"
	"github.com/bigbluebutton/bbwhiteboard/layer/legacy"
	"github.com/bigbluebutton/bbwhiteboard/layer/presentation"
	"github.com/bigbluebutton/bbwhiteboard/layer/tldraw"
	"github.com/bigbluebutton/bbwhiteboard/shape"
	"github.com/bigbluebutton/bbwhiteboard/transform"
)

// background is the compositor's fixed backdrop colour, #E2E8ED (spec.md
// §4.9 step 2).
var background = gg.RGBA{R: float64(0xE2) / 255, G: float64(0xE8) / 255, B: float64(0xED) / 255, A: 1}

// FrameSink receives one composited frame's pixel buffer per call, in
// presentation-time order. Implementations must not retain the slice past
// the call (the scheduler reuses its buffer across frames).
type FrameSink interface {
	Push(frame []byte) error
}

// Config is everything the scheduler needs to render one recording.
type Config struct {
	Events []event.Event
	// Length is the recording's natural end time in seconds.
	Length *big.Rat
	// StartTime and EndTime optionally clip the rendered window; both nil
	// means render the whole recording.
	StartTime *big.Rat
	EndTime   *big.Rat

	Framerate *big.Rat
	Width     int
	Height    int

	// PodID is the presentation pod this recording follows; per-pod events
	// (pan_zoom, presentation, slide, presenter) addressed to any other pod
	// are skipped (spec.md §4.9 step 1). Defaults to event.DefaultPod.
	PodID string

	HideLogo         bool
	TldrawWhiteboard bool

	PresentationDir string
	LogoPath        string
	Fonts           *fontsetup.Registry

	Sink FrameSink
}

// Scheduler drains events in presentation-time order and drives the
// compositing layers (spec.md §4.9 "State").
type Scheduler struct {
	events []event.Event
	next   int

	pts       *big.Rat
	framestep *big.Rat
	frame     int
	recording bool
	startTime *big.Rat
	length    *big.Rat

	podID string

	viewport geom.Size

	presentationLayer *presentation.Layer
	legacyLayer       *legacy.Layer
	tldrawLayer       *tldraw.Layer
	cursorLayer       *cursor.Layer

	dc         *gg.Context
	sink       FrameSink
	composited bool
}

// New builds a Scheduler ready to Run over cfg.Events.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Sink == nil {
		return nil, fmt.Errorf("scheduler: Sink is required")
	}
	if cfg.Framerate == nil || cfg.Framerate.Sign() <= 0 {
		return nil, fmt.Errorf("scheduler: Framerate must be positive")
	}

	podID := cfg.PodID
	if podID == "" {
		podID = event.DefaultPod
	}

	startTime := cfg.StartTime
	if startTime == nil {
		startTime = big.NewRat(0, 1)
	}

	length := cfg.Length
	if length == nil {
		length = big.NewRat(0, 1)
	}
	if cfg.EndTime != nil && cfg.EndTime.Cmp(length) < 0 {
		length = cfg.EndTime
	}

	framestep := new(big.Rat).Inv(cfg.Framerate)

	presentationLayer := presentation.NewLayer(cfg.PresentationDir, presentation.DefaultSources(), cfg.LogoPath)
	presentationLayer.SetHideLogo(cfg.HideLogo)

	cursorLayer := cursor.NewLayer()
	cursorLayer.TldrawCoordinates = cfg.TldrawWhiteboard

	return &Scheduler{
		events:    cfg.Events,
		pts:       big.NewRat(0, 1),
		framestep: framestep,
		frame:     1,
		startTime: startTime,
		length:    length,
		podID:     podID,
		viewport:  geom.Size{W: float64(cfg.Width), H: float64(cfg.Height)},

		presentationLayer: presentationLayer,
		legacyLayer:       legacy.NewLayer(cfg.Fonts),
		tldrawLayer:       tldraw.NewLayer(cfg.Fonts),
		cursorLayer:       cursorLayer,

		dc:   gg.NewContext(cfg.Width, cfg.Height),
		sink: cfg.Sink,
	}, nil
}

// Run drives the scheduler to completion: while pts < length, drain due
// events, composite and push a frame if recording and past start_time, then
// advance pts by exactly one framestep (spec.md §4.9's loop invariant).
func (s *Scheduler) Run() error {
	for s.pts.Cmp(s.length) < 0 {
		s.drain()

		if s.recording && s.pts.Cmp(s.startTime) >= 0 {
			if err := s.renderFrame(); err != nil {
				return err
			}
		}

		s.pts.Add(s.pts, s.framestep)
		s.frame++
	}
	return nil
}

func (s *Scheduler) drain() {
	for s.next < len(s.events) {
		ev := s.events[s.next]
		if ev.Time().Cmp(s.pts) > 0 {
			break
		}
		s.dispatch(ev)
		s.next++
	}
}

func (s *Scheduler) isForeignPod(podID string) bool {
	return podID != "" && podID != s.podID
}

func (s *Scheduler) onSlotChanged() {
	pres := s.presentationLayer.CurrentPresentation
	slide := s.presentationLayer.CurrentSlide
	s.legacyLayer.SetSlot(pres, slide)
	s.tldrawLayer.OnPresentationOrSlide(pres, slide)
	s.cursorLayer.OnPresentationOrSlide(pres, slide)
}

func (s *Scheduler) dispatch(ev event.Event) {
	switch e := ev.(type) {
	case event.Record:
		s.recording = e.Status

	case event.Join:
		s.cursorLayer.OnJoin(e.UserID, e.Name)
	case event.Left:
		s.cursorLayer.OnLeave(e.UserID)

	case event.Presenter:
		if s.isForeignPod(e.PodID) {
			return
		}
		s.cursorLayer.OnPresenter(e.UserID)

	case event.Presentation:
		if s.isForeignPod(e.PodID) {
			return
		}
		s.presentationLayer.OnPresentation(e.Presentation)
		s.onSlotChanged()

	case event.Slide:
		if s.isForeignPod(e.PodID) {
			return
		}
		s.presentationLayer.OnSlide(e.SlideNum)
		s.onSlotChanged()

	case event.PanZoom:
		if s.isForeignPod(e.PodID) {
			return
		}
		s.presentationLayer.OnPanZoom(e.Pan, e.Zoom)

	case event.Shape:
		s.dispatchShape(e.Shape)

	case event.Undo:
		s.legacyLayer.UpdateUndo(e.Presentation, s.resolveSlide(e.Slide), e.ShapeID)
	case event.Clear:
		s.legacyLayer.UpdateClear(e.Presentation, s.resolveSlide(e.Slide), e.FullClear, e.UserID)

	case event.Cursor:
		s.cursorLayer.OnLegacyCursor(e.Position)
	case event.WhiteboardCursor:
		s.dispatchWhiteboardCursor(e)

	case event.TldrawAddShape:
		if err := s.tldrawLayer.AddShape(e.Presentation, e.Slide, e.ID, e.Data, e.V2); err != nil {
			gg.Logger().Warn("tldraw add_shape failed", "id", e.ID, "error", err)
		}
	case event.TldrawDeleteShape:
		s.tldrawLayer.DeleteShape(e.Presentation, e.Slide, e.ID)
	case event.TldrawCamera:
		// Never implemented upstream either (see DESIGN.md); a deliberate
		// no-op, not a missing feature.
	}
}

// dispatchShape implements the original renderer's double dispatch for a
// "shape" event: the legacy annotation store always updates, and — if the
// shape is on the active slot — the presenter's cursor follows its last
// point (spec.md §4.6, §4.8).
func (s *Scheduler) dispatchShape(ls shape.LegacyShape) {
	s.legacyLayer.UpdateShape(ls)

	if len(ls.Points) == 0 {
		return
	}
	pres, slide := s.resolveShapeSlot(ls)
	last := ls.Points[len(ls.Points)-1]
	s.cursorLayer.OnShapeDraw(ls.UserID, pres, slide, ls.Status, last)
}

func (s *Scheduler) resolveShapeSlot(ls shape.LegacyShape) (string, int) {
	pres := ls.Presentation
	if pres == "" {
		pres = s.presentationLayer.CurrentPresentation
	}
	slide := s.presentationLayer.CurrentSlide
	if ls.PageNumber != nil {
		slide = ls.Slide
	}
	return pres, slide
}

func (s *Scheduler) resolveSlide(slide *int) int {
	if slide != nil {
		return *slide
	}
	return s.presentationLayer.CurrentSlide
}

// dispatchWhiteboardCursor resolves an event scoped to nil presentation/slide
// onto the currently active slot before handing it to the cursor layer,
// which ignores updates for any other slot (spec.md §4.8; event.go's
// WhiteboardCursor doc comment: "nil ... applies regardless of the
// currently active slide").
func (s *Scheduler) dispatchWhiteboardCursor(e event.WhiteboardCursor) {
	pres := s.cursorLayer.CurrentPresentation
	if e.Presentation != nil {
		pres = *e.Presentation
	}
	slide := s.cursorLayer.CurrentSlide
	if e.Slide != nil {
		slide = *e.Slide
	}
	s.cursorLayer.OnWhiteboardCursor(e.UserID, pres, slide, e.Position)
}

// renderFrame finalizes every layer and, only if something changed,
// recomposites background -> presentation -> legacy -> tldraw -> cursor —
// but pushes the current surface to the sink on every call regardless,
// matching spec.md §4.9 step 2 ("push the current surface's byte buffer to
// the encoder" is unconditional inside the recording/start_time-gated
// block; only the recomposite is gated by the changed flag) and the
// original's Renderer.render(), where encoder.put(...) runs outside the
// "if (...changed)" guard. Duplicate frames are later collapsed by
// ffmpeg's mpdecimate filter, not dropped here.
func (s *Scheduler) renderFrame() error {
	dc := s.dc

	presentationDirty := s.presentationLayer.Dirty
	if err := s.presentationLayer.Render(dc, s.viewport); err != nil {
		return fmt.Errorf("scheduler: presentation render: %w", err)
	}
	pageSize := s.presentationLayer.PageSize()
	slideTransform := s.presentationLayer.Transform()

	s.tldrawLayer.SetTransform(slideTransform)

	changed := !s.composited || presentationDirty || s.legacyLayer.Dirty || s.tldrawLayer.Dirty || s.cursorLayer.Dirty
	if changed {
		s.composited = true

		dc.ClearWithColor(background)

		s.presentationLayer.Paint(dc, pageSize)

		slideTransform.ApplyShapesTransform(dc, pageSize)
		dc.Scale(slideTransform.ShapesSize.W, slideTransform.ShapesSize.H)
		s.legacyLayer.Render(dc, slideTransform.ShapesSize.W, slideTransform.ShapesSize.H)
		transform.Unapply(dc)

		slideTransform.ApplyShapesTransform(dc, pageSize)
		s.tldrawLayer.Render(dc)
		transform.Unapply(dc)

		s.cursorLayer.Render(dc, s.viewport, pageSize, slideTransform, slideTransform)
	}

	return s.sink.Push(dc.ResizeTarget().Data())
}
