// Package tldraw maintains the per-(presentation,slide) ordered map of
// tldraw annotation shapes, dispatches to per-shape finalizers, and keeps a
// per-shape pattern cache keyed on identity and transform (spec.md §4.7,
// the "hard core" of the compositor).
package tldraw

import (
	"math"
	"sort"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/cache"
	"github.com/bigbluebutton/bbwhiteboard/fontsetup"
	"github.com/bigbluebutton/bbwhiteboard/shape"
	"github.com/bigbluebutton/bbwhiteboard/transform"
)

type slotKey struct {
	presentation string
	slide        int
}

// shapePatternCapacity bounds the per-shard pattern cache; a deck with more
// than a few thousand live tldraw shapes on one slide is not something any
// recording in practice produces, so capacity pressure never forces an
// eviction of a shape that's still on screen — and even if it did, a miss
// just re-renders the shape, which is still correct per spec.md §8
// invariant 5, only slower.
const shapePatternCapacity = 1024

// Layer owns shapes[presentation][slide], the per-shape pattern cache, and
// the layer's own composite pattern (spec.md §4.7.1 "State").
type Layer struct {
	shapes map[slotKey]map[string]shape.TldrawShape
	order  map[slotKey][]string // insertion order, re-sorted by child_index

	// shapePatterns caches each shape's finalized pattern, keyed by id, valid
	// until the shape itself changes or the transform changes (spec.md §8
	// invariant 5). github.com/bigbluebutton/bbwhiteboard/cache's sharded
	// cache (from the teacher's own cache/ package) is used in place of a
	// plain map for its built-in Get/Set/Delete/Clear vocabulary; the
	// single-threaded scheduler never needs the sharding for contention, but
	// the cache handles our exact invalidation shape (explicit delete on
	// shape change, explicit clear on transform change) natively.
	shapePatterns *cache.ShardedCache[string, gg.Pattern]

	Dirty     bool
	Transform transform.Transform
	Fonts     *fontsetup.Registry

	CurrentPresentation string
	CurrentSlide        int

	lastTransform transform.Transform
	haveTransform bool
}

// NewLayer returns an empty tldraw annotations layer.
func NewLayer(fonts *fontsetup.Registry) *Layer {
	return &Layer{
		shapes:        map[slotKey]map[string]shape.TldrawShape{},
		order:         map[slotKey][]string{},
		shapePatterns: cache.NewSharded[string, gg.Pattern](shapePatternCapacity, cache.StringHasher),
		Fonts:         fonts,
	}
}

func (l *Layer) slot(presentation string, slide int) slotKey {
	if presentation == "" {
		presentation = l.CurrentPresentation
	}
	return slotKey{presentation: presentation, slide: slide}
}

// OnPresentationOrSlide invalidates the per-shape pattern cache and updates
// the active slot (spec.md §4.7.2).
func (l *Layer) OnPresentationOrSlide(presentation string, slide int) {
	if presentation == l.CurrentPresentation && slide == l.CurrentSlide {
		return
	}
	l.CurrentPresentation = presentation
	l.CurrentSlide = slide
	l.shapePatterns.Clear()
	l.Dirty = true
}

// AddShape implements spec.md §4.7.2's add_shape: image shapes are
// rejected, existing shapes are merged via update_from_data, new ones are
// parsed from data using the detected recorder version.
func (l *Layer) AddShape(presentation string, slide int, id string, data map[string]any, v2 bool) error {
	if t, _ := data["type"].(string); t == "image" {
		return nil
	}
	key := l.slot(presentation, slide)
	m := l.shapes[key]
	if m == nil {
		m = map[string]shape.TldrawShape{}
		l.shapes[key] = m
	}

	if existing, ok := m[id]; ok {
		existing.UpdateFromData(data, v2)
	} else {
		typeName, _ := data["type"].(string)
		s, err := shape.NewFromData(typeName, data, v2)
		if err != nil {
			return err
		}
		s.GetBase().ID = id
		m[id] = s
		l.order[key] = append(l.order[key], id)
	}
	l.shapePatterns.Delete(id)
	l.Dirty = true
	return nil
}

// DeleteShape implements spec.md §4.7.2's delete_shape.
func (l *Layer) DeleteShape(presentation string, slide int, id string) {
	key := l.slot(presentation, slide)
	if m := l.shapes[key]; m != nil {
		delete(m, id)
	}
	order := l.order[key]
	for i, oid := range order {
		if oid == id {
			l.order[key] = append(order[:i], order[i+1:]...)
			break
		}
	}
	l.shapePatterns.Delete(id)
	l.Dirty = true
}

// orderedShapes returns this slot's shapes sorted by child_index asc, ties
// broken by id (spec.md §4.7.1).
func (l *Layer) orderedShapes() []shape.TldrawShape {
	key := slotKey{presentation: l.CurrentPresentation, slide: l.CurrentSlide}
	m := l.shapes[key]
	ids := l.order[key]
	out := make([]shape.TldrawShape, 0, len(ids))
	for _, id := range ids {
		if s, ok := m[id]; ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := out[i].GetBase(), out[j].GetBase()
		if bi.ChildIndex != bj.ChildIndex {
			return bi.ChildIndex < bj.ChildIndex
		}
		return bi.ID < bj.ID
	})
	return out
}

// SetTransform updates the layer's transform, clearing the per-shape
// pattern cache when it changed (spec.md §4.7.4 "If transform changed,
// clear shape_patterns").
func (l *Layer) SetTransform(t transform.Transform) {
	l.Transform = t
	if !l.haveTransform || t != l.lastTransform {
		l.shapePatterns.Clear()
		l.haveTransform = true
		l.lastTransform = t
		l.Dirty = true
	}
}

// Render composites every shape in the current slot, in child-index order,
// reusing cached per-shape patterns where still valid (spec.md §4.7.4).
// Frame children are painted only by their frame's finalizer, not at the top
// level.
func (l *Layer) Render(dc *gg.Context) {
	shapes := l.orderedShapes()

	frameMap := map[string][]shape.TldrawShape{}
	topLevel := make([]shape.TldrawShape, 0, len(shapes))
	for _, s := range shapes {
		pid := s.GetBase().ParentID
		if pid != "" {
			if parent, ok := l.shapeByID(pid); ok {
				if _, isFrame := parent.(*shape.Frame); isFrame {
					frameMap[pid] = append(frameMap[pid], s)
					continue
				}
			}
		}
		topLevel = append(topLevel, s)
	}

	ctx := &finalizeContext{fonts: l.Fonts, frameChildren: frameMap, layer: l}
	for _, s := range topLevel {
		l.paintShape(dc, s, ctx)
	}
	l.Dirty = false
}

func (l *Layer) shapeByID(id string) (shape.TldrawShape, bool) {
	key := slotKey{presentation: l.CurrentPresentation, slide: l.CurrentSlide}
	s, ok := l.shapes[key][id]
	return s, ok
}

func (l *Layer) paintShape(dc *gg.Context, s shape.TldrawShape, ctx *finalizeContext) {
	base := s.GetBase()

	pattern, ok := l.shapePatterns.Get(base.ID)
	if !ok {
		pattern = l.renderToPattern(s, ctx)
		l.shapePatterns.Set(base.ID, pattern)
	}

	dc.Push()
	dc.Translate(base.Point.X, base.Point.Y)
	if isRotatable(s) && base.Rotation != 0 {
		center := base.Center()
		dc.RotateAbout(base.Rotation, center.X-base.Point.X, center.Y-base.Point.Y)
	}
	dc.SetFillPattern(pattern)
	dc.DrawRectangle(0, 0, base.Size.W, base.Size.H)
	dc.Fill()
	dc.Pop()
}

// renderToPattern finalizes s into its own offscreen context sized to its
// bounding box, at local (0,0) origin, then wraps the result as an image
// pattern suitable for caching (spec.md §4.7.4 "cache the composited
// shape as shape_patterns[id]").
func (l *Layer) renderToPattern(s shape.TldrawShape, ctx *finalizeContext) gg.Pattern {
	base := s.GetBase()
	w, h := int(math.Ceil(base.Size.W)), int(math.Ceil(base.Size.H))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	off := gg.NewContext(w, h)
	finalize(off, s, ctx)
	buf := gg.ImageBufFromImage(off.Image())
	return off.CreateImagePattern(buf, 0, 0, w, h)
}

func isRotatable(s shape.TldrawShape) bool {
	switch s.(type) {
	case *shape.Group:
		return false
	default:
		return true
	}
}

// finalizeContext threads the shared collaborators every per-shape
// finalizer needs: text rendering, a frame's children (for Frame's own
// finalizer), and the owning layer (for dispatching a frame's children back
// through finalize).
type finalizeContext struct {
	fonts         *fontsetup.Registry
	frameChildren map[string][]shape.TldrawShape
	layer         *Layer
}
