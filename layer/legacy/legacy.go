// Package legacy maintains the per-(presentation,slide) ordered list of
// legacy annotation shapes and draws them (spec.md §4.6).
package legacy

import (
	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/fontsetup"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

type slotKey struct {
	presentation string
	slide        int
}

// Layer owns shapes[presentation][slide] and the layer's dirty/cached
// pattern state (spec.md §4.6 "State").
type Layer struct {
	shapes  map[slotKey][]shape.LegacyShape
	Dirty   bool
	pattern gg.Pattern
	Fonts   *fontsetup.Registry

	CurrentPresentation string
	CurrentSlide        int
}

// NewLayer returns an empty legacy annotations layer drawing text through
// fonts.
func NewLayer(fonts *fontsetup.Registry) *Layer {
	return &Layer{shapes: map[slotKey][]shape.LegacyShape{}, Fonts: fonts}
}

func (l *Layer) slot(presentation string, slide int) slotKey {
	if presentation == "" {
		presentation = l.CurrentPresentation
	}
	return slotKey{presentation: presentation, slide: slide}
}

// UpdateShape implements spec.md §4.6's update_shape protocol.
func (l *Layer) UpdateShape(s shape.LegacyShape) {
	if s.Kind == shape.LegacyText && s.Status == shape.DrawEnd && s.PageNumber == nil {
		return
	}

	presentation := s.Presentation
	if presentation == "" {
		presentation = l.CurrentPresentation
	}
	slide := l.CurrentSlide
	if s.PageNumber != nil {
		slide = s.Slide
	}
	key := slotKey{presentation: presentation, slide: slide}
	list := l.shapes[key]

	idx := -1
	if s.ShapeID != "" {
		for i, existing := range list {
			if existing.ShapeID == s.ShapeID {
				idx = i
				break
			}
		}
	} else {
		// Bug-compatible fallback: match the last shape by (kind, first point).
		for i := len(list) - 1; i >= 0; i-- {
			if list[i].Kind == s.Kind && sameFirstPoint(list[i], s) {
				idx = i
				break
			}
		}
	}

	if idx >= 0 && s.Kind == shape.LegacyPencil && s.Status == shape.DrawUpdate {
		merged := s
		merged.Points = append(append([]geom.Position{}, list[idx].Points...), s.Points...)
		list[idx] = merged
		l.shapes[key] = list
		l.Dirty = true
		return
	}

	if idx >= 0 {
		list[idx] = s
	} else {
		list = append(list, s)
	}
	l.shapes[key] = list
	l.Dirty = true
}

func sameFirstPoint(a, b shape.LegacyShape) bool {
	if len(a.Points) == 0 || len(b.Points) == 0 {
		return len(a.Points) == len(b.Points)
	}
	return a.Points[0] == b.Points[0]
}

// UpdateUndo implements spec.md §4.6's update_undo: remove by id if
// present, otherwise pop the newest shape.
func (l *Layer) UpdateUndo(presentation string, slide int, shapeID string) {
	key := l.slot(presentation, slide)
	list := l.shapes[key]
	if len(list) == 0 {
		return
	}
	if shapeID != "" {
		for i, s := range list {
			if s.ShapeID == shapeID {
				l.shapes[key] = append(list[:i], list[i+1:]...)
				l.Dirty = true
				return
			}
		}
		return
	}
	l.shapes[key] = list[:len(list)-1]
	l.Dirty = true
}

// UpdateClear implements spec.md §4.6's update_clear.
func (l *Layer) UpdateClear(presentation string, slide int, fullClear bool, userID string) {
	key := l.slot(presentation, slide)
	if fullClear {
		delete(l.shapes, key)
		l.Dirty = true
		return
	}
	list := l.shapes[key]
	kept := list[:0:0]
	for _, s := range list {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	l.shapes[key] = kept
	l.Dirty = true
}

// SetSlot selects the presentation/slide this layer renders.
func (l *Layer) SetSlot(presentation string, slide int) {
	if presentation != l.CurrentPresentation || slide != l.CurrentSlide {
		l.CurrentPresentation = presentation
		l.CurrentSlide = slide
		l.Dirty = true
	}
}

// Render composites every shape in the current slot onto dc, in insertion
// order, within shapes space (already installed by the caller via
// transform.ApplyShapesTransform). slideHeight is the native slide height in
// the same units as shapesWidth, used to resolve text shapes' font size
// (spec.md §4.6 "calced_font_size * slide_height").
func (l *Layer) Render(dc *gg.Context, shapesWidth, slideHeight float64) {
	key := slotKey{presentation: l.CurrentPresentation, slide: l.CurrentSlide}
	for _, s := range l.shapes[key] {
		drawShape(dc, s, shapesWidth, slideHeight, l.Fonts)
	}
	l.Dirty = false
}
