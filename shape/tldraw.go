package shape

import "github.com/bigbluebutton/bbwhiteboard/geom"

// TldrawShape is any member of the tldraw shape family (spec.md §4.7.3).
// Every variant embeds Base and implements isTldrawShape(); FromData and
// UpdateFromData merge a partial JSON document (already unmarshalled into
// map[string]any by the event parser) over the shape's current state.
//
// Grounded on the teacher library's tagged-interface idiom (see the root
// gg.PathElement / isPathElement() marker method).
type TldrawShape interface {
	isTldrawShape()
	GetBase() *Base
	// FromData populates a freshly constructed shape from data. v2
	// selects the tldraw v2 field layout (props-nested, snake_case) over
	// the v1 layout (flat, camelCase) per spec.md's version gate.
	FromData(data map[string]any, v2 bool)
	// UpdateFromData merges data over the existing shape state. It must
	// be idempotent: UpdateFromData(ExistingFullData()) is the identity
	// (spec.md §8 round-trip law).
	UpdateFromData(data map[string]any, v2 bool)
}

// Base carries the fields every tldraw shape shares (spec.md §3).
type Base struct {
	ID         string
	Style      Style
	ChildIndex float64
	Point      geom.Position
	ParentID   string
	Rotation   float64
	Size       geom.Size
	Opacity    float64
}

// GetBase implements the common accessor used by generic shape code.
func (b *Base) GetBase() *Base { return b }

// Center returns the shape's bounding-box center in its own local space.
func (b *Base) Center() geom.Position {
	return geom.Position{X: b.Point.X + b.Size.W/2, Y: b.Point.Y + b.Size.H/2}
}

// LabelledBase is embedded by shapes that carry a text label in addition
// to their geometry (spec.md §4.7.5's "Label").
type LabelledBase struct {
	Label      string
	LabelPoint geom.Position // normalized [0,1] within the shape's bbox
	HAlign     TextAlign
	VAlign     VerticalAlign
}

// field looks up a value by v1 (flat) or v2 (nested under "props") key,
// matching spec.md §4.3's "fields live under props, snake_case" gate.
func field(data map[string]any, v2 bool, v1key, v2key string) (any, bool) {
	if v2 {
		if props, ok := data["props"].(map[string]any); ok {
			if v, ok := props[v2key]; ok {
				return v, true
			}
		}
		// v2 top-level fields (id, parentId, rotation, ...) are not nested.
		if v, ok := data[v1key]; ok {
			return v, true
		}
		return nil, false
	}
	v, ok := data[v1key]
	return v, ok
}

func asString(v any, ok bool, cur string) string {
	if !ok {
		return cur
	}
	if s, ok := v.(string); ok {
		return s
	}
	return cur
}

func asFloat(v any, ok bool, cur float64) float64 {
	if !ok {
		return cur
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return cur
}

func asBool(v any, ok bool, cur bool) bool {
	if !ok {
		return cur
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return cur
}

func asPosition(v any, ok bool, cur geom.Position) geom.Position {
	if !ok {
		return cur
	}
	m, ok := v.(map[string]any)
	if !ok {
		return cur
	}
	x, xok := m["x"]
	y, yok := m["y"]
	return geom.Position{X: asFloat(x, xok, cur.X), Y: asFloat(y, yok, cur.Y)}
}

// mergeBase merges the shared fields onto b. Called by every shape's
// FromData/UpdateFromData before its own type-specific fields.
func mergeBase(b *Base, data map[string]any, v2 bool) {
	if id, ok := data["id"]; ok {
		b.ID = asString(id, true, b.ID)
	}
	if v, ok := field(data, v2, "parentId", "parentId"); ok {
		b.ParentID = asString(v, true, b.ParentID)
	}
	if v, ok := field(data, v2, "childIndex", "index"); ok {
		b.ChildIndex = asFloat(v, true, b.ChildIndex)
	}
	if v, ok := data["point"]; ok {
		b.Point = asPosition(v, true, b.Point)
	} else {
		if x, xok := field(data, v2, "x", "x"); xok {
			b.Point.X = asFloat(x, true, b.Point.X)
		}
		if y, yok := field(data, v2, "y", "y"); yok {
			b.Point.Y = asFloat(y, true, b.Point.Y)
		}
	}
	if v, ok := field(data, v2, "rotation", "rotation"); ok {
		b.Rotation = asFloat(v, true, b.Rotation)
	}
	if v, ok := data["size"]; ok {
		if m, ok := v.(map[string]any); ok {
			b.Size.W = asFloat(m["w"], m["w"] != nil, b.Size.W)
			b.Size.H = asFloat(m["h"], m["h"] != nil, b.Size.H)
		}
	} else {
		if w, wok := field(data, v2, "w", "w"); wok {
			b.Size.W = asFloat(w, true, b.Size.W)
		}
		if h, hok := field(data, v2, "h", "h"); hok {
			b.Size.H = asFloat(h, true, b.Size.H)
		}
	}
	if v, ok := field(data, v2, "opacity", "opacity"); ok {
		b.Opacity = asFloat(v, true, b.Opacity)
	} else if b.Opacity == 0 {
		b.Opacity = 1
	}
	mergeStyle(&b.Style, data, v2)
}

func mergeStyle(s *Style, data map[string]any, v2 bool) {
	style, ok := data["style"].(map[string]any)
	if !ok && v2 {
		if props, ok := data["props"].(map[string]any); ok {
			style = props
		}
	}
	if style == nil {
		return
	}
	if c, ok := style["color"].(string); ok {
		s.Color = ColorName(c)
	}
	if sz, ok := style["size"].(string); ok {
		s.Size = parseSizeStep(sz)
	}
	if d, ok := style["dash"].(string); ok {
		s.Dash = parseDashStyle(d)
	}
	if f, ok := style["fill"].(string); ok {
		s.Fill = parseFillStyle(f)
	}
	if fn, ok := style["font"].(string); ok {
		s.Font = NormalizeFont(fn)
	}
	if ta, ok := style["textAlign"].(string); ok {
		s.TextAlign = parseTextAlign(ta)
	}
	if sc, ok := style["scale"]; ok {
		s.Scale = asFloat(sc, true, s.Scale)
	} else if s.Scale == 0 {
		s.Scale = 1
	}
}

func parseSizeStep(v string) SizeStep {
	switch v {
	case "m":
		return SizeMedium
	case "l":
		return SizeLarge
	case "xl":
		return SizeXLarge
	default:
		return SizeSmall
	}
}

func parseDashStyle(v string) DashStyle {
	switch v {
	case "solid":
		return DashSolid
	case "dashed":
		return DashDashed
	case "dotted":
		return DashDotted
	default:
		return DashDraw
	}
}

func parseFillStyle(v string) FillStyle {
	switch v {
	case "solid":
		return FillSolid
	case "semi":
		return FillSemi
	case "pattern":
		return FillPattern
	default:
		return FillNone
	}
}

func parseTextAlign(v string) TextAlign {
	switch v {
	case "start":
		return AlignStart
	case "end":
		return AlignEnd
	case "justify":
		return AlignJustify
	default:
		return AlignMiddle
	}
}

func mergeLabelled(l *LabelledBase, data map[string]any, v2 bool) {
	if v, ok := field(data, v2, "label", "text"); ok {
		l.Label = asString(v, true, l.Label)
	}
	if v, ok := data["labelPoint"]; ok {
		l.LabelPoint = asPosition(v, true, l.LabelPoint)
	}
}

// Group is a pure paint-order container; its children carry their own
// transforms, so its finalizer is a no-op (spec.md §4.7.5).
type Group struct{ Base }

func (*Group) isTldrawShape() {}
func (g *Group) FromData(data map[string]any, v2 bool) { mergeBase(&g.Base, data, v2) }
func (g *Group) UpdateFromData(data map[string]any, v2 bool) { mergeBase(&g.Base, data, v2) }

// Frame contains children (resolved externally via parent_id, per the
// design note in spec.md §9) and clips them to its bounding box.
type Frame struct {
	Base
	Label string
}

func (*Frame) isTldrawShape() {}
func (f *Frame) FromData(data map[string]any, v2 bool) { f.UpdateFromData(data, v2) }
func (f *Frame) UpdateFromData(data map[string]any, v2 bool) {
	mergeBase(&f.Base, data, v2)
	if v, ok := field(data, v2, "name", "name"); ok {
		f.Label = asString(v, true, f.Label)
	}
}

var (
	_ TldrawShape = (*Group)(nil)
	_ TldrawShape = (*Frame)(nil)
)
