package shape

// Text is a standalone tldraw text shape. Version distinguishes v1 from v2
// only for rendering purposes (v2 additionally outlines each glyph with a
// canvas-colored halo, spec.md §4.7.5 "Text") — the shape model itself is
// identical between versions.
type Text struct {
	Base
	Content string
	Version int // 1 or 2
}

func (*Text) isTldrawShape() {}

func (t *Text) FromData(data map[string]any, v2 bool) { t.UpdateFromData(data, v2) }

func (t *Text) UpdateFromData(data map[string]any, v2 bool) {
	mergeBase(&t.Base, data, v2)
	if v2 {
		t.Version = 2
	} else if t.Version == 0 {
		t.Version = 1
	}
	if v, ok := field(data, v2, "text", "text"); ok {
		t.Content = asString(v, true, t.Content)
	}
}

// Sticky is a tldraw sticky note. v2 additionally supports vertical
// alignment (spec.md §4.7.5 "Sticky note").
type Sticky struct {
	Base
	LabelledBase
	Content string
	Version int
}

func (*Sticky) isTldrawShape() {}

func (s *Sticky) FromData(data map[string]any, v2 bool) { s.UpdateFromData(data, v2) }

func (s *Sticky) UpdateFromData(data map[string]any, v2 bool) {
	mergeBase(&s.Base, data, v2)
	if v2 {
		s.Version = 2
		if va, ok := field(data, v2, "verticalAlign", "verticalAlign"); ok {
			if str, ok := va.(string); ok {
				s.VAlign = parseVAlign(str)
			}
		}
	} else if s.Version == 0 {
		s.Version = 1
	}
	if v, ok := field(data, v2, "text", "text"); ok {
		s.Content = asString(v, true, s.Content)
	}
}

func parseVAlign(v string) VerticalAlign {
	switch v {
	case "start":
		return VAlignStart
	case "end":
		return VAlignEnd
	default:
		return VAlignMiddle
	}
}

var (
	_ TldrawShape = (*Text)(nil)
	_ TldrawShape = (*Sticky)(nil)
)
