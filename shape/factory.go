package shape

import "fmt"

// ErrUnknownShapeType is returned by NewFromData for a type string this
// repo doesn't model. The tldraw layer logs it and drops the event
// (spec.md §7, "Recoverable event-level").
type ErrUnknownShapeType struct{ Type string }

func (e ErrUnknownShapeType) Error() string {
	return fmt.Sprintf("tldraw: unknown shape type %q", e.Type)
}

// NewFromData constructs a new TldrawShape of the kind named by
// shapeType, populated from data using the v1 or v2 field layout
// (spec.md §4.7.2 "add_shape ... parse a new shape from data using the
// detected recorder version"). image shapes are rejected by the caller
// before this is reached (spec.md §4.7.2).
func NewFromData(shapeType string, data map[string]any, v2 bool) (TldrawShape, error) {
	var s TldrawShape
	switch shapeType {
	case "draw":
		s = &Draw{}
	case "highlighter":
		s = &Highlighter{}
	case "rectangle", "ellipse", "triangle":
		s = &Geo{}
	case "geo":
		s = &Geo{}
	case "arrow":
		if v2 {
			s = &ArrowV2{}
		} else {
			s = &ArrowV1{}
		}
	case "line":
		s = &Line{}
	case "text":
		s = &Text{}
	case "sticky":
		s = &Sticky{}
	case "group":
		s = &Group{}
	case "frame":
		s = &Frame{}
	default:
		return nil, ErrUnknownShapeType{Type: shapeType}
	}
	s.FromData(data, v2)
	return s, nil
}
