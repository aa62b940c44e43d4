package shape

import "github.com/bigbluebutton/bbwhiteboard/geom"

// LegacyShapeStatus tracks the lifecycle of a legacy (pre-tldraw) drawn
// shape: a pencil/rectangle/etc. arrives as a start sample, zero or more
// update samples, and an end sample.
type LegacyShapeStatus int

const (
	DrawStart LegacyShapeStatus = iota
	DrawUpdate
	DrawEnd
)

// PencilCommand is one opcode in a pencil shape's optional command list,
// interleaved with its point list per spec.md §4.6.
type PencilCommand int

const (
	MoveTo PencilCommand = iota
	LineTo
	QCurveTo // consumes 2 points: control, end
	CCurveTo // consumes 3 points: control1, control2, end
)

// LegacyKind discriminates the legacy shape family.
type LegacyKind int

const (
	LegacyPencil LegacyKind = iota
	LegacyRectangle
	LegacyEllipse
	LegacyTriangle
	LegacyLine
	LegacyText
	LegacyPollResult
)

// PollAnswer is one row of a poll_result shape.
type PollAnswer struct {
	Key      string
	NumVotes int
}

// LegacyShape is a single legacy annotation, identified by ShapeID within
// its (presentation, slide) slot.
type LegacyShape struct {
	Kind         LegacyKind
	ShapeID      string
	Status       LegacyShapeStatus
	Presentation string
	Slide        int
	UserID       string

	// Points are normalized to slide space: 0..1 fractions unless the
	// recorder is tldraw-coordinate (>= 2.6), in which case they are
	// absolute shapes-space coordinates (spec.md §4.3 version gate).
	Points []geom.Position

	Color geom.Color

	// Thickness resolution (spec.md §4.6): if ThicknessRatio is non-nil,
	// absolute thickness = ratio * shapes_size.width; otherwise Thickness
	// is used directly.
	Thickness      float64
	ThicknessRatio *float64

	Square  bool
	Circle  bool
	Rounded bool

	// Pencil-only.
	Commands []PencilCommand

	// Text-only.
	Text           string
	FontColor      geom.Color
	CalcedFontSize float64 // fraction of slide height
	TextBoxWidth   float64
	TextBoxHeight  float64
	PageNumber     *int // DRAW_END without this is dropped, see spec.md §4.6

	// PollResult-only.
	Answers    []PollAnswer
	NumRespond int
}

// ResolvedThickness returns the absolute stroke width given the current
// shapes-space width, per spec.md §4.6's thickness resolution rule.
func (s LegacyShape) ResolvedThickness(shapesWidth float64) float64 {
	if s.ThicknessRatio != nil {
		return *s.ThicknessRatio * shapesWidth
	}
	return s.Thickness
}
