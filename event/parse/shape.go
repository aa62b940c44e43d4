package parse

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/bigbluebutton/bbwhiteboard/event"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

var legacyKinds = map[string]shape.LegacyKind{
	"pencil":      shape.LegacyPencil,
	"rectangle":   shape.LegacyRectangle,
	"ellipse":     shape.LegacyEllipse,
	"triangle":    shape.LegacyTriangle,
	"line":        shape.LegacyLine,
	"text":        shape.LegacyText,
	"poll_result": shape.LegacyPollResult,
}

// legacyShapeStatus maps an XML status string onto its canonical status,
// collapsing the ModifyTextEvent aliases onto the same three lifecycle
// values (spec.md §4.3's ShapeStatus table; the original Python Enum
// assigns textCreated/textEdited/textPublished the same ordinals as
// DRAW_START/DRAW_UPDATE/DRAW_END).
var legacyShapeStatus = map[string]shape.LegacyShapeStatus{
	"DRAW_START":    shape.DrawStart,
	"DRAW_UPDATE":   shape.DrawUpdate,
	"DRAW_END":      shape.DrawEnd,
	"textCreated":   shape.DrawStart,
	"textEdited":    shape.DrawUpdate,
	"textPublished": shape.DrawEnd,
}

// pollResultEntry mirrors the {"key", "num_votes"} objects in a poll_result
// shape's JSON "result" subelement.
type pollResultEntry struct {
	Key      string `json:"key"`
	NumVotes int    `json:"num_votes"`
}

// parseShapePoints decodes a comma-separated "xOffset,yOffset,xOffset,..."
// dataPoints string into slide-fraction positions (spec.md §4.6's "points
// are percentages of slide size").
func parseShapePoints(raw string) []geom.Position {
	fields := strings.Split(raw, ",")
	points := make([]geom.Position, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, geom.Position{X: x / 100, Y: y / 100})
	}
	return points
}

// parseShape implements spec.md §4.3/§4.6's AddShapeEvent / ModifyTextEvent
// handling, grounded on original_source's events/__init__.py parse_shape.
func parseShape(eventName string, el *etree.Element, shapeThicknessPercent, shapeSlideOffByOne, shapeRounded bool) (event.Shape, error) {
	var s shape.LegacyShape

	s.ShapeID, _ = subelementOpt(el, "id")
	if presentation, ok := subelementOpt(el, "presentation"); ok {
		s.Presentation = presentation
	}

	shapeTypeStr, err := subelement(el, eventName, "type")
	if err != nil {
		return event.Shape{}, err
	}
	kind, ok := legacyKinds[shapeTypeStr]
	if !ok {
		return event.Shape{}, unknownShape(eventName, shapeTypeStr)
	}
	s.Kind = kind

	n, err := shapeSlide(el, shapeSlideOffByOne)
	if err != nil {
		return event.Shape{}, err
	}
	if n != nil {
		s.Slide = *n
		s.PageNumber = n
	}

	if status, ok := subelementOpt(el, "status"); ok {
		st, known := legacyShapeStatus[status]
		if !known {
			return event.Shape{}, &EventError{EventName: eventName, Reason: "unknown shape status " + status}
		}
		s.Status = st
	}

	s.UserID, _ = subelementOpt(el, "userId")

	dataPoints, ok := subelementOpt(el, "dataPoints")
	if !ok {
		return event.Shape{}, noDataPoints(eventName, shapeTypeStr)
	}
	s.Points = parseShapePoints(dataPoints)

	switch kind {
	case shape.LegacyPencil, shape.LegacyRectangle, shape.LegacyEllipse, shape.LegacyTriangle, shape.LegacyLine:
		colorStr, err := subelement(el, eventName, "color")
		if err != nil {
			return event.Shape{}, err
		}
		colorInt, err := strconv.ParseInt(colorStr, 10, 64)
		if err != nil {
			return event.Shape{}, err
		}
		r, g, b := colorFromInt(colorInt)
		s.Color = geom.Color{R: r, G: g, B: b}

		thicknessStr, err := subelement(el, eventName, "thickness")
		if err != nil {
			return event.Shape{}, err
		}
		thickness, err := strconv.ParseFloat(thicknessStr, 64)
		if err != nil {
			return event.Shape{}, err
		}
		if shapeThicknessPercent {
			ratio := thickness / 100
			s.ThicknessRatio = &ratio
		} else {
			s.Thickness = thickness
		}
	}

	s.Rounded = shapeRounded || kind == shape.LegacyPencil

	switch kind {
	case shape.LegacyRectangle:
		if square, ok := subelementOpt(el, "square"); ok {
			s.Square = square == "true"
		}
	case shape.LegacyEllipse:
		if circle, ok := subelementOpt(el, "circle"); ok {
			s.Circle = circle == "true"
		}
	case shape.LegacyPencil:
		if commands, ok := subelementOpt(el, "commands"); ok && commands != "" {
			for _, c := range strings.Split(commands, ",") {
				n, err := strconv.Atoi(c)
				if err != nil {
					return event.Shape{}, err
				}
				s.Commands = append(s.Commands, shape.PencilCommand(n-1))
			}
		}
	case shape.LegacyPollResult:
		numResponders, err := subelement(el, eventName, "num_responders")
		if err != nil {
			return event.Shape{}, err
		}
		nr, err := strconv.Atoi(numResponders)
		if err != nil {
			return event.Shape{}, err
		}
		s.NumRespond = nr

		resultRaw, err := subelement(el, eventName, "result")
		if err != nil {
			return event.Shape{}, err
		}
		var entries []pollResultEntry
		if err := json.Unmarshal([]byte(resultRaw), &entries); err != nil {
			return event.Shape{}, err
		}
		for _, e := range entries {
			s.Answers = append(s.Answers, shape.PollAnswer{Key: e.Key, NumVotes: e.NumVotes})
		}
	case shape.LegacyText:
		widthStr, err := subelement(el, eventName, "textBoxWidth")
		if err != nil {
			return event.Shape{}, err
		}
		heightStr, err := subelement(el, eventName, "textBoxHeight")
		if err != nil {
			return event.Shape{}, err
		}
		fontColorStr, err := subelement(el, eventName, "fontColor")
		if err != nil {
			return event.Shape{}, err
		}
		// fontSize is parsed by the original recorder but never consumed by
		// rendering, which only uses the server-calculated calcedFontSize.
		if _, err := subelement(el, eventName, "fontSize"); err != nil {
			return event.Shape{}, err
		}
		calcedFontSizeStr, err := subelement(el, eventName, "calcedFontSize")
		if err != nil {
			return event.Shape{}, err
		}

		s.TextBoxWidth, _ = parseFloatDiv100(widthStr)
		s.TextBoxHeight, _ = parseFloatDiv100(heightStr)
		fontColorInt, err := strconv.ParseInt(fontColorStr, 10, 64)
		if err != nil {
			return event.Shape{}, err
		}
		r, g, b := colorFromInt(fontColorInt)
		s.FontColor = geom.Color{R: r, G: g, B: b}
		s.CalcedFontSize, err = parseFloatDiv100(calcedFontSizeStr)
		if err != nil {
			return event.Shape{}, err
		}
		s.Text, _ = subelementOpt(el, "text")
	}

	return event.Shape{Shape: s}, nil
}

func parseFloatDiv100(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}
