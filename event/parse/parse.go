// Package parse reads a BigBlueButton events.xml recording into the
// event.Event tagged-variant union the scheduler drains in timestamp order
// (spec.md §3, §4.3). Grounded on
// original_source/bbb_presentation_video/events/__init__.py's parse_events,
// translated from lxml tree-walking to github.com/beevik/etree, the pack's
// equivalent DOM-style XML library (see DESIGN.md).
package parse

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/bigbluebutton/bbwhiteboard/event"
)

// magicMysteryNumber is original_source's own name for this constant: an
// undocumented scale factor the legacy (pre-tldraw) recorder applies to pan
// offsets, carried over unchanged since nobody downstream of this recorder
// ever explained it.
const magicMysteryNumber = 2.0

// Result is everything recovered from one events.xml: the ordered event
// log, the recording length, and two file-wide flags that gate how later
// events in the same log are interpreted and how the presentation layer
// falls back when no slide is loaded.
type Result struct {
	Events           []event.Event
	Length           *big.Rat
	HideLogo         bool
	TldrawWhiteboard bool
}

// relevantModules are the only BBB event modules this recorder cares about;
// everything else (chat, polls-as-a-feature, breakout rooms, ...) is
// skipped before it reaches a name-based dispatch (spec.md §4.3).
var relevantModules = map[string]bool{
	"PRESENTATION": true,
	"WHITEBOARD":   true,
	"PARTICIPANT":  true,
}

// File parses the events.xml recording at path.
func File(path string) (Result, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return Result{}, fmt.Errorf("parse: read %s: %w", path, err)
	}
	return fromDocument(doc)
}

func fromDocument(doc *etree.Document) (Result, error) {
	root := doc.Root()
	if root == nil {
		return Result{}, fmt.Errorf("parse: events.xml has no root element")
	}

	gates := versionGates(root.SelectAttrValue("bbb_version", ""))

	metadata := root.FindElement("metadata")
	if metadata == nil {
		return Result{}, fmt.Errorf("parse: missing metadata element")
	}
	hideLogo := metadata.SelectAttrValue("bn-rec-hide-logo", "false") == "true"

	var (
		events        []event.Event
		startTime     int64
		haveStartTime bool
		lastTimestamp *big.Rat
		haveRecord    bool
	)

	for _, el := range root.FindElements("//event") {
		tsRaw := el.SelectAttrValue("timestamp", "")
		tsMillis, err := strconv.ParseInt(tsRaw, 10, 64)
		if err != nil {
			continue
		}
		if !haveStartTime {
			startTime = tsMillis
			haveStartTime = true
		}
		timestamp := big.NewRat(tsMillis-startTime, 1000)
		lastTimestamp = timestamp

		module := el.SelectAttrValue("module", "")
		if !relevantModules[module] {
			continue
		}
		name := el.SelectAttrValue("eventname", "")

		ev, recorded, err := dispatch(module, name, timestamp, el, gates)
		if err != nil {
			if _, ok := err.(*EventError); ok {
				continue
			}
			return Result{}, err
		}
		if recorded {
			events = append(events, ev)
			if _, isRecord := ev.(event.Record); isRecord {
				haveRecord = true
			}
		}
	}

	if !haveRecord {
		start := event.Record{Common: event.Common{Timestamp: big.NewRat(0, 1), Name: "record"}, Status: true}
		events = append([]event.Event{start}, events...)
	}

	return Result{
		Events:           events,
		Length:           lastTimestamp,
		HideLogo:         hideLogo,
		TldrawWhiteboard: gates.tldrawWhiteboard,
	}, nil
}

// gates are the version-derived parsing behaviors from spec.md §4.3's
// table, resolved once per recording from its bbb_version attribute.
type gates struct {
	usePodPresenter       bool
	shapeThicknessPercent bool
	shapeSlideOffByOne    bool
	shapeRounded          bool
	tldrawWhiteboard      bool
	shapeDataV2           bool
}

func versionGates(bbbVersion string) gates {
	v := parseBBBVersion(bbbVersion)
	return gates{
		usePodPresenter:       v.atLeast("2.1"),
		shapeThicknessPercent: v.atLeast("2.0"),
		shapeSlideOffByOne:    !v.atLeast("0.9.0"),
		shapeRounded:          !v.atLeast("2.0"),
		tldrawWhiteboard:      v.atLeast("2.6"),
		shapeDataV2:           v.atLeast("3.0.0"),
	}
}

// dispatch parses one <event> element into its Event variant. The second
// return value is false for events that are recognized but intentionally
// dropped (duplicate legacy presenter events, unused conversion-pipeline
// events) rather than unknown.
func dispatch(module, name string, timestamp *big.Rat, el *etree.Element, g gates) (event.Event, bool, error) {
	common := event.Common{Timestamp: timestamp, Name: name}

	switch module {
	case "PARTICIPANT":
		switch name {
		case "AssignPresenterEvent":
			if g.usePodPresenter {
				return nil, false, nil
			}
			userID, err := subelement(el, name, "userid")
			if err != nil {
				return nil, false, err
			}
			return event.Presenter{Common: common, UserID: userID, PodID: event.DefaultPod}, true, nil
		case "ParticipantJoinEvent":
			userID, err := subelement(el, name, "userId")
			if err != nil {
				return nil, false, err
			}
			userName, err := subelement(el, name, "name")
			if err != nil {
				return nil, false, err
			}
			return event.Join{Common: common, UserID: userID, Name: userName}, true, nil
		case "ParticipantLeftEvent":
			userID, err := subelement(el, name, "userId")
			if err != nil {
				return nil, false, err
			}
			return event.Left{Common: common, UserID: userID}, true, nil
		case "RecordStatusEvent":
			statusStr, err := subelement(el, name, "status")
			if err != nil {
				return nil, false, err
			}
			return event.Record{Common: common, Status: statusStr == "true"}, true, nil
		default:
			return nil, false, nil
		}

	case "PRESENTATION":
		switch name {
		case "CursorMoveEvent":
			return parseCursor(common, el)
		case "GotoSlideEvent":
			slideStr, err := subelement(el, name, "slide")
			if err != nil {
				return nil, false, err
			}
			slide, err := strconv.Atoi(slideStr)
			if err != nil {
				return nil, false, err
			}
			podID, _ := subelementOpt(el, "podId")
			if podID == "" {
				podID = event.DefaultPod
			}
			return event.Slide{Common: common, SlideNum: slide, PodID: podID}, true, nil
		case "ResizeAndMoveSlideEvent":
			return parsePanZoom(common, el, g.tldrawWhiteboard)
		case "SetPresenterInPodEvent":
			userID, err := subelement(el, name, "nextPresenterId")
			if err != nil {
				return nil, false, err
			}
			podID, err := subelement(el, name, "podId")
			if err != nil {
				return nil, false, err
			}
			return event.Presenter{Common: common, UserID: userID, PodID: podID}, true, nil
		case "SharePresentationEvent":
			presentation, err := subelement(el, name, "presentationName")
			if err != nil {
				return nil, false, err
			}
			podID, _ := subelementOpt(el, "podId")
			if podID == "" {
				podID = event.DefaultPod
			}
			return event.Presentation{Common: common, Presentation: presentation, PodID: podID}, true, nil
		case "TldrawCameraChangedEvent":
			camera, err := parseTldrawCamera(name, el)
			if err != nil {
				return nil, false, err
			}
			camera.Common = common
			return camera, true, nil
		case "CreatePresentationPodEvent", "ConversionCompletedEvent", "GenerateSlideEvent", "SetPresentationDownloadable":
			return nil, false, nil
		default:
			return nil, false, unknownEvent(name)
		}

	case "WHITEBOARD":
		switch name {
		case "AddShapeEvent", "ModifyTextEvent":
			s, err := parseShape(name, el, g.shapeThicknessPercent, g.shapeSlideOffByOne, g.shapeRounded)
			if err != nil {
				return nil, false, err
			}
			if s.Shape.ShapeID == "" {
				s.Shape.ShapeID = uuid.NewString()
			}
			s.Common = common
			return s, true, nil
		case "AddTldrawShapeEvent":
			add, err := parseTldrawAddShape(name, el)
			if err != nil {
				return nil, false, err
			}
			add.Common = common
			add.V2 = g.shapeDataV2
			return add, true, nil
		case "ClearPageEvent", "ClearWhiteboardEvent":
			return parseClear(common, el, g.shapeSlideOffByOne)
		case "DeleteTldrawShapeEvent":
			del, err := parseTldrawDeleteShape(name, el)
			if err != nil {
				return nil, false, err
			}
			del.Common = common
			return del, true, nil
		case "UndoShapeEvent", "UndoAnnotationEvent":
			return parseUndo(common, el, g.shapeSlideOffByOne)
		case "WhiteboardCursorMoveEvent":
			return parseWhiteboardCursor(common, el, g.tldrawWhiteboard)
		default:
			return nil, false, unknownEvent(name)
		}

	default:
		return nil, false, nil
	}
}

func parseCursor(common event.Common, el *etree.Element) (event.Event, bool, error) {
	xStr, err := subelement(el, common.Name, "xOffset")
	if err != nil {
		return nil, false, err
	}
	yStr, err := subelement(el, common.Name, "yOffset")
	if err != nil {
		return nil, false, err
	}
	x, errX := strconv.ParseFloat(xStr, 64)
	y, errY := strconv.ParseFloat(yStr, 64)
	if errX != nil {
		return nil, false, errX
	}
	if errY != nil {
		return nil, false, errY
	}

	visible := x >= 0 && x <= 1 && y >= 0 && y <= 1
	common.Name = "cursor"
	return event.Cursor{Common: common, Position: positionOf(x, y), Visible: visible}, true, nil
}
