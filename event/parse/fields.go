package parse

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/bigbluebutton/bbwhiteboard/event"
	"github.com/bigbluebutton/bbwhiteboard/geom"
)

func positionOf(x, y float64) geom.Position { return geom.Position{X: x, Y: y} }

func parseWhiteboardCursor(common event.Common, el *etree.Element, tldrawWhiteboard bool) (event.Event, bool, error) {
	var presentation *string
	if p, ok := subelementOpt(el, "presentation"); ok {
		presentation = &p
	}
	var slide *int
	if raw, ok := subelementOpt(el, "pageNumber"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, false, err
		}
		slide = &n
	}

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

	var visible bool
	if tldrawWhiteboard {
		visible = x >= 0 && y >= 0
	} else {
		x /= 100
		y /= 100
		visible = x >= 0 && x <= 1 && y >= 0 && y <= 1
	}

	userID, err := subelement(el, common.Name, "userId")
	if err != nil {
		return nil, false, err
	}

	common.Name = "cursor_v2"
	return event.WhiteboardCursor{
		Common:       common,
		UserID:       userID,
		Presentation: presentation,
		Slide:        slide,
		Position:     positionOf(x, y),
		Visible:      visible,
	}, true, nil
}

func parsePanZoom(common event.Common, el *etree.Element, tldrawWhiteboard bool) (event.Event, bool, error) {
	xStr, err := subelement(el, common.Name, "xOffset")
	if err != nil {
		return nil, false, err
	}
	yStr, err := subelement(el, common.Name, "yOffset")
	if err != nil {
		return nil, false, err
	}

	// Workaround a recorder bug where BBB can emit 'NaN' in these fields.
	var pan geom.Position
	if xStr == "NaN" || yStr == "NaN" {
		pan = geom.Position{}
	} else {
		x, errX := strconv.ParseFloat(xStr, 64)
		y, errY := strconv.ParseFloat(yStr, 64)
		if errX != nil {
			return nil, false, errX
		}
		if errY != nil {
			return nil, false, errY
		}
		if tldrawWhiteboard {
			pan = geom.Position{X: x, Y: y}
		} else {
			pan = geom.Position{X: x * magicMysteryNumber / 100, Y: y * magicMysteryNumber / 100}
		}
	}

	widthRatioStr, err := subelement(el, common.Name, "widthRatio")
	if err != nil {
		return nil, false, err
	}
	heightRatioStr, err := subelement(el, common.Name, "heightRatio")
	if err != nil {
		return nil, false, err
	}

	// Workaround recorder bugs where a ratio can be 'NaN', zero, or
	// negative; all are nonsensical and would divide by zero downstream.
	zoom := geom.Size{W: 1, H: 1}
	if widthRatioStr != "NaN" && heightRatioStr != "NaN" {
		w, errW := strconv.ParseFloat(widthRatioStr, 64)
		h, errH := strconv.ParseFloat(heightRatioStr, 64)
		if errW == nil && errH == nil {
			w /= 100
			h /= 100
			if w > 0 && h > 0 {
				zoom = geom.Size{W: w, H: h}
			}
		}
	}

	podID, _ := subelementOpt(el, "podId")
	if podID == "" {
		podID = defaultPresentationPod
	}

	common.Name = "pan_zoom"
	return event.PanZoom{Common: common, Pan: pan, Zoom: zoom, PodID: podID}, true, nil
}

func parseUndo(common event.Common, el *etree.Element, shapeSlideOffByOne bool) (event.Event, bool, error) {
	presentation, _ := subelementOpt(el, "presentation")
	slide, err := shapeSlide(el, shapeSlideOffByOne)
	if err != nil {
		return nil, false, err
	}
	shapeID, _ := subelementOpt(el, "shapeId")

	common.Name = "undo"
	return event.Undo{
		Common:       common,
		ShapeID:      shapeID,
		Presentation: presentation,
		Slide:        slide,
	}, true, nil
}

func parseClear(common event.Common, el *etree.Element, shapeSlideOffByOne bool) (event.Event, bool, error) {
	presentation, _ := subelementOpt(el, "presentation")
	slide, err := shapeSlide(el, shapeSlideOffByOne)
	if err != nil {
		return nil, false, err
	}
	userID, _ := subelementOpt(el, "userId")
	fullClear := false
	if raw, ok := subelementOpt(el, "fullClear"); ok {
		fullClear = raw == "true"
	}

	common.Name = "clear"
	return event.Clear{
		Common:       common,
		UserID:       userID,
		FullClear:    fullClear,
		Presentation: presentation,
		Slide:        slide,
	}, true, nil
}
