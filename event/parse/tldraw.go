package parse

import (
	"encoding/json"
	"strconv"

	"github.com/beevik/etree"

	"github.com/bigbluebutton/bbwhiteboard/event"
	"github.com/bigbluebutton/bbwhiteboard/geom"
)

func parseTldrawAddShape(eventName string, el *etree.Element) (event.TldrawAddShape, error) {
	id, err := subelement(el, eventName, "shapeId")
	if err != nil {
		return event.TldrawAddShape{}, err
	}
	presentation, err := subelement(el, eventName, "presentation")
	if err != nil {
		return event.TldrawAddShape{}, err
	}
	pageNumber, err := subelement(el, eventName, "pageNumber")
	if err != nil {
		return event.TldrawAddShape{}, err
	}
	slide, err := strconv.Atoi(pageNumber)
	if err != nil {
		return event.TldrawAddShape{}, err
	}
	userID, err := subelement(el, eventName, "userId")
	if err != nil {
		return event.TldrawAddShape{}, err
	}
	shapeData, err := subelement(el, eventName, "shapeData")
	if err != nil {
		return event.TldrawAddShape{}, err
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(shapeData), &data); err != nil {
		return event.TldrawAddShape{}, err
	}

	return event.TldrawAddShape{
		ID:           id,
		Presentation: presentation,
		Slide:        slide,
		UserID:       userID,
		Data:         data,
	}, nil
}

func parseTldrawDeleteShape(eventName string, el *etree.Element) (event.TldrawDeleteShape, error) {
	id, err := subelement(el, eventName, "shapeId")
	if err != nil {
		return event.TldrawDeleteShape{}, err
	}
	presentation, err := subelement(el, eventName, "presentation")
	if err != nil {
		return event.TldrawDeleteShape{}, err
	}
	pageNumber, err := subelement(el, eventName, "pageNumber")
	if err != nil {
		return event.TldrawDeleteShape{}, err
	}
	slide, err := strconv.Atoi(pageNumber)
	if err != nil {
		return event.TldrawDeleteShape{}, err
	}
	return event.TldrawDeleteShape{ID: id, Presentation: presentation, Slide: slide}, nil
}

// parseTldrawCamera handles TldrawCameraChangedEvent. pageNumber/userId are
// present in newer recordings but unused by camera handling (see
// original_source's events/tldraw.py TODO on CameraChangedEvent).
func parseTldrawCamera(eventName string, el *etree.Element) (event.TldrawCamera, error) {
	pod, err := subelement(el, eventName, "podId")
	if err != nil {
		return event.TldrawCamera{}, err
	}
	presentation, err := subelement(el, eventName, "presentationName")
	if err != nil {
		return event.TldrawCamera{}, err
	}
	xStr, err := subelement(el, eventName, "xCamera")
	if err != nil {
		return event.TldrawCamera{}, err
	}
	yStr, err := subelement(el, eventName, "yCamera")
	if err != nil {
		return event.TldrawCamera{}, err
	}
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return event.TldrawCamera{}, err
	}
	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return event.TldrawCamera{}, err
	}
	zoomStr, err := subelement(el, eventName, "zoom")
	if err != nil {
		return event.TldrawCamera{}, err
	}
	zoom, err := strconv.ParseFloat(zoomStr, 64)
	if err != nil {
		return event.TldrawCamera{}, err
	}

	return event.TldrawCamera{
		Pod:          pod,
		Presentation: presentation,
		Camera:       geom.Position{X: x, Y: y},
		Zoom:         zoom,
	}, nil
}
