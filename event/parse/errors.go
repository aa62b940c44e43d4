package parse

import "fmt"

// EventError reports a single event that failed to parse. The caller logs
// and skips it rather than aborting the whole log (spec.md §4.3's "a
// malformed individual event must not abort the whole recording").
type EventError struct {
	EventName string
	Reason    string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("parse: event %s: %s", e.EventName, e.Reason)
}

func missingField(eventName, field string) error {
	return &EventError{EventName: eventName, Reason: fmt.Sprintf("missing XML subelement %q", field)}
}

func noDataPoints(eventName, shapeType string) error {
	return &EventError{EventName: eventName, Reason: fmt.Sprintf("shape %q has no dataPoints", shapeType)}
}

func unknownEvent(eventName string) error {
	return &EventError{EventName: eventName, Reason: "unknown event"}
}

func unknownShape(eventName, shapeType string) error {
	return &EventError{EventName: eventName, Reason: fmt.Sprintf("unknown shape %q", shapeType)}
}
