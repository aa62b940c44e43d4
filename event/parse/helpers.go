package parse

import (
	"strconv"

	"github.com/beevik/etree"
)

func subelementOpt(el *etree.Element, name string) (string, bool) {
	child := el.SelectElement(name)
	if child == nil {
		return "", false
	}
	return child.Text(), true
}

func subelement(el *etree.Element, eventName, name string) (string, error) {
	v, ok := subelementOpt(el, name)
	if !ok {
		return "", missingField(eventName, name)
	}
	return v, nil
}

// shapeSlide resolves the 0-based slide index from a legacy shape event's
// <slide> subelement, correcting for the pre-0.9.0 off-by-one bug (spec.md
// §4.3's version gate table).
func shapeSlide(el *etree.Element, offByOne bool) (*int, error) {
	raw, ok := subelementOpt(el, "slide")
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	if offByOne {
		n--
	}
	return &n, nil
}

func colorFromInt(i int64) (r, g, b float64) {
	r = float64((i&0xFF0000)>>16) / 255.0
	g = float64((i&0x00FF00)>>8) / 255.0
	b = float64(i&0x0000FF) / 255.0
	return
}
