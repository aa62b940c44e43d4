package parse

import (
	"strconv"
	"strings"
)

// bbbVersion is a dotted BigBlueButton release version ("2.6", "0.9.0").
// Nothing in the pack ships a dotted-triple comparator that tolerates a
// variable number of components without full semver pre-release/build
// metadata parsing, so this is a small standard-library comparator rather
// than an imported one (see DESIGN.md).
type bbbVersion []int

func parseBBBVersion(s string) bbbVersion {
	parts := strings.Split(s, ".")
	v := make(bbbVersion, len(parts))
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		v[i] = n
	}
	return v
}

// atLeast reports whether v >= other, comparing component by component and
// treating a missing trailing component as 0.
func (v bbbVersion) atLeast(other string) bool {
	o := parseBBBVersion(other)
	for i := 0; i < len(v) || i < len(o); i++ {
		var a, b int
		if i < len(v) {
			a = v[i]
		}
		if i < len(o) {
			b = o[i]
		}
		if a != b {
			return a > b
		}
	}
	return true
}
