package shape

// GeoKind discriminates the "geo" shape family (spec.md §3's tldraw geo
// discriminator): rectangle, ellipse, triangle, diamond, rhombus,
// trapezoid, hexagon, star, oval, cloud, check-box, x-box, and directional
// arrow all share one struct, differing only in how the layer's finalizer
// walks their outline.
type GeoKind string

const (
	GeoRectangle  GeoKind = "rectangle"
	GeoEllipse    GeoKind = "ellipse"
	GeoTriangle   GeoKind = "triangle"
	GeoDiamond    GeoKind = "diamond"
	GeoRhombus    GeoKind = "rhombus"
	GeoTrapezoid  GeoKind = "trapezoid"
	GeoHexagon    GeoKind = "hexagon"
	GeoStar       GeoKind = "star"
	GeoOval       GeoKind = "oval"
	GeoCloud      GeoKind = "cloud"
	GeoCheckBox   GeoKind = "check-box"
	GeoXBox       GeoKind = "x-box"
	GeoArrowRight GeoKind = "arrow-right"
	GeoArrowLeft  GeoKind = "arrow-left"
	GeoArrowUp    GeoKind = "arrow-up"
	GeoArrowDown  GeoKind = "arrow-down"
)

// Geo is a labelled polygon/ellipse shape (spec.md §3, §4.7.5). Rectangle,
// Triangle, Ellipse etc. from spec.md's component table are all
// represented by Geo with the matching Kind; the legacy-era standalone
// "Rectangle"/"Ellipse"/"Triangle" tldraw v1 shapes (pre-"geo" unification)
// are modeled the same way with Kind set at parse time from the data's own
// shape-type tag.
type Geo struct {
	Base
	LabelledBase
	Kind GeoKind
}

func (*Geo) isTldrawShape() {}

func (g *Geo) FromData(data map[string]any, v2 bool) { g.UpdateFromData(data, v2) }

func (g *Geo) UpdateFromData(data map[string]any, v2 bool) {
	mergeBase(&g.Base, data, v2)
	mergeLabelled(&g.LabelledBase, data, v2)
	if v, ok := field(data, v2, "geo", "geo"); ok {
		if s, ok := v.(string); ok {
			g.Kind = GeoKind(s)
		}
	} else if v, ok := data["type"]; ok {
		// v1 pre-unification shapes carry their kind as the top-level type.
		if s, ok := v.(string); ok {
			switch s {
			case "rectangle", "ellipse", "triangle":
				g.Kind = GeoKind(s)
			}
		}
	}
}

var _ TldrawShape = (*Geo)(nil)
