package cursor

import (
	"math"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/internal/blend"
)

// paintDisc fills a disc of radius r centered at (localX, localY) — in the
// context's currently installed transform — using the given Porter-Duff
// compositing mode instead of gg's own (always source-over) Fill, which is
// the one piece of per-pixel compositing the cursor layer needs beyond
// what Context exposes (spec.md §4.8 "OVER vs DEST_OVER compositing").
func paintDisc(dc *gg.Context, localX, localY, r float64, col gg.RGBA, mode blend.BlendMode) {
	cx, cy := dc.TransformPoint(localX, localY)
	pm := dc.ResizeTarget()
	if pm == nil || r <= 0 {
		return
	}
	blendFn := blend.GetBlendFunc(mode)

	sr, sg, sb, sa := premultiply(col)
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			dst := pm.GetPixel(x, y)
			dr, dg, db, da := premultiply(dst)
			rr, rg, rb, ra := blendFn(sr, sg, sb, sa, dr, dg, db, da)
			pm.SetPixel(x, y, unpremultiply(rr, rg, rb, ra))
		}
	}
}

func premultiply(c gg.RGBA) (r, g, b, a byte) {
	a = clampByte(c.A * 255)
	r = clampByte(c.R * c.A * 255)
	g = clampByte(c.G * c.A * 255)
	b = clampByte(c.B * c.A * 255)
	return
}

func unpremultiply(r, g, b, a byte) gg.RGBA {
	if a == 0 {
		return gg.RGBA{}
	}
	af := float64(a) / 255
	return gg.RGBA{
		R: float64(r) / 255 / af,
		G: float64(g) / 255 / af,
		B: float64(b) / 255 / af,
		A: af,
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
