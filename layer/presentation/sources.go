package presentation

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/geom"
)

// imageSource opens a single-page raster image via the standard png/jpeg
// decoders (registered above) and golang.org/x/image's scaler, both already
// part of gg's own dependency surface.
type imageSource struct{}

func (*imageSource) Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("presentation: decode %s: %w", path, err)
	}
	return &imageDocument{img: img}, nil
}

type imageDocument struct{ img image.Image }

func (d *imageDocument) PageCount() int { return 1 }

func (d *imageDocument) Page(n int) (Page, error) {
	if n != 0 {
		return nil, fmt.Errorf("presentation: image document has only one page")
	}
	return &imagePage{img: d.img}, nil
}

func (d *imageDocument) Close() error { return nil }

type imagePage struct{ img image.Image }

func (p *imagePage) Size() geom.Size {
	b := p.img.Bounds()
	return geom.Size{W: float64(b.Dx()), H: float64(b.Dy())}
}

func (p *imagePage) Rasterize(size geom.Size) (*gg.ImageBuf, error) {
	w, h := int(size.W), int(size.H)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("presentation: invalid raster size %v", size)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	white := image.NewUniform(whiteColor{})
	draw.Draw(dst, dst.Bounds(), white, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), p.img, p.img.Bounds(), draw.Over, nil)
	return gg.ImageBufFromImage(dst), nil
}

type whiteColor struct{}

func (whiteColor) RGBA() (r, g, b, a uint32) { return 0xffff, 0xffff, 0xffff, 0xffff }

// pdfSource is the PDF-rendering capability seam named by spec.md §1
// ("render PDF page to surface"). No complete, importable pure-Go PDF
// rasterizer ships in the example pack; wiring one in is out of scope here
// (DESIGN.md), so Open reports a clear error rather than silently
// misrendering.
type pdfSource struct{}

func (*pdfSource) Open(path string) (Document, error) {
	return nil, fmt.Errorf("presentation: PDF rendering is not available in this build (%s)", path)
}
