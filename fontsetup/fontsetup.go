// Package fontsetup registers the bundled font files with the text-shaping
// engine once at startup and exposes the thin rendering surface the
// annotation layers draw labels, captions, and poll text through (spec.md
// §1's "text shaping/layout" external collaborator and §4 "Fonts setup").
//
// The root gg package's own DrawString/DrawStringAnchored/MeasureString are
// unimplemented placeholders (see text.go), and its text/ subsystem is
// mid-flight (Face.Metrics/.Advance/.Glyphs are called without being part of
// the Face interface). Both ultimately bottom out at
// golang.org/x/image/font + font/opentype (see text/draw.go's
// drawSourceFace), so fontsetup talks to that layer directly rather than
// routing through gg's incomplete wrapper.
package fontsetup

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

// Registry holds the loaded font sources, keyed by normalized family name.
type Registry struct {
	mu      sync.RWMutex
	sources map[shape.FontName]*opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	name shape.FontName
	size int // points * 64, for fixed-point-stable map keys
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, building it empty on first
// use. Register should be called before rendering any frame.
func Default() *Registry {
	defaultOnce.Do(func() { defaultRegistry = New() })
	return defaultRegistry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		sources: map[shape.FontName]*opentype.Font{},
		faces:   map[faceKey]font.Face{},
	}
}

// fontFiles maps a font family to the filename it is expected to have
// inside the registered bundle directory (spec.md's font table: draw/sans
// use a hand style and a grotesque respectively, serif for the "erif"
// alias, mono for monospace).
var fontFiles = map[shape.FontName]string{
	shape.FontDraw:  "caveat.ttf",
	shape.FontSans:  "source-sans-pro.ttf",
	shape.FontSerif: "crimson-pro.ttf",
	shape.FontMono:  "jetbrains-mono.ttf",
}

// Register loads every bundled font file from dir into r, matching spec.md
// §4's "Fonts setup" ("register bundled font files with the text-shaping
// engine once at startup"). Missing files are skipped with a warning rather
// than failing startup, so a partial bundle still renders with fallbacks.
func (r *Registry) Register(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loaded := 0
	for name, file := range fontFiles {
		path := filepath.Join(dir, file)
		data, err := os.ReadFile(path)
		if err != nil {
			gg.Logger().Warn("fontsetup: bundled font missing", "family", name, "path", path, "error", err)
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			gg.Logger().Warn("fontsetup: failed to parse bundled font", "family", name, "path", path, "error", err)
			continue
		}
		r.sources[name] = f
		loaded++
	}
	if loaded == 0 {
		return fmt.Errorf("fontsetup: no bundled fonts could be loaded from %s", dir)
	}
	return nil
}

// face returns a cached golang.org/x/image/font.Face for name at size,
// falling back to FontSans and finally any loaded font if name isn't
// registered.
func (r *Registry) face(name shape.FontName, size float64) (font.Face, error) {
	key := faceKey{name: name, size: int(size * 64)}

	r.mu.RLock()
	f, ok := r.faces[key]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f, nil
	}

	src := r.sources[name]
	if src == nil {
		src = r.sources[shape.FontSans]
	}
	if src == nil {
		for _, any := range r.sources {
			src = any
			break
		}
	}
	if src == nil {
		return nil, fmt.Errorf("fontsetup: no fonts registered")
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces[key] = face
	return face, nil
}

// MeasureString returns the pixel width and line height of s set at size in
// the named family.
func (r *Registry) MeasureString(name shape.FontName, size float64, s string) (w, h float64) {
	f, err := r.face(name, size)
	if err != nil {
		return 0, 0
	}
	adv := font.MeasureString(f, s)
	metrics := f.Metrics()
	return float64(adv) / 64, float64(metrics.Height) / 64
}

// WrapText breaks s into lines no wider than maxWidth (spec.md's
// "word-wrap to width"). A single overlong word is placed on its own line
// rather than split.
func (r *Registry) WrapText(name shape.FontName, size float64, s string, maxWidth float64) []string {
	if maxWidth <= 0 {
		return strings.Split(s, "\n")
	}
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			w, _ := r.MeasureString(name, size, candidate)
			if w > maxWidth {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// RenderLine rasterizes a single line of text at the given font onto an
// offscreen RGBA canvas sized exactly to its ink bounds plus ascent/descent,
// returning the image and the baseline offset from its top.
func (r *Registry) RenderLine(name shape.FontName, size float64, s string, col color.Color) (*image.RGBA, float64, error) {
	f, err := r.face(name, size)
	if err != nil {
		return nil, 0, err
	}
	w, h := r.MeasureString(name, size, s)
	if w <= 0 {
		w = 1
	}
	metrics := f.Metrics()
	ascent := float64(metrics.Ascent) / 64
	if h <= 0 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(w)+1, int(h)+1))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: f,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.Int26_6(ascent * 64)},
	}
	d.DrawString(s)
	return dst, ascent, nil
}

// DrawStringWrapped draws s onto dc at (x, y) using font name/size, wrapping
// to maxWidth (0 disables wrapping) with the given line spacing multiple,
// matching the word-wrap contract spec.md's legacy text finalizer needs.
// ax/ay anchor the whole block as a fraction of its own bounding box, the
// same convention as gg's (unimplemented) DrawStringAnchored.
func (r *Registry) DrawStringWrapped(dc *gg.Context, s string, x, y, ax, ay, maxWidth, lineSpacing float64, name shape.FontName, size float64, col color.Color) {
	lines := r.WrapText(name, size, s, maxWidth)
	_, lineH := r.MeasureString(name, size, "Mg")
	totalH := lineH * lineSpacing * float64(len(lines))

	originY := y - ay*totalH
	for i, line := range lines {
		lineImg, ascent, err := r.RenderLine(name, size, line, col)
		if err != nil {
			continue
		}
		lineW := float64(lineImg.Bounds().Dx())
		originX := x - ax*lineW
		lineY := originY + float64(i)*lineH*lineSpacing

		buf := gg.ImageBufFromImage(lineImg)
		dc.DrawImage(buf, originX, lineY-ascent)
	}
}

// DrawString is DrawStringWrapped with no wrapping and top-left anchoring.
func (r *Registry) DrawString(dc *gg.Context, s string, x, y float64, name shape.FontName, size float64, col color.Color) {
	r.DrawStringWrapped(dc, s, x, y, 0, 0, 0, 1, name, size, col)
}

// DrawStringAnchored is DrawStringWrapped with no wrapping.
func (r *Registry) DrawStringAnchored(dc *gg.Context, s string, x, y, ax, ay float64, name shape.FontName, size float64, col color.Color) {
	r.DrawStringWrapped(dc, s, x, y, ax, ay, 0, 1, name, size, col)
}
