// Package presentation tracks the active presentation document, slide, pan,
// and zoom, and rasterizes the current page to a cached pattern each time
// any of those change (spec.md §4.5).
package presentation

import (
	"fmt"
	"os"
	"path/filepath"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/transform"
)

// extensions is the probe order for locating a presentation's asset file,
// tried case-sensitively both as given and upper/lower-cased (spec.md §4.5
// "trying known extensions in order ... case-sensitive try-both").
var extensions = []string{"pdf", "png", "jpg", "jpeg"}

// Page is a single rasterizable page of a loaded presentation asset.
type Page interface {
	// Size returns the page's native pixel size.
	Size() geom.Size
	// Rasterize renders the page onto an opaque white surface of exactly
	// size (already scaled by the caller).
	Rasterize(size geom.Size) (*gg.ImageBuf, error)
}

// AssetSource opens a presentation asset file and selects a page from it.
// pdfSource and imageSource are the two concrete bindings; both sit behind
// this seam because the pack ships no complete, importable pure-Go PDF
// rasterizer (DESIGN.md documents pdfSource as an external capability
// kept as an interface, matching spec.md §1's "render PDF page to surface"
// out-of-scope collaborator).
type AssetSource interface {
	Open(path string) (Document, error)
}

// Document is an opened multi-page asset.
type Document interface {
	PageCount() int
	Page(n int) (Page, error)
	Close() error
}

// Sources maps a lowercased file extension to the AssetSource that handles
// it. Layer.Load consults this in the probe order above.
type Sources map[string]AssetSource

// DefaultSources returns the sources wired for real: imageSource for
// png/jpg/jpeg (golang.org/x/image + stdlib image/png, image/jpeg, both
// already in gg's own dependency set) and pdfSource, a thin interface seam
// with no working implementation bundled (spec.md §1).
func DefaultSources() Sources {
	img := &imageSource{}
	return Sources{
		"pdf":  &pdfSource{},
		"png":  img,
		"jpg":  img,
		"jpeg": img,
	}
}

// State tracks current presentation/slide/pan/zoom and per-presentation
// last-viewed slide (spec.md §4.5 "State").
type State struct {
	CurrentPresentation string
	lastViewedSlide     map[string]int
	CurrentSlide        int
	CurrentPan          geom.Position
	CurrentZoom         geom.Position
	Dirty               bool
}

// NewState returns a zeroed State with neutral pan/zoom.
func NewState() *State {
	return &State{
		lastViewedSlide: map[string]int{},
		CurrentZoom:     geom.Position{X: 1, Y: 1},
	}
}

// OnPresentation handles a presentation-switch event: if the name differs,
// pan/zoom reset to neutral and the last-viewed slide for that presentation
// (default 0) is restored.
func (s *State) OnPresentation(name string) {
	if name == s.CurrentPresentation {
		return
	}
	s.CurrentPresentation = name
	s.CurrentPan = geom.Position{}
	s.CurrentZoom = geom.Position{X: 1, Y: 1}
	s.CurrentSlide = s.lastViewedSlide[name]
	s.Dirty = true
}

// OnSlide handles a slide-switch event.
func (s *State) OnSlide(n int) {
	s.CurrentSlide = n
	s.lastViewedSlide[s.CurrentPresentation] = n
	s.Dirty = true
}

// OnPanZoom handles a pan/zoom update.
func (s *State) OnPanZoom(pan, zoom geom.Position) {
	s.CurrentPan = pan
	s.CurrentZoom = zoom
	s.Dirty = true
}

// Layer renders the current presentation page to a cached composite
// pattern, reloading the asset lazily and falling back to a bundled logo.
type Layer struct {
	*State

	dir       string
	sources   Sources
	logoPath  string
	noLogo    bool

	loadedPresentation string
	doc                Document
	failed             bool

	pattern   gg.Pattern
	transform transform.Transform
	pageSize  geom.Size
}

// NewLayer builds a Layer reading assets from dir, using sources to open
// them, and falling back to logoPath when no presentation is active.
func NewLayer(dir string, sources Sources, logoPath string) *Layer {
	return &Layer{
		State:    NewState(),
		dir:      dir,
		sources:  sources,
		logoPath: logoPath,
	}
}

// Transform returns the layer's current transform for consumption by the
// annotation and cursor layers (spec.md §4.5 "exports its current
// transform").
func (l *Layer) Transform() transform.Transform { return l.transform }

// PageSize returns the native pixel size of the currently loaded page,
// valid once Render has run at least once (spec.md §4.9's composite step,
// which needs page_size to install the other layers' transforms).
func (l *Layer) PageSize() geom.Size { return l.pageSize }

// SetHideLogo disables the bundled fallback logo even when a logo path was
// configured (spec.md §4.5, events.xml metadata attribute
// "bn-rec-hide-logo").
func (l *Layer) SetHideLogo(hide bool) { l.noLogo = hide }

// Render satisfies spec.md §4.5's render contract: if dirty or unloaded,
// locate and load the asset, select the page, compute the transform,
// rasterize to an offscreen surface, and blit it into dc within the slide
// clip rectangle with integer-aligned translation.
func (l *Layer) Render(dc *gg.Context, viewport geom.Size) error {
	if !l.Dirty && l.pattern != nil {
		return nil
	}

	pageSize, err := l.ensureLoaded()
	if err != nil {
		gg.Logger().Warn("presentation rasterize failed", "error", err)
		l.failed = true
		l.Dirty = false
		l.pattern = nil
		return nil
	}
	l.pageSize = pageSize

	l.transform = transform.Legacy(pageSize, viewport, l.CurrentPan, l.CurrentZoom, geom.Size{W: 1200, H: 1200})

	page, err := l.currentPage()
	if err != nil {
		gg.Logger().Warn("presentation page select failed", "error", err)
		l.failed = true
		l.Dirty = false
		l.pattern = nil
		return nil
	}

	scaled := geom.Size{W: pageSize.W * l.transform.Scale, H: pageSize.H * l.transform.Scale}
	img, err := page.Rasterize(scaled)
	if err != nil {
		gg.Logger().Warn("presentation page rasterize failed", "error", err)
		l.failed = true
		l.Dirty = false
		l.pattern = nil
		return nil
	}

	l.failed = false
	l.pattern = dc.CreateImagePattern(img, 0, 0, int(scaled.W), int(scaled.H))
	l.Dirty = false
	return nil
}

// Paint blits the cached pattern into dc using the layer's transform,
// clipping to the slide rectangle. It is a no-op if nothing loaded.
func (l *Layer) Paint(dc *gg.Context, pageSize geom.Size) {
	dc.Push()
	defer dc.Pop()

	if l.pattern == nil {
		return
	}
	l.transform.ApplySlideTransform(dc, pageSize)
	// Integer-aligned translation for pixel-perfect display (spec.md §4.5).
	tx, ty := dc.TransformPoint(0, 0)
	dc.Identity()
	dc.Translate(float64(int(tx)), float64(int(ty)))
	dc.SetFillPattern(l.pattern)
	dc.DrawRectangle(0, 0, pageSize.W, pageSize.H)
	dc.Fill()
}

func (l *Layer) ensureLoaded() (geom.Size, error) {
	if l.doc != nil && l.loadedPresentation == l.CurrentPresentation {
		return l.currentPageSize()
	}
	if l.CurrentPresentation == "" {
		if l.noLogo || l.logoPath == "" {
			return geom.Size{}, fmt.Errorf("presentation: no presentation active and logo suppressed")
		}
		return l.load(l.logoPath)
	}

	path, err := l.resolveAsset(l.CurrentPresentation)
	if err != nil {
		return geom.Size{}, err
	}
	return l.load(path)
}

func (l *Layer) load(path string) (geom.Size, error) {
	ext := filepath.Ext(path)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	src, ok := l.sources[normalizeExt(ext)]
	if !ok {
		return geom.Size{}, fmt.Errorf("presentation: no asset source registered for extension %q", ext)
	}
	doc, err := src.Open(path)
	if err != nil {
		return geom.Size{}, err
	}
	if l.doc != nil {
		_ = l.doc.Close()
	}
	l.doc = doc
	l.loadedPresentation = l.CurrentPresentation
	return l.currentPageSize()
}

func (l *Layer) resolveAsset(presentation string) (string, error) {
	for _, ext := range extensions {
		for _, variant := range []string{ext, upper(ext)} {
			p := filepath.Join(l.dir, presentation, "pdf."+variant)
			if fileExists(p) {
				return p, nil
			}
			p = filepath.Join(l.dir, presentation+"."+variant)
			if fileExists(p) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("presentation: no asset found for %q (tried %v)", presentation, extensions)
}

func (l *Layer) currentPage() (Page, error) {
	if l.doc == nil {
		return nil, fmt.Errorf("presentation: no document loaded")
	}
	n := l.CurrentSlide
	if n >= l.doc.PageCount() {
		n = l.doc.PageCount() - 1
	}
	if n < 0 {
		n = 0
	}
	return l.doc.Page(n)
}

func (l *Layer) currentPageSize() (geom.Size, error) {
	page, err := l.currentPage()
	if err != nil {
		return geom.Size{}, err
	}
	return page.Size(), nil
}

func normalizeExt(ext string) string {
	switch ext {
	case "PDF":
		return "pdf"
	case "PNG":
		return "png"
	case "JPG":
		return "jpg"
	case "JPEG":
		return "jpeg"
	default:
		return ext
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
