package compare

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
)

// Transform is a display-only color transform applied to both images.
type Transform func(image.Image) image.Image

// layer renders one image contain-fitted into a pixel box, caching the last size.
type layer struct {
	mu        sync.Mutex
	src       image.Image
	transform Transform
	cached    *image.NRGBA
	cachedW   int
	cachedH   int
}

func newLayer(src image.Image) *layer {
	return &layer{src: src}
}

func (l *layer) setSource(src image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src = src
	l.cached = nil
}

func (l *layer) setTransform(fn Transform) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transform = fn
	l.cached = nil
}

// render returns the image scaled to fit w x h without cropping, centered on a
// transparent background, with the transform applied.
func (l *layer) render(w, h int) *image.NRGBA {
	w, h = max(w, 1), max(h, 1)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil && l.cachedW == w && l.cachedH == h {
		return l.cached
	}

	out := containFit(l.src, w, h)
	if l.transform != nil {
		out = imaging.Clone(l.transform(out))
	}
	l.cached, l.cachedW, l.cachedH = out, w, h
	return out
}

func containFit(src image.Image, w, h int) *image.NRGBA {
	bg := imaging.New(w, h, color.Transparent)
	if src == nil {
		return bg
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return bg
	}

	scale := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	fw := max(1, int(math.Round(float64(b.Dx())*scale)))
	fh := max(1, int(math.Round(float64(b.Dy())*scale)))
	fitted := imaging.Resize(src, fw, fh, imaging.Linear)
	return imaging.PasteCenter(bg, fitted)
}
