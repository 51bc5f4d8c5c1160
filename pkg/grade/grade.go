// Package grade applies display color grades modelled on CSS filter functions.
package grade

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// NoneID is the identity grade.
const NoneID = "none"

// Operation names, matching the CSS filter functions they reproduce.
const (
	OpContrast   = "contrast"
	OpBrightness = "brightness"
	OpSaturate   = "saturate"
	OpSepia      = "sepia"
	OpHueRotate  = "hue-rotate"
	OpGrayscale  = "grayscale"
)

// Op is a single filter function. Amount is a factor for every op except hue-rotate,
// where it is in degrees.
type Op struct {
	Name   string  `yaml:"op"`
	Amount float64 `yaml:"amount"`
}

// Filter is a named, ordered list of operations.
type Filter struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Ops  []Op   `yaml:"ops"`
}

// IsIdentity reports whether applying the filter leaves images unchanged.
func (f Filter) IsIdentity() bool {
	return len(f.Ops) == 0
}

// Apply returns img with the operations baked in. Channels are clamped after every
// operation, the way a browser evaluates a filter chain.
func (f Filter) Apply(img image.Image) *image.NRGBA {
	if f.IsIdentity() {
		return imaging.Clone(img)
	}
	steps := make([]step, 0, len(f.Ops))
	for _, op := range f.Ops {
		s, err := compile(op)
		if err != nil {
			// Catalogs are validated on load; an unknown op here is a programming error.
			panic(err)
		}
		steps = append(steps, s)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
		for _, s := range steps {
			r, g, b = s.apply(r, g, b)
		}
		return color.NRGBA{R: toByte(r), G: toByte(g), B: toByte(b), A: c.A}
	})
}

// Transform adapts the filter to a plain image function.
func (f Filter) Transform() func(image.Image) image.Image {
	if f.IsIdentity() {
		return nil
	}
	return func(img image.Image) image.Image { return f.Apply(img) }
}

// step is an affine color transform: out = m * in + offset.
type step struct {
	m      [3][3]float64
	offset float64
}

func (s step) apply(r, g, b float64) (float64, float64, float64) {
	return clamp01(s.m[0][0]*r + s.m[0][1]*g + s.m[0][2]*b + s.offset),
		clamp01(s.m[1][0]*r + s.m[1][1]*g + s.m[1][2]*b + s.offset),
		clamp01(s.m[2][0]*r + s.m[2][1]*g + s.m[2][2]*b + s.offset)
}

func compile(op Op) (step, error) {
	a := op.Amount
	switch op.Name {
	case OpBrightness:
		return step{m: diag(a)}, nil
	case OpContrast:
		return step{m: diag(a), offset: 0.5 - 0.5*a}, nil
	case OpSaturate:
		return step{m: [3][3]float64{
			{0.213 + 0.787*a, 0.715 - 0.715*a, 0.072 - 0.072*a},
			{0.213 - 0.213*a, 0.715 + 0.285*a, 0.072 - 0.072*a},
			{0.213 - 0.213*a, 0.715 - 0.715*a, 0.072 + 0.928*a},
		}}, nil
	case OpSepia:
		k := 1 - clamp01(a)
		return step{m: [3][3]float64{
			{0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k},
			{0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k},
			{0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k},
		}}, nil
	case OpGrayscale:
		k := 1 - clamp01(a)
		return step{m: [3][3]float64{
			{0.2126 + 0.7874*k, 0.7152 - 0.7152*k, 0.0722 - 0.0722*k},
			{0.2126 - 0.2126*k, 0.7152 + 0.2848*k, 0.0722 - 0.0722*k},
			{0.2126 - 0.2126*k, 0.7152 - 0.7152*k, 0.0722 + 0.9278*k},
		}}, nil
	case OpHueRotate:
		rad := a * math.Pi / 180
		c, s := math.Cos(rad), math.Sin(rad)
		return step{m: [3][3]float64{
			{0.213 + 0.787*c - 0.213*s, 0.715 - 0.715*c - 0.715*s, 0.072 - 0.072*c + 0.928*s},
			{0.213 - 0.213*c + 0.143*s, 0.715 + 0.285*c + 0.140*s, 0.072 - 0.072*c - 0.283*s},
			{0.213 - 0.213*c - 0.787*s, 0.715 - 0.715*c + 0.715*s, 0.072 + 0.928*c + 0.072*s},
		}}, nil
	}
	return step{}, fmt.Errorf("unknown filter operation %q", op.Name)
}

func diag(a float64) [3][3]float64 {
	return [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
