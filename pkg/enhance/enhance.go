// Package enhance turns architectural renderings into photoreal images through an
// external image-generation model.
package enhance

import (
	"context"
	"fmt"

	"github.com/dixieflatline76/Realist/pkg/imageio"
)

// Mode selects the prompt template.
type Mode string

// Supported modes.
const (
	// ModeStrict raises material fidelity without adding anything to the scene.
	ModeStrict Mode = "strict"
	// ModeProps additionally places small props for a lived-in feel.
	ModeProps Mode = "props"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeStrict, ModeProps}

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeStrict, ModeProps:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	return string(m)
}

// Enhancer sends a source picture and a prompt to a model and returns the generated
// picture.
type Enhancer interface {
	Enhance(ctx context.Context, src *imageio.Picture, prompt string) (*imageio.Picture, error)
}

// ModelOf returns the model name e reports through a Model method, or "" if it has none.
func ModelOf(e Enhancer) string {
	if m, ok := e.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}

// EnhancerFunc adapts a function to an Enhancer.
type EnhancerFunc func(ctx context.Context, src *imageio.Picture, prompt string) (*imageio.Picture, error)

// Enhance calls f.
func (f EnhancerFunc) Enhance(ctx context.Context, src *imageio.Picture, prompt string) (*imageio.Picture, error) {
	return f(ctx, src, prompt)
}
