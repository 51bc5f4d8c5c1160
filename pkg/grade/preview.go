package grade

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"github.com/dixieflatline76/Realist/pkg/imageio"
	"golang.org/x/sync/errgroup"
)

// Preview is a filter swatch.
type Preview struct {
	Filter Filter
	Image  image.Image
}

// Previews crops img once to a w x h thumbnail and renders it through every filter. The
// result is in filters order.
func Previews(ctx context.Context, img image.Image, filters []Filter, w, h int) ([]Preview, error) {
	thumb, err := imageio.Thumbnail(img, w, h)
	if err != nil {
		return nil, fmt.Errorf("preview thumbnail: %w", err)
	}

	out := make([]Preview, len(filters))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, f := range filters {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Preview{Filter: f, Image: f.Apply(thumb)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
