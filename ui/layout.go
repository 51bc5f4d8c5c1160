package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// splitLayout gives the first object a fixed share of the width and the second one the
// rest, both vertically centered.
type splitLayout struct {
	first, second fyne.CanvasObject
	proportion    float32
}

// MinSize calculates the minimum size.
func (s *splitLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	a, b := s.first.MinSize(), s.second.MinSize()
	return fyne.NewSize(a.Width+b.Width, fyne.Max(a.Height, b.Height))
}

// Layout arranges the objects.
func (s *splitLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	firstWidth := size.Width * s.proportion
	height := fyne.Max(size.Height, s.MinSize(nil).Height)

	a, b := s.first.MinSize(), s.second.MinSize()
	s.first.Resize(fyne.NewSize(firstWidth, a.Height))
	s.first.Move(fyne.NewPos(0, (height-a.Height)/2))
	s.second.Resize(fyne.NewSize(size.Width-firstWidth, b.Height))
	s.second.Move(fyne.NewPos(firstWidth, (height-b.Height)/2))
}

// NewSplitRow lays first and second out side by side, first taking proportion (0..1) of
// the width.
func NewSplitRow(first, second fyne.CanvasObject, proportion float32) *fyne.Container {
	proportion = fyne.Min(fyne.Max(proportion, 0), 1)
	return container.New(&splitLayout{first: first, second: second, proportion: proportion}, first, second)
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
