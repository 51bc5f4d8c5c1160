package compare

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// WideAspect is the 16:9 ratio the comparison box is drawn at.
const WideAspect float32 = 16.0 / 9.0

// aspectLayout sizes its objects to the largest box of the given ratio that fits the
// container and centers it.
type aspectLayout struct {
	ratio float32
}

// MinSize is the largest object minimum stretched to the ratio.
func (a *aspectLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var minSize fyne.Size
	for _, o := range objects {
		if !o.Visible() {
			continue
		}
		minSize = minSize.Max(o.MinSize())
	}
	if h := minSize.Width / a.ratio; h > minSize.Height {
		minSize.Height = h
	} else {
		minSize.Width = minSize.Height * a.ratio
	}
	return minSize
}

// Layout fits the width first and falls back to the height when the box would overflow.
func (a *aspectLayout) Layout(objects []fyne.CanvasObject, containerSize fyne.Size) {
	box := a.fit(containerSize)
	pos := fyne.NewPos((containerSize.Width-box.Width)/2, (containerSize.Height-box.Height)/2)
	for _, o := range objects {
		o.Resize(box)
		o.Move(pos)
	}
}

func (a *aspectLayout) fit(size fyne.Size) fyne.Size {
	if a.ratio <= 0 || size.Width <= 0 || size.Height <= 0 {
		return size
	}
	w, h := size.Width, size.Width/a.ratio
	if h > size.Height {
		h = size.Height
		w = h * a.ratio
	}
	return fyne.NewSize(w, h)
}

// NewAspectContainer keeps objects at ratio (width / height) inside whatever space it gets.
func NewAspectContainer(ratio float32, objects ...fyne.CanvasObject) *fyne.Container {
	return container.New(&aspectLayout{ratio: ratio}, objects...)
}
