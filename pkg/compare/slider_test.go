package compare

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/dixieflatline76/Realist/pkg/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{R: 0xff, A: 0xff}
	blue = color.NRGBA{B: 0xff, A: 0xff}
)

// splitImage is red on the left half and blue on the right half.
func splitImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetNRGBA(x, y, red)
			} else {
				img.SetNRGBA(x, y, blue)
			}
		}
	}
	return img
}

func solidImage(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func assertColor(t *testing.T, want color.NRGBA, img image.Image, x, y int) {
	t.Helper()
	got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	assert.Equal(t, want, got, "pixel %d,%d", x, y)
}

func newTestSlider(t *testing.T, base, overlay image.Image) (*Slider, *pointer.Hub, *sliderRenderer) {
	t.Helper()
	test.NewApp()
	hub := pointer.NewHub()
	s := NewSlider(hub, base, overlay)
	s.bounds = func() (float32, float32) { return 0, s.Size().Width }
	s.Resize(fyne.NewSize(400, 200))
	r, ok := test.WidgetRenderer(s).(*sliderRenderer)
	require.True(t, ok)
	t.Cleanup(s.Release)
	return s, hub, r
}

func drag(s *Slider, hub *pointer.Hub, x float32) {
	s.MouseDown(&desktop.MouseEvent{Button: desktop.MouseButtonPrimary})
	hub.Dispatch(pointer.MouseEvent(pointer.Move, x, 10))
	hub.Dispatch(pointer.MouseEvent(pointer.Up, x, 10))
}

func TestSliderSubscribesUntilReleased(t *testing.T) {
	test.NewApp()
	hub := pointer.NewHub()
	s := NewSlider(hub, nil, nil)
	assert.Equal(t, 1, hub.Listeners(pointer.Move))
	assert.Equal(t, 1, hub.Listeners(pointer.Up))

	s.Release()
	s.Release()
	assert.Zero(t, hub.Listeners(pointer.Move))
	assert.Zero(t, hub.Listeners(pointer.Up))
}

func TestSliderOnlyPrimaryButtonDrags(t *testing.T) {
	s, hub, _ := newTestSlider(t, nil, nil)

	s.MouseDown(&desktop.MouseEvent{Button: desktop.MouseButtonSecondary})
	hub.Dispatch(pointer.MouseEvent(pointer.Move, 40, 10))
	assert.False(t, s.Dragging())
	assert.Equal(t, InitialPosition, s.Split())

	drag(s, hub, 40)
	assert.Equal(t, 10.0, s.Split())
	assert.False(t, s.Dragging())
}

func TestSliderOverlayIsClippedNotScaled(t *testing.T) {
	base := solidImage(200, 100, color.NRGBA{G: 0xff, A: 0xff})
	s, hub, r := newTestSlider(t, base, splitImage(200, 100))

	require.Equal(t, float32(400), s.OverlayWidth())
	assert.Equal(t, float32(200), r.overlay.Size().Width)

	img := r.overlay.Generator(200, 200)
	assert.Equal(t, 200, img.Bounds().Dx())
	assertColor(t, red, img, 10, 100)
	assertColor(t, red, img, 150, 100)

	drag(s, hub, 300)
	require.Equal(t, 75.0, s.Split())
	assert.Equal(t, float32(300), r.overlay.Size().Width)

	img = r.overlay.Generator(300, 200)
	assert.Equal(t, 300, img.Bounds().Dx())
	assertColor(t, red, img, 150, 100)
	assertColor(t, blue, img, 250, 100)
}

func TestSliderHidesOverlayAtZero(t *testing.T) {
	s, hub, r := newTestSlider(t, nil, splitImage(200, 100))
	drag(s, hub, -20)
	assert.Equal(t, 0.0, s.Split())
	assert.True(t, r.overlay.Hidden)

	drag(s, hub, 20)
	assert.False(t, r.overlay.Hidden)
}

func TestSliderResizeKeepsPosition(t *testing.T) {
	s, hub, r := newTestSlider(t, nil, splitImage(200, 100))
	drag(s, hub, 100)
	require.Equal(t, 25.0, s.Split())

	s.Resize(fyne.NewSize(800, 400))
	assert.Equal(t, 25.0, s.Split())
	assert.Equal(t, float32(800), s.OverlayWidth())
	assert.Equal(t, float32(200), r.overlay.Size().Width)

	img := r.overlay.Generator(200, 400)
	assertColor(t, red, img, 150, 200)
}

func TestSliderSetImagesResets(t *testing.T) {
	s, hub, _ := newTestSlider(t, nil, nil)
	drag(s, hub, 100)
	require.Equal(t, 25.0, s.Split())

	s.SetImages(splitImage(20, 10), splitImage(20, 10))
	assert.Equal(t, InitialPosition, s.Split())
}

func TestSliderSetTransformKeepsPosition(t *testing.T) {
	s, hub, r := newTestSlider(t, nil, splitImage(200, 100))
	drag(s, hub, 100)

	s.SetTransform(func(img image.Image) image.Image {
		return solidImage(img.Bounds().Dx(), img.Bounds().Dy(), blue)
	})
	assert.Equal(t, 25.0, s.Split())
	assertColor(t, blue, r.overlay.Generator(100, 200), 10, 100)
}

func TestSliderLabels(t *testing.T) {
	s, _, r := newTestSlider(t, nil, nil)
	assert.Equal(t, "ORIGINAL (LUMION)", r.overlayTag.text.Text)
	assert.Equal(t, "ENHANCED (GEMINI)", r.baseTag.text.Text)

	s.BaseLabel = EnhancedLabel("gemini-2.5-flash-image")
	s.Refresh()
	assert.Equal(t, "ENHANCED (GEMINI-2.5-FLASH-IMAGE)", r.baseTag.text.Text)
	assert.Equal(t, DefaultBaseLabel, EnhancedLabel(""))

	s.BaseLabel = ""
	s.Refresh()
	assert.True(t, r.baseTag.bg.Hidden)
	assert.Less(t, r.overlayTag.bg.Position().X, r.baseTag.bg.Position().X)
}

func TestSliderCursor(t *testing.T) {
	s, _, _ := newTestSlider(t, nil, nil)
	assert.Equal(t, desktop.HResizeCursor, s.Cursor())
}

func TestAspectContainerFits(t *testing.T) {
	test.NewApp()
	s := NewSlider(nil, nil, nil)
	defer s.Release()
	c := NewAspectContainer(WideAspect, s)

	c.Resize(fyne.NewSize(1600, 1600))
	assert.Equal(t, fyne.NewSize(1600, 900), s.Size())
	assert.Equal(t, fyne.NewPos(0, 350), s.Position())

	c.Resize(fyne.NewSize(1600, 450))
	assert.Equal(t, fyne.NewSize(800, 450), s.Size())
	assert.Equal(t, fyne.NewPos(400, 0), s.Position())
}

func TestSliderResubscribesWithNewRenderer(t *testing.T) {
	s, hub, r := newTestSlider(t, nil, nil)
	r.Destroy()
	assert.Zero(t, hub.Listeners(pointer.Move))
	assert.False(t, s.tracker.Attached())

	newSliderRenderer(s).Layout(s.Size())
	assert.Equal(t, 1, hub.Listeners(pointer.Move))
	assert.Equal(t, 1, hub.Listeners(pointer.Up))

	drag(s, hub, 100)
	assert.InDelta(t, 25, s.Split(), 0.01)
}

func TestSliderDragInsideWindow(t *testing.T) {
	test.NewApp()
	hub := pointer.NewHub()
	s := NewSlider(hub, nil, nil)
	t.Cleanup(s.Release)

	gutter := canvas.NewRectangle(red)
	gutter.SetMinSize(fyne.NewSize(120, 10))
	w := test.NewWindow(container.NewBorder(nil, nil, gutter, nil, s))
	defer w.Close()
	w.Resize(fyne.NewSize(600, 300))

	left := fyne.CurrentApp().Driver().AbsolutePositionForObject(s).X
	width := s.Size().Width
	require.Greater(t, left, float32(120))
	require.Greater(t, width, float32(0))

	s.MouseDown(&desktop.MouseEvent{Button: desktop.MouseButtonPrimary})
	hub.Dispatch(pointer.MouseEvent(pointer.Move, left+width/4, 10))
	hub.Dispatch(pointer.MouseEvent(pointer.Up, left+width/4, 10))
	assert.InDelta(t, 25, s.Split(), 0.5)

	s.MouseDown(&desktop.MouseEvent{Button: desktop.MouseButtonPrimary})
	hub.Dispatch(pointer.MouseEvent(pointer.Move, left-50, 10))
	hub.Dispatch(pointer.MouseEvent(pointer.Up, left-50, 10))
	assert.Zero(t, s.Split())
}
