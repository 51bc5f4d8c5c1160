package compare

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Realist/pkg/pointer"
)

// Default corner labels.
const (
	DefaultOverlayLabel = "Original (Lumion)"
	DefaultBaseLabel    = "Enhanced (Gemini)"
)

// EnhancedLabel names the result after the model that produced it.
func EnhancedLabel(model string) string {
	if model == "" {
		return DefaultBaseLabel
	}
	return "Enhanced (" + model + ")"
}

// Slider shows base at full size and overlay clipped to the left of the split position,
// with a draggable divider between them.
//
// A Slider holds a window-wide pointer subscription from construction until Release.
type Slider struct {
	widget.BaseWidget

	// OverlayLabel is drawn in the top-left corner, BaseLabel in the top-right one.
	OverlayLabel string
	BaseLabel    string

	hub     *pointer.Hub
	tracker *Tracker
	base    *layer
	overlay *layer
	bounds  Bounds

	mu       sync.RWMutex
	measured fyne.Size
	version  uint64
}

var (
	_ desktop.Mouseable  = (*Slider)(nil)
	_ desktop.Cursorable = (*Slider)(nil)
	_ fyne.Draggable     = (*Slider)(nil)
	_ mobile.Touchable   = (*Slider)(nil)
)

// NewSlider creates a Slider comparing overlay (left) against base and subscribes it to
// hub. A nil hub gives the slider a private one, which only sees the slider's own input.
func NewSlider(hub *pointer.Hub, base, overlay image.Image) *Slider {
	if hub == nil {
		hub = pointer.NewHub()
	}
	s := &Slider{
		OverlayLabel: DefaultOverlayLabel,
		BaseLabel:    DefaultBaseLabel,
		hub:          hub,
		base:         newLayer(base),
		overlay:      newLayer(overlay),
	}
	s.ExtendBaseWidget(s)
	s.tracker = NewTracker(s.horizontalBounds, func(float64) { s.Refresh() })
	s.tracker.Attach(hub)
	return s
}

// Release drops the pointer subscription. Call it when the slider leaves the window; a
// renderer created afterwards subscribes again.
func (s *Slider) Release() {
	s.tracker.Detach()
}

// Split returns the split position in percent.
func (s *Slider) Split() float64 {
	return s.tracker.Position()
}

// Dragging reports whether the divider is being dragged.
func (s *Slider) Dragging() bool {
	return s.tracker.Dragging()
}

// OverlayWidth returns the width the clipped image is drawn at: the slider's width as of
// the last layout pass, independent of the clip.
func (s *Slider) OverlayWidth() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.measured.Width
}

// SetImages replaces the compared pair and recenters the divider.
func (s *Slider) SetImages(base, overlay image.Image) {
	s.base.setSource(base)
	s.overlay.setSource(overlay)
	s.bumpVersion()
	s.tracker.Reset()
	s.Refresh()
}

// SetTransform applies a display transform to both images. The split position is kept.
func (s *Slider) SetTransform(fn Transform) {
	s.base.setTransform(fn)
	s.overlay.setTransform(fn)
	s.bumpVersion()
	s.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (s *Slider) CreateRenderer() fyne.WidgetRenderer {
	return newSliderRenderer(s)
}

// MouseDown starts a drag on primary press.
func (s *Slider) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		s.tracker.Begin()
	}
}

// MouseUp publishes the release to the window.
func (s *Slider) MouseUp(ev *desktop.MouseEvent) {
	s.hub.Dispatch(pointer.MouseEvent(pointer.Up, ev.AbsolutePosition.X, ev.AbsolutePosition.Y))
}

// Dragged publishes drag motion to the window. Drags started on the slider keep arriving
// here after the pointer leaves it.
func (s *Slider) Dragged(ev *fyne.DragEvent) {
	s.hub.Dispatch(pointer.MouseEvent(pointer.Move, ev.AbsolutePosition.X, ev.AbsolutePosition.Y))
}

// DragEnd publishes the end of the drag as a release.
func (s *Slider) DragEnd() {
	s.hub.Dispatch(pointer.Event{Kind: pointer.Up, Source: pointer.Mouse})
}

// TouchDown starts a drag.
func (s *Slider) TouchDown(*mobile.TouchEvent) {
	s.tracker.Begin()
}

// TouchUp publishes the touch end to the window.
func (s *Slider) TouchUp(ev *mobile.TouchEvent) {
	s.hub.Dispatch(pointer.TouchEvent(pointer.Up, pointer.Point{X: ev.AbsolutePosition.X, Y: ev.AbsolutePosition.Y}))
}

// TouchCancel publishes an aborted touch.
func (s *Slider) TouchCancel(ev *mobile.TouchEvent) {
	s.hub.Dispatch(pointer.TouchEvent(pointer.Cancel, pointer.Point{X: ev.AbsolutePosition.X, Y: ev.AbsolutePosition.Y}))
}

// Cursor implements desktop.Cursorable.
func (s *Slider) Cursor() desktop.Cursor {
	return desktop.HResizeCursor
}

func (s *Slider) horizontalBounds() (float32, float32) {
	if s.bounds != nil {
		return s.bounds()
	}
	var left float32
	if app := fyne.CurrentApp(); app != nil {
		left = app.Driver().AbsolutePositionForObject(s).X
	}
	return left, s.Size().Width
}

// measure records the laid out size. It runs on every layout pass.
func (s *Slider) measure(size fyne.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.measured = size
}

// overlayPixelWidth converts the measured width to pixels using the pixel height the
// canvas asked for, which carries the current scale.
func (s *Slider) overlayPixelWidth(pixelHeight int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.measured.Height <= 0 {
		return 0
	}
	return int(float64(s.measured.Width)*float64(pixelHeight)/float64(s.measured.Height) + 0.5)
}

func (s *Slider) bumpVersion() {
	s.mu.Lock()
	s.version++
	s.mu.Unlock()
}

func (s *Slider) currentVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
