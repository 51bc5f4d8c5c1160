package pointer

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// Surface wraps the content of a window and publishes the pointer input it observes to a
// Hub. Place it at the root of the window so releases and motion outside any tracking
// widget still reach the Hub.
type Surface struct {
	widget.BaseWidget
	hub     *Hub
	content fyne.CanvasObject
}

var (
	_ desktop.Hoverable = (*Surface)(nil)
	_ desktop.Mouseable = (*Surface)(nil)
	_ fyne.Draggable    = (*Surface)(nil)
	_ mobile.Touchable  = (*Surface)(nil)
)

// NewSurface creates a Surface publishing to hub and showing content.
func NewSurface(hub *Hub, content fyne.CanvasObject) *Surface {
	s := &Surface{hub: hub, content: content}
	s.ExtendBaseWidget(s)
	return s
}

// SetContent replaces the wrapped content.
func (s *Surface) SetContent(content fyne.CanvasObject) {
	s.content = content
	s.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	return &surfaceRenderer{surface: s}
}

// MouseIn implements desktop.Hoverable.
func (s *Surface) MouseIn(*desktop.MouseEvent) {}

// MouseMoved publishes hover motion.
func (s *Surface) MouseMoved(ev *desktop.MouseEvent) {
	s.hub.Dispatch(MouseEvent(Move, ev.AbsolutePosition.X, ev.AbsolutePosition.Y))
}

// MouseOut implements desktop.Hoverable.
func (s *Surface) MouseOut() {}

// MouseDown implements desktop.Mouseable. Presses are owned by the widget under the
// pointer, so the Surface only forwards them for observers.
func (s *Surface) MouseDown(ev *desktop.MouseEvent) {
	s.hub.Dispatch(MouseEvent(Down, ev.AbsolutePosition.X, ev.AbsolutePosition.Y))
}

// MouseUp publishes a release.
func (s *Surface) MouseUp(ev *desktop.MouseEvent) {
	s.hub.Dispatch(MouseEvent(Up, ev.AbsolutePosition.X, ev.AbsolutePosition.Y))
}

// Dragged publishes drag motion.
func (s *Surface) Dragged(ev *fyne.DragEvent) {
	s.hub.Dispatch(MouseEvent(Move, ev.AbsolutePosition.X, ev.AbsolutePosition.Y))
}

// DragEnd publishes the end of a drag as a release.
func (s *Surface) DragEnd() {
	s.hub.Dispatch(Event{Kind: Up, Source: Mouse})
}

// TouchDown implements mobile.Touchable.
func (s *Surface) TouchDown(ev *mobile.TouchEvent) {
	s.hub.Dispatch(TouchEvent(Down, Point{X: ev.AbsolutePosition.X, Y: ev.AbsolutePosition.Y}))
}

// TouchUp publishes a touch end.
func (s *Surface) TouchUp(ev *mobile.TouchEvent) {
	s.hub.Dispatch(TouchEvent(Up, Point{X: ev.AbsolutePosition.X, Y: ev.AbsolutePosition.Y}))
}

// TouchCancel publishes an aborted touch.
func (s *Surface) TouchCancel(ev *mobile.TouchEvent) {
	s.hub.Dispatch(TouchEvent(Cancel, Point{X: ev.AbsolutePosition.X, Y: ev.AbsolutePosition.Y}))
}

type surfaceRenderer struct {
	surface *Surface
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	if r.surface.content != nil {
		r.surface.content.Move(fyne.NewPos(0, 0))
		r.surface.content.Resize(size)
	}
}

func (r *surfaceRenderer) MinSize() fyne.Size {
	if r.surface.content == nil {
		return fyne.NewSize(0, 0)
	}
	return r.surface.content.MinSize()
}

func (r *surfaceRenderer) Refresh() {
	r.Layout(r.surface.Size())
	if r.surface.content != nil {
		r.surface.content.Refresh()
	}
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject {
	if r.surface.content == nil {
		return nil
	}
	return []fyne.CanvasObject{r.surface.content}
}

func (r *surfaceRenderer) Destroy() {}
