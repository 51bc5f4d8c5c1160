// Package compare implements a before/after comparison slider: two images stacked in
// one box, the upper one clipped at a split position that follows horizontal drags.
package compare

import (
	"math"
	"sync"

	"github.com/dixieflatline76/Realist/pkg/pointer"
	"github.com/dixieflatline76/Realist/util"
	"github.com/dixieflatline76/Realist/util/log"
)

// InitialPosition is the split position of a freshly supplied image pair.
const InitialPosition = 50.0

// Bounds reports the horizontal extent of the tracked area in window coordinates.
type Bounds func() (left, width float32)

// SplitPosition converts a horizontal window coordinate into a split percentage for an
// area starting at left with the given width. The coordinate is clamped to the area
// before dividing, so the result is always within [0, 100]. It reports false when the
// area has no width yet.
func SplitPosition(x, left, width float64) (float64, bool) {
	if !(width > 0) {
		return 0, false
	}
	offset := math.Max(0, math.Min(x-left, width))
	return offset / width * 100, true
}

// Tracker owns the split position and the drag gesture that moves it. Presses start a
// drag locally; motion and releases come from a window-wide pointer.Hub so a gesture
// that leaves the widget keeps working and ends wherever it is released.
type Tracker struct {
	bounds   Bounds
	onChange func(position float64)

	mu       sync.Mutex
	position float64
	dragging *util.SafeFlag

	moveSub *pointer.Subscription
	upSub   *pointer.Subscription
}

// NewTracker creates an idle Tracker at the initial position. onChange, if set, is called
// after every position change.
func NewTracker(bounds Bounds, onChange func(position float64)) *Tracker {
	return &Tracker{
		bounds:   bounds,
		onChange: onChange,
		position: InitialPosition,
		dragging: util.NewSafeBool(),
	}
}

// Attach subscribes the tracker to motion and releases on hub. The handlers are
// registered once and read the drag flag when they run. Attaching an attached tracker
// does nothing.
func (t *Tracker) Attach(hub *pointer.Hub) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.moveSub != nil {
		return
	}
	t.moveSub = hub.On(pointer.Move, t.handleMove)
	t.upSub = hub.On(pointer.Up, t.handleUp)
}

// Detach releases the hub subscriptions and abandons any drag in progress. It is safe to
// call more than once.
func (t *Tracker) Detach() {
	t.mu.Lock()
	moveSub, upSub := t.moveSub, t.upSub
	t.moveSub, t.upSub = nil, nil
	t.mu.Unlock()

	moveSub.Close()
	upSub.Close()
	t.dragging.Set(false)
}

// Attached reports whether the tracker currently holds hub subscriptions.
func (t *Tracker) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.moveSub != nil
}

// Begin starts a drag. Call it for a primary press or touch start inside the widget.
func (t *Tracker) Begin() {
	if !t.dragging.Swap(true) {
		log.Debugf("compare: drag started at %.1f%%", t.Position())
	}
}

// Dragging reports whether a drag is in progress.
func (t *Tracker) Dragging() bool {
	return t.dragging.Value()
}

// Position returns the split position in percent.
func (t *Tracker) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// Reset returns to the initial position and ends any drag.
func (t *Tracker) Reset() {
	t.dragging.Set(false)
	t.setPosition(InitialPosition)
}

func (t *Tracker) handleMove(ev pointer.Event) {
	if !t.dragging.Value() {
		return
	}
	x, ok := ev.ClientX()
	if !ok {
		return
	}
	left, width := t.bounds()
	position, ok := SplitPosition(float64(x), float64(left), float64(width))
	if !ok {
		return
	}
	t.setPosition(position)
}

func (t *Tracker) handleUp(pointer.Event) {
	if t.dragging.Swap(false) {
		log.Debugf("compare: drag ended at %.1f%%", t.Position())
	}
}

func (t *Tracker) setPosition(position float64) {
	t.mu.Lock()
	changed := t.position != position
	t.position = position
	t.mu.Unlock()

	if changed && t.onChange != nil {
		t.onChange(position)
	}
}
