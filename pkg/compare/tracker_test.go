package compare

import (
	"testing"

	"github.com/dixieflatline76/Realist/pkg/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedBounds(left, width float32) Bounds {
	return func() (float32, float32) { return left, width }
}

func TestSplitPosition(t *testing.T) {
	tests := []struct {
		name      string
		x, left   float64
		width     float64
		want      float64
		wantValid bool
	}{
		{"left edge", 0, 0, 400, 0, true},
		{"middle", 200, 0, 400, 50, true},
		{"right edge", 400, 0, 400, 100, true},
		{"past right edge", 600, 0, 400, 100, true},
		{"before left edge", -50, 0, 400, 0, true},
		{"offset area", 150, 100, 200, 25, true},
		{"zero width", 10, 0, 0, 0, false},
		{"negative width", 10, 0, -5, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SplitPosition(tt.x, tt.left, tt.width)
			assert.Equal(t, tt.wantValid, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSplitPositionStaysInRange(t *testing.T) {
	for x := -1000.0; x <= 1000; x += 37 {
		p, ok := SplitPosition(x, 120, 333)
		require.True(t, ok)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
}

func TestTrackerStartsCentered(t *testing.T) {
	tr := NewTracker(fixedBounds(0, 400), nil)
	assert.Equal(t, InitialPosition, tr.Position())
	assert.False(t, tr.Dragging())
}

func TestTrackerFollowsDrag(t *testing.T) {
	hub := pointer.NewHub()
	var changes []float64
	tr := NewTracker(fixedBounds(0, 400), func(p float64) { changes = append(changes, p) })
	tr.Attach(hub)
	defer tr.Detach()

	tr.Begin()
	require.True(t, tr.Dragging())

	hub.Dispatch(pointer.MouseEvent(pointer.Move, 100, 10))
	assert.Equal(t, 25.0, tr.Position())
	hub.Dispatch(pointer.TouchEvent(pointer.Move, pointer.Point{X: 300, Y: 10}))
	assert.Equal(t, 75.0, tr.Position())
	hub.Dispatch(pointer.MouseEvent(pointer.Move, 900, 10))
	assert.Equal(t, 100.0, tr.Position())

	hub.Dispatch(pointer.MouseEvent(pointer.Up, 900, 10))
	assert.False(t, tr.Dragging())
	assert.Equal(t, []float64{25, 75, 100}, changes)
}

func TestTrackerIgnoresMovesWhileIdle(t *testing.T) {
	hub := pointer.NewHub()
	tr := NewTracker(fixedBounds(0, 400), nil)
	tr.Attach(hub)
	defer tr.Detach()

	hub.Dispatch(pointer.MouseEvent(pointer.Move, 10, 10))
	assert.Equal(t, InitialPosition, tr.Position())

	tr.Begin()
	hub.Dispatch(pointer.MouseEvent(pointer.Up, 10, 10))
	hub.Dispatch(pointer.MouseEvent(pointer.Move, 10, 10))
	assert.Equal(t, InitialPosition, tr.Position())
}

func TestTrackerCancelEndsDrag(t *testing.T) {
	hub := pointer.NewHub()
	tr := NewTracker(fixedBounds(0, 400), nil)
	tr.Attach(hub)
	defer tr.Detach()

	tr.Begin()
	hub.Dispatch(pointer.TouchEvent(pointer.Cancel))
	assert.False(t, tr.Dragging())
}

func TestTrackerSkipsUnusableMoves(t *testing.T) {
	hub := pointer.NewHub()
	width := float32(0)
	tr := NewTracker(func() (float32, float32) { return 0, width }, nil)
	tr.Attach(hub)
	defer tr.Detach()
	tr.Begin()

	hub.Dispatch(pointer.MouseEvent(pointer.Move, 10, 10))
	assert.Equal(t, InitialPosition, tr.Position(), "zero width")

	width = 400
	hub.Dispatch(pointer.TouchEvent(pointer.Move))
	assert.Equal(t, InitialPosition, tr.Position(), "touch without points")
	assert.True(t, tr.Dragging())

	hub.Dispatch(pointer.MouseEvent(pointer.Move, 40, 10))
	assert.Equal(t, 10.0, tr.Position())
}

func TestTrackerAttachDetachLeavesNoListeners(t *testing.T) {
	hub := pointer.NewHub()
	tr := NewTracker(fixedBounds(0, 400), nil)

	for i := 0; i < 25; i++ {
		tr.Attach(hub)
		tr.Attach(hub)
		assert.Equal(t, 1, hub.Listeners(pointer.Move))
		assert.Equal(t, 1, hub.Listeners(pointer.Up))
		tr.Detach()
		tr.Detach()
	}
	assert.Zero(t, hub.Listeners(pointer.Move))
	assert.Zero(t, hub.Listeners(pointer.Up))
	assert.False(t, tr.Attached())
}

func TestTrackerDoesNotResubscribeOnChange(t *testing.T) {
	hub := pointer.NewHub()
	tr := NewTracker(fixedBounds(0, 400), nil)
	tr.Attach(hub)
	defer tr.Detach()

	tr.Begin()
	for x := float32(0); x <= 400; x += 20 {
		hub.Dispatch(pointer.MouseEvent(pointer.Move, x, 0))
		assert.Equal(t, 1, hub.Listeners(pointer.Move))
		assert.Equal(t, 1, hub.Listeners(pointer.Up))
	}
}

func TestTrackerDetachEndsDrag(t *testing.T) {
	hub := pointer.NewHub()
	tr := NewTracker(fixedBounds(0, 400), nil)
	tr.Attach(hub)
	tr.Begin()
	tr.Detach()

	assert.False(t, tr.Dragging())
	hub.Dispatch(pointer.MouseEvent(pointer.Move, 0, 0))
	assert.Equal(t, InitialPosition, tr.Position())
}

func TestTrackerReset(t *testing.T) {
	hub := pointer.NewHub()
	tr := NewTracker(fixedBounds(0, 400), nil)
	tr.Attach(hub)
	defer tr.Detach()

	tr.Begin()
	hub.Dispatch(pointer.MouseEvent(pointer.Move, 0, 0))
	require.Equal(t, 0.0, tr.Position())

	tr.Reset()
	assert.Equal(t, InitialPosition, tr.Position())
	assert.False(t, tr.Dragging())
}
