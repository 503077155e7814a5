package medusa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectIntersects(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"inside", Rect{X: 10, Y: 10, Width: 5, Height: 5}, true},
		{"overlap", Rect{X: 90, Y: 90, Width: 20, Height: 20}, true},
		{"edge", Rect{X: 100, Y: 0, Width: 10, Height: 10}, true},
		{"corner", Rect{X: 100, Y: 100, Width: 10, Height: 10}, true},
		{"apart", Rect{X: 101, Y: 0, Width: 10, Height: 10}, false},
		{"above", Rect{X: 0, Y: -20, Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Intersects(tt.other), tt.name)
		assert.Equal(t, tt.want, tt.other.Intersects(r), tt.name+" (swapped)")
	}
}

func TestRectIntersection(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	assert.Equal(t, Rect{X: 90, Y: 80, Width: 10, Height: 20}, r.Intersection(Rect{X: 90, Y: 80, Width: 50, Height: 50}))
	assert.Equal(t, Rect{X: 100, Y: 0, Width: 0, Height: 10}, r.Intersection(Rect{X: 100, Y: 0, Width: 10, Height: 10}))
	assert.Equal(t, Rect{}, r.Intersection(Rect{X: 200, Y: 0, Width: 10, Height: 10}))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 10, Height: 10}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(20, 20))
	assert.False(t, r.Contains(21, 15))
}

func TestRectInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	assert.Equal(t, Rect{X: -4, Y: -1, Width: 106, Height: 104}, r.Inset(1, 2, 3, 4))
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 80, Height: 80}, r.Inset(-10, -10, -10, -10))
	collapsed := r.Inset(-60, -60, -60, -60)
	assert.Equal(t, 0.0, collapsed.Width)
	assert.Equal(t, 0.0, collapsed.Height)
}

func TestModeText(t *testing.T) {
	for _, m := range []Mode{ModeDefault, ModeOnce, ModeByPixels} {
		text, err := m.MarshalText()
		require.NoError(t, err)
		var back Mode
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, m, back)
	}

	var m Mode = ModeOnce
	require.NoError(t, m.UnmarshalText(nil))
	assert.Equal(t, ModeDefault, m)
	require.NoError(t, m.UnmarshalText([]byte(" ByPixels ")))
	assert.Equal(t, ModeByPixels, m)

	assert.Error(t, m.UnmarshalText([]byte("twice")))
	_, err := Mode(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "unknown", Mode(9).String())
}

func TestTargetStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "detecting", StateDetecting.String())
	assert.Equal(t, "empty", StateEmpty.String())
}
