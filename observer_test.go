package medusa

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recorder collects observer batches.
type recorder struct {
	batches [][]IntersectionEntry
}

func (r *recorder) cb(entries []IntersectionEntry, _ Detector) {
	r.batches = append(r.batches, entries)
}

func (r *recorder) take() []IntersectionEntry {
	var all []IntersectionEntry
	for _, b := range r.batches {
		all = append(all, b...)
	}
	r.batches = nil
	return all
}

// newTestScene returns a scene with one 100x100 camera whose visible bounds
// are (0, 0, 100, 100).
func newTestScene() (*Scene, *Camera) {
	s := NewScene()
	cam := s.NewCamera(Rect{Width: 100, Height: 100})
	return s, cam
}

func mustObserver(t *testing.T, s *Scene, r *recorder, opts DetectorOptions) *IntersectionObserver {
	t.Helper()
	o, err := s.NewIntersectionObserver(r.cb, opts)
	require.NoError(t, err)
	return o
}

func TestObserverReportsInitialState(t *testing.T) {
	s, _ := newTestScene()
	visible := NewBox("visible", 10, 10, 20, 20)
	hidden := NewBox("away", 500, 500, 20, 20)
	s.Root().AddChild(visible)
	s.Root().AddChild(hidden)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{})
	o.Observe(visible)
	o.Observe(hidden)

	require.NoError(t, s.Update())
	entries := r.take()
	require.Len(t, entries, 2)

	assert.Same(t, visible, entries[0].Target)
	assert.True(t, entries[0].IsIntersecting)
	assert.Equal(t, 1.0, entries[0].IntersectionRatio)
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 20, Height: 20}, entries[0].BoundingRect)
	assert.Equal(t, Rect{Width: 100, Height: 100}, entries[0].RootBounds)
	assert.Equal(t, uint64(1), entries[0].Time)

	assert.Same(t, hidden, entries[1].Target)
	assert.False(t, entries[1].IsIntersecting)
	assert.Equal(t, 0.0, entries[1].IntersectionRatio)
	assert.Equal(t, Rect{}, entries[1].IntersectionRect)

	// Nothing changed.
	require.NoError(t, s.Update())
	assert.Empty(t, r.take())
}

func TestObserverReportsTransitions(t *testing.T) {
	s, _ := newTestScene()
	box := NewBox("box", 10, 10, 20, 20)
	s.Root().AddChild(box)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{})
	o.Observe(box)
	require.NoError(t, s.Update())
	r.take()

	box.SetPosition(300, 10)
	require.NoError(t, s.Update())
	entries := r.take()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsIntersecting)

	box.SetPosition(50, 50)
	require.NoError(t, s.Update())
	entries = r.take()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsIntersecting)
}

func TestObserverPartialRatio(t *testing.T) {
	s, _ := newTestScene()
	box := NewBox("box", 90, 0, 20, 10)
	s.Root().AddChild(box)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{Thresholds: []float64{0, 0.5, 1}})
	o.Observe(box)
	require.NoError(t, s.Update())

	entries := r.take()
	require.Len(t, entries, 1)
	assert.InDelta(t, 0.5, entries[0].IntersectionRatio, 1e-9)
	assert.Equal(t, Rect{X: 90, Y: 0, Width: 10, Height: 10}, entries[0].IntersectionRect)
}

func TestObserverThresholdCrossing(t *testing.T) {
	s, _ := newTestScene()
	// 40 wide; x=90 shows 10 (0.25), x=70 shows 30 (0.75), x=68 shows 32 (0.8).
	box := NewBox("box", 90, 0, 40, 10)
	s.Root().AddChild(box)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{Thresholds: []float64{0.5}})
	o.Observe(box)
	require.NoError(t, s.Update())
	require.Len(t, r.take(), 1)

	box.SetPosition(70, 0)
	require.NoError(t, s.Update())
	entries := r.take()
	require.Len(t, entries, 1)
	assert.InDelta(t, 0.75, entries[0].IntersectionRatio, 1e-9)

	box.SetPosition(68, 0)
	require.NoError(t, s.Update())
	assert.Empty(t, r.take())

	box.SetPosition(90, 0)
	require.NoError(t, s.Update())
	entries = r.take()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsIntersecting)
}

func TestObserverEdgeAdjacentIntersects(t *testing.T) {
	s, _ := newTestScene()
	box := NewBox("box", 100, 0, 10, 10)
	s.Root().AddChild(box)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{})
	o.Observe(box)
	require.NoError(t, s.Update())

	entries := r.take()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsIntersecting)
	assert.Equal(t, 0.0, entries[0].IntersectionRatio)
}

func TestObserverZeroSizeNode(t *testing.T) {
	s, _ := newTestScene()
	point := NewNode("point")
	point.SetPosition(50, 50)
	s.Root().AddChild(point)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{Thresholds: []float64{1}})
	o.Observe(point)
	require.NoError(t, s.Update())

	entries := r.take()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsIntersecting)
	assert.Equal(t, 1.0, entries[0].IntersectionRatio)
}

func TestObserverHiddenNodes(t *testing.T) {
	s, _ := newTestScene()
	parent := NewContainer("parent")
	child := NewBox("child", 10, 10, 10, 10)
	parent.AddChild(child)
	s.Root().AddChild(parent)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{})
	o.Observe(child)
	require.NoError(t, s.Update())
	require.True(t, r.take()[0].IsIntersecting)

	parent.Visible = false
	require.NoError(t, s.Update())
	entries := r.take()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsIntersecting)

	parent.Visible = true
	require.NoError(t, s.Update())
	assert.True(t, r.take()[0].IsIntersecting)
}

func TestObserverDetachedAndDisposed(t *testing.T) {
	s, _ := newTestScene()
	a := NewBox("a", 10, 10, 10, 10)
	b := NewBox("b", 10, 10, 10, 10)
	s.Root().AddChild(a)
	s.Root().AddChild(b)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{})
	o.Observe(a)
	o.Observe(b)
	require.NoError(t, s.Update())
	r.take()

	a.RemoveFromParent()
	b.Dispose()
	require.NoError(t, s.Update())
	entries := r.take()
	require.Len(t, entries, 2)
	assert.False(t, entries[0].IsIntersecting)
	assert.False(t, entries[1].IsIntersecting)
	assert.Equal(t, Rect{}, entries[1].BoundingRect)
}

func TestObserverRootMargin(t *testing.T) {
	tests := []struct {
		name   string
		margin string
		zoom   float64
		box    Rect
		want   bool
	}{
		{"grown px", "10px", 1, Rect{X: 105, Y: 0, Width: 5, Height: 5}, true},
		{"no margin", "", 1, Rect{X: 105, Y: 0, Width: 5, Height: 5}, false},
		{"px scaled by zoom", "10px", 2, Rect{X: 78, Y: 50, Width: 5, Height: 5}, true},
		{"shrunk percent", "-10%", 1, Rect{X: 0, Y: 0, Width: 5, Height: 5}, false},
		{"bottom only", "0px 0px 50px", 1, Rect{X: 10, Y: 140, Width: 5, Height: 5}, true},
		{"bottom only misses right", "0px 0px 50px", 1, Rect{X: 120, Y: 10, Width: 5, Height: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cam := newTestScene()
			cam.Zoom = tt.zoom
			cam.MarkDirty()
			box := NewBox("box", tt.box.X, tt.box.Y, tt.box.Width, tt.box.Height)
			s.Root().AddChild(box)

			r := &recorder{}
			o := mustObserver(t, s, r, DetectorOptions{RootMargin: tt.margin})
			o.Observe(box)
			require.NoError(t, s.Update())

			entries := r.take()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].IsIntersecting)
		})
	}
}

func TestObserverExplicitRoot(t *testing.T) {
	s, _ := newTestScene()
	second := s.NewCamera(Rect{Width: 100, Height: 100})
	second.SetPosition(1050, 50)
	box := NewBox("box", 1010, 10, 10, 10)
	s.Root().AddChild(box)

	def := &recorder{}
	mustObserver(t, s, def, DetectorOptions{}).Observe(box)
	explicit := &recorder{}
	mustObserver(t, s, explicit, DetectorOptions{Root: second}).Observe(box)

	require.NoError(t, s.Update())
	assert.False(t, def.take()[0].IsIntersecting)
	assert.True(t, explicit.take()[0].IsIntersecting)
}

func TestObserverViewportFallback(t *testing.T) {
	s := NewScene()
	box := NewBox("box", 10, 10, 10, 10)
	s.Root().AddChild(box)

	r := &recorder{}
	mustObserver(t, s, r, DetectorOptions{}).Observe(box)
	require.NoError(t, s.Update())
	entries := r.take()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsIntersecting)

	s.Viewport = Rect{Width: 50, Height: 50}
	require.NoError(t, s.Update())
	entries = r.take()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsIntersecting)
	assert.Equal(t, s.Viewport, entries[0].RootBounds)
}

func TestObserverObserveUnobserveDisconnect(t *testing.T) {
	s, _ := newTestScene()
	a := NewBox("a", 0, 0, 10, 10)
	b := NewBox("b", 0, 0, 10, 10)
	s.Root().AddChild(a)
	s.Root().AddChild(b)

	r := &recorder{}
	o := mustObserver(t, s, r, DetectorOptions{})
	assert.False(t, o.Connected())
	assert.Empty(t, s.Observers())

	o.Observe(a)
	o.Observe(a)
	o.Observe(nil)
	assert.Equal(t, []*Node{a}, o.Observed())
	assert.True(t, o.Connected())
	assert.Len(t, s.Observers(), 1)

	o.Observe(b)
	o.Unobserve(a)
	require.NoError(t, s.Update())
	entries := r.take()
	require.Len(t, entries, 1)
	assert.Same(t, b, entries[0].Target)

	o.Disconnect()
	assert.False(t, o.Connected())
	assert.Empty(t, o.Observed())
	assert.Empty(t, s.Observers())
	b.SetPosition(500, 500)
	require.NoError(t, s.Update())
	assert.Empty(t, r.take())

	// Reusable after Disconnect; the first update reports again.
	o.Observe(b)
	require.NoError(t, s.Update())
	entries = r.take()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsIntersecting)
}

func TestObserverCreatedDuringDelivery(t *testing.T) {
	s, _ := newTestScene()
	box := NewBox("box", 0, 0, 10, 10)
	s.Root().AddChild(box)

	late := &recorder{}
	var created *IntersectionObserver
	o, err := s.NewIntersectionObserver(func([]IntersectionEntry, Detector) {
		if created == nil {
			created = mustObserver(t, s, late, DetectorOptions{})
			created.Observe(box)
		}
	}, DetectorOptions{})
	require.NoError(t, err)
	o.Observe(box)

	require.NoError(t, s.Update())
	require.NotNil(t, created)
	assert.Empty(t, late.take())

	require.NoError(t, s.Update())
	assert.Len(t, late.take(), 1)
}

func TestObserverDisconnectDuringDelivery(t *testing.T) {
	s, _ := newTestScene()
	box := NewBox("box", 0, 0, 10, 10)
	s.Root().AddChild(box)

	second := &recorder{}
	o2 := mustObserver(t, s, second, DetectorOptions{})
	first, err := s.NewIntersectionObserver(func([]IntersectionEntry, Detector) {
		o2.Disconnect()
	}, DetectorOptions{})
	require.NoError(t, err)

	first.Observe(box)
	o2.Observe(box)
	require.NoError(t, s.Update())
	assert.Empty(t, second.take())
}

func TestNewIntersectionObserverBadMargin(t *testing.T) {
	s := NewScene()
	_, err := s.NewIntersectionObserver(nil, DetectorOptions{RootMargin: "10"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMargin))
}

func TestNewDetectorIgnoresBadMargin(t *testing.T) {
	s := NewScene()
	core, logs := observer.New(zapcore.WarnLevel)
	s.SetLogger(zap.New(core))

	d := s.NewDetector(nil, DetectorOptions{RootMargin: "1px 2px 3px 4px 5px", Thresholds: []float64{0.5}})
	require.NotNil(t, d)
	o := d.(*IntersectionObserver)
	assert.Equal(t, []float64{0.5}, o.Thresholds())

	warns := logs.FilterMessage("root margin ignored").All()
	require.Len(t, warns, 1)
	assert.Equal(t, "scene", warns[0].LoggerName)
}

func TestObserverCameraScroll(t *testing.T) {
	s, cam := newTestScene()
	box := NewBox("box", 300, 40, 20, 20)
	s.Root().AddChild(box)

	r := &recorder{}
	mustObserver(t, s, r, DetectorOptions{Thresholds: []float64{1}}).Observe(box)
	require.NoError(t, s.Update())
	require.False(t, r.take()[0].IsIntersecting)

	cam.ScrollTo(310, 50, 0.5, ease.InOutQuad)
	for i := 0; i < 120 && cam.Scrolling(); i++ {
		require.NoError(t, s.Update())
	}
	require.False(t, cam.Scrolling())

	entries := r.take()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.True(t, last.IsIntersecting)
	assert.Equal(t, 1.0, last.IntersectionRatio)
}

func TestSceneWithManager(t *testing.T) {
	s, cam := newTestScene()
	list := NewContainer("list")
	s.Root().AddChild(list)
	var snakes []*Node
	for i := range 5 {
		n := NewBox(DefaultSelector, 0, float64(i)*120, 50, 50)
		list.AddChild(n)
		snakes = append(snakes, n)
	}

	var seen []string
	m, err := New(s, Options{Targets: []TargetConfig{{
		ID:        "snakes",
		Container: list,
		Selector:  DefaultSelector,
		Mode:      ModeOnce,
		Callback: func(e IntersectionEntry, _ Detector) {
			seen = append(seen, e.Target.PathFrom(list))
		},
	}}})
	require.NoError(t, err)

	var events []Event
	list.Events().OnIntersection(func(ev Event) { events = append(events, ev) })

	require.NoError(t, s.Update())
	tg, _ := m.Target("snakes")
	// Only the first snake fits the 100x100 camera.
	assert.Equal(t, 4, tg.Len())
	assert.Len(t, events, 5)
	assert.Len(t, seen, 1)

	// Walk the camera down the list.
	for i := 1; i < 5; i++ {
		cam.SetPosition(50, float64(i)*120+25)
		require.NoError(t, s.Update())
	}
	assert.Equal(t, StateEmpty, tg.State())
	assert.Equal(t, 0, m.Len())
	assert.Len(t, seen, 5)
	assert.Empty(t, s.Observers())
	for _, n := range snakes {
		_, ok := m.Identity(n)
		assert.True(t, ok)
	}
}
