package medusa

import (
	"slices"

	"go.uber.org/zap"
)

// IntersectionEntry describes one element's intersection state at the time
// it changed.
type IntersectionEntry struct {
	Target *Node
	// Time is the scene frame the entry was computed in.
	Time uint64

	IsIntersecting    bool
	IntersectionRatio float64

	BoundingRect     Rect
	IntersectionRect Rect
	RootBounds       Rect
}

// Detector is a live intersection-detection instance bound to one
// configuration.
type Detector interface {
	Observe(n *Node)
	Unobserve(n *Node)
	Disconnect()
}

// DetectorCallback receives one batch of entries, in observation order, and
// the detector that produced them.
type DetectorCallback func(entries []IntersectionEntry, d Detector)

// DetectorOptions configures a detector.
type DetectorOptions struct {
	// Root is the camera whose visible bounds are tested against. Nil uses
	// the scene's first camera, or its Viewport when it has none.
	Root *Camera
	// RootMargin grows (or, negative, shrinks) the root bounds. CSS margin
	// syntax: one to four lengths in px or %.
	RootMargin string
	// Thresholds are the intersection ratios at which entries are reported.
	Thresholds []float64
}

// DetectorFactory creates detectors.
type DetectorFactory interface {
	NewDetector(cb DetectorCallback, opts DetectorOptions) Detector
}

type observation struct {
	node             *Node
	prevIndex        int
	prevIntersecting bool
}

// IntersectionObserver is the scene's Detector. On every Scene.Update it
// computes the intersection of each observed node's world bounds with the
// root bounds and reports the nodes whose threshold index or intersecting
// flag changed since the previous update. A newly observed node is always
// reported on the next update.
type IntersectionObserver struct {
	scene      *Scene
	cb         DetectorCallback
	root       *Camera
	margin     rootMargin
	thresholds []float64
	targets    []observation
	connected  bool
}

// NewIntersectionObserver creates an observer driven by this scene. It
// fails only on a malformed root margin.
func (s *Scene) NewIntersectionObserver(cb DetectorCallback, opts DetectorOptions) (*IntersectionObserver, error) {
	m, err := parseRootMargin(opts.RootMargin)
	if err != nil {
		return nil, err
	}
	return &IntersectionObserver{
		scene:      s,
		cb:         cb,
		root:       opts.Root,
		margin:     m,
		thresholds: normalizeThresholds(opts.Thresholds),
	}, nil
}

// NewDetector implements DetectorFactory. A malformed root margin is logged
// and replaced by the zero margin.
func (s *Scene) NewDetector(cb DetectorCallback, opts DetectorOptions) Detector {
	o, err := s.NewIntersectionObserver(cb, opts)
	if err != nil {
		s.logger.Warn("root margin ignored", zap.Error(err))
		opts.RootMargin = ""
		o, _ = s.NewIntersectionObserver(cb, opts)
	}
	return o
}

// Observe starts reporting n. Observing a node twice is a no-op.
func (o *IntersectionObserver) Observe(n *Node) {
	if n == nil || o.indexOf(n) >= 0 {
		return
	}
	o.targets = append(o.targets, observation{node: n, prevIndex: -1})
	if !o.connected {
		o.connected = true
		o.scene.observers = append(o.scene.observers, o)
	}
}

// Unobserve stops reporting n.
func (o *IntersectionObserver) Unobserve(n *Node) {
	if i := o.indexOf(n); i >= 0 {
		o.targets = slices.Delete(o.targets, i, i+1)
	}
}

// Disconnect stops reporting every node and detaches the observer from the
// scene. The observer may be reused by calling Observe again.
func (o *IntersectionObserver) Disconnect() {
	clear(o.targets)
	o.targets = o.targets[:0]
	if !o.connected {
		return
	}
	o.connected = false
	if i := slices.Index(o.scene.observers, o); i >= 0 {
		o.scene.observers = slices.Delete(o.scene.observers, i, i+1)
	}
}

// Observed returns the nodes being reported, in observation order.
func (o *IntersectionObserver) Observed() []*Node {
	out := make([]*Node, len(o.targets))
	for i := range o.targets {
		out[i] = o.targets[i].node
	}
	return out
}

// Thresholds returns the normalized threshold set.
func (o *IntersectionObserver) Thresholds() []float64 {
	return slices.Clone(o.thresholds)
}

// Connected reports whether the observer is attached to its scene.
func (o *IntersectionObserver) Connected() bool {
	return o.connected
}

func (o *IntersectionObserver) indexOf(n *Node) int {
	for i := range o.targets {
		if o.targets[i].node == n {
			return i
		}
	}
	return -1
}

// rootBounds returns the world-space root rectangle with the margin applied
// and whether a usable root exists.
func (o *IntersectionObserver) rootBounds() (Rect, bool) {
	cam := o.root
	if cam == nil && len(o.scene.cameras) > 0 {
		cam = o.scene.cameras[0]
	}
	if cam != nil {
		return o.margin.apply(cam.VisibleBounds(), cam.Zoom), true
	}
	vp := o.scene.Viewport
	if vp.Width == 0 && vp.Height == 0 {
		return Rect{}, false
	}
	return o.margin.apply(vp, 1), true
}

// measure computes the current entry for n.
func (o *IntersectionObserver) measure(n *Node, root Rect, hasRoot bool, frame uint64) IntersectionEntry {
	e := IntersectionEntry{Target: n, Time: frame, RootBounds: root}
	if n.IsDisposed() {
		return e
	}
	e.BoundingRect = n.WorldBounds()
	if !hasRoot || !o.scene.contains(n) || !n.effectivelyVisible() {
		return e
	}
	if !e.BoundingRect.Intersects(root) {
		return e
	}
	e.IsIntersecting = true
	e.IntersectionRect = e.BoundingRect.Intersection(root)
	if area := e.BoundingRect.Area(); area > 0 {
		e.IntersectionRatio = min(e.IntersectionRect.Area()/area, 1)
	} else {
		e.IntersectionRatio = 1
	}
	return e
}

// collect computes entries for every observed node whose state changed.
func (o *IntersectionObserver) collect(frame uint64) []IntersectionEntry {
	if len(o.targets) == 0 {
		return nil
	}
	root, hasRoot := o.rootBounds()
	var entries []IntersectionEntry
	for i := range o.targets {
		obs := &o.targets[i]
		e := o.measure(obs.node, root, hasRoot, frame)
		idx := thresholdIndex(o.thresholds, e.IntersectionRatio)
		if idx == obs.prevIndex && e.IsIntersecting == obs.prevIntersecting {
			continue
		}
		obs.prevIndex = idx
		obs.prevIntersecting = e.IsIntersecting
		entries = append(entries, e)
	}
	return entries
}
