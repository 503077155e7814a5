package medusa

import (
	"slices"

	"go.uber.org/zap"
)

// Callback is invoked for every entry reporting a node that became (or
// stayed) intersecting, with the detector that produced it.
type Callback func(entry IntersectionEntry, d Detector)

// TargetConfig describes one target.
type TargetConfig struct {
	// ID is required and unique within a Manager.
	ID string
	// Container scopes selector lookup and receives the target's events.
	// Nil means the host root.
	Container *Node

	// Nodes is an explicit element list. A non-nil slice takes precedence
	// over Selector, even when empty.
	Nodes []*Node
	// Selector is resolved against Container by the manager's Resolver.
	Selector string

	// Threshold is the set of intersection ratios to report at. Empty means
	// ThresholdFull. Ignored in ModeByPixels.
	Threshold []float64
	// Offsets is the root margin, in CSS margin syntax.
	Offsets string
	// Root is the camera to test against; nil means the detector default.
	Root *Camera

	// EmitGlobal sends events to the manager's global dispatcher instead of
	// the container's emitter.
	EmitGlobal bool
	Callback   Callback
	Mode       Mode
}

// Target is a named group of observed nodes sharing one detector.
type Target struct {
	id         string
	container  *Node
	root       *Camera
	rootMargin string
	thresholds []float64
	mode       Mode
	emitGlobal bool
	callback   Callback

	detector Detector
	elements []*Node
	state    TargetState

	m *Manager
}

// ID returns the target id.
func (t *Target) ID() string { return t.id }

// Container returns the node events are dispatched to.
func (t *Target) Container() *Node { return t.container }

// Mode returns the trigger mode.
func (t *Target) Mode() Mode { return t.mode }

// EmitGlobal reports whether events go to the global dispatcher.
func (t *Target) EmitGlobal() bool { return t.emitGlobal }

// RootMargin returns the configured root margin.
func (t *Target) RootMargin() string { return t.rootMargin }

// Thresholds returns a copy of the thresholds the detector is created with.
func (t *Target) Thresholds() []float64 { return slices.Clone(t.thresholds) }

// Detector returns the live detector, or nil when no node is observed.
func (t *Target) Detector() Detector { return t.detector }

// State returns the lifecycle state.
func (t *Target) State() TargetState { return t.state }

// Len returns the number of observed nodes.
func (t *Target) Len() int { return len(t.elements) }

// Elements returns the observed nodes in insertion order.
func (t *Target) Elements() []*Node { return slices.Clone(t.elements) }

// indexOf finds n among the observed nodes by identity tag.
func (t *Target) indexOf(n *Node) int {
	tag, ok := t.m.ids.Of(n)
	if !ok {
		return -1
	}
	for i, el := range t.elements {
		if elTag, _ := t.m.ids.Of(el); elTag == tag {
			return i
		}
	}
	return -1
}

// addElements tags and observes nodes, creating the detector on the first
// one. Nodes already observed by t are skipped.
func (t *Target) addElements(nodes []*Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		t.m.ids.Assign(n)
		if t.indexOf(n) >= 0 {
			continue
		}
		if t.detector == nil {
			t.m.attach(t)
		}
		t.detector.Observe(n)
		t.elements = append(t.elements, n)
	}
}

// removeElements stops observing nodes, looked up by identity. The target
// collapses when its last node is removed.
func (t *Target) removeElements(nodes []*Node) {
	for _, n := range nodes {
		if t.state == StateEmpty {
			return
		}
		i := -1
		if n != nil {
			i = t.indexOf(n)
		}
		if i < 0 {
			t.m.warn(&NotObservedWarning{ID: t.id, Node: nodeName(n)})
			continue
		}
		t.drop(i, t.detector)
	}
}

// drop unobserves and removes the element at i, collapsing on empty.
func (t *Target) drop(i int, d Detector) {
	el := t.elements[i]
	if d != nil {
		d.Unobserve(el)
	}
	t.elements = slices.Delete(t.elements, i, i+1)
	if len(t.elements) == 0 {
		t.m.release(t)
	}
}

// onNotification handles one detector batch. entries is never modified and
// every entry is dispatched, even after the target is released partway
// through the batch.
func (t *Target) onNotification(entries []IntersectionEntry, d Detector) {
	for _, e := range entries {
		if t.mode == ModeOnce && e.IsIntersecting {
			if i := t.indexOf(e.Target); i >= 0 {
				t.drop(i, d)
			}
		}

		t.dispatch(Event{
			Name:   EventIntersection,
			ID:     t.id,
			Detail: e,
			IsIn:   e.IsIntersecting,
		})

		if e.IsIntersecting && t.callback != nil {
			t.callback(e, d)
		}
	}
}

func (t *Target) dispatch(ev Event) {
	if t.emitGlobal {
		t.m.global.Dispatch(ev)
		return
	}
	t.container.Events().Dispatch(ev)
}

func nodeName(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name
}

func targetFields(t *Target) []zap.Field {
	return []zap.Field{
		zap.String("target", t.id),
		zap.Stringer("mode", t.mode),
		zap.Int("elements", len(t.elements)),
	}
}
