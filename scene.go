package medusa

import (
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Host is what a Manager needs from its environment: the default container
// for targets and a way to create detectors. *Scene is the standard Host.
type Host interface {
	DetectorFactory
	Root() *Node
}

// Scene is the top-level object that owns the node tree, cameras and
// intersection observers. All methods must be called from one goroutine
// (normally the ebiten game loop).
type Scene struct {
	root *Node

	// Viewport is the root area used by observers when the scene has no
	// camera. World and screen coordinates coincide in that case.
	Viewport Rect

	cameras   []*Camera
	observers []*IntersectionObserver
	frame     uint64

	updateFunc func() error
	script     *Script

	logger *zap.Logger
	debug  bool
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{
		root:   NewContainer("root"),
		logger: zap.NewNop(),
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Frame returns the number of completed Update calls.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// SetLogger sets the logger used for diagnostics. Nil restores the no-op logger.
func (s *Scene) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.logger = l.Named("scene")
}

// SetDebugMode enables or disables per-frame detection stats, logged at
// debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetUpdateFunc sets a callback run at the start of every Update, before
// transforms are refreshed.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetScript attaches a Script that is stepped once per Update.
func (s *Scene) SetScript(script *Script) {
	s.script = script
}

// Update refreshes world transforms and cameras, then runs every connected
// intersection observer and delivers its entries. Observers created during
// delivery start reporting on the next Update.
func (s *Scene) Update() error {
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	dt := float32(1.0 / float64(ebiten.TPS()))

	if s.script != nil {
		s.script.step(s)
	}

	updateWorldTransform(s.root, identityTransform, false)
	for _, cam := range s.cameras {
		cam.update(dt)
	}

	s.frame++
	s.detect()
	return nil
}

// detect runs observers from a snapshot so callbacks may connect or
// disconnect observers.
func (s *Scene) detect() {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	delivered := 0
	for _, o := range slices.Clone(s.observers) {
		if !o.connected {
			continue
		}
		entries := o.collect(s.frame)
		if len(entries) == 0 || o.cb == nil {
			continue
		}
		delivered += len(entries)
		o.cb(entries, o)
	}

	if s.debug {
		s.debugLog(debugStats{
			detectTime: time.Since(t0),
			observers:  len(s.observers),
			entries:    delivered,
		})
	}
}

// contains reports whether n is attached to this scene's tree.
func (s *Scene) contains(n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == s.root {
			return true
		}
	}
	return false
}

// NewCamera creates a camera with the given viewport and adds it to the scene.
func (s *Scene) NewCamera(viewport Rect) *Camera {
	cam := newCamera(viewport)
	s.cameras = append(s.cameras, cam)
	return cam
}

// RemoveCamera removes a camera from the scene.
func (s *Scene) RemoveCamera(cam *Camera) {
	if i := slices.Index(s.cameras, cam); i >= 0 {
		s.cameras = slices.Delete(s.cameras, i, i+1)
	}
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// Observers returns the connected observers. The returned slice MUST NOT be mutated.
func (s *Scene) Observers() []*IntersectionObserver {
	return s.observers
}
