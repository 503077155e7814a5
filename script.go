package medusa

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/tanema/gween/ease"
)

// ScriptStep is a single camera action in a Script.
type ScriptStep struct {
	Action string  `toml:"action"`
	Camera int     `toml:"camera"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Zoom   float64 `toml:"zoom"`
	// Seconds is the duration of a "scroll".
	Seconds float64 `toml:"seconds"`
	Frames  int     `toml:"frames"`
	// Node selects the node to "follow" (first GlobResolver match under the
	// scene root); X and Y are then the follow offset.
	Node string  `toml:"node"`
	Lerp float64 `toml:"lerp"`
	// Width and Height size the "bounds" rectangle at (X, Y). Both zero
	// clears the bounds.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Script sequences camera moves across frames so visibility changes can be
// reproduced without input. Attach to a Scene via SetScript.
//
// Actions: "move" jumps the camera to (x, y), "scroll" tweens it there over
// seconds and waits for the tween, "zoom" sets the zoom factor, "wait"
// pauses for frames updates. "follow" tracks node with lerp (default 1),
// "unfollow" stops it, and "bounds" limits the camera to a rectangle.
type Script struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	waitCam   *Camera
	done      bool
}

type scriptFile struct {
	Steps []ScriptStep `toml:"steps"`
}

// LoadScript parses a TOML document with a [[steps]] array.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse script")
	}
	return NewScript(f.Steps)
}

// NewScript validates steps and returns a Script ready to attach.
func NewScript(steps []ScriptStep) (*Script, error) {
	if len(steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range steps {
		switch st.Action {
		case "move", "scroll", "zoom", "wait", "unfollow", "bounds":
		case "follow":
			if st.Node == "" {
				return nil, errors.Errorf("parse script: step %d: follow needs a node", i)
			}
			if st.Lerp < 0 || st.Lerp > 1 {
				return nil, errors.Errorf("parse script: step %d: lerp must be in [0, 1]", i)
			}
		default:
			return nil, errors.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "zoom" && st.Zoom <= 0 {
			return nil, errors.Errorf("parse script: step %d: zoom must be positive", i)
		}
	}
	return &Script{steps: steps}, nil
}

// Done reports whether all steps have been executed.
func (r *Script) Done() bool {
	return r.done
}

// step advances the script by one frame. Called from Scene.Update.
func (r *Script) step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCam != nil {
		if r.waitCam.Scrolling() {
			return
		}
		r.waitCam = nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	var cam *Camera
	if st.Camera >= 0 && st.Camera < len(s.cameras) {
		cam = s.cameras[st.Camera]
	}

	switch st.Action {
	case "move":
		if cam != nil {
			cam.SetPosition(st.X, st.Y)
		}
	case "scroll":
		if cam != nil {
			cam.ScrollTo(st.X, st.Y, float32(st.Seconds), ease.Linear)
			r.waitCam = cam
		}
	case "zoom":
		if cam != nil {
			cam.Zoom = st.Zoom
			cam.MarkDirty()
		}
	case "follow":
		if cam != nil {
			nodes, err := GlobResolver{}.Resolve(s.root, st.Node)
			if err == nil && len(nodes) > 0 {
				lerp := st.Lerp
				if lerp == 0 {
					lerp = 1
				}
				cam.Follow(nodes[0], st.X, st.Y, lerp)
			}
		}
	case "unfollow":
		if cam != nil {
			cam.Unfollow()
		}
	case "bounds":
		if cam == nil {
			break
		}
		if st.Width == 0 && st.Height == 0 {
			cam.ClearBounds()
		} else {
			cam.SetBounds(Rect{X: st.X, Y: st.Y, Width: st.Width, Height: st.Height})
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.waitCam == nil {
		r.done = true
	}
}
