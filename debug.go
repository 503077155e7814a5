package medusa

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// debugStats holds per-frame detection metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	detectTime time.Duration
	observers  int
	entries    int
}

// debugLog writes detection stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("detect",
		zap.Uint64("frame", s.frame),
		zap.Duration("took", stats.detectTime),
		zap.Int("observers", stats.observers),
		zap.Int("entries", stats.entries),
	)
}

var (
	debugInColor   = color.RGBA{R: 0x40, G: 0xd0, B: 0x60, A: 0xff}
	debugOutColor  = color.RGBA{R: 0xe0, G: 0x40, B: 0x40, A: 0xff}
	debugRootColor = color.RGBA{R: 0x50, G: 0x90, B: 0xff, A: 0xff}
)

// DrawDebug outlines every observed node as seen through the first camera
// (or the scene viewport): green while intersecting, red otherwise. Root
// bounds, margins included, are drawn in blue.
func (s *Scene) DrawDebug(screen *ebiten.Image) {
	var cam *Camera
	if len(s.cameras) > 0 {
		cam = s.cameras[0]
	}
	toScreen := func(r Rect) (x, y, w, h float32) {
		if cam == nil {
			return float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height)
		}
		x0, y0 := cam.WorldToScreen(r.X, r.Y)
		x1, y1 := cam.WorldToScreen(r.X+r.Width, r.Y+r.Height)
		return float32(min(x0, x1)), float32(min(y0, y1)), float32(math.Abs(x1 - x0)), float32(math.Abs(y1 - y0))
	}

	for _, o := range s.observers {
		if root, ok := o.rootBounds(); ok {
			x, y, w, h := toScreen(root)
			vector.StrokeRect(screen, x, y, w, h, 1, debugRootColor, false)
		}
		for i := range o.targets {
			obs := &o.targets[i]
			if obs.node.IsDisposed() {
				continue
			}
			clr := debugOutColor
			if obs.prevIntersecting {
				clr = debugInColor
			}
			x, y, w, h := toScreen(obs.node.WorldBounds())
			vector.StrokeRect(screen, x, y, w, h, 2, clr, false)
		}
	}
}
