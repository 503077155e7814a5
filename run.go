package medusa

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Background fills the screen before the debug overlay is drawn.
	Background color.Color
	// Debug draws observed bounds every frame.
	Debug bool
}

type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.Background != nil {
		screen.Fill(g.cfg.Background)
	}
	if g.cfg.Debug {
		g.scene.DrawDebug(screen)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and drives scene.Update from the ebiten game loop until
// the window closes or an update returns an error. When the scene has no
// camera and no viewport, the viewport is set to the window size.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if len(scene.cameras) == 0 && scene.Viewport == (Rect{}) {
		scene.Viewport = Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{scene: scene, cfg: cfg})
}
