package lightbox

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window and game loop started by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	Debug   bool
}

// Run opens a window of cfg.Width x cfg.Height and drives scene until the
// window closes or the scene's update func returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 390, 844
	}
	if cfg.Debug {
		scene.SetDebugMode(true)
	}
	if cfg.ShowFPS {
		scene.Root().AddChild(NewFPSWidget())
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	scene.logger.Info().Str("title", cfg.Title).Int("width", cfg.Width).Int("height", cfg.Height).Msg("starting")
	return ebiten.RunGame(&game{scene: scene, w: cfg.Width, h: cfg.Height})
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	w, h  int
}

func (g *game) Update() error {
	g.scene.Update()
	if g.scene.updateFunc != nil {
		return g.scene.updateFunc()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.w, g.h
}
