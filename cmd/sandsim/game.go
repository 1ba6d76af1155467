package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/sandsim"
	"github.com/gogpu/sandsim/internal/config"
)

var digitKeys = [...]ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// game implements ebiten.Game: one Step per Update, one blit per Draw.
type game struct {
	sim   *sandsim.Simulation
	cfg   *config.Config
	frame *sandsim.Frame
	cells *ebiten.Image
	layer int
	stale bool // cells needs a full upload
}

func newGame(sim *sandsim.Simulation, cfg *config.Config) *game {
	g := &game{
		sim:   sim,
		cfg:   cfg,
		frame: sandsim.NewFrame(cfg.Width, cfg.Height, cfg.Palette()),
		cells: ebiten.NewImage(cfg.Width, cfg.Height),
		stale: true,
	}
	g.frame.Draw(sim.Grid(), g.layer)
	return g
}

func (g *game) title() string {
	return fmt.Sprintf("sandsim [%s] layer %d/%d", g.sim.Kernel().Name(), g.layer, g.sim.Grid().Layers())
}

func (g *game) selectLayer(layer int) {
	if layer < 0 || layer >= g.sim.Grid().Layers() || layer == g.layer {
		return
	}
	g.layer = layer
	g.frame.Draw(g.sim.Grid(), layer)
	g.stale = true
	ebiten.SetWindowTitle(g.title())
}

func (g *game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.selectLayer((g.layer + 1) % g.sim.Grid().Layers())
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.selectLayer(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.sim.ClearLayer(g.layer)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.RandomizeLayer(g.layer, g.cfg.Density)
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.sim.AddSand(g.layer, mx/g.cfg.PixelSize, my/g.cfg.PixelSize, g.cfg.StampRadius)
	}
	return nil
}

// Update handles input and advances the simulation by one tick.
func (g *game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if _, err := g.sim.Step(context.Background()); err != nil {
		return fmt.Errorf("tick %d: %w", g.sim.Ticks(), err)
	}
	// Rows dirtied in other layers are not shown.
	for l := range g.sim.Grid().Layers() {
		if l != g.layer {
			g.sim.Grid().ClearDirty(l)
		}
	}
	return nil
}

// Draw uploads the dirty rows of the active layer and scales them onto screen.
func (g *game) Draw(screen *ebiten.Image) {
	if g.frame.DrawDirty(g.sim.Grid(), g.layer) > 0 || g.stale {
		g.cells.WritePixels(g.frame.Pix())
		g.stale = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.cfg.PixelSize), float64(g.cfg.PixelSize))
	screen.DrawImage(g.cells, op)
}

// Layout keeps a fixed logical screen of grid size times pixel size.
func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width * g.cfg.PixelSize, g.cfg.Height * g.cfg.PixelSize
}
