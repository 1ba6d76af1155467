// Command sandsim opens an interactive falling-sand window.
//
// Left mouse button pours sand into the active layer. SPACE cycles the
// active layer, 0-9 select one directly, C clears it, R refills it with
// random sand and Esc quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/sandsim"
	"github.com/gogpu/sandsim/gpu"
	"github.com/gogpu/sandsim/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON config file")
		width      = flag.Int("width", 0, "grid width in cells (overrides config)")
		height     = flag.Int("height", 0, "grid height in cells (overrides config)")
		layers     = flag.Int("layers", 0, "number of layers (overrides config)")
		kernel     = flag.String("kernel", "", "kernel name: "+fmt.Sprint(sandsim.AvailableKernels()))
		boundary   = flag.String("boundary", "", "edge policy: clamp or wrap")
		pixelSize  = flag.Int("pixel", 0, "screen pixels per cell (overrides config)")
		seed       = flag.Uint64("seed", 0, "random seed (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		sandsim.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	overrideInt(&cfg.Width, *width)
	overrideInt(&cfg.Height, *height)
	overrideInt(&cfg.Layers, *layers)
	overrideInt(&cfg.PixelSize, *pixelSize)
	if *kernel != "" {
		cfg.Kernel = *kernel
	}
	if *boundary != "" {
		cfg.Boundary = *boundary
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	sim, err := newSimulation(cfg)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}
	defer func() {
		_ = sim.Close()
	}()

	game := newGame(sim, cfg)

	ebiten.SetWindowSize(cfg.Width*cfg.PixelSize, cfg.Height*cfg.PixelSize)
	ebiten.SetWindowTitle(game.title())
	ebiten.SetTPS(cfg.TPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

func overrideInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// newSimulation builds the simulation described by cfg. The GPU kernel is
// created directly so the configured fence timeout applies.
func newSimulation(cfg *config.Config) (*sandsim.Simulation, error) {
	opts := cfg.SimulationOptions()
	var k sandsim.Kernel
	if cfg.Kernel == sandsim.KernelGPU {
		var err error
		k, err = gpu.NewKernel(cfg.KernelConfig(), nil, cfg.GetFenceTimeout())
		if err != nil {
			return nil, err
		}
		opts = append(opts, sandsim.WithKernelInstance(k))
	}

	sim, err := sandsim.New(cfg.Width, cfg.Height, opts...)
	if err != nil {
		if k != nil {
			_ = k.Close()
		}
		return nil, err
	}
	return sim, nil
}
