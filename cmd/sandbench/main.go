// Command sandbench times every sand kernel on the same random grid and
// checks that they all reach the same state.
//
// Usage:
//
//	sandbench -ticks 500 -kernel all -png settled.png
//
// The exit status is non-zero when a kernel fails or disagrees with the
// scalar kernel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/sandsim"
	"github.com/gogpu/sandsim/gpu"
	"github.com/gogpu/sandsim/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON config file")
		kernel     = flag.String("kernel", "all", "kernel to run, or all")
		ticks      = flag.Int("ticks", 500, "ticks per kernel")
		seed       = flag.Uint64("seed", 0, "random seed (overrides config)")
		doVerify   = flag.Bool("verify", true, "compare every kernel with the scalar kernel")
		pngPath    = flag.String("png", "", "write the final grid of layer 0 to a PNG file")
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
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *kernel, *ticks, *doVerify, *pngPath); err != nil {
		stop()
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, kernel string, ticks int, doVerify bool, pngPath string) error {
	if ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", ticks)
	}

	names := []string{kernel}
	if kernel == "all" {
		names = sandsim.AvailableKernels()
	} else if !sandsim.IsKernelRegistered(kernel) {
		return fmt.Errorf("%w: %q (available: %v)", sandsim.ErrUnknownKernel, kernel, sandsim.AvailableKernels())
	}

	p := message.NewPrinter(language.English)
	printHost(ctx, p)
	p.Printf("grid %dx%d, %d layers, %s, density %.2f, seed %d, %d ticks\n\n",
		cfg.Width, cfg.Height, cfg.Layers, cfg.BoundaryPolicy(), cfg.Density, cfg.Seed, ticks)

	newKernel := func(name string, cfg *config.Config) (sandsim.Kernel, error) {
		if name == sandsim.KernelGPU {
			return gpu.NewKernel(cfg.KernelConfig(), nil, cfg.GetFenceTimeout())
		}
		return registryKernel(name, cfg)
	}

	var results []*result
	for _, name := range names {
		res, err := runKernel(ctx, name, cfg, ticks, newKernel)
		switch {
		case err == nil:
		case kernel == "all" && name == sandsim.KernelGPU && !errors.Is(err, context.Canceled):
			p.Printf("%-8s  skipped: %v\n", name, err)
			continue
		default:
			return err
		}
		results = append(results, res)
		p.Printf("%-8s  lanes %3d  %10v  %8.1f ticks/s  %15.0f cells/s  %d moving ticks\n",
			res.kernel, res.lanes, res.elapsed.Round(time.Microsecond),
			float64(res.ticks)/res.elapsed.Seconds(), res.cellsPerSecond(), res.moving)
	}

	if len(results) > 0 {
		last := results[len(results)-1].grid
		p.Printf("\nsand grains: %d\n", last.Total())
		if pngPath != "" {
			frame := sandsim.NewFrame(last.Width(), last.Height(), cfg.Palette())
			frame.Draw(last, 0)
			if err := frame.SavePNG(pngPath, cfg.PixelSize); err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
			p.Printf("snapshot saved to %s\n", pngPath)
		}
	}

	if !doVerify {
		return nil
	}
	return verifyResults(ctx, p, cfg, ticks, results, newKernel)
}

func verifyResults(ctx context.Context, p *message.Printer, cfg *config.Config, ticks int, results []*result, newKernel kernelFactory) error {
	idx := slices.IndexFunc(results, func(r *result) bool { return r.kernel == sandsim.KernelScalar })
	var ref *result
	if idx >= 0 {
		ref = results[idx]
	} else {
		var err error
		if ref, err = runKernel(ctx, sandsim.KernelScalar, cfg, ticks, newKernel); err != nil {
			return fmt.Errorf("reference run: %w", err)
		}
	}

	diffs, err := verify(ctx, ref, results)
	if err != nil {
		return err
	}

	var failed []string
	for _, r := range results {
		if n := diffs[r.kernel]; n != 0 {
			p.Printf("%-8s  MISMATCH: %d cells differ from %s\n", r.kernel, n, sandsim.KernelScalar)
			failed = append(failed, r.kernel)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("kernels disagree with %s: %v", sandsim.KernelScalar, failed)
	}
	p.Printf("all %d kernels agree\n", len(results))
	return nil
}

func printHost(ctx context.Context, p *message.Printer) {
	model := "unknown CPU"
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		model = infos[0].ModelName
	}
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		cores = 0
	}
	p.Printf("host: %s, %d logical cores, default kernel %s\n", model, cores, sandsim.DefaultKernelName())
}
