// Package config loads the JSON settings shared by the sandsim commands.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/sandsim"
)

// maxFileSize bounds the size of a config file.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config holds the simulation and viewer settings.
// Fields omitted from a JSON file keep their Default values.
type Config struct {
	// Grid
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Layers   int    `json:"layers"`
	Kernel   string `json:"kernel"`   // "" selects the default for this CPU
	Boundary string `json:"boundary"` // "clamp" or "wrap"
	Workers  int    `json:"workers"`  // 0 = GOMAXPROCS
	Seed     uint64 `json:"seed"`     // 0 = random

	// Mutation
	StampRadius      int     `json:"stamp_radius"`
	StampProbability float64 `json:"stamp_probability"`
	Density          float64 `json:"density"`

	// Viewer
	PixelSize  int    `json:"pixel_size"`
	TPS        int    `json:"tps"`
	SandColor  string `json:"sand_color"`  // hex, e.g. "#FFFF00"
	EmptyColor string `json:"empty_color"` // hex, e.g. "#000000"

	// GPU
	FenceTimeout string `json:"fence_timeout"` // duration string like "1s"
}

// Default returns the built-in configuration: a 400x300 single-layer
// grid drawn at 2 pixels per cell.
func Default() *Config {
	return &Config{
		Width:            400,
		Height:           300,
		Layers:           1,
		Boundary:         "clamp",
		StampRadius:      5,
		StampProbability: 1.0,
		Density:          0.3,
		PixelSize:        2,
		TPS:              60,
		SandColor:        "#FFFF00",
		EmptyColor:       "#000000",
		FenceTimeout:     "1s",
	}
}

// Load reads a JSON config file over Default and validates the result.
// The file must have a .json extension and be at most 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("width and height must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Layers <= 0 {
		errs = append(errs, fmt.Errorf("layers must be positive, got %d", c.Layers))
	}
	if _, err := sandsim.ParseBoundary(c.Boundary); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	if c.StampRadius < 0 {
		errs = append(errs, fmt.Errorf("stamp_radius must be non-negative, got %d", c.StampRadius))
	}
	if c.StampProbability < 0 || c.StampProbability > 1 {
		errs = append(errs, fmt.Errorf("stamp_probability must be between 0 and 1, got %f", c.StampProbability))
	}
	if c.Density < 0 || c.Density > 1 {
		errs = append(errs, fmt.Errorf("density must be between 0 and 1, got %f", c.Density))
	}
	if c.PixelSize <= 0 {
		errs = append(errs, fmt.Errorf("pixel_size must be positive, got %d", c.PixelSize))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.TPS))
	}
	if _, err := sandsim.ParsePalette(c.SandColor, c.EmptyColor); err != nil {
		errs = append(errs, err)
	}
	if c.FenceTimeout != "" {
		if d, err := time.ParseDuration(c.FenceTimeout); err != nil {
			errs = append(errs, fmt.Errorf("invalid fence_timeout '%s': %w", c.FenceTimeout, err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("fence_timeout must be positive, got %s", c.FenceTimeout))
		}
	}
	return errors.Join(errs...)
}

// BoundaryPolicy returns the parsed boundary, clamp when invalid.
func (c *Config) BoundaryPolicy() sandsim.Boundary {
	b, _ := sandsim.ParseBoundary(c.Boundary)
	return b
}

// Palette returns the frame colors, DefaultPalette when invalid.
func (c *Config) Palette() sandsim.Palette {
	p, _ := sandsim.ParsePalette(c.SandColor, c.EmptyColor)
	return p
}

// GetFenceTimeout returns the GPU fence timeout, one second by default.
func (c *Config) GetFenceTimeout() time.Duration {
	if c.FenceTimeout == "" {
		return time.Second
	}
	d, err := time.ParseDuration(c.FenceTimeout)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// KernelConfig returns the kernel settings.
func (c *Config) KernelConfig() sandsim.KernelConfig {
	return sandsim.KernelConfig{
		Boundary: c.BoundaryPolicy(),
		Workers:  c.Workers,
	}
}

// SimulationOptions returns the sandsim options for c.
func (c *Config) SimulationOptions() []sandsim.Option {
	return []sandsim.Option{
		sandsim.WithLayers(c.Layers),
		sandsim.WithKernel(c.Kernel),
		sandsim.WithBoundary(c.BoundaryPolicy()),
		sandsim.WithWorkers(c.Workers),
		sandsim.WithStampProbability(c.StampProbability),
		sandsim.WithSeed(c.Seed),
	}
}
