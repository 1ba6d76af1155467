//go:build nogpu

// Package gpu registers the "gpu" sand kernel. This build was made with the
// nogpu tag, so no kernel is registered.
package gpu
