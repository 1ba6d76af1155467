// Package sandsim provides a falling-sand cellular automaton with
// interchangeable update kernels.
//
// # Overview
//
// A Grid holds one byte per cell (Empty or Sand) in one or more independent
// layers. Each tick moves every grain one row under gravity: straight down
// when the cell below is empty, otherwise down-left, otherwise down-right.
// The bottom row only receives.
//
// # Quick Start
//
//	sim, err := sandsim.New(400, 300)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sim.Close()
//
//	sim.AddSand(0, 200, 20, 5)
//	for range 100 {
//		if _, err := sim.Step(context.Background()); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Kernels
//
// The same rule is implemented by several kernels that produce bit-identical
// grids:
//   - "scalar": per-cell reference
//   - "wide128": 16 cells per lane group (internal/wide.U8x16)
//   - "wide256": 32 cells per lane group (internal/wide.U8x32)
//   - "gpu": WGSL compute shader on wgpu/hal, registered by importing
//     github.com/gogpu/sandsim/gpu
//
// # Update Order
//
// Rows are visited bottom-up from H-2 to 0 and cells left to right. Each
// grain moves at once to the first free cell of below, below-left and
// below-right, so it sees the moves of every grain to its left in the same
// row. The batch and gpu kernels resolve that left-to-right chain in
// parallel and produce the same grid.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down (the direction of gravity)
package sandsim
