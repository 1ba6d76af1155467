// Package parallel provides the concurrency helpers used by the sand kernels.
//
// Key components:
//   - WorkerPool: work-stealing goroutine pool that advances independent
//     layers of a grid in parallel
//   - DirtyRows: lock-free per-row change bitmap shared by kernels, mutation
//     ops and the frame renderer
package parallel
