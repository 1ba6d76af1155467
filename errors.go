package sandsim

import "errors"

var (
	// ErrInvalidSize is returned when a grid dimension or layer count is not positive.
	ErrInvalidSize = errors.New("sandsim: invalid grid size")

	// ErrUnknownKernel is returned when no kernel is registered under the requested name.
	ErrUnknownKernel = errors.New("sandsim: unknown kernel")

	// ErrInvalidLaneWidth is returned by NewBatchKernel for unsupported lane widths.
	ErrInvalidLaneWidth = errors.New("sandsim: invalid lane width")

	// ErrKernelClosed is returned by Tick after Close.
	ErrKernelClosed = errors.New("sandsim: kernel closed")
)
