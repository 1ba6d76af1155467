//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/sandsim"
)

// logger returns the kernel's logger. Until SetLogger is called it follows
// sandsim.Logger, so a kernel built before logging was configured still
// reports through the current handler.
func (k *Kernel) logger() *slog.Logger {
	if l := k.log.Load(); l != nil {
		return l
	}
	return sandsim.Logger().With("kernel", sandsim.KernelGPU)
}

// SetLogger sets the logger for this kernel only. Records carry a
// kernel=gpu attribute. Passing nil makes the kernel follow
// sandsim.Logger again.
func (k *Kernel) SetLogger(l *slog.Logger) {
	if l != nil {
		l = l.With("kernel", sandsim.KernelGPU)
	}
	k.log.Store(l)
}
