//go:build !nogpu

package gpu

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/sandsim"
)

func TestKernel_Logger(t *testing.T) {
	orig := sandsim.Logger()
	t.Cleanup(func() { sandsim.SetLogger(orig) })

	var shared, own bytes.Buffer
	sandsim.SetLogger(slog.New(slog.NewTextHandler(&shared, &slog.HandlerOptions{Level: slog.LevelDebug})))

	k := &Kernel{}
	k.logger().Debug("gpu: tick dispatched")
	if !strings.Contains(shared.String(), "kernel=gpu") {
		t.Errorf("unset kernel logger should follow sandsim.Logger, got %q", shared.String())
	}

	k.SetLogger(slog.New(slog.NewTextHandler(&own, &slog.HandlerOptions{Level: slog.LevelDebug})))
	shared.Reset()
	k.logger().Info("gpu: sand kernel using shared device")
	if shared.Len() != 0 {
		t.Errorf("kernel logger leaked into the shared logger: %q", shared.String())
	}
	if got := own.String(); !strings.Contains(got, "kernel=gpu") || !strings.Contains(got, "shared device") {
		t.Errorf("kernel log = %q", got)
	}

	other := &Kernel{}
	other.logger().Info("gpu: other kernel")
	if !strings.Contains(shared.String(), "other kernel") {
		t.Error("SetLogger on one kernel changed another kernel's logger")
	}

	k.SetLogger(nil)
	own.Reset()
	k.logger().Info("gpu: back to shared")
	if own.Len() != 0 || !strings.Contains(shared.String(), "back to shared") {
		t.Error("SetLogger(nil) should fall back to sandsim.Logger")
	}
}
