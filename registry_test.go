package sandsim

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"
)

// mockKernel records the logger it receives.
type mockKernel struct {
	scalarKernel
	logger *slog.Logger
}

func (m *mockKernel) Name() string             { return "mock" }
func (m *mockKernel) SetLogger(l *slog.Logger) { m.logger = l }

func TestRegistry_Builtins(t *testing.T) {
	names := AvailableKernels()
	for _, want := range []string{KernelScalar, KernelWide128, KernelWide256} {
		if !slices.Contains(names, want) {
			t.Errorf("AvailableKernels() = %v, missing %q", names, want)
		}
		if !IsKernelRegistered(want) {
			t.Errorf("IsKernelRegistered(%q) = false", want)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("AvailableKernels() = %v, want sorted", names)
	}
}

func TestRegistry_NewKernel(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  error
	}{
		{KernelScalar, KernelScalar, nil},
		{KernelWide128, KernelWide128, nil},
		{KernelWide256, KernelWide256, nil},
		{"", DefaultKernelName(), nil},
		{"avx512", "", ErrUnknownKernel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKernel(tt.name, KernelConfig{Boundary: BoundaryWrap})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewKernel(%q) error = %v, want %v", tt.name, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewKernel(%q) error = %v", tt.name, err)
			}
			defer k.Close()
			if k.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", k.Name(), tt.wantName)
			}
			if k.Boundary() != BoundaryWrap {
				t.Errorf("Boundary() = %v, want wrap", k.Boundary())
			}
		})
	}
}

func TestDefaultKernelName(t *testing.T) {
	name := DefaultKernelName()
	if name != KernelWide128 && name != KernelWide256 {
		t.Errorf("DefaultKernelName() = %q, want a batch kernel", name)
	}
}

func TestRegistry_RegisterPropagatesLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() {
		SetLogger(orig)
		UnregisterKernel("mock")
	})

	custom := slog.New(nopHandler{})
	SetLogger(custom)

	var created *mockKernel
	RegisterKernel("mock", func(cfg KernelConfig) (Kernel, error) {
		created = &mockKernel{scalarKernel: scalarKernel{cpuKernel: newCPUKernel(cfg)}}
		return created, nil
	})

	k, err := NewKernel("mock", KernelConfig{})
	if err != nil {
		t.Fatalf("NewKernel(mock) error = %v", err)
	}
	defer k.Close()

	if created.logger != custom {
		t.Error("NewKernel did not propagate the current logger")
	}

	// The mock still ticks like the scalar kernel it embeds.
	g := gridFromRows(t, "#", ".")
	if changed, err := k.Tick(context.Background(), g); err != nil || !changed {
		t.Errorf("Tick() = (%v, %v), want (true, nil)", changed, err)
	}

	UnregisterKernel("mock")
	if IsKernelRegistered("mock") {
		t.Error("UnregisterKernel did not remove the kernel")
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	t.Cleanup(func() { UnregisterKernel("broken") })

	boom := errors.New("no device")
	RegisterKernel("broken", func(KernelConfig) (Kernel, error) { return nil, boom })

	if _, err := NewKernel("broken", KernelConfig{}); !errors.Is(err, boom) {
		t.Errorf("NewKernel(broken) error = %v, want wrapped %v", err, boom)
	}
}
