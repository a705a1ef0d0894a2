// Package engine dispatches named kernels against a compute backend,
// optionally routing every execution through the profiler.
package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kscope-ml/kscope/internal/profiler"
	"github.com/kscope-ml/kscope/internal/tensor"
)

// Dispatch errors.
var (
	ErrUnknownKernel   = errors.New("unknown kernel")
	ErrDuplicateKernel = errors.New("kernel already registered")
)

// Kernel computes one named operation over its inputs and returns the
// produced output tensors.
type Kernel func(inputs map[string]*tensor.RawTensor) []*tensor.RawTensor

// Engine is the compute substrate a Dispatcher runs on. Besides the kernel
// implementations it hosts, a backend supplies the timing and readback
// collaborators the profiler consumes.
type Engine interface {
	profiler.KernelTimer
	profiler.DataReader

	Name() string
	Device() tensor.Device
}

// Registry maps kernel names to implementations.
type Registry struct {
	kernels map[string]Kernel
}

// NewRegistry creates an empty kernel registry.
func NewRegistry() *Registry {
	return &Registry{kernels: make(map[string]Kernel)}
}

// Register adds a kernel under name.
func (r *Registry) Register(name string, k Kernel) error {
	if _, exists := r.kernels[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKernel, name)
	}
	r.kernels[name] = k
	return nil
}

// Get returns the kernel registered under name.
func (r *Registry) Get(name string) (Kernel, bool) {
	k, ok := r.kernels[name]
	return k, ok
}

// Names returns all registered kernel names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kernels))
	for name := range r.kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatcher executes registered kernels on a backend. With a profiler
// attached, every dispatch is timed, read back, and logged; without one,
// kernels run bare.
type Dispatcher struct {
	registry *Registry
	backend  Engine
	prof     *profiler.Profiler
}

// NewDispatcher creates a Dispatcher for the given registry and backend.
// prof may be nil to disable profiling.
func NewDispatcher(registry *Registry, backend Engine, prof *profiler.Profiler) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		backend:  backend,
		prof:     prof,
	}
}

// Backend returns the compute backend.
func (d *Dispatcher) Backend() Engine {
	return d.backend
}

// Dispatch runs the named kernel over inputs.
func (d *Dispatcher) Dispatch(name string, inputs map[string]*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	kernel, ok := d.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKernel, name)
	}

	if d.prof == nil {
		return kernel(inputs), nil
	}

	outs := d.prof.ProfileKernelMulti(name, inputs, func() []*tensor.RawTensor {
		return kernel(inputs)
	})
	return outs, nil
}
