// Package cpu implements the CPU compute backend: kernel implementations,
// a wall-clock kernel timer, and synchronous data readback.
package cpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kscope-ml/kscope/internal/parallel"
	"github.com/kscope-ml/kscope/internal/profiler"
	"github.com/kscope-ml/kscope/internal/tensor"
)

// ErrUnknownData is returned by Read for a DataID the engine is not tracking.
var ErrUnknownData = errors.New("unknown data id")

// Engine is the CPU backend. It tracks the tensors it produces so their
// values can be read back by DataID after dispatch.
type Engine struct {
	device tensor.Device
	par    parallel.Config

	mu   sync.RWMutex
	live map[tensor.DataID]*tensor.RawTensor
}

// New creates a CPU engine with default parallelism.
func New() *Engine {
	return &Engine{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
		live:   make(map[tensor.DataID]*tensor.RawTensor),
	}
}

// Name returns the backend name.
func (e *Engine) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (e *Engine) Device() tensor.Device {
	return e.device
}

// Track registers a tensor for readback by DataID. Output tensors created
// by the engine's kernels are tracked automatically; callers may track
// their own input tensors as well.
func (e *Engine) Track(t *tensor.RawTensor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live[t.DataID()] = t
}

// Time runs fn synchronously and returns a future carrying its wall-clock
// elapsed time. On CPU the timing is known as soon as fn returns, so the
// future is resolved before Time returns; waiters never block.
func (e *Engine) Time(fn func()) *profiler.TimingFuture {
	fut := profiler.NewTimingFuture()
	start := time.Now()
	fn()
	elapsed := time.Since(start)

	fut.Resolve(profiler.TimingResult{
		KernelMs: float64(elapsed) / float64(time.Millisecond),
	})
	return fut
}

// Read returns the values of a tracked tensor, converted to float64.
func (e *Engine) Read(id tensor.DataID) ([]float64, error) {
	e.mu.RLock()
	t, ok := e.live[id]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownData, id)
	}
	return t.Values(), nil
}

// newTensor allocates a tracked output tensor.
func (e *Engine) newTensor(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	t, err := tensor.NewRaw(shape, dtype, e.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to create tensor: %v", err))
	}
	e.Track(t)
	return t
}
