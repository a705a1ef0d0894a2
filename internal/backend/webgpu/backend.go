//go:build windows

// Package webgpu implements the WebGPU compute backend using go-webgpu
// (github.com/go-webgpu/webgpu) zero-CGO bindings. It provides GPU-executed
// kernels plus the timing and readback collaborators the profiler consumes;
// the timer's extra info carries the adapter description.
package webgpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/kscope-ml/kscope/internal/profiler"
	"github.com/kscope-ml/kscope/internal/tensor"
)

// Engine is the WebGPU backend. Kernel outputs are read back to host memory
// after dispatch and tracked by DataID for profiler readback.
type Engine struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	adapterName string

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	liveMu sync.RWMutex
	live   map[tensor.DataID]*tensor.RawTensor
}

// New creates a WebGPU engine.
// Returns an error if WebGPU is not available or initialization fails.
func New() (engine *Engine, err error) {
	// Recover from panic if the wgpu native library is not found.
	defer func() {
		if r := recover(); r != nil {
			engine = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	info := adapter.GetInfo()
	adapterName := fmt.Sprintf("WebGPU (%s %s)", info.Name, info.VendorName)

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Engine{
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       queue,
		adapterName: adapterName,
		shaders:     make(map[string]*wgpu.ShaderModule),
		pipelines:   make(map[string]*wgpu.ComputePipeline),
		live:        make(map[tensor.DataID]*tensor.RawTensor),
	}, nil
}

// Release frees GPU resources held by the engine.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.pipelines {
		p.Release()
	}
	for _, s := range e.shaders {
		s.Release()
	}
	e.queue.Release()
	e.device.Release()
	e.adapter.Release()
	e.instance.Release()
}

// Name returns the backend name.
func (e *Engine) Name() string {
	return "WebGPU"
}

// Device returns the compute device.
func (e *Engine) Device() tensor.Device {
	return tensor.WebGPU
}

// Track registers a tensor for readback by DataID.
func (e *Engine) Track(t *tensor.RawTensor) {
	e.liveMu.Lock()
	defer e.liveMu.Unlock()
	e.live[t.DataID()] = t
}

// Time runs fn synchronously and resolves the timing future with the
// elapsed wall time once the queue has drained the submitted work.
// ExtraInfo carries the adapter description.
func (e *Engine) Time(fn func()) *profiler.TimingFuture {
	fut := profiler.NewTimingFuture()
	start := time.Now()
	fn()
	elapsed := time.Since(start)

	fut.Resolve(profiler.TimingResult{
		KernelMs:  float64(elapsed) / float64(time.Millisecond),
		ExtraInfo: e.adapterName,
	})
	return fut
}

// Read returns the values of a tracked tensor, converted to float64.
func (e *Engine) Read(id tensor.DataID) ([]float64, error) {
	e.liveMu.RLock()
	t, ok := e.live[id]
	e.liveMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("webgpu: unknown data id %d", id)
	}
	return t.Values(), nil
}

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached.
func (e *Engine) compileShader(name, code string) *wgpu.ShaderModule {
	e.mu.RLock()
	if shader, exists := e.shaders[name]; exists {
		e.mu.RUnlock()
		return shader
	}
	e.mu.RUnlock()

	shader := e.device.CreateShaderModuleWGSL(code)

	e.mu.Lock()
	e.shaders[name] = shader
	e.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates one.
func (e *Engine) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	e.mu.RLock()
	if pipeline, exists := e.pipelines[name]; exists {
		e.mu.RUnlock()
		return pipeline
	}
	e.mu.RUnlock()

	pipeline := e.device.CreateComputePipelineSimple(nil, shader, "main")

	e.mu.Lock()
	e.pipelines[name] = pipeline
	e.mu.Unlock()

	return pipeline
}
