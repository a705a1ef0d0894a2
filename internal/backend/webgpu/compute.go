//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/kscope-ml/kscope/internal/engine"
	"github.com/kscope-ml/kscope/internal/tensor"
)

// Add performs element-wise addition on GPU.
func (e *Engine) Add(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return e.runBinaryOp(a, b, "add", addShader)
}

// Mul performs element-wise multiplication on GPU.
func (e *Engine) Mul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return e.runBinaryOp(a, b, "mul", mulShader)
}

// RegisterKernels binds the engine's ops into a kernel registry.
// Binary kernels read inputs "a" and "b".
func (e *Engine) RegisterKernels(r *engine.Registry) error {
	kernels := map[string]engine.Kernel{
		"Add": func(inputs map[string]*tensor.RawTensor) []*tensor.RawTensor {
			out, err := e.Add(inputs["a"], inputs["b"])
			if err != nil {
				panic(fmt.Sprintf("webgpu add: %v", err))
			}
			return []*tensor.RawTensor{out}
		},
		"Mul": func(inputs map[string]*tensor.RawTensor) []*tensor.RawTensor {
			out, err := e.Mul(inputs["a"], inputs["b"])
			if err != nil {
				panic(fmt.Sprintf("webgpu mul: %v", err))
			}
			return []*tensor.RawTensor{out}
		},
	}

	for name, k := range kernels {
		if err := r.Register(name, k); err != nil {
			return err
		}
	}
	return nil
}

// createBuffer creates a GPU buffer and uploads initial data.
func (e *Engine) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer with 16-byte alignment.
func (e *Engine) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to host memory through a
// staging buffer, since storage buffers cannot be mapped directly.
func (e *Engine) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := e.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	e.queue.Submit(cmdBuffer)

	if err := stagingBuffer.MapAsync(e.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}

// runBinaryOp executes an element-wise binary operation on GPU and reads
// the result back into a tracked host tensor.
func (e *Engine) runBinaryOp(a, b *tensor.RawTensor, shaderName, shaderCode string) (*tensor.RawTensor, error) {
	if a.DType() != tensor.Float32 {
		return nil, fmt.Errorf("webgpu: only float32 is supported, got %s", a.DType())
	}
	if !a.Shape().Equal(b.Shape()) {
		return nil, fmt.Errorf("webgpu: shape mismatch: %v vs %v", a.Shape(), b.Shape())
	}

	numElements := a.NumElements()

	shader := e.compileShader(shaderName, shaderCode)
	pipeline := e.getOrCreatePipeline(shaderName, shader)

	bufferA := e.createBuffer(a.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferA.Release()

	bufferB := e.createBuffer(b.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferB.Release()

	//nolint:gosec // G115: ByteSize() returns a non-negative int
	resultSize := uint64(a.ByteSize())
	bufferResult := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	params := make([]byte, 16) // 16-byte aligned
	//nolint:gosec // G115: NumElements() returns a non-negative int
	binary.LittleEndian.PutUint32(params[0:4], uint32(numElements))
	bufferParams := e.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := e.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferB, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	encoder := e.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: workgroup count is non-negative
	workgroups := uint32((numElements + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	e.queue.Submit(cmdBuffer)

	resultData, err := e.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(a.Shape(), a.DType(), tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), resultData)
	e.Track(result)

	return result, nil
}
