// Copyright 2025 The KScope Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for KScope tensor descriptors.
//
// A RawTensor bundles shape, data type, device, and a flat buffer, plus the
// opaque DataID handle backends use to serve asynchronous readback.
//
// Example:
//
//	a, err := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.CPU)
package tensor

import (
	"github.com/kscope-ml/kscope/internal/tensor"
)

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// DataID is the opaque handle identifying a tensor's backing data.
type DataID = tensor.DataID

// RawTensor is the low-level tensor descriptor.
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-initialized RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Zeros creates a zero-initialized tensor.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype, device)
}

// FromFloat32 creates a Float32 tensor from a slice.
func FromFloat32(data []float32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat32(data, shape, device)
}

// FromFloat64 creates a Float64 tensor from a slice.
func FromFloat64(data []float64, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat64(data, shape, device)
}

// FromInt32 creates an Int32 tensor from a slice.
func FromInt32(data []int32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromInt32(data, shape, device)
}

// BroadcastShapes implements NumPy-style broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
