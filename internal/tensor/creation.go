package tensor

import "fmt"

// Zeros creates a zero-initialized tensor.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return NewRaw(shape, dtype, device)
}

// FromFloat32 creates a Float32 tensor from a slice.
// The slice is copied into the tensor's memory.
func FromFloat32(data []float32, shape Shape, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	r, err := NewRaw(shape, Float32, device)
	if err != nil {
		return nil, err
	}
	copy(r.AsFloat32(), data)
	return r, nil
}

// FromFloat64 creates a Float64 tensor from a slice.
func FromFloat64(data []float64, shape Shape, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	r, err := NewRaw(shape, Float64, device)
	if err != nil {
		return nil, err
	}
	copy(r.AsFloat64(), data)
	return r, nil
}

// FromInt32 creates an Int32 tensor from a slice.
func FromInt32(data []int32, shape Shape, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	r, err := NewRaw(shape, Int32, device)
	if err != nil {
		return nil, err
	}
	copy(r.AsInt32(), data)
	return r, nil
}
