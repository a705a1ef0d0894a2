package tensor

import (
	"testing"
)

// DType tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		str   string
	}{
		{Float32, "float32"},
		{Float64, "float64"},
		{Int32, "int32"},
		{Int64, "int64"},
		{Uint8, "uint8"},
		{Bool, "bool"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("%s.String() = %q, want %q", tt.dtype, got, tt.str)
		}
	}
}

func TestDataTypeIsFloat(t *testing.T) {
	tests := []struct {
		dtype DataType
		want  bool
	}{
		{Float32, true},
		{Float64, true},
		{Int32, false},
		{Int64, false},
		{Uint8, false},
		{Bool, false},
	}

	for _, tt := range tests {
		if got := tt.dtype.IsFloat(); got != tt.want {
			t.Errorf("%s.IsFloat() = %v, want %v", tt.dtype, got, tt.want)
		}
	}
}

// Shape tests

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},         // Scalar
		{Shape{5}, 5},        // 1D
		{Shape{3, 4}, 12},    // 2D
		{Shape{2, 3, 4}, 24}, // 3D
		{Shape{1, 1, 1}, 1},  // Ones
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("Shape%v.NumElements() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Shape{2,3}.Validate() = %v, want nil", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Shape{2,0}.Validate() = nil, want error")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("Shape{-1,3}.Validate() = nil, want error")
	}
}

func TestShapeComputeStrides(t *testing.T) {
	tests := []struct {
		shape   Shape
		strides []int
	}{
		{Shape{}, []int{}},
		{Shape{5}, []int{1}},
		{Shape{3, 4}, []int{4, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
	}

	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.strides) {
			t.Errorf("Shape%v.ComputeStrides() = %v, want %v", tt.shape, got, tt.strides)
			continue
		}
		for i := range got {
			if got[i] != tt.strides[i] {
				t.Errorf("Shape%v.ComputeStrides() = %v, want %v", tt.shape, got, tt.strides)
				break
			}
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		got, broadcast, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v) = %v, want error", tt.a, tt.b, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) error: %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) || broadcast != tt.broadcast {
			t.Errorf("BroadcastShapes(%v, %v) = %v, %v, want %v, %v", tt.a, tt.b, got, broadcast, tt.want, tt.broadcast)
		}
	}
}

// RawTensor tests

func TestNewRaw(t *testing.T) {
	r, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !r.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", r.Shape())
	}
	if r.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", r.DType())
	}
	if r.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", r.NumElements())
	}
	if r.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", r.ByteSize())
	}

	// Fresh tensors are zero-initialized
	for i, v := range r.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("NewRaw with zero dimension should fail")
	}
}

func TestDataIDsAreUnique(t *testing.T) {
	a, _ := NewRaw(Shape{2}, Float32, CPU)
	b, _ := NewRaw(Shape{2}, Float32, CPU)
	if a.DataID() == b.DataID() {
		t.Errorf("two tensors share DataID %d", a.DataID())
	}
}

func TestFromFloat32(t *testing.T) {
	r, err := FromFloat32([]float32{1, 2, 3, 4}, Shape{2, 2}, CPU)
	if err != nil {
		t.Fatalf("FromFloat32 failed: %v", err)
	}
	got := r.AsFloat32()
	for i, want := range []float32{1, 2, 3, 4} {
		if got[i] != want {
			t.Errorf("element %d = %v, want %v", i, got[i], want)
		}
	}

	if _, err := FromFloat32([]float32{1, 2, 3}, Shape{2, 2}, CPU); err == nil {
		t.Error("FromFloat32 with mismatched length should fail")
	}
}

func TestValuesConversion(t *testing.T) {
	f32, _ := FromFloat32([]float32{1.5, -2, 3}, Shape{3}, CPU)
	got := f32.Values()
	want := []float64{1.5, -2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("float32 Values()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	i32, _ := FromInt32([]int32{7, -8}, Shape{2}, CPU)
	got = i32.Values()
	if got[0] != 7 || got[1] != -8 {
		t.Errorf("int32 Values() = %v, want [7 -8]", got)
	}

	b, _ := NewRaw(Shape{2}, Bool, CPU)
	b.AsBool()[1] = true
	got = b.Values()
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("bool Values() = %v, want [0 1]", got)
	}
}

func TestAsTypeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AsFloat64 on Float32 tensor should panic")
		}
	}()
	r, _ := NewRaw(Shape{2}, Float32, CPU)
	r.AsFloat64()
}
