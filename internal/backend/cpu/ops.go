package cpu

import (
	"fmt"
	"math"

	"github.com/kscope-ml/kscope/internal/parallel"
	"github.com/kscope-ml/kscope/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (e *Engine) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return e.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Mul performs element-wise multiplication with broadcasting.
func (e *Engine) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return e.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Relu applies max(0, x) element-wise.
func (e *Engine) Relu(x *tensor.RawTensor) *tensor.RawTensor {
	return e.unary("relu", x, func(v float64) float64 { return math.Max(0, v) })
}

// Sqrt applies the square root element-wise.
// Negative inputs produce NaN, which the profiler's numeric check reports.
func (e *Engine) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return e.unary("sqrt", x, math.Sqrt)
}

// MatMul performs 2D matrix multiplication C = A @ B.
func (e *Engine) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.Shape().Rank() != 2 || b.Shape().Rank() != 2 {
		panic(fmt.Sprintf("matmul: requires 2D tensors, got %v and %v", a.Shape(), b.Shape()))
	}
	m, k := a.Shape()[0], a.Shape()[1]
	n := b.Shape()[1]
	if b.Shape()[0] != k {
		panic(fmt.Sprintf("matmul: shape mismatch: %v @ %v", a.Shape(), b.Shape()))
	}
	checkFloatDType("matmul", a)
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	result := e.newTensor(tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float32:
		av, bv, cv := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		parallel.For(m, func(i int) {
			for p := 0; p < k; p++ {
				scale := av[i*k+p]
				for j := 0; j < n; j++ {
					cv[i*n+j] += scale * bv[p*n+j]
				}
			}
		}, e.par)
	case tensor.Float64:
		av, bv, cv := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		parallel.For(m, func(i int) {
			for p := 0; p < k; p++ {
				scale := av[i*k+p]
				for j := 0; j < n; j++ {
					cv[i*n+j] += scale * bv[p*n+j]
				}
			}
		}, e.par)
	}

	return result
}

// binary runs an element-wise binary op with broadcasting.
func (e *Engine) binary(name string, a, b *tensor.RawTensor, op func(x, y float64) float64) *tensor.RawTensor {
	checkFloatDType(name, a)
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result := e.newTensor(outShape, a.DType())

	// Fast path: identical shapes, flat typed loop.
	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		switch a.DType() {
		case tensor.Float32:
			av, bv, rv := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
			parallel.For(len(rv), func(i int) {
				rv[i] = float32(op(float64(av[i]), float64(bv[i])))
			}, e.par)
		case tensor.Float64:
			av, bv, rv := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
			parallel.For(len(rv), func(i int) {
				rv[i] = op(av[i], bv[i])
			}, e.par)
		}
		return result
	}

	av, bv := a.Values(), b.Values()
	aStr := broadcastStrides(a.Shape(), outShape)
	bStr := broadcastStrides(b.Shape(), outShape)
	outStr := outShape.ComputeStrides()

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		ai, bi := 0, 0
		rem := i
		for d := 0; d < len(outShape); d++ {
			idx := rem / outStr[d]
			rem %= outStr[d]
			ai += idx * aStr[d]
			bi += idx * bStr[d]
		}
		setFloat(result, i, op(av[ai], bv[bi]))
	}
	return result
}

// unary runs an element-wise unary op.
func (e *Engine) unary(name string, x *tensor.RawTensor, op func(float64) float64) *tensor.RawTensor {
	checkFloatDType(name, x)
	result := e.newTensor(x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		xv, rv := x.AsFloat32(), result.AsFloat32()
		parallel.For(len(rv), func(i int) {
			rv[i] = float32(op(float64(xv[i])))
		}, e.par)
	case tensor.Float64:
		xv, rv := x.AsFloat64(), result.AsFloat64()
		parallel.For(len(rv), func(i int) {
			rv[i] = op(xv[i])
		}, e.par)
	}
	return result
}

func checkFloatDType(name string, t *tensor.RawTensor) {
	if !t.DType().IsFloat() {
		panic(fmt.Sprintf("%s: only float dtypes are supported, got %s", name, t.DType()))
	}
}

func setFloat(t *tensor.RawTensor, i int, v float64) {
	switch t.DType() {
	case tensor.Float32:
		t.AsFloat32()[i] = float32(v)
	case tensor.Float64:
		t.AsFloat64()[i] = v
	}
}

// broadcastStrides maps an input shape onto the output shape's dimensions,
// with stride 0 for broadcast (size-1 or missing) dimensions.
func broadcastStrides(in, out tensor.Shape) []int {
	inStr := in.ComputeStrides()
	strides := make([]int, len(out))
	offset := len(out) - len(in)
	for d := range out {
		src := d - offset
		if src < 0 || in[src] == 1 {
			strides[d] = 0
			continue
		}
		strides[d] = inStr[src]
	}
	return strides
}
