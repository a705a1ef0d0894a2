package cpu

import (
	"github.com/kscope-ml/kscope/internal/engine"
	"github.com/kscope-ml/kscope/internal/tensor"
)

// Compile-time check that Engine satisfies the dispatcher's backend contract.
var _ engine.Engine = (*Engine)(nil)

// RegisterKernels binds the engine's ops into a kernel registry.
// Binary kernels read inputs "a" and "b"; unary kernels read "x".
func (e *Engine) RegisterKernels(r *engine.Registry) error {
	kernels := map[string]engine.Kernel{
		"Add": func(inputs map[string]*tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{e.Add(inputs["a"], inputs["b"])}
		},
		"Mul": func(inputs map[string]*tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{e.Mul(inputs["a"], inputs["b"])}
		},
		"MatMul": func(inputs map[string]*tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{e.MatMul(inputs["a"], inputs["b"])}
		},
		"Relu": func(inputs map[string]*tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{e.Relu(inputs["x"])}
		},
		"Sqrt": func(inputs map[string]*tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{e.Sqrt(inputs["x"])}
		},
	}

	for name, k := range kernels {
		if err := r.Register(name, k); err != nil {
			return err
		}
	}
	return nil
}
