package profiler

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kscope-ml/kscope/internal/tensor"
)

// KernelTimer times one kernel execution.
//
// Time must invoke fn synchronously before returning, so that any result
// captured by fn is observable immediately after the call. The returned
// future resolves later with the elapsed time and optional backend info.
type KernelTimer interface {
	Time(fn func()) *TimingFuture
}

// DataReader fetches the raw backing values of a tensor by its opaque
// DataID. Read may block (e.g. on a GPU transfer); the profiler always
// calls it from a background goroutine.
type DataReader interface {
	Read(id tensor.DataID) ([]float64, error)
}

// ErrorSink receives failures from the profiler's background readback and
// logging work. Errors never propagate to the caller of ProfileKernel.
type ErrorSink func(kernel string, err error)

// Profiler orchestrates timed kernel execution with asynchronous output
// validation and logging. It holds no per-invocation state: each call is
// independent, and the injected collaborators live for the profiler's
// lifetime.
type Profiler struct {
	timer         KernelTimer
	reader        DataReader
	logger        Logger
	sink          ErrorSink
	checkNumerics bool

	pending sync.WaitGroup
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithLogger replaces the default console logger.
func WithLogger(l Logger) Option {
	return func(p *Profiler) { p.logger = l }
}

// WithErrorSink replaces the default error sink, which logs a warning.
func WithErrorSink(sink ErrorSink) Option {
	return func(p *Profiler) { p.sink = sink }
}

// WithNumericsCheck toggles NaN/Inf validation of outputs (default on).
// Readback and logging are unaffected.
func WithNumericsCheck(enabled bool) Option {
	return func(p *Profiler) { p.checkNumerics = enabled }
}

// New creates a Profiler around the backend's timer and data reader.
func New(timer KernelTimer, reader DataReader, opts ...Option) *Profiler {
	p := &Profiler{
		timer:         timer,
		reader:        reader,
		logger:        NewConsoleLogger(nil),
		checkNumerics: true,
		sink: func(kernel string, err error) {
			logrus.Warnf("profiling kernel %q: %v", kernel, err)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProfileKernel wraps a kernel producing a single output tensor.
// The closure's result is returned unchanged; see ProfileKernelMulti.
func (p *Profiler) ProfileKernel(name string, inputs map[string]*tensor.RawTensor,
	f func() *tensor.RawTensor) *tensor.RawTensor {
	outs := p.ProfileKernelMulti(name, inputs, func() []*tensor.RawTensor {
		return []*tensor.RawTensor{f()}
	})
	return outs[0]
}

// ProfileKernelMulti wraps a kernel producing one or more output tensors.
//
// The compute closure runs exactly once, synchronously, inside the backend
// timer, and its outputs are returned to the caller unchanged and undelayed.
// For each output, a background task reads the raw values back, checks them
// for NaN/Inf, waits for the shared timing future, and emits one profile
// line. Readback or logging failures go to the error sink; the caller never
// observes them.
func (p *Profiler) ProfileKernelMulti(name string, inputs map[string]*tensor.RawTensor,
	f func() []*tensor.RawTensor) []*tensor.RawTensor {
	var outs []*tensor.RawTensor
	timing := p.timer.Time(func() {
		outs = f()
	})

	for _, out := range outs {
		p.background(name, out, inputs, timing)
	}

	return outs
}

// background schedules readback, validation, and logging for one output.
func (p *Profiler) background(name string, out *tensor.RawTensor,
	inputs map[string]*tensor.RawTensor, timing *TimingFuture) {
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()

		vals, err := p.reader.Read(out.DataID())
		if err != nil {
			p.sink(name, err)
			return
		}

		if p.checkNumerics {
			CheckComputationForErrors(vals, out.DType(), name)
		}

		result := timing.Wait()
		p.logger.LogKernelProfile(name, out, vals, result.KernelMs, inputs, result.ExtraInfo)
	}()
}

// Wait blocks until all background readback and logging tasks scheduled so
// far have completed. Intended for tests and for draining before process
// exit; kernels profiled concurrently with Wait may not be covered.
func (p *Profiler) Wait() {
	p.pending.Wait()
}
