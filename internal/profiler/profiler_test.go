package profiler

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kscope-ml/kscope/internal/tensor"
)

// fakeTimer runs the closure synchronously and hands resolution control to
// the test through the returned future.
type fakeTimer struct {
	calls   int
	futures []*TimingFuture
}

func (ft *fakeTimer) Time(fn func()) *TimingFuture {
	ft.calls++
	fn()
	fut := NewTimingFuture()
	ft.futures = append(ft.futures, fut)
	return fut
}

// fakeReader serves values from tensors, optionally gated on a channel and
// optionally failing for chosen DataIDs.
type fakeReader struct {
	mu      sync.Mutex
	tensors map[tensor.DataID]*tensor.RawTensor
	failing map[tensor.DataID]error
	gate    chan struct{}
}

func newFakeReader(ts ...*tensor.RawTensor) *fakeReader {
	r := &fakeReader{
		tensors: make(map[tensor.DataID]*tensor.RawTensor),
		failing: make(map[tensor.DataID]error),
	}
	for _, t := range ts {
		r.tensors[t.DataID()] = t
	}
	return r
}

func (fr *fakeReader) Read(id tensor.DataID) ([]float64, error) {
	if fr.gate != nil {
		<-fr.gate
	}
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if err, ok := fr.failing[id]; ok {
		return nil, err
	}
	t, ok := fr.tensors[id]
	if !ok {
		return nil, errors.New("unknown data id")
	}
	return t.Values(), nil
}

// recordingLogger captures LogKernelProfile calls.
type recordingLogger struct {
	mu    sync.Mutex
	calls []profileCall
}

type profileCall struct {
	name      string
	result    *tensor.RawTensor
	vals      []float64
	timeMs    float64
	inputs    map[string]*tensor.RawTensor
	extraInfo string
}

func (rl *recordingLogger) LogKernelProfile(name string, result *tensor.RawTensor, vals []float64,
	timeMs float64, inputs map[string]*tensor.RawTensor, extraInfo string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.calls = append(rl.calls, profileCall{name, result, vals, timeMs, inputs, extraInfo})
}

func (rl *recordingLogger) snapshot() []profileCall {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return append([]profileCall(nil), rl.calls...)
}

func mustFloat32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat32(data, shape, tensor.CPU)
	require.NoError(t, err)
	return r
}

func TestProfileKernelReturnsClosureResultUnchanged(t *testing.T) {
	out := mustFloat32(t, []float32{1, 2}, tensor.Shape{2})
	timer := &fakeTimer{}
	p := New(timer, newFakeReader(out), WithLogger(&recordingLogger{}))

	calls := 0
	got := p.ProfileKernel("Relu", nil, func() *tensor.RawTensor {
		calls++
		return out
	})

	assert.Same(t, out, got, "profiling must not replace the result")
	assert.Equal(t, 1, calls, "closure must run exactly once")
	assert.Equal(t, 1, timer.calls, "exactly one timing invocation")

	timer.futures[0].Resolve(TimingResult{KernelMs: 1})
	p.Wait()
}

func TestProfileKernelMultiPreservesSlice(t *testing.T) {
	a := mustFloat32(t, []float32{1}, tensor.Shape{1})
	b := mustFloat32(t, []float32{2}, tensor.Shape{1})
	timer := &fakeTimer{}
	logger := &recordingLogger{}
	p := New(timer, newFakeReader(a, b), WithLogger(logger))

	calls := 0
	got := p.ProfileKernelMulti("Chunk", nil, func() []*tensor.RawTensor {
		calls++
		return []*tensor.RawTensor{a, b}
	})

	require.Len(t, got, 2)
	assert.Same(t, a, got[0])
	assert.Same(t, b, got[1])
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, timer.calls, "one timing invocation covers all outputs")

	timer.futures[0].Resolve(TimingResult{KernelMs: 2})
	p.Wait()

	assert.Len(t, logger.snapshot(), 2, "one log line per output")
}

func TestProfileKernelLogsAfterDeferralsResolve(t *testing.T) {
	inputs := map[string]*tensor.RawTensor{
		"a": mustFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}),
		"b": mustFloat32(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2}),
	}
	out := mustFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	timer := &fakeTimer{}
	logger := &recordingLogger{}
	p := New(timer, newFakeReader(out), WithLogger(logger))

	p.ProfileKernel("Add", inputs, func() *tensor.RawTensor { return out })

	timer.futures[0].Resolve(TimingResult{KernelMs: 0.5, ExtraInfo: ""})
	p.Wait()

	calls := logger.snapshot()
	require.Len(t, calls, 1, "logger must be invoked exactly once")
	call := calls[0]
	assert.Equal(t, "Add", call.name)
	assert.Same(t, out, call.result)
	assert.Equal(t, []float64{1, 2, 3, 4}, call.vals)
	assert.Equal(t, 0.5, call.timeMs)
	assert.Equal(t, inputs, call.inputs)
	assert.Equal(t, "", call.extraInfo)
}

func TestProfileKernelNeverBlocksCaller(t *testing.T) {
	out := mustFloat32(t, []float32{9}, tensor.Shape{1})
	timer := &fakeTimer{}
	reader := newFakeReader(out)
	reader.gate = make(chan struct{})
	logger := &recordingLogger{}
	p := New(timer, reader, WithLogger(logger))

	done := make(chan *tensor.RawTensor, 1)
	go func() {
		done <- p.ProfileKernel("Exp", nil, func() *tensor.RawTensor { return out })
	}()

	select {
	case got := <-done:
		assert.Same(t, out, got)
	case <-time.After(2 * time.Second):
		t.Fatal("ProfileKernel blocked on unresolved deferrals")
	}

	assert.False(t, timer.futures[0].Resolved(), "return happened before timing resolved")
	assert.Empty(t, logger.snapshot(), "nothing logged before deferrals resolve")

	close(reader.gate)
	timer.futures[0].Resolve(TimingResult{KernelMs: 3})
	p.Wait()
	assert.Len(t, logger.snapshot(), 1)
}

func TestReadErrorsGoToSinkNotCaller(t *testing.T) {
	out := mustFloat32(t, []float32{1}, tensor.Shape{1})
	readErr := errors.New("transfer failed")
	reader := newFakeReader(out)
	reader.failing[out.DataID()] = readErr

	timer := &fakeTimer{}
	logger := &recordingLogger{}

	var mu sync.Mutex
	var sunk []error
	p := New(timer, reader,
		WithLogger(logger),
		WithErrorSink(func(kernel string, err error) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "MatMul", kernel)
			sunk = append(sunk, err)
		}))

	got := p.ProfileKernel("MatMul", nil, func() *tensor.RawTensor { return out })
	assert.Same(t, out, got, "read failure must not affect the return value")

	timer.futures[0].Resolve(TimingResult{})
	p.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sunk, 1)
	assert.ErrorIs(t, sunk[0], readErr)
	assert.Empty(t, logger.snapshot(), "failed outputs are not logged")
}

func TestNumericsCheckDisabled(t *testing.T) {
	bad := mustFloat32(t, []float32{float32(math.NaN())}, tensor.Shape{1})
	timer := &fakeTimer{}
	logger := &recordingLogger{}
	hook := logtest.NewGlobal()
	defer hook.Reset()

	p := New(timer, newFakeReader(bad),
		WithLogger(logger),
		WithNumericsCheck(false))

	p.ProfileKernel("Sqrt", nil, func() *tensor.RawTensor { return bad })
	timer.futures[0].Resolve(TimingResult{KernelMs: 1})
	p.Wait()

	assert.Empty(t, hook.Entries, "validation disabled, no warning")
	assert.Len(t, logger.snapshot(), 1, "profile line still emitted")
}

func TestTimingFuture(t *testing.T) {
	fut := NewTimingFuture()
	assert.False(t, fut.Resolved())

	var wg sync.WaitGroup
	results := make([]TimingResult, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = fut.Wait()
		}(i)
	}

	fut.Resolve(TimingResult{KernelMs: 7, ExtraInfo: "x"})
	fut.Resolve(TimingResult{KernelMs: 8}) // second resolve is ignored
	wg.Wait()

	assert.True(t, fut.Resolved())
	for _, r := range results {
		assert.Equal(t, TimingResult{KernelMs: 7, ExtraInfo: "x"}, r)
	}
}
