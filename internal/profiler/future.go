package profiler

import "sync"

// TimingResult is the resolved outcome of timing one kernel execution.
type TimingResult struct {
	// KernelMs is the elapsed wall time of the kernel body in milliseconds.
	KernelMs float64

	// ExtraInfo is an optional backend-specific description of how the
	// kernel ran (empty when the backend has nothing to add).
	ExtraInfo string
}

// TimingFuture is a one-shot future for a TimingResult. The backend resolves
// it once timing information becomes available; any number of goroutines may
// Wait on it before or after resolution.
type TimingFuture struct {
	done   chan struct{}
	once   sync.Once
	result TimingResult
}

// NewTimingFuture creates an unresolved TimingFuture.
func NewTimingFuture() *TimingFuture {
	return &TimingFuture{done: make(chan struct{})}
}

// Resolve sets the result and releases all waiters.
// Calls after the first are no-ops.
func (f *TimingFuture) Resolve(result TimingResult) {
	f.once.Do(func() {
		f.result = result
		close(f.done)
	})
}

// Wait blocks until the future is resolved and returns the result.
func (f *TimingFuture) Wait() TimingResult {
	<-f.done
	return f.result
}

// Resolved reports whether the future has been resolved, without blocking.
func (f *TimingFuture) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
