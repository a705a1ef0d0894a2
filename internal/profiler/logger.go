package profiler

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/kscope-ml/kscope/internal/tensor"
)

// Logger renders one kernel's profiling record.
// Implementations must be safe for concurrent use: the profiler invokes
// LogKernelProfile from background goroutines.
type Logger interface {
	LogKernelProfile(name string, result *tensor.RawTensor, vals []float64,
		timeMs float64, inputs map[string]*tensor.RawTensor, extraInfo string)
}

// ConsoleLogger is the default Logger. It emits one tab-separated line per
// kernel output with fixed column widths:
//
//	Add                      	0.142ms  	2D [2 2]      	4	a: 2D [2 2] b: 2D [2 2]	gpu dispatch
//
// Columns: kernel name (width 25), elapsed time (width 9), output rank and
// shape (width 14), element count, each input's name/rank/shape joined by
// spaces (keys sorted for stable output), and the backend extra info.
type ConsoleLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleLogger creates a ConsoleLogger writing to w.
// A nil writer defaults to the process's standard diagnostic stream.
func NewConsoleLogger(w io.Writer) *ConsoleLogger {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleLogger{w: w}
}

// LogKernelProfile writes the profiling record for one kernel output.
func (l *ConsoleLogger) LogKernelProfile(name string, result *tensor.RawTensor, vals []float64,
	timeMs float64, inputs map[string]*tensor.RawTensor, extraInfo string) {
	time := fmt.Sprintf("%.3fms", timeMs)
	shape := fmt.Sprintf("%dD %v", result.Shape().Rank(), result.Shape())

	names := make([]string, 0, len(inputs))
	for n := range inputs {
		names = append(names, n)
	}
	sort.Strings(names)

	descs := make([]string, 0, len(names))
	for _, n := range names {
		in := inputs[n]
		descs = append(descs, fmt.Sprintf("%s: %dD %v", n, in.Shape().Rank(), in.Shape()))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%-25s\t%-9s\t%-14s\t%d\t%s\t%s\n",
		name, time, shape, len(vals), strings.Join(descs, " "), extraInfo)
}
