// Copyright 2025 The KScope Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package profiler provides the public API for kernel-execution profiling.
//
// Example:
//
//	backend := cpu.New()
//	prof := profiler.New(backend, backend)
//	out := prof.ProfileKernel("Add", inputs, func() *tensor.RawTensor {
//	    return backend.Add(inputs["a"], inputs["b"])
//	})
//	prof.Wait()
package profiler

import (
	"io"

	"github.com/kscope-ml/kscope/internal/profiler"
	"github.com/kscope-ml/kscope/internal/tensor"
)

// Profiler wraps kernel execution with timing, asynchronous readback,
// numeric validation, and per-output profile logging.
type Profiler = profiler.Profiler

// Option configures a Profiler.
type Option = profiler.Option

// TimingResult is the resolved outcome of timing one kernel execution.
type TimingResult = profiler.TimingResult

// TimingFuture is a one-shot future for a TimingResult.
type TimingFuture = profiler.TimingFuture

// KernelTimer times one kernel execution; the closure runs synchronously.
type KernelTimer = profiler.KernelTimer

// DataReader fetches a tensor's raw backing values by DataID.
type DataReader = profiler.DataReader

// Logger renders one kernel's profiling record.
type Logger = profiler.Logger

// ConsoleLogger is the default fixed-column Logger.
type ConsoleLogger = profiler.ConsoleLogger

// ErrorSink receives failures from background readback and logging work.
type ErrorSink = profiler.ErrorSink

// New creates a Profiler around a backend's timer and data reader.
func New(timer KernelTimer, reader DataReader, opts ...Option) *Profiler {
	return profiler.New(timer, reader, opts...)
}

// NewTimingFuture creates an unresolved TimingFuture.
func NewTimingFuture() *TimingFuture {
	return profiler.NewTimingFuture()
}

// NewConsoleLogger creates a ConsoleLogger writing to w (nil means stderr).
func NewConsoleLogger(w io.Writer) *ConsoleLogger {
	return profiler.NewConsoleLogger(w)
}

// WithLogger replaces the default console logger.
func WithLogger(l Logger) Option {
	return profiler.WithLogger(l)
}

// WithErrorSink replaces the default error sink.
func WithErrorSink(sink ErrorSink) Option {
	return profiler.WithErrorSink(sink)
}

// WithNumericsCheck toggles NaN/Inf validation of outputs (default on).
func WithNumericsCheck(enabled bool) Option {
	return profiler.WithNumericsCheck(enabled)
}

// CheckComputationForErrors scans a kernel output for NaN/Inf values.
// It is independently callable outside a Profiler.
func CheckComputationForErrors(vals []float64, dtype tensor.DataType, name string) bool {
	return profiler.CheckComputationForErrors(vals, dtype, name)
}
