// Copyright 2025 The KScope Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package engine provides the public API for kernel registration and
// dispatch.
package engine

import (
	internalengine "github.com/kscope-ml/kscope/internal/engine"
	"github.com/kscope-ml/kscope/internal/profiler"
)

// Dispatch errors.
var (
	ErrUnknownKernel   = internalengine.ErrUnknownKernel
	ErrDuplicateKernel = internalengine.ErrDuplicateKernel
)

// Kernel computes one named operation over its inputs.
type Kernel = internalengine.Kernel

// Engine is the compute substrate a Dispatcher runs on.
type Engine = internalengine.Engine

// Registry maps kernel names to implementations.
type Registry = internalengine.Registry

// Dispatcher executes registered kernels, optionally under the profiler.
type Dispatcher = internalengine.Dispatcher

// NewRegistry creates an empty kernel registry.
func NewRegistry() *Registry {
	return internalengine.NewRegistry()
}

// NewDispatcher creates a Dispatcher; prof may be nil to disable profiling.
func NewDispatcher(registry *Registry, backend Engine, prof *profiler.Profiler) *Dispatcher {
	return internalengine.NewDispatcher(registry, backend, prof)
}
