// Copyright 2025 The KScope Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend for KScope.
package cpu

import (
	internalcpu "github.com/kscope-ml/kscope/internal/backend/cpu"
	"github.com/kscope-ml/kscope/internal/engine"
)

// Engine is the CPU backend implementation.
type Engine = internalcpu.Engine

// Compile-time check that Engine satisfies the dispatcher's backend contract.
var _ engine.Engine = (*Engine)(nil)

// New creates a new CPU engine.
//
// Example:
//
//	backend := cpu.New()
//	prof := profiler.New(backend, backend)
func New() *Engine {
	return internalcpu.New()
}
