//go:build windows

// Copyright 2025 The KScope Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU compute backend for KScope.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	prof := profiler.New(gpu, gpu)
package webgpu

import (
	internalwebgpu "github.com/kscope-ml/kscope/internal/backend/webgpu"
)

// Engine is the WebGPU backend implementation.
type Engine = internalwebgpu.Engine

// New creates a new WebGPU engine.
// Returns an error if WebGPU is not available on this system.
func New() (*Engine, error) {
	return internalwebgpu.New()
}
