package main

import (
	"fmt"

	"github.com/kscope-ml/kscope/internal/backend/cpu"
	"github.com/kscope-ml/kscope/internal/engine"
)

// backendHandle bundles a compute backend with its kernel registration and
// teardown, so the run command stays backend-agnostic.
type backendHandle struct {
	engine.Engine
	register func(*engine.Registry) error
	cleanup  func()
}

func newBackend(name string) (*backendHandle, error) {
	switch name {
	case "cpu":
		e := cpu.New()
		return &backendHandle{
			Engine:   e,
			register: e.RegisterKernels,
			cleanup:  func() {},
		}, nil
	case "webgpu":
		return newWebGPUBackend()
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
