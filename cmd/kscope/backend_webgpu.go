//go:build windows

package main

import (
	"github.com/kscope-ml/kscope/internal/backend/webgpu"
)

func newWebGPUBackend() (*backendHandle, error) {
	e, err := webgpu.New()
	if err != nil {
		return nil, err
	}
	return &backendHandle{
		Engine:   e,
		register: e.RegisterKernels,
		cleanup:  e.Release,
	}, nil
}
