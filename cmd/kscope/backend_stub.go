//go:build !windows

package main

import "errors"

func newWebGPUBackend() (*backendHandle, error) {
	return nil, errors.New("webgpu backend is not available on this platform")
}
