// Copyright 2026 The Chalk Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU backend over WebGPU.
package webgpu

import (
	internalwebgpu "github.com/chalk-ml/chalk/internal/backend/webgpu"
	"github.com/chalk-ml/chalk/tensor"
)

// Backend is the WebGPU backend implementation.
//
// Float32 elementwise ops, matmul, transpose and activations run as
// WGSL compute shaders; everything else falls back to the CPU backend.
// Only available where the native wgpu library is supported; New
// returns an error elsewhere.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a WebGPU backend, requesting a high-performance adapter.
//
// Callers should Release the backend when done:
//
//	backend, err := webgpu.New()
//	if err != nil {
//	    // fall back to cpu.New()
//	}
//	defer backend.Release()
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether a WebGPU adapter can be acquired.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
