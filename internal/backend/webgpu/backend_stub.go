//go:build !windows

// Package webgpu implements the GPU backend using WGSL compute shaders.
// On platforms without wgpu_native support, New always returns an error
// and the Backend methods are unreachable.
package webgpu

import (
	"errors"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// Verify that Backend implements the Backend interface.
var _ tensor.Backend = (*Backend)(nil)

// Backend is a placeholder on platforms without WebGPU support.
type Backend struct{}

// ErrUnsupported is returned by New on platforms without WebGPU support.
var ErrUnsupported = errors.New("webgpu: not supported on this platform")

// New returns ErrUnsupported.
func New() (*Backend, error) {
	return nil, ErrUnsupported
}

// IsAvailable reports whether WebGPU is available on this system.
func IsAvailable() bool {
	return false
}

// Release is a no-op.
func (b *Backend) Release() {}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU (unavailable)"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor  { panic(ErrUnsupported) }
func (b *Backend) Sub(a, other *tensor.RawTensor) *tensor.RawTensor  { panic(ErrUnsupported) }
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor  { panic(ErrUnsupported) }
func (b *Backend) Div(a, other *tensor.RawTensor) *tensor.RawTensor  { panic(ErrUnsupported) }
func (b *Backend) MatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	panic(ErrUnsupported)
}

func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	panic(ErrUnsupported)
}

func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	panic(ErrUnsupported)
}

func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	panic(ErrUnsupported)
}

func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	panic(ErrUnsupported)
}

func (b *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor { panic(ErrUnsupported) }
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor  { panic(ErrUnsupported) }
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor { panic(ErrUnsupported) }
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor  { panic(ErrUnsupported) }
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	panic(ErrUnsupported)
}
func (b *Backend) Mean(x *tensor.RawTensor) *tensor.RawTensor { panic(ErrUnsupported) }
