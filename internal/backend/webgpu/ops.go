//go:build windows

package webgpu

import (
	"github.com/chalk-ml/chalk/internal/tensor"
)

// Verify that Backend implements the Backend interface.
var _ tensor.Backend = (*Backend)(nil)

// Add performs element-wise addition on GPU.
// Broadcast shapes fall back to the host kernels.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(other.Shape()) || a.DType() != tensor.Float32 {
		return b.fallback.Add(a, other)
	}
	result, err := b.runBinaryOp(a, other, "add", addShader)
	if err != nil {
		panic("webgpu: Add: " + err.Error())
	}
	return result
}

// Sub performs element-wise subtraction on GPU.
func (b *Backend) Sub(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(other.Shape()) || a.DType() != tensor.Float32 {
		return b.fallback.Sub(a, other)
	}
	result, err := b.runBinaryOp(a, other, "sub", subShader)
	if err != nil {
		panic("webgpu: Sub: " + err.Error())
	}
	return result
}

// Mul performs element-wise multiplication on GPU.
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(other.Shape()) || a.DType() != tensor.Float32 {
		return b.fallback.Mul(a, other)
	}
	result, err := b.runBinaryOp(a, other, "mul", mulShader)
	if err != nil {
		panic("webgpu: Mul: " + err.Error())
	}
	return result
}

// Div performs element-wise division on GPU.
func (b *Backend) Div(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(other.Shape()) || a.DType() != tensor.Float32 {
		return b.fallback.Div(a, other)
	}
	result, err := b.runBinaryOp(a, other, "div", divShader)
	if err != nil {
		panic("webgpu: Div: " + err.Error())
	}
	return result
}

// MatMul performs matrix multiplication on GPU.
func (b *Backend) MatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != tensor.Float32 {
		return b.fallback.MatMul(a, other)
	}
	result, err := b.runMatMul(a, other)
	if err != nil {
		panic("webgpu: MatMul: " + err.Error())
	}
	return result
}

// Reshape returns a tensor with a new shape.
// Metadata-only on the host, no GPU dispatch needed.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.fallback.Reshape(t, newShape)
}

// Transpose transposes the tensor by permuting its dimensions.
// 2D transpose runs on GPU, other permutations on the host.
func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	if len(t.Shape()) == 2 && len(axes) == 0 && t.DType() == tensor.Float32 {
		result, err := b.runTranspose(t)
		if err != nil {
			panic("webgpu: Transpose: " + err.Error())
		}
		return result
	}
	return b.fallback.Transpose(t, axes...)
}

// MulScalar multiplies each element by a scalar on GPU.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		return b.fallback.MulScalar(x, scalar)
	}
	result, err := b.runUnaryOp(x, "scalarMul", scalarMulShader, scalarToFloat32(scalar))
	if err != nil {
		panic("webgpu: MulScalar: " + err.Error())
	}
	return result
}

// AddScalar adds a scalar to each element on GPU.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		return b.fallback.AddScalar(x, scalar)
	}
	result, err := b.runUnaryOp(x, "scalarAdd", scalarAddShader, scalarToFloat32(scalar))
	if err != nil {
		panic("webgpu: AddScalar: " + err.Error())
	}
	return result
}

// ReLU applies max(0, x) on GPU.
func (b *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		return b.fallback.ReLU(x)
	}
	result, err := b.runUnaryOp(x, "relu", reluShader, 0)
	if err != nil {
		panic("webgpu: ReLU: " + err.Error())
	}
	return result
}

// Exp computes the element-wise exponential on GPU.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		return b.fallback.Exp(x)
	}
	result, err := b.runUnaryOp(x, "exp", expShader, 0)
	if err != nil {
		panic("webgpu: Exp: " + err.Error())
	}
	return result
}

// Sqrt computes the element-wise square root on GPU.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		return b.fallback.Sqrt(x)
	}
	result, err := b.runUnaryOp(x, "sqrt", sqrtShader, 0)
	if err != nil {
		panic("webgpu: Sqrt: " + err.Error())
	}
	return result
}

// Sum reduces the tensor to its scalar total on the host.
// Readback dominates a single reduction, so there is no win from a
// tree-reduce shader at lesson sizes.
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return b.fallback.Sum(x)
}

// SumDim sums along a single dimension on the host.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.fallback.SumDim(x, dim, keepDim)
}

// Mean reduces the tensor to its scalar mean on the host.
func (b *Backend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	return b.fallback.Mean(x)
}

func scalarToFloat32(scalar any) float32 {
	switch s := scalar.(type) {
	case float32:
		return s
	case float64:
		return float32(s)
	case int:
		return float32(s)
	case int32:
		return float32(s)
	case int64:
		return float32(s)
	default:
		panic("webgpu: unsupported scalar type")
	}
}
