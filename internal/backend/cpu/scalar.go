package cpu

import (
	"fmt"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// Scalar operations: element-wise operations with a scalar value.
// The scalar is converted to the tensor's dtype, so graph-level code
// can pass float64 constants against float32 tensors.

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newResult("mulScalar", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		scalarKernel(result.AsFloat32(), x.AsFloat32(), scalarAs[float32](scalar), opMul)
	case tensor.Float64:
		scalarKernel(result.AsFloat64(), x.AsFloat64(), scalarAs[float64](scalar), opMul)
	case tensor.Int32:
		scalarKernel(result.AsInt32(), x.AsInt32(), scalarAs[int32](scalar), opMul)
	case tensor.Int64:
		scalarKernel(result.AsInt64(), x.AsInt64(), scalarAs[int64](scalar), opMul)
	default:
		panic(fmt.Sprintf("mulScalar: unsupported dtype %s", x.DType()))
	}

	return result
}

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newResult("addScalar", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		scalarKernel(result.AsFloat32(), x.AsFloat32(), scalarAs[float32](scalar), opAdd)
	case tensor.Float64:
		scalarKernel(result.AsFloat64(), x.AsFloat64(), scalarAs[float64](scalar), opAdd)
	case tensor.Int32:
		scalarKernel(result.AsInt32(), x.AsInt32(), scalarAs[int32](scalar), opAdd)
	case tensor.Int64:
		scalarKernel(result.AsInt64(), x.AsInt64(), scalarAs[int64](scalar), opAdd)
	default:
		panic(fmt.Sprintf("addScalar: unsupported dtype %s", x.DType()))
	}

	return result
}

func scalarKernel[T number](dst, src []T, scalar T, kind opKind) {
	switch kind {
	case opAdd:
		for i := range dst {
			dst[i] = src[i] + scalar
		}
	case opSub:
		for i := range dst {
			dst[i] = src[i] - scalar
		}
	case opMul:
		for i := range dst {
			dst[i] = src[i] * scalar
		}
	case opDiv:
		for i := range dst {
			dst[i] = src[i] / scalar
		}
	}
}

// scalarAs converts a numeric scalar of any supported type to T.
func scalarAs[T number](scalar any) T {
	switch s := scalar.(type) {
	case float32:
		return T(s)
	case float64:
		return T(s)
	case int32:
		return T(s)
	case int64:
		return T(s)
	case int:
		return T(s)
	default:
		panic(fmt.Sprintf("scalar: unsupported scalar type %T", scalar))
	}
}
