package cpu

import (
	"fmt"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// Sum reduces the tensor to its scalar total.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.newResult("sum", tensor.Shape{}, x.DType())

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumKernel(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumKernel(x.AsFloat64())
	case tensor.Int32:
		result.AsInt32()[0] = sumKernel(x.AsInt32())
	case tensor.Int64:
		result.AsInt64()[0] = sumKernel(x.AsInt64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

// SumDim sums along a single dimension.
// With keepDim the reduced dimension stays as size 1, which preserves
// broadcasting against the original shape.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumDim: dimension %d out of bounds for shape %v", dim, shape))
	}

	outShape := make(tensor.Shape, 0, len(shape))
	for i, d := range shape {
		switch {
		case i != dim:
			outShape = append(outShape, d)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}

	result := cpu.newResult("sumDim", outShape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		sumDimKernel(result.AsFloat32(), x.AsFloat32(), shape, dim)
	case tensor.Float64:
		sumDimKernel(result.AsFloat64(), x.AsFloat64(), shape, dim)
	case tensor.Int32:
		sumDimKernel(result.AsInt32(), x.AsInt32(), shape, dim)
	case tensor.Int64:
		sumDimKernel(result.AsInt64(), x.AsInt64(), shape, dim)
	default:
		panic(fmt.Sprintf("sumDim: unsupported dtype %s", x.DType()))
	}

	return result
}

// Mean reduces the tensor to its scalar mean.
func (cpu *CPUBackend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.Sum(x)
	n := x.NumElements()

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] /= float32(n)
	case tensor.Float64:
		result.AsFloat64()[0] /= float64(n)
	default:
		panic(fmt.Sprintf("mean: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumKernel[T number](data []T) T {
	var total T
	for _, v := range data {
		total += v
	}
	return total
}

// sumDimKernel views the tensor as (outer, reduced, inner) and sums
// over the middle block.
func sumDimKernel[T number](dst, src []T, shape tensor.Shape, dim int) {
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	reduced := shape[dim]

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var sum T
			for d := 0; d < reduced; d++ {
				sum += src[(o*reduced+d)*inner+in]
			}
			dst[o*inner+in] = sum
		}
	}
}
