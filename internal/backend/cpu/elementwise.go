package cpu

import (
	"fmt"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// number constrains the dtypes supported by arithmetic kernels.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// opKind selects the arithmetic operation inside the generic kernels.
type opKind int

const (
	opAdd opKind = iota
	opSub
	opMul
	opDiv
)

// applyInplace performs a (op)= b.
// Requires: a.Shape().Equal(b.Shape()) && a.IsUnique().
func applyInplace(kind opKind, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		inplaceKernel(kind, a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		inplaceKernel(kind, a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		inplaceKernel(kind, a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		inplaceKernel(kind, a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("elementwise: unsupported dtype %s", a.DType()))
	}
}

// applyVectorized performs result = a op b over flat slices.
// Requires: a.Shape().Equal(b.Shape()).
func applyVectorized(kind opKind, result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		vectorizedKernel(kind, result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		vectorizedKernel(kind, result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		vectorizedKernel(kind, result.AsInt32(), a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		vectorizedKernel(kind, result.AsInt64(), a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("elementwise: unsupported dtype %s", a.DType()))
	}
}

// applyBroadcast performs result = a op b with NumPy-style broadcasting.
func applyBroadcast(kind opKind, result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		broadcastKernel(kind, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape)
	case tensor.Float64:
		broadcastKernel(kind, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape)
	case tensor.Int32:
		broadcastKernel(kind, result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape)
	case tensor.Int64:
		broadcastKernel(kind, result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape)
	default:
		panic(fmt.Sprintf("elementwise: unsupported dtype %s", a.DType()))
	}
}

func inplaceKernel[T number](kind opKind, a, b []T) {
	switch kind {
	case opAdd:
		for i := range a {
			a[i] += b[i]
		}
	case opSub:
		for i := range a {
			a[i] -= b[i]
		}
	case opMul:
		for i := range a {
			a[i] *= b[i]
		}
	case opDiv:
		for i := range a {
			a[i] /= b[i]
		}
	}
}

func vectorizedKernel[T number](kind opKind, dst, a, b []T) {
	switch kind {
	case opAdd:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case opSub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case opMul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case opDiv:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	}
}

func broadcastKernel[T number](kind opKind, dst, a, b []T, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	for i := range dst {
		av := a[computeFlatIndex(i, outStrides, aStrides)]
		bv := b[computeFlatIndex(i, outStrides, bStrides)]
		switch kind {
		case opAdd:
			dst[i] = av + bv
		case opSub:
			dst[i] = av - bv
		case opMul:
			dst[i] = av * bv
		case opDiv:
			dst[i] = av / bv
		}
	}
}

func transposeData(result, src *tensor.RawTensor, axes []int) {
	switch src.DType() {
	case tensor.Float32:
		transposeKernel(result.AsFloat32(), src.AsFloat32(), src.Shape(), axes)
	case tensor.Float64:
		transposeKernel(result.AsFloat64(), src.AsFloat64(), src.Shape(), axes)
	case tensor.Int32:
		transposeKernel(result.AsInt32(), src.AsInt32(), src.Shape(), axes)
	case tensor.Int64:
		transposeKernel(result.AsInt64(), src.AsInt64(), src.Shape(), axes)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", src.DType()))
	}
}

func transposeKernel[T number](dst, src []T, srcShape tensor.Shape, axes []int) {
	ndim := len(srcShape)
	srcStrides := srcShape.ComputeStrides()

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = srcShape[ax]
	}
	dstStrides := newShape.ComputeStrides()

	indices := make([]int, ndim)
	for i := range src {
		temp := i
		for j := 0; j < ndim; j++ {
			indices[j] = temp / srcStrides[j]
			temp %= srcStrides[j]
		}

		dstIdx := 0
		for j, ax := range axes {
			dstIdx += indices[ax] * dstStrides[j]
		}
		dst[dstIdx] = src[i]
	}
}
