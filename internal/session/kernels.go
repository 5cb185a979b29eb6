package session

import (
	"fmt"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// reduceToShape reduces a gradient tensor to the target shape.
// This undoes broadcasting from the forward pass: dimensions the
// forward op expanded are summed back down.
//
// Example:
//
//	Forward: a(3, 1) + b(3, 4) -> c(3, 4)
//	Backward: grad_c(3, 4) -> grad_a(3, 1) by summing along dim 1
func reduceToShape(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad
	}

	if len(target) == 0 {
		return backend.Sum(grad)
	}

	// Broadcasting aligns shapes from the right: extra leading
	// dimensions sum away entirely, size-1 dimensions sum with keepDim.
	result := grad
	for len(result.Shape()) > len(target) {
		result = backend.SumDim(result, 0, false)
	}
	for i := 0; i < len(target); i++ {
		if target[i] == 1 && result.Shape()[i] > 1 {
			result = backend.SumDim(result, i, true)
		}
	}

	if !result.Shape().Equal(target) {
		result = backend.Reshape(result, target)
	}
	return result
}

// spreadScalar expands a scalar gradient over the target shape.
// This is the backward pass of a full reduction: every input element
// contributed equally, so each receives the same gradient. For mean
// reductions the gradient also divides by the element count.
func spreadScalar(grad *tensor.RawTensor, target tensor.Shape, mean bool) *tensor.RawTensor {
	out, err := tensor.NewRaw(target, grad.DType(), grad.Device())
	if err != nil {
		panic(fmt.Sprintf("session: spread gradient: %v", err))
	}

	switch grad.DType() {
	case tensor.Float32:
		v := grad.AsFloat32()[0]
		if mean {
			v /= float32(target.NumElements())
		}
		data := out.AsFloat32()
		for i := range data {
			data[i] = v
		}
	case tensor.Float64:
		v := grad.AsFloat64()[0]
		if mean {
			v /= float64(target.NumElements())
		}
		data := out.AsFloat64()
		for i := range data {
			data[i] = v
		}
	default:
		panic(fmt.Sprintf("session: spread gradient: unsupported dtype %s", grad.DType()))
	}

	return out
}

// reluMask passes gradient through where the forward input was
// positive and blocks it elsewhere.
func reluMask(grad, forwardInput *tensor.RawTensor) *tensor.RawTensor {
	out, err := tensor.NewRaw(forwardInput.Shape(), grad.DType(), grad.Device())
	if err != nil {
		panic(fmt.Sprintf("session: relu gradient: %v", err))
	}

	switch grad.DType() {
	case tensor.Float32:
		g, x, dst := grad.AsFloat32(), forwardInput.AsFloat32(), out.AsFloat32()
		for i := range dst {
			if x[i] > 0 {
				dst[i] = g[i]
			}
		}
	case tensor.Float64:
		g, x, dst := grad.AsFloat64(), forwardInput.AsFloat64(), out.AsFloat64()
		for i := range dst {
			if x[i] > 0 {
				dst[i] = g[i]
			}
		}
	default:
		panic(fmt.Sprintf("session: relu gradient: unsupported dtype %s", grad.DType()))
	}

	return out
}
