// Package display renders tensors as human-readable text.
//
// Output mirrors the nested-bracket layout of numpy: scalars print as a
// bare number, vectors as a single bracketed row, matrices as one row
// per line with aligned indentation.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// defaultPrecision is the number of decimal places for float elements.
const defaultPrecision = 4

// Format renders a tensor's values with the default precision.
func Format(raw *tensor.RawTensor) string {
	return FormatWith(raw, defaultPrecision)
}

// FormatWith renders a tensor's values with the given number of decimal
// places for float elements. Integer tensors ignore the precision.
func FormatWith(raw *tensor.RawTensor, precision int) string {
	elems := elementStrings(raw, precision)
	shape := raw.Shape()
	if len(shape) == 0 {
		return elems[0]
	}
	strides := shape.ComputeStrides()
	return build(shape, strides, elems, 0, 0, 0)
}

// Summary renders a one-line description without values, like
// "float32(2, 3) on CPU".
func Summary(raw *tensor.RawTensor) string {
	return fmt.Sprintf("%s%v on %s", raw.DType(), raw.Shape(), raw.Device())
}

// build renders the values along dimension dim starting at offset.
// indent tracks the open brackets so continuation lines align.
func build(shape tensor.Shape, strides []int, elems []string, dim, offset, indent int) string {
	if dim == len(shape)-1 {
		return "[" + strings.Join(elems[offset:offset+shape[dim]], " ") + "]"
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < shape[dim]; i++ {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", indent+1))
		}
		sb.WriteString(build(shape, strides, elems, dim+1, offset+i*strides[dim], indent+1))
	}
	sb.WriteByte(']')
	return sb.String()
}

func elementStrings(raw *tensor.RawTensor, precision int) []string {
	elems := make([]string, raw.Shape().NumElements())

	switch raw.DType() {
	case tensor.Float32:
		for i, v := range raw.AsFloat32() {
			elems[i] = strconv.FormatFloat(float64(v), 'f', precision, 32)
		}
	case tensor.Float64:
		for i, v := range raw.AsFloat64() {
			elems[i] = strconv.FormatFloat(v, 'f', precision, 64)
		}
	case tensor.Int32:
		for i, v := range raw.AsInt32() {
			elems[i] = strconv.FormatInt(int64(v), 10)
		}
	case tensor.Int64:
		for i, v := range raw.AsInt64() {
			elems[i] = strconv.FormatInt(v, 10)
		}
	default:
		panic(fmt.Sprintf("display: unsupported dtype %s", raw.DType()))
	}
	return elems
}
