package lesson

import (
	"fmt"
	"io"

	"github.com/chalk-ml/chalk/internal/display"
	"github.com/chalk-ml/chalk/internal/tensor"
)

// mustRaw builds a float32 tensor for lesson narration. Lessons use
// fixed shapes, so a failure here is a lesson bug.
func mustRaw(data []float32, shape tensor.Shape) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		panic(fmt.Sprintf("lesson: %v", err))
	}
	copy(raw.AsFloat32(), data)
	// Lesson tensors are narrated and reused across several ops; keep
	// backends from recycling their buffers via the inplace fast path.
	raw.ForceNonUnique()
	return raw
}

func runTensors(w io.Writer, backend tensor.Backend) error {
	heading(w, "Tensors: data with a shape")

	say(w, "A tensor is an n-dimensional array: a scalar, a vector, a matrix,")
	say(w, "or something higher-dimensional. Every tensor has a shape and a dtype.")
	say(w, "")

	scalar := mustRaw([]float32{3.5}, tensor.Shape{})
	vector := mustRaw([]float32{1, 2, 3}, tensor.Shape{3})
	matrix := mustRaw([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	say(w, "scalar %s:\n%s\n", display.Summary(scalar), display.Format(scalar))
	say(w, "vector %s:\n%s\n", display.Summary(vector), display.Format(vector))
	say(w, "matrix %s:\n%s\n", display.Summary(matrix), display.Format(matrix))

	say(w, "Backends implement the math. This run uses: %s", backend.Name())
	say(w, "")

	a := mustRaw([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := mustRaw([]float32{5, 6, 7, 8}, tensor.Shape{2, 2})
	say(w, "a + b:\n%s\n", display.Format(backend.Add(a, b)))
	say(w, "a @ b:\n%s\n", display.Format(backend.MatMul(a, b)))

	say(w, "Smaller shapes broadcast against larger ones, row by row:")
	row := mustRaw([]float32{10, 20}, tensor.Shape{2})
	say(w, "a + [10 20]:\n%s", display.Format(backend.Add(a, row)))

	return nil
}
