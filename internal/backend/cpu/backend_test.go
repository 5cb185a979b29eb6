package cpu

import (
	"math"
	"strings"
	"testing"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// Verify that CPUBackend implements the Backend interface.
var _ tensor.Backend = (*CPUBackend)(nil)

func rawFromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	tn, err := tensor.FromSlice(data, shape, New())
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return tn.Raw()
}

func assertFloat32s(t *testing.T, got *tensor.RawTensor, want []float32) {
	t.Helper()
	data := got.AsFloat32()
	if len(data) != len(want) {
		t.Fatalf("length = %d, want %d", len(data), len(want))
	}
	for i, w := range want {
		if math.Abs(float64(data[i]-w)) > 1e-5 {
			t.Errorf("data[%d] = %v, want %v", i, data[i], w)
		}
	}
}

func TestBackend_Metadata(t *testing.T) {
	backend := New()

	if backend.Name() != "CPU" {
		t.Errorf("Name() = %q, want CPU", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", backend.Device())
	}
	if backend.Features() == "" {
		t.Error("Features() should not be empty")
	}
	if !strings.Contains(backend.Features(), "cores") {
		t.Errorf("Features() = %q, want core count included", backend.Features())
	}
}

func TestAdd_SameShape(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	defer a.ForceNonUnique()()
	result := backend.Add(a, b)

	assertFloat32s(t, result, []float32{11, 22, 33, 44})
	assertFloat32s(t, a, []float32{1, 2, 3, 4}) // input untouched
}

func TestAdd_InplaceFastPath(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2}, tensor.Shape{2})
	b := rawFromSlice(t, []float32{3, 4}, tensor.Shape{2})

	// a is unique, so the backend may reuse its buffer.
	result := backend.Add(a, b)
	assertFloat32s(t, result, []float32{4, 6})
}

func TestAdd_RankMismatchSkipsFastPath(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2}, tensor.Shape{2})
	b := rawFromSlice(t, []float32{10, 20}, tensor.Shape{1, 2})

	// Same element count but different rank: the result takes the
	// broadcast shape (1, 2), so the inplace reuse of a must not apply
	// even though a is unique.
	result := backend.Add(a, b)

	if !result.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("shape = %v, want (1, 2)", result.Shape())
	}
	assertFloat32s(t, result, []float32{11, 22})
	if !a.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("a shape = %v, want (2)", a.Shape())
	}
	assertFloat32s(t, a, []float32{1, 2}) // input untouched
}

func TestAdd_Broadcast(t *testing.T) {
	backend := New()

	matrix := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := rawFromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})

	result := backend.Add(matrix, row)

	if !result.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape = %v, want (2, 3)", result.Shape())
	}
	assertFloat32s(t, result, []float32{11, 22, 33, 14, 25, 36})
}

func TestAdd_BroadcastColumn(t *testing.T) {
	backend := New()

	matrix := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	col := rawFromSlice(t, []float32{100, 200}, tensor.Shape{2, 1})

	result := backend.Add(matrix, col)
	assertFloat32s(t, result, []float32{101, 102, 103, 204, 205, 206})
}

func TestSubMulDiv(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{4})
	b := rawFromSlice(t, []float32{2, 4, 5, 8}, tensor.Shape{4})

	defer a.ForceNonUnique()()

	assertFloat32s(t, backend.Sub(a, b), []float32{8, 16, 25, 32})
	assertFloat32s(t, backend.Mul(a, b), []float32{20, 80, 150, 320})
	assertFloat32s(t, backend.Div(a, b), []float32{5, 5, 6, 5})
}

func TestAdd_IncompatibleShapes(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	b := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{4})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for incompatible shapes")
		}
	}()
	backend.Add(a, b)
}

func TestMatMul(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)

	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want (2, 2)", result.Shape())
	}
	// [1 2 3; 4 5 6] @ [7 8; 9 10; 11 12] = [58 64; 139 154]
	assertFloat32s(t, result, []float32{58, 64, 139, 154})
}

func TestMatMul_Large(t *testing.T) {
	backend := New()

	// Over the parallel threshold: identity @ x == x.
	const n = 80
	eye := tensor.Eye[float32](n, backend)
	x := tensor.Ones[float32](tensor.Shape{n, n}, backend)

	result := backend.MatMul(eye.Raw(), x.Raw())
	for i, v := range result.AsFloat32() {
		if v != 1 {
			t.Fatalf("result[%d] = %v, want 1", i, v)
		}
	}
}

func TestMatMul_ShapeMismatch(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for shape mismatch")
		}
	}()
	backend.MatMul(a, b)
}

func TestReshape(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{6})
	result := backend.Reshape(x, tensor.Shape{2, 3})

	if !result.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape = %v, want (2, 3)", result.Shape())
	}
	assertFloat32s(t, result, []float32{1, 2, 3, 4, 5, 6})
}

func TestTranspose2D(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Transpose(x)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want (3, 2)", result.Shape())
	}
	assertFloat32s(t, result, []float32{1, 4, 2, 5, 3, 6})
}

func TestScalarOps(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})

	assertFloat32s(t, backend.MulScalar(x, float32(2)), []float32{2, 4, 6})
	assertFloat32s(t, backend.AddScalar(x, float32(10)), []float32{11, 12, 13})

	// float64 scalar against float32 tensor converts.
	assertFloat32s(t, backend.MulScalar(x, float64(3)), []float32{3, 6, 9})
}

func TestReLU(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5})
	assertFloat32s(t, backend.ReLU(x), []float32{0, 0, 0, 0.5, 2})
}

func TestExpSqrt(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{0, 1}, tensor.Shape{2})
	assertFloat32s(t, backend.Exp(x), []float32{1, float32(math.E)})

	y := rawFromSlice(t, []float32{4, 9}, tensor.Shape{2})
	assertFloat32s(t, backend.Sqrt(y), []float32{2, 3})
}

func TestSum(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	result := backend.Sum(x)

	if !result.Shape().Equal(tensor.Shape{}) {
		t.Fatalf("shape = %v, want scalar", result.Shape())
	}
	assertFloat32s(t, result, []float32{10})
}

func TestSumDim(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := backend.SumDim(x, 0, false)
	if !rows.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("SumDim(0) shape = %v, want (3)", rows.Shape())
	}
	assertFloat32s(t, rows, []float32{5, 7, 9})

	cols := backend.SumDim(x, 1, true)
	if !cols.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("SumDim(1, keep) shape = %v, want (2, 1)", cols.Shape())
	}
	assertFloat32s(t, cols, []float32{6, 15})
}

func TestMean(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{2, 4, 6, 8}, tensor.Shape{4})
	assertFloat32s(t, backend.Mean(x), []float32{5})
}
