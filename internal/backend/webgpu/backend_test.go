//go:build windows

package webgpu

import (
	"math"
	"testing"

	"github.com/chalk-ml/chalk/internal/tensor"
)

func TestIsAvailable(t *testing.T) {
	available := IsAvailable()
	t.Logf("WebGPU available: %v", available)
	// Reports status only, absence of a GPU is not a failure.
}

func TestNew(t *testing.T) {
	backend, err := New()
	if err != nil {
		t.Logf("WebGPU not available: %v", err)
		t.Skip("WebGPU not available on this system")
	}
	defer backend.Release()

	if backend.Name() == "" {
		t.Error("Backend name should not be empty")
	}
	t.Logf("Backend name: %s", backend.Name())

	if backend.Device() != tensor.WebGPU {
		t.Errorf("Expected device WebGPU, got %v", backend.Device())
	}
}

func newGPUBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New()
	if err != nil {
		t.Skip("WebGPU not available on this system")
	}
	t.Cleanup(backend.Release)
	return backend
}

func gpuRaw(t *testing.T, data []float32, shape tensor.Shape, b *Backend) *tensor.RawTensor {
	t.Helper()
	tn, err := tensor.FromSlice(data, shape, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return tn.Raw()
}

func TestGPUElementwise(t *testing.T) {
	backend := newGPUBackend(t)

	a := gpuRaw(t, []float32{1, 2, 3, 4}, tensor.Shape{4}, backend)
	b := gpuRaw(t, []float32{10, 20, 30, 40}, tensor.Shape{4}, backend)

	sum := backend.Add(a, b).AsFloat32()
	want := []float32{11, 22, 33, 44}
	for i, w := range want {
		if sum[i] != w {
			t.Errorf("Add[%d] = %v, want %v", i, sum[i], w)
		}
	}

	prod := backend.Mul(a, b).AsFloat32()
	wantProd := []float32{10, 40, 90, 160}
	for i, w := range wantProd {
		if prod[i] != w {
			t.Errorf("Mul[%d] = %v, want %v", i, prod[i], w)
		}
	}
}

func TestGPUMatMul(t *testing.T) {
	backend := newGPUBackend(t)

	a := gpuRaw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	b := gpuRaw(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2}, backend)

	result := backend.MatMul(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want (2, 2)", result.Shape())
	}

	want := []float32{58, 64, 139, 154}
	data := result.AsFloat32()
	for i, w := range want {
		if math.Abs(float64(data[i]-w)) > 1e-4 {
			t.Errorf("MatMul[%d] = %v, want %v", i, data[i], w)
		}
	}
}

func TestGPUTranspose(t *testing.T) {
	backend := newGPUBackend(t)

	x := gpuRaw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	result := backend.Transpose(x)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want (3, 2)", result.Shape())
	}
	want := []float32{1, 4, 2, 5, 3, 6}
	data := result.AsFloat32()
	for i, w := range want {
		if data[i] != w {
			t.Errorf("Transpose[%d] = %v, want %v", i, data[i], w)
		}
	}
}

func TestGPUScalarAndActivation(t *testing.T) {
	backend := newGPUBackend(t)

	x := gpuRaw(t, []float32{-1, 0, 2}, tensor.Shape{3}, backend)

	relu := backend.ReLU(x).AsFloat32()
	wantRelu := []float32{0, 0, 2}
	for i, w := range wantRelu {
		if relu[i] != w {
			t.Errorf("ReLU[%d] = %v, want %v", i, relu[i], w)
		}
	}

	scaled := backend.MulScalar(x, float32(3)).AsFloat32()
	wantScaled := []float32{-3, 0, 6}
	for i, w := range wantScaled {
		if scaled[i] != w {
			t.Errorf("MulScalar[%d] = %v, want %v", i, scaled[i], w)
		}
	}
}

func TestGPUBroadcastFallback(t *testing.T) {
	backend := newGPUBackend(t)

	matrix := gpuRaw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	row := gpuRaw(t, []float32{10, 20, 30}, tensor.Shape{3}, backend)

	defer matrix.ForceNonUnique()()
	result := backend.Add(matrix, row)

	want := []float32{11, 22, 33, 14, 25, 36}
	data := result.AsFloat32()
	for i, w := range want {
		if data[i] != w {
			t.Errorf("broadcast Add[%d] = %v, want %v", i, data[i], w)
		}
	}
}
